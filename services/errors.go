package services

import "errors"

// Shared errors mapped onto HTTP statuses in the handlers package.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	ErrTeamNameRequired      = errors.New("team name is required")
	ErrTeamAlreadyReviewed   = errors.New("team registration has already been reviewed")
	ErrRegistrationNotOpen   = errors.New("tournament registration is not open")
	ErrInvalidBracketSize    = errors.New("bracket size must be 16 or 32")
	ErrBracketEditsPending   = errors.New("bracket has unsaved edits")
	ErrInvalidWinnerSide     = errors.New("winner side must be A or B")
	ErrDonationAmountInvalid = errors.New("donation amount must be positive")
	ErrPredictionClosed      = errors.New("predictions are closed for this match")
	ErrPredictionInvalidPick = errors.New("predicted winner must be one of the match sides")
)
