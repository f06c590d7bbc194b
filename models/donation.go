package models

import "time"

// Donation is a fan contribution shown on the donation board. AmountCents
// avoids floating point money.
type Donation struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	DonorName    string    `json:"donor_name" db:"donor_name"`
	AmountCents  int64     `json:"amount_cents" db:"amount_cents"`
	Message      *string   `json:"message,omitempty" db:"message"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
