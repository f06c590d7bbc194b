package models

import "time"

// Prediction is a fan's pick for a match outcome, collected before kickoff and
// shown alongside the live wall.
type Prediction struct {
	ID              string    `json:"id" db:"id"`
	MatchID         string    `json:"match_id" db:"match_id"`
	FanName         string    `json:"fan_name" db:"fan_name"`
	PredictedWinner string    `json:"predicted_winner" db:"predicted_winner"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
