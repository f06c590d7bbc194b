package models

import "time"

type TournamentStatus string

const (
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusActive       TournamentStatus = "active"
	TournamentStatusCompleted    TournamentStatus = "completed"
)

// Tournament is one edition of the cup. BracketSize toggles between the
// 16-team and 32-team slot layouts.
type Tournament struct {
	ID          string           `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Season      string           `json:"season" db:"season"`
	BracketSize int              `json:"bracket_size" db:"bracket_size"`
	Status      TournamentStatus `json:"status" db:"status"`
	StartDate   *time.Time       `json:"start_date,omitempty" db:"start_date"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
