package models

import "time"

// NewsPost is an announcement shown on the public tournament page.
type NewsPost struct {
	ID           string     `json:"id" db:"id"`
	TournamentID string     `json:"tournament_id" db:"tournament_id"`
	Title        string     `json:"title" db:"title"`
	Body         string     `json:"body" db:"body"`
	PublishedAt  *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
