package models

import "time"

// Photo is a photo-contest entry. ObjectKey is the storage key in the R2
// bucket; URL is the public location derived from it.
type Photo struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	UploaderName string    `json:"uploader_name" db:"uploader_name"`
	Caption      *string   `json:"caption,omitempty" db:"caption"`
	ObjectKey    string    `json:"-" db:"object_key"`
	URL          string    `json:"url" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
