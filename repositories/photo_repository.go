package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchops/cup-console/models"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Photo, error)
	Delete(ctx context.Context, id string) error
}

type postgresPhotoRepository struct {
	db *sql.DB
}

func NewPostgresPhotoRepository(db *sql.DB) PhotoRepository {
	return &postgresPhotoRepository{db: db}
}

func (r *postgresPhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, tournament_id, uploader_name, caption, object_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		photo.ID, photo.TournamentID, photo.UploaderName, photo.Caption, photo.ObjectKey,
	).Scan(&photo.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create photo entry: %w", err)
	}
	return nil
}

func (r *postgresPhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `
		SELECT id, tournament_id, uploader_name, caption, object_key, created_at
		FROM photos WHERE id = $1`

	var p models.Photo
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TournamentID, &p.UploaderName, &p.Caption, &p.ObjectKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to scan photo by id %s: %w", id, err)
	}
	return &p, nil
}

func (r *postgresPhotoRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Photo, error) {
	query := `
		SELECT id, tournament_id, uploader_name, caption, object_key, created_at
		FROM photos
		WHERE tournament_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.UploaderName, &p.Caption, &p.ObjectKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating photo rows: %w", err)
	}
	return photos, nil
}

func (r *postgresPhotoRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM photos WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrPhotoNotFound)
}
