package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchops/cup-console/models"
)

var ErrDonationNotFound = errors.New("donation not found")

type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Donation, error)
	TotalByTournament(ctx context.Context, tournamentID string) (int64, error)
}

type postgresDonationRepository struct {
	db *sql.DB
}

func NewPostgresDonationRepository(db *sql.DB) DonationRepository {
	return &postgresDonationRepository{db: db}
}

func (r *postgresDonationRepository) Create(ctx context.Context, donation *models.Donation) error {
	query := `
		INSERT INTO donations (id, tournament_id, donor_name, amount_cents, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		donation.ID, donation.TournamentID, donation.DonorName, donation.AmountCents, donation.Message,
	).Scan(&donation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

func (r *postgresDonationRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Donation, error) {
	query := `
		SELECT id, tournament_id, donor_name, amount_cents, message, created_at
		FROM donations
		WHERE tournament_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		var d models.Donation
		if err := rows.Scan(&d.ID, &d.TournamentID, &d.DonorName, &d.AmountCents, &d.Message, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan donation row: %w", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating donation rows: %w", err)
	}
	return donations, nil
}

func (r *postgresDonationRepository) TotalByTournament(ctx context.Context, tournamentID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM donations WHERE tournament_id = $1`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to total donations for tournament %s: %w", tournamentID, err)
	}
	return total, nil
}
