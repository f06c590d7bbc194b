package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchops/cup-console/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name is already registered")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]models.Team, error)
	UpdateStatus(ctx context.Context, id string, status models.TeamStatus, group *string) error
	Delete(ctx context.Context, id string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, tournament_id, name, status, group_name, contact_name, contact_email, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, tournament_id, name, status, group_name, contact_name, contact_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.ID,
		team.TournamentID,
		team.Name,
		team.Status,
		team.Group,
		team.ContactName,
		team.ContactEmail,
	).Scan(&team.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTeamNameConflict
		}
		return fmt.Errorf("failed to create team %q: %w", team.Name, err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	var team models.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.TournamentID,
		&team.Name,
		&team.Status,
		&team.Group,
		&team.ContactName,
		&team.ContactEmail,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by id %s: %w", id, err)
	}
	return &team, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID,
			&team.TournamentID,
			&team.Name,
			&team.Status,
			&team.Group,
			&team.ContactName,
			&team.ContactEmail,
			&team.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating team rows: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateStatus(ctx context.Context, id string, status models.TeamStatus, group *string) error {
	query := `UPDATE teams SET status = $1, group_name = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, group, id)
	if err != nil {
		return fmt.Errorf("failed to update status for team %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
