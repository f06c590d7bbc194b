package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchops/cup-console/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
)

type MatchRepository interface {
	Upsert(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.Match, error)
	UpdateResult(ctx context.Context, id string, scoreA, scoreB int, winner string, status models.MatchStatus) error
	Delete(ctx context.Context, id string) error
}

type postgresMatchRepository struct {
	db SQLExecutor
}

func NewPostgresMatchRepository(db SQLExecutor) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, round_label, team_a, team_b, score_a, score_b, winner, status, venue, kickoff_time, created_at`

func (r *postgresMatchRepository) Upsert(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches
			(id, tournament_id, round_label, team_a, team_b, score_a, score_b, winner, status, venue, kickoff_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			round_label = EXCLUDED.round_label,
			team_a = EXCLUDED.team_a,
			team_b = EXCLUDED.team_b,
			venue = EXCLUDED.venue,
			kickoff_time = EXCLUDED.kickoff_time
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.ID,
		match.TournamentID,
		match.RoundLabel,
		match.TeamA.DisplayName(),
		match.TeamB.DisplayName(),
		match.ScoreA,
		match.ScoreB,
		match.Winner,
		match.Status,
		match.Venue,
		match.KickoffTime,
	).Scan(&match.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMatchTournamentInvalid
		}
		return fmt.Errorf("failed to upsert match %s: %w", match.ID, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %s: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating match rows: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id string, scoreA, scoreB int, winner string, status models.MatchStatus) error {
	// An empty winner means a draw and is stored as NULL.
	query := `UPDATE matches SET score_a = $1, score_b = $2, winner = NULLIF($3, ''), status = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, scoreA, scoreB, winner, status, id)
	if err != nil {
		return fmt.Errorf("failed to update result for match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM matches WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		match models.Match
		teamA string
		teamB string
	)
	err := row.Scan(
		&match.ID,
		&match.TournamentID,
		&match.RoundLabel,
		&teamA,
		&teamB,
		&match.ScoreA,
		&match.ScoreB,
		&match.Winner,
		&match.Status,
		&match.Venue,
		&match.KickoffTime,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	match.TeamA = models.NameRef(teamA)
	match.TeamB = models.NameRef(teamB)
	return &match, nil
}
