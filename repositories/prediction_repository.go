package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchops/cup-console/models"
)

var ErrPredictionMatchInvalid = errors.New("prediction references an unknown match")

type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	ListByMatch(ctx context.Context, matchID string) ([]models.Prediction, error)
	TallyByMatch(ctx context.Context, matchID string) (map[string]int, error)
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

func (r *postgresPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, match_id, fan_name, predicted_winner)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		prediction.ID, prediction.MatchID, prediction.FanName, prediction.PredictedWinner,
	).Scan(&prediction.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPredictionMatchInvalid
		}
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

func (r *postgresPredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]models.Prediction, error) {
	query := `
		SELECT id, match_id, fan_name, predicted_winner, created_at
		FROM predictions
		WHERE match_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.MatchID, &p.FanName, &p.PredictedWinner, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating prediction rows: %w", err)
	}
	return predictions, nil
}

func (r *postgresPredictionRepository) TallyByMatch(ctx context.Context, matchID string) (map[string]int, error) {
	query := `
		SELECT predicted_winner, COUNT(*)
		FROM predictions
		WHERE match_id = $1
		GROUP BY predicted_winner`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally predictions for match %s: %w", matchID, err)
	}
	defer rows.Close()

	tally := make(map[string]int)
	for rows.Next() {
		var (
			winner string
			count  int
		)
		if err := rows.Scan(&winner, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tally row: %w", err)
		}
		tally[winner] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating tally rows: %w", err)
	}
	return tally, nil
}
