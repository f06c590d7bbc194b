package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
)

type CreatePredictionInput struct {
	MatchID         string `json:"match_id"`
	FanName         string `json:"fan_name"`
	PredictedWinner string `json:"predicted_winner"`
}

type PredictionSummary struct {
	MatchID string         `json:"match_id"`
	Tally   map[string]int `json:"tally"`
	Total   int            `json:"total"`
}

type PredictionService interface {
	Submit(ctx context.Context, input CreatePredictionInput) (*models.Prediction, error)
	Summary(ctx context.Context, matchID string) (*PredictionSummary, error)
	List(ctx context.Context, matchID string) ([]models.Prediction, error)
}

type predictionService struct {
	predictionRepo repositories.PredictionRepository
	matches        MatchService
	logger         *slog.Logger
}

func NewPredictionService(
	predictionRepo repositories.PredictionRepository,
	matches MatchService,
	logger *slog.Logger,
) PredictionService {
	return &predictionService{predictionRepo: predictionRepo, matches: matches, logger: logger}
}

// Submit records a fan's pick. The pick must name one of the two sides of
// the match, and the window closes once the match has finished.
func (s *predictionService) Submit(ctx context.Context, input CreatePredictionInput) (*models.Prediction, error) {
	fan := strings.TrimSpace(input.FanName)
	if fan == "" {
		return nil, fmt.Errorf("%w: fan name is required", ErrValidationFailed)
	}

	match, err := s.matches.GetMatch(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusFinished {
		return nil, ErrPredictionClosed
	}

	pick := strings.TrimSpace(input.PredictedWinner)
	if !strings.EqualFold(pick, match.TeamA.DisplayName()) && !strings.EqualFold(pick, match.TeamB.DisplayName()) {
		return nil, fmt.Errorf("%w: %q is not playing in this match", ErrPredictionInvalidPick, pick)
	}

	prediction := &models.Prediction{
		ID:              uuid.NewString(),
		MatchID:         input.MatchID,
		FanName:         fan,
		PredictedWinner: pick,
	}
	if err := s.predictionRepo.Create(ctx, prediction); err != nil {
		if errors.Is(err, repositories.ErrPredictionMatchInvalid) {
			return nil, fmt.Errorf("%w: match %s", ErrNotFound, input.MatchID)
		}
		return nil, err
	}

	s.logger.Info("prediction submitted",
		slog.String("match_id", prediction.MatchID),
		slog.String("pick", prediction.PredictedWinner))
	return prediction, nil
}

func (s *predictionService) Summary(ctx context.Context, matchID string) (*PredictionSummary, error) {
	tally, err := s.predictionRepo.TallyByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range tally {
		total += n
	}
	return &PredictionSummary{MatchID: matchID, Tally: tally, Total: total}, nil
}

func (s *predictionService) List(ctx context.Context, matchID string) ([]models.Prediction, error) {
	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if predictions == nil {
		predictions = []models.Prediction{}
	}
	return predictions, nil
}
