package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
)

type CreateTournamentInput struct {
	Name        string     `json:"name"`
	Season      string     `json:"season"`
	BracketSize int        `json:"bracket_size"`
	StartDate   *time.Time `json:"start_date,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, id string, status models.TournamentStatus) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, logger *slog.Logger) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo, logger: logger}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.BracketSize == 0 {
		input.BracketSize = 16
	}
	if input.BracketSize != 16 && input.BracketSize != 32 {
		return nil, ErrInvalidBracketSize
	}

	tournament := &models.Tournament{
		ID:          uuid.NewString(),
		Name:        name,
		Season:      strings.TrimSpace(input.Season),
		BracketSize: input.BracketSize,
		Status:      models.TournamentStatusRegistration,
		StartDate:   input.StartDate,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, fmt.Errorf("%w: tournament name %q", ErrValidationFailed, name)
		}
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.Int("bracket_size", tournament.BracketSize))
	return tournament, nil
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, id)
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id string, status models.TournamentStatus) error {
	switch status {
	case models.TournamentStatusRegistration, models.TournamentStatusActive, models.TournamentStatusCompleted:
	default:
		return fmt.Errorf("%w: unknown tournament status %q", ErrValidationFailed, status)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return fmt.Errorf("%w: tournament %s", ErrNotFound, id)
		}
		return err
	}
	s.logger.Info("tournament status changed",
		slog.String("tournament_id", id),
		slog.String("status", string(status)))
	return nil
}
