package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matchops/cup-console/brackets"
	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
)

// MatchService is the persistence collaborator of the bracket engine plus
// the match listing and result entry surface of the console. It satisfies
// brackets.MatchStore, so the engine never sees the database directly, and
// every write it lands is fanned out to the tournament's live-wall room.
type MatchService interface {
	brackets.MatchStore

	GetMatch(ctx context.Context, id string) (*models.Match, error)
	RecordFinalScore(ctx context.Context, id string, scoreA, scoreB int, winnerSide string) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	teamRepo  repositories.TeamRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		hub:       hub,
		logger:    logger,
	}
}

func roomID(tournamentID string) string {
	return "tournament_" + tournamentID
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID string) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list matches for tournament %s: %w", tournamentID, err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

func (s *matchService) ListTeams(ctx context.Context, tournamentID string) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("list teams for tournament %s: %w", tournamentID, err)
	}
	if teams == nil {
		return []models.Team{}, nil
	}
	return teams, nil
}

func (s *matchService) UpsertMatch(ctx context.Context, match models.Match) error {
	if match.Status == "" {
		match.Status = models.MatchStatusScheduled
	}
	if err := s.matchRepo.Upsert(ctx, &match); err != nil {
		return err
	}
	s.hub.BroadcastToRoom(roomID(match.TournamentID), brackets.WallMessage{
		Type:    brackets.EventBracketUpdated,
		Payload: match,
	})
	return nil
}

func (s *matchService) DeleteMatch(ctx context.Context, id string) error {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			// Already gone; deleting is idempotent from the bracket's view.
			return nil
		}
		return err
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.BroadcastToRoom(roomID(match.TournamentID), brackets.WallMessage{
		Type:    brackets.EventBracketUpdated,
		Payload: map[string]string{"deleted_match_id": id},
	})
	return nil
}

func (s *matchService) RecordResult(ctx context.Context, result brackets.MatchResult) error {
	err := s.matchRepo.UpdateResult(ctx, result.MatchID, result.ScoreA, result.ScoreB,
		string(result.WinnerSide), models.MatchStatusFinished)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return fmt.Errorf("%w: match %s", ErrNotFound, result.MatchID)
		}
		return err
	}
	s.logger.Info("match result recorded",
		slog.String("match_id", result.MatchID),
		slog.String("slot", result.RoundLabel),
		slog.Int("score_a", result.ScoreA),
		slog.Int("score_b", result.ScoreB))
	s.hub.BroadcastToRoom(roomID(result.TournamentID), brackets.WallMessage{
		Type:    brackets.EventMatchResult,
		Payload: result,
	})
	return nil
}

func (s *matchService) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: match %s", ErrNotFound, id)
		}
		return nil, err
	}
	return match, nil
}

// RecordFinalScore enters a played-out result. winnerSide is "A", "B" or
// empty for a draw; draws are only meaningful for group-stage fixtures but
// that is the operator's call, not enforced here.
func (s *matchService) RecordFinalScore(ctx context.Context, id string, scoreA, scoreB int, winnerSide string) (*models.Match, error) {
	if winnerSide != "A" && winnerSide != "B" && winnerSide != "" {
		return nil, ErrInvalidWinnerSide
	}
	match, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateResult(ctx, id, scoreA, scoreB, winnerSide, models.MatchStatusFinished); err != nil {
		return nil, fmt.Errorf("record final score for match %s: %w", id, err)
	}

	updated, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastToRoom(roomID(match.TournamentID), brackets.WallMessage{
		Type:    brackets.EventMatchResult,
		Payload: updated,
	})
	return updated, nil
}
