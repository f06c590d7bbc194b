package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
)

type RegisterTeamInput struct {
	TournamentID string  `json:"tournament_id"`
	Name         string  `json:"name"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
}

type ReviewTeamInput struct {
	Approve bool    `json:"approve"`
	Group   *string `json:"group,omitempty"`
}

type TeamService interface {
	Register(ctx context.Context, input RegisterTeamInput) (*models.Team, error)
	Review(ctx context.Context, teamID string, input ReviewTeamInput) (*models.Team, error)
	Get(ctx context.Context, teamID string) (*models.Team, error)
	List(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]models.Team, error)
	Search(ctx context.Context, tournamentID, query string) ([]models.Team, error)
	Delete(ctx context.Context, teamID string) error
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

// Register files a public registration. Teams always enter as pending and
// wait for an operator's review; registration is only open while the
// tournament itself says so.
func (s *teamService) Register(ctx context.Context, input RegisterTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if strings.EqualFold(name, models.WildcardTeamName) {
		return nil, fmt.Errorf("%w: %q is reserved", ErrValidationFailed, models.WildcardTeamName)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, input.TournamentID)
		}
		return nil, fmt.Errorf("load tournament %s: %w", input.TournamentID, err)
	}
	if tournament.Status != models.TournamentStatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	team := &models.Team{
		ID:           uuid.NewString(),
		TournamentID: input.TournamentID,
		Name:         name,
		Status:       models.TeamStatusPending,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, fmt.Errorf("%w: team name %q", ErrValidationFailed, name)
		}
		return nil, err
	}

	s.logger.Info("team registered",
		slog.String("team_id", team.ID),
		slog.String("tournament_id", team.TournamentID),
		slog.String("name", team.Name))
	return team, nil
}

// Review settles a pending registration. Reviewing an already-settled team is
// rejected so two operators cannot silently overwrite each other's decision.
func (s *teamService) Review(ctx context.Context, teamID string, input ReviewTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
		}
		return nil, err
	}
	if team.Status != models.TeamStatusPending {
		return nil, fmt.Errorf("%w: team %s is %s", ErrTeamAlreadyReviewed, teamID, team.Status)
	}

	status := models.TeamStatusRejected
	var group *string
	if input.Approve {
		status = models.TeamStatusApproved
		group = input.Group
	}
	if err := s.teamRepo.UpdateStatus(ctx, teamID, status, group); err != nil {
		return nil, err
	}

	team.Status = status
	team.Group = group
	s.logger.Info("team reviewed",
		slog.String("team_id", teamID),
		slog.String("status", string(status)))
	return team, nil
}

func (s *teamService) Get(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) List(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []models.Team{}
	}
	return teams, nil
}

// Search ranks the tournament's teams against the query with fuzzy matching,
// so operators can find "Dynamo" by typing "dnmo". An empty query returns the
// full roster unranked.
func (s *teamService) Search(ctx context.Context, tournamentID, query string) ([]models.Team, error) {
	teams, err := s.List(ctx, tournamentID, nil)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return teams, nil
	}

	names := make([]string, len(teams))
	byName := make(map[string]models.Team, len(teams))
	for i, t := range teams {
		names[i] = t.Name
		byName[t.Name] = t
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	matched := make([]models.Team, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, byName[r.Target])
	}
	return matched, nil
}

func (s *teamService) Delete(ctx context.Context, teamID string) error {
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
		}
		return err
	}
	s.logger.Info("team deleted", slog.String("team_id", teamID))
	return nil
}
