package brackets

import (
	"context"

	"github.com/matchops/cup-console/models"
)

// MatchResult is a final outcome written through immediately, bypassing the
// pending batch. Used by the walkover action.
type MatchResult struct {
	MatchID      string
	TournamentID string
	RoundLabel   string
	TeamA        string
	TeamB        string
	ScoreA       int
	ScoreB       int
	WinnerSide   Side
}

// MatchStore is the persistence collaborator the bracket engine talks to.
// The engine never assumes anything about the transport behind it beyond
// these call semantics, so tests drive it with an in-memory fake.
type MatchStore interface {
	ListMatches(ctx context.Context, tournamentID string) ([]*models.Match, error)
	ListTeams(ctx context.Context, tournamentID string) ([]models.Team, error)
	UpsertMatch(ctx context.Context, match models.Match) error
	DeleteMatch(ctx context.Context, id string) error
	RecordResult(ctx context.Context, result MatchResult) error
}
