package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchops/cup-console/brackets"
	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
)

type fakeMatchRepo struct {
	matches map[string]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[string]*models.Match)}
}

func (f *fakeMatchRepo) Upsert(_ context.Context, match *models.Match) error {
	record := *match
	f.matches[match.ID] = &record
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id string) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	record := *match
	return &record, nil
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID string) ([]*models.Match, error) {
	var out []*models.Match
	for _, match := range f.matches {
		if match.TournamentID == tournamentID {
			record := *match
			out = append(out, &record)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateResult(_ context.Context, id string, scoreA, scoreB int, winner string, status models.MatchStatus) error {
	match, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.ScoreA = scoreA
	match.ScoreB = scoreB
	match.Status = status
	if winner == "" {
		match.Winner = nil
	} else {
		match.Winner = &winner
	}
	return nil
}

func (f *fakeMatchRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(f.matches, id)
	return nil
}

func newMatchFixture(t *testing.T) (MatchService, *fakeMatchRepo) {
	t.Helper()
	matchRepo := newFakeMatchRepo()
	hub := brackets.NewHub(discardLogger())
	go hub.Run()
	return NewMatchService(matchRepo, newFakeTeamRepo(), hub, discardLogger()), matchRepo
}

func TestMatchServiceListNeverNil(t *testing.T) {
	svc, _ := newMatchFixture(t)

	matches, err := svc.ListMatches(context.Background(), "t1")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)

	teams, err := svc.ListTeams(context.Background(), "t1")
	require.NoError(t, err)
	assert.NotNil(t, teams)
}

func TestMatchServiceUpsertDefaultsStatus(t *testing.T) {
	svc, repo := newMatchFixture(t)

	err := svc.UpsertMatch(context.Background(), models.Match{
		ID: "m1", TournamentID: "t1", RoundLabel: "QF1",
		TeamA: models.NameRef("Dynamo"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, repo.matches["m1"].Status)
}

func TestMatchServiceDeleteIdempotent(t *testing.T) {
	svc, _ := newMatchFixture(t)

	assert.NoError(t, svc.DeleteMatch(context.Background(), "missing"))
}

func TestMatchServiceRecordFinalScore(t *testing.T) {
	svc, repo := newMatchFixture(t)
	require.NoError(t, svc.UpsertMatch(context.Background(), models.Match{
		ID: "m1", TournamentID: "t1", RoundLabel: "QF1",
		TeamA: models.NameRef("Dynamo"), TeamB: models.NameRef("Spartak"),
	}))

	match, err := svc.RecordFinalScore(context.Background(), "m1", 2, 1, "A")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusFinished, match.Status)
	assert.Equal(t, "Dynamo", match.WinnerName())
	assert.Equal(t, 2, repo.matches["m1"].ScoreA)
}

func TestMatchServiceRecordFinalScoreDraw(t *testing.T) {
	svc, _ := newMatchFixture(t)
	require.NoError(t, svc.UpsertMatch(context.Background(), models.Match{
		ID: "m1", TournamentID: "t1", RoundLabel: "Group A - 1",
		TeamA: models.NameRef("Dynamo"), TeamB: models.NameRef("Spartak"),
	}))

	match, err := svc.RecordFinalScore(context.Background(), "m1", 1, 1, "")
	require.NoError(t, err)
	assert.True(t, match.IsDraw())
}

func TestMatchServiceRecordFinalScoreInvalidSide(t *testing.T) {
	svc, _ := newMatchFixture(t)

	_, err := svc.RecordFinalScore(context.Background(), "m1", 1, 0, "C")
	assert.ErrorIs(t, err, ErrInvalidWinnerSide)
}
