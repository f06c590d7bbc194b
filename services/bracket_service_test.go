package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchops/cup-console/brackets"
	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
)

type fakeMatchStore struct {
	mu      sync.Mutex
	matches map[string]models.Match
	teams   []models.Team
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{matches: make(map[string]models.Match)}
}

func (f *fakeMatchStore) ListMatches(_ context.Context, tournamentID string) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Match
	for _, m := range f.matches {
		if m.TournamentID == tournamentID {
			record := m
			out = append(out, &record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMatchStore) ListTeams(_ context.Context, _ string) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teams, nil
}

func (f *fakeMatchStore) UpsertMatch(_ context.Context, match models.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches[match.ID] = match
	return nil
}

func (f *fakeMatchStore) DeleteMatch(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.matches, id)
	return nil
}

func (f *fakeMatchStore) RecordResult(_ context.Context, result brackets.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.matches[result.MatchID]
	winner := string(result.WinnerSide)
	m.Winner = &winner
	m.Status = models.MatchStatusFinished
	f.matches[result.MatchID] = m
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[string]*models.Tournament
	sizeUpdates []int
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (f *fakeTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range f.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTournamentRepo) UpdateBracketSize(_ context.Context, id string, size int) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.BracketSize = size
	f.sizeUpdates = append(f.sizeUpdates, size)
	return nil
}

func (f *fakeTournamentRepo) UpdateStatus(_ context.Context, id string, status models.TournamentStatus) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBracketFixture(t *testing.T, size int) (BracketService, *fakeMatchStore, *fakeTournamentRepo) {
	t.Helper()
	store := newFakeMatchStore()
	repo := &fakeTournamentRepo{tournaments: map[string]*models.Tournament{
		"t1": {ID: "t1", Name: "Spring Cup", BracketSize: size, Status: models.TournamentStatusActive},
	}}
	return NewBracketService(store, repo, discardLogger()), store, repo
}

func TestBracketServiceViewCreatesSession(t *testing.T) {
	svc, _, _ := newBracketFixture(t, 16)

	view, err := svc.View(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", view.TournamentID)
	assert.Equal(t, 16, view.BracketSize)
	assert.Len(t, view.Slots, 15)
	assert.False(t, view.Dirty)
}

func TestBracketServiceViewUnknownTournament(t *testing.T) {
	svc, _, _ := newBracketFixture(t, 16)

	_, err := svc.View(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBracketServiceAssignThenSave(t *testing.T) {
	svc, store, _ := newBracketFixture(t, 16)

	view, err := svc.Assign(context.Background(), "t1", "QF1", brackets.SideA, "Dynamo")
	require.NoError(t, err)
	assert.True(t, view.Dirty)
	assert.Empty(t, store.matches, "assignment must not hit the store before save")

	view, err = svc.Save(context.Background(), "t1")
	require.NoError(t, err)
	assert.False(t, view.Dirty)

	matches, err := store.ListMatches(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "QF1", matches[0].RoundLabel)
	assert.Equal(t, "Dynamo", matches[0].TeamA.DisplayName())
}

func TestBracketServiceSetSizeRejectedWhileDirty(t *testing.T) {
	svc, _, repo := newBracketFixture(t, 16)

	_, err := svc.Assign(context.Background(), "t1", "QF1", brackets.SideA, "Dynamo")
	require.NoError(t, err)

	err = svc.SetBracketSize(context.Background(), "t1", 32)
	assert.ErrorIs(t, err, ErrBracketEditsPending)
	assert.Empty(t, repo.sizeUpdates)
}

func TestBracketServiceSetSizeRebuildsSession(t *testing.T) {
	svc, _, repo := newBracketFixture(t, 16)

	_, err := svc.View(context.Background(), "t1")
	require.NoError(t, err)

	require.NoError(t, svc.SetBracketSize(context.Background(), "t1", 32))
	assert.Equal(t, []int{32}, repo.sizeUpdates)

	view, err := svc.View(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 32, view.BracketSize)
	assert.Len(t, view.Slots, 31)
}

func TestBracketServiceSetSizeInvalid(t *testing.T) {
	svc, _, _ := newBracketFixture(t, 16)

	err := svc.SetBracketSize(context.Background(), "t1", 8)
	assert.ErrorIs(t, err, ErrInvalidBracketSize)
}

func TestBracketServiceRefreshAllSkipsDirtySessions(t *testing.T) {
	svc, store, _ := newBracketFixture(t, 16)

	_, err := svc.Assign(context.Background(), "t1", "QF1", brackets.SideA, "Dynamo")
	require.NoError(t, err)

	// A result lands on the server while the session holds an unsaved edit.
	require.NoError(t, store.UpsertMatch(context.Background(), models.Match{
		ID: "m1", TournamentID: "t1", RoundLabel: "SF1",
		TeamA: models.NameRef("Dynamo"), TeamB: models.NameRef("Spartak"),
	}))

	svc.RefreshAll(context.Background())

	view, err := svc.View(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, view.Dirty)
	for _, slot := range view.Slots {
		if slot.Slot.Label == "SF1" {
			assert.Nil(t, slot.Match, "dirty session must not pick up the polled snapshot")
		}
	}

	// After saving, the next poll lands.
	_, err = svc.Save(context.Background(), "t1")
	require.NoError(t, err)

	view, err = svc.View(context.Background(), "t1")
	require.NoError(t, err)
	found := false
	for _, slot := range view.Slots {
		if slot.Slot.Label == "SF1" && slot.Match != nil {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBracketServiceStandingsBypassesSession(t *testing.T) {
	svc, store, _ := newBracketFixture(t, 16)
	group := "A"
	store.teams = []models.Team{
		{ID: "tm1", TournamentID: "t1", Name: "Dynamo", Status: models.TeamStatusApproved, Group: &group},
		{ID: "tm2", TournamentID: "t1", Name: "Spartak", Status: models.TeamStatusApproved, Group: &group},
	}
	winner := "Dynamo"
	require.NoError(t, store.UpsertMatch(context.Background(), models.Match{
		ID: "g1", TournamentID: "t1", RoundLabel: "Group A - 1",
		TeamA: models.NameRef("Dynamo"), TeamB: models.NameRef("Spartak"),
		ScoreA: 2, ScoreB: 0, Winner: &winner,
		Status: models.MatchStatusFinished,
	}))

	standings, err := svc.Standings(context.Background(), "t1")
	require.NoError(t, err)
	require.Contains(t, standings, "A")
	require.Len(t, standings["A"], 2)
	assert.Equal(t, "Dynamo", standings["A"][0].Team.Name)
	assert.Equal(t, 3, standings["A"][0].Points)
}
