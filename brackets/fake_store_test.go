package brackets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/matchops/cup-console/models"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory MatchStore that records the exact sequence of
// calls made against it.
type fakeStore struct {
	mu      sync.Mutex
	matches map[string]models.Match
	teams   []models.Team
	calls   []string
	failOn  string // call prefix that should fail, e.g. "delete" or "upsert:m2"
}

func newFakeStore(teams []models.Team, matches ...models.Match) *fakeStore {
	s := &fakeStore{
		matches: make(map[string]models.Match),
		teams:   teams,
	}
	for _, m := range matches {
		s.matches[m.ID] = m
	}
	return s
}

func (s *fakeStore) record(call string) error {
	s.calls = append(s.calls, call)
	if s.failOn != "" && strings.HasPrefix(call, s.failOn) {
		return errStoreDown
	}
	return nil
}

func (s *fakeStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *fakeStore) ListMatches(_ context.Context, _ string) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("list-matches"); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(s.matches))
	for id := range s.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*models.Match, 0, len(ids))
	for _, id := range ids {
		m := s.matches[id]
		out = append(out, &m)
	}
	return out, nil
}

func (s *fakeStore) ListTeams(_ context.Context, _ string) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("list-teams"); err != nil {
		return nil, err
	}
	out := make([]models.Team, len(s.teams))
	copy(out, s.teams)
	return out, nil
}

func (s *fakeStore) UpsertMatch(_ context.Context, match models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("upsert:" + match.ID); err != nil {
		return err
	}
	s.matches[match.ID] = match
	return nil
}

func (s *fakeStore) DeleteMatch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("delete:" + id); err != nil {
		return err
	}
	delete(s.matches, id)
	return nil
}

func (s *fakeStore) RecordResult(_ context.Context, result MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := fmt.Sprintf("result:%s:%d-%d:%s", result.MatchID, result.ScoreA, result.ScoreB, result.WinnerSide)
	if err := s.record(call); err != nil {
		return err
	}
	m, ok := s.matches[result.MatchID]
	if !ok {
		return errors.New("no such match")
	}
	m.ScoreA = result.ScoreA
	m.ScoreB = result.ScoreB
	m.Status = models.MatchStatusFinished
	side := string(result.WinnerSide)
	m.Winner = &side
	s.matches[result.MatchID] = m
	return nil
}
