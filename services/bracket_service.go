package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matchops/cup-console/brackets"
	"github.com/matchops/cup-console/repositories"
)

// BracketView is the rendered bracket state handed to the UI.
type BracketView struct {
	TournamentID string             `json:"tournament_id"`
	BracketSize  int                `json:"bracket_size"`
	Dirty        bool               `json:"dirty"`
	Slots        []brackets.SlotView `json:"slots"`
	Warnings     []string           `json:"warnings,omitempty"`
}

// BracketService hosts one slot editing session per tournament. Sessions are
// created lazily when the bracket is first viewed, and all operator actions
// funnel through the session's SlotEditor so the pending-edit and
// refresh-guard invariants hold server-side.
type BracketService interface {
	View(ctx context.Context, tournamentID string) (*BracketView, error)
	Assign(ctx context.Context, tournamentID, slotLabel string, side brackets.Side, teamName string) (*BracketView, error)
	Clear(ctx context.Context, tournamentID, slotLabel string, side brackets.Side) (*BracketView, error)
	Reschedule(ctx context.Context, tournamentID, slotLabel string, change brackets.FieldChange) (*BracketView, error)
	Walkover(ctx context.Context, tournamentID, slotLabel string, winnerSide brackets.Side) (*BracketView, error)
	Save(ctx context.Context, tournamentID string) (*BracketView, error)
	Refresh(ctx context.Context, tournamentID string) (*BracketView, error)
	Eligibility(ctx context.Context, tournamentID string) (*brackets.Eligibility, error)
	Standings(ctx context.Context, tournamentID string) (map[string][]brackets.StandingRow, error)
	SetBracketSize(ctx context.Context, tournamentID string, size int) error
	RefreshAll(ctx context.Context)
}

type bracketService struct {
	store          brackets.MatchStore
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	editor *brackets.SlotEditor
	size   int
}

func NewBracketService(
	store brackets.MatchStore,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		store:          store,
		tournamentRepo: tournamentRepo,
		logger:         logger,
		sessions:       make(map[string]*session),
	}
}

func (s *bracketService) session(ctx context.Context, tournamentID string) (*session, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[tournamentID]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
		}
		return nil, fmt.Errorf("load tournament %s: %w", tournamentID, err)
	}

	size := brackets.Size16
	if tournament.BracketSize == int(brackets.Size32) {
		size = brackets.Size32
	}
	editor := brackets.NewSlotEditor(tournamentID, size, s.store, s.logger)
	if err := editor.Load(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[tournamentID]; ok {
		// Lost the race to another request; keep the session that won.
		return sess, nil
	}
	sess := &session{editor: editor, size: int(size)}
	s.sessions[tournamentID] = sess
	s.logger.Info("bracket session opened",
		slog.String("tournament_id", tournamentID), slog.Int("size", int(size)))
	return sess, nil
}

func (s *bracketService) view(sess *session, tournamentID string) *BracketView {
	return &BracketView{
		TournamentID: tournamentID,
		BracketSize:  sess.size,
		Dirty:        sess.editor.Dirty(),
		Slots:        sess.editor.Rendered(),
		Warnings:     sess.editor.Warnings(),
	}
}

func (s *bracketService) View(ctx context.Context, tournamentID string) (*BracketView, error) {
	sess, err := s.session(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return s.view(sess, tournamentID), nil
}

func (s *bracketService) Assign(ctx context.Context, tournamentID, slotLabel string, side brackets.Side, teamName string) (*BracketView, error) {
	sess, err := s.session(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := sess.editor.AssignTeam(slotLabel, side, teamName); err != nil {
		return nil, err
	}
	return s.view(sess, tournamentID), nil
}

func (s *bracketService) Clear(ctx context.Context, tournamentID, slotLabel string, side brackets.Side) (*BracketView, error) {
	sess, err := s.session(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := sess.editor.ClearTeam(slotLabel, side); err != nil {
		return nil, err
	}
	return s.view(sess, tournamentID), nil
}

func (s *bracketService) Reschedule(ctx context.Context, tournamentID, slotLabel string, change brackets.FieldChange) (*BracketView, error) {
	sess, err := s.session(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := sess.editor.Reschedule(slotLabel, change); err != nil {
		return nil, err
	}
	return s.view(sess, tournamentID), nil
}

func (s *bracketService) Walkover(ctx context.Context, tournamentID, slotLabel string, winnerSide brackets.Side) (*BracketView, error) {
	sess, err := s.session(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := sess.editor.Walkover(ctx, slotLabel, winnerSide); err != nil {
		return nil, err
	}
	return s.view(sess, tournamentID), nil
}

func (s *bracketService) Save(ctx context.Context, tournamentID string) (*BracketView, error) {
	sess, err := s.session(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := sess.editor.Save(ctx); err != nil {
		return s.view(sess, tournamentID), fmt.Errorf("bracket save for tournament %s: %w", tournamentID, err)
	}
	return s.view(sess, tournamentID), nil
}

func (s *bracketService) Refresh(ctx context.Context, tournamentID string) (*BracketView, error) {
	sess, err := s.session(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := sess.editor.Load(ctx); err != nil {
		return nil, err
	}
	return s.view(sess, tournamentID), nil
}

func (s *bracketService) Eligibility(ctx context.Context, tournamentID string) (*brackets.Eligibility, error) {
	sess, err := s.session(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	elig := sess.editor.Eligibility()
	return &elig, nil
}

// Standings is served straight from the store: the standings screen is a
// read-only view and must reflect the latest data even while the bracket
// editor sits on unsaved edits.
func (s *bracketService) Standings(ctx context.Context, tournamentID string) (map[string][]brackets.StandingRow, error) {
	matches, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.ListTeams(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.GroupStandings(matches, teams), nil
}

// SetBracketSize switches the tournament between the 16 and 32 layouts. The
// running session is discarded so the next view rebuilds against the new
// catalog; a dirty session refuses the switch rather than dropping edits.
func (s *bracketService) SetBracketSize(ctx context.Context, tournamentID string, size int) error {
	if size != int(brackets.Size16) && size != int(brackets.Size32) {
		return ErrInvalidBracketSize
	}

	s.mu.Lock()
	if sess, ok := s.sessions[tournamentID]; ok && sess.editor.Dirty() {
		s.mu.Unlock()
		return ErrBracketEditsPending
	}
	delete(s.sessions, tournamentID)
	s.mu.Unlock()

	if err := s.tournamentRepo.UpdateBracketSize(ctx, tournamentID, size); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
		}
		return fmt.Errorf("update bracket size for tournament %s: %w", tournamentID, err)
	}
	return nil
}

// RefreshAll feeds a fresh snapshot to every open session. The editor's
// refresh guard decides per session whether the snapshot lands or is
// discarded to protect pending edits.
func (s *bracketService) RefreshAll(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	editors := make(map[string]*brackets.SlotEditor, len(s.sessions))
	for id, sess := range s.sessions {
		ids = append(ids, id)
		editors[id] = sess.editor
	}
	s.mu.Unlock()

	for _, id := range ids {
		matches, err := s.store.ListMatches(ctx, id)
		if err != nil {
			s.logger.Error("bracket poll failed", slog.String("tournament_id", id), slog.Any("error", err))
			continue
		}
		if !editors[id].ApplySnapshot(matches) {
			s.logger.Debug("bracket poll discarded, session dirty", slog.String("tournament_id", id))
		}
	}
}
