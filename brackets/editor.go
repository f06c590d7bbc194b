package brackets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matchops/cup-console/models"
)

const walkoverScore = 3

var (
	ErrUnknownSlot         = errors.New("slot is not part of the bracket")
	ErrNoMatchForSlot      = errors.New("slot has no match to edit")
	ErrMatchAlreadyDecided = errors.New("match already has a result")
	ErrMatchIncomplete     = errors.New("match needs both teams before a walkover")
)

// Eligibility bundles the three candidate lists offered when filling a slot.
type Eligibility struct {
	Winners   []models.TeamRef         `json:"winners"`
	Standings map[string][]StandingRow `json:"standings"`
	Teams     []models.Team            `json:"teams"`
}

// SlotEditor is the interactive surface of the bracket: it orchestrates
// operator actions into PendingEditSet mutations, keeps the rendered bracket
// consistent with those mutations without waiting for the server, and runs
// saves and refreshes through the committer and the refresh guard. One
// editor exists per tournament editing session and owns its pending set
// exclusively.
type SlotEditor struct {
	tournamentID string
	slots        []SlotDefinition
	store        MatchStore
	pending      *PendingEditSet
	guard        *RefreshGuard
	committer    *BatchCommitter
	logger       *slog.Logger

	mu            sync.Mutex
	serverMatches []*models.Match
	teams         []models.Team
	views         []SlotView
	warnings      []string
}

func NewSlotEditor(tournamentID string, size Size, store MatchStore, logger *slog.Logger) *SlotEditor {
	slots := Slots(size)
	views, _ := BuildIndex(slots, nil)
	return &SlotEditor{
		tournamentID: tournamentID,
		slots:        slots,
		store:        store,
		pending:      NewPendingEditSet(),
		guard:        NewRefreshGuard(slots),
		committer:    NewBatchCommitter(store),
		logger:       logger,
		views:        views,
	}
}

// Load fetches a fresh snapshot of matches and teams and runs it through the
// refresh guard. Teams are not guarded: the roster is read-only from the
// bracket's point of view and refreshing it can never clobber an edit.
func (e *SlotEditor) Load(ctx context.Context) error {
	var (
		matches []*models.Match
		teams   []models.Team
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = e.store.ListMatches(gCtx, e.tournamentID)
		if err != nil {
			return fmt.Errorf("list matches for tournament %s: %w", e.tournamentID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = e.store.ListTeams(gCtx, e.tournamentID)
		if err != nil {
			return fmt.Errorf("list teams for tournament %s: %w", e.tournamentID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.teams = teams
	e.applySnapshotLocked(matches)
	return nil
}

// ApplySnapshot feeds an already-fetched match snapshot through the guard,
// for callers that poll on the editor's behalf. Returns whether the snapshot
// was applied or discarded to protect pending edits.
func (e *SlotEditor) ApplySnapshot(matches []*models.Match) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applySnapshotLocked(matches)
}

func (e *SlotEditor) applySnapshotLocked(matches []*models.Match) bool {
	next, warnings, applied := e.guard.Apply(matches, e.pending, e.views)
	if !applied {
		e.logger.Debug("refresh discarded, bracket has unsaved edits",
			slog.String("tournament_id", e.tournamentID))
		return false
	}
	for _, w := range warnings {
		e.logger.Warn("bracket data integrity", slog.String("tournament_id", e.tournamentID), slog.String("detail", w))
	}
	e.serverMatches = matches
	e.views = next
	e.warnings = warnings
	return true
}

// AssignTeam queues putting teamName on one side of the slot and re-renders
// immediately. No network call happens until Save.
func (e *SlotEditor) AssignTeam(slotLabel string, side Side, teamName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot, ok := SlotByLabel(e.slots, slotLabel)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slotLabel)
	}
	e.pending.RecordAssignment(e.serverMatchForLocked(slotLabel), slot, side, teamName)
	e.renderLocked()
	return nil
}

// ClearTeam is the quick-remove action: the same path as AssignTeam with an
// empty name.
func (e *SlotEditor) ClearTeam(slotLabel string, side Side) error {
	return e.AssignTeam(slotLabel, side, "")
}

// Reschedule queues venue and kickoff edits for the slot's match.
func (e *SlotEditor) Reschedule(slotLabel string, change FieldChange) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := SlotByLabel(e.slots, slotLabel); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slotLabel)
	}
	target, tracked := e.pending.UpdateForSlot(slotLabel)
	if !tracked {
		server := e.serverMatchForLocked(slotLabel)
		if server == nil {
			return fmt.Errorf("%w: %s", ErrNoMatchForSlot, slotLabel)
		}
		target = *server
	}
	e.pending.RecordFieldChange(&target, change)
	e.renderLocked()
	return nil
}

// Walkover records winnerSide as a 3-0 winner and writes it through
// immediately, bypassing the pending batch: it resolves an outcome rather
// than editing bracket topology. Propagating the winner into the next round
// stays a separate, explicit operator action.
func (e *SlotEditor) Walkover(ctx context.Context, slotLabel string, winnerSide Side) error {
	e.mu.Lock()
	match := e.serverMatchForLocked(slotLabel)
	if match == nil {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoMatchForSlot, slotLabel)
	}
	if match.TeamA.IsEmpty() || match.TeamB.IsEmpty() {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMatchIncomplete, slotLabel)
	}
	if match.HasWinner() {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMatchAlreadyDecided, slotLabel)
	}

	result := MatchResult{
		MatchID:      match.ID,
		TournamentID: e.tournamentID,
		RoundLabel:   match.RoundLabel,
		TeamA:        match.TeamA.DisplayName(),
		TeamB:        match.TeamB.DisplayName(),
		WinnerSide:   winnerSide,
	}
	if winnerSide == SideB {
		result.ScoreB = walkoverScore
	} else {
		result.ScoreA = walkoverScore
	}
	e.mu.Unlock()

	if err := e.store.RecordResult(ctx, result); err != nil {
		return fmt.Errorf("walkover for slot %s: %w", slotLabel, err)
	}
	e.logger.Info("walkover recorded",
		slog.String("tournament_id", e.tournamentID),
		slog.String("slot", slotLabel),
		slog.String("winner_side", string(winnerSide)))
	return e.Load(ctx)
}

// Save commits every pending mutation in one batch, clears the set whether
// the commit succeeded or not, and reloads. After a failed commit the next
// refresh shows whatever actually landed; retried partial state is not worth
// reconstructing.
func (e *SlotEditor) Save(ctx context.Context) error {
	e.mu.Lock()
	if !e.pending.IsDirty() {
		e.mu.Unlock()
		return nil
	}
	// The lock is held across the commit so nothing can mutate the set while
	// it is being walked; the session shows a saving indicator anyway.
	commitErr := e.committer.Commit(ctx, e.tournamentID, e.pending)
	e.pending.Clear()
	e.mu.Unlock()

	if loadErr := e.Load(ctx); loadErr != nil && commitErr == nil {
		return loadErr
	}
	return commitErr
}

// Rendered returns a copy of the current bracket state: the last accepted
// snapshot overlaid with every pending mutation.
func (e *SlotEditor) Rendered() []SlotView {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SlotView, len(e.views))
	copy(out, e.views)
	return out
}

// Warnings returns the data-integrity warnings from the last applied
// snapshot.
func (e *SlotEditor) Warnings() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.warnings))
	copy(out, e.warnings)
	return out
}

// Dirty reports whether unsaved edits exist.
func (e *SlotEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.IsDirty()
}

// Eligibility computes the candidate lists for filling slots from the last
// accepted snapshot. Pure recomputation, safe to call on every render.
func (e *SlotEditor) Eligibility() Eligibility {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Eligibility{
		Winners:   WinnersPool(e.serverMatches, e.teams),
		Standings: GroupStandings(e.serverMatches, e.teams),
		Teams:     ApprovedTeams(e.teams),
	}
}

// renderLocked rebuilds the rendered views as the authoritative snapshot
// overlaid with the pending set: queued updates occupy their slots, queued
// deletes empty theirs.
func (e *SlotEditor) renderLocked() {
	base, _ := BuildIndex(e.slots, e.serverMatches)
	for i := range base {
		if update, ok := e.pending.UpdateForSlot(base[i].Slot.Label); ok {
			record := update
			base[i].Match = &record
			continue
		}
		if base[i].Match != nil && e.pending.IsDeleted(base[i].Match.ID) {
			base[i].Match = nil
		}
	}
	e.views = base
}

// serverMatchForLocked finds the authoritative match occupying the slot, or
// nil. Duplicates resolve the same way the index does: first encountered
// wins.
func (e *SlotEditor) serverMatchForLocked(slotLabel string) *models.Match {
	for _, m := range e.serverMatches {
		if m != nil && m.RoundLabel == slotLabel {
			return m
		}
	}
	return nil
}
