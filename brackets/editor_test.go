package brackets

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchops/cup-console/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEditor(t *testing.T, store *fakeStore) *SlotEditor {
	t.Helper()
	editor := NewSlotEditor("cup-2026", Size16, store, testLogger())
	require.NoError(t, editor.Load(context.Background()))
	return editor
}

func viewFor(t *testing.T, editor *SlotEditor, label string) SlotView {
	t.Helper()
	for _, v := range editor.Rendered() {
		if v.Slot.Label == label {
			return v
		}
	}
	t.Fatalf("no view for slot %s", label)
	return SlotView{}
}

func TestEditor_AssignIntoEmptySlotRendersImmediately(t *testing.T) {
	store := newFakeStore(nil)
	editor := newEditor(t, store)
	callsBefore := len(store.Calls())

	require.NoError(t, editor.AssignTeam("QF1", SideA, "Lions"))

	view := viewFor(t, editor, "QF1")
	require.NotNil(t, view.Match)
	assert.Equal(t, "Lions", view.Match.TeamA.DisplayName())
	assert.True(t, view.Match.TeamB.IsEmpty())
	assert.True(t, editor.Dirty())
	assert.Len(t, store.Calls(), callsBefore, "no network call before save")
}

func TestEditor_UnknownSlotRejected(t *testing.T) {
	editor := newEditor(t, newFakeStore(nil))

	err := editor.AssignTeam("Group A", SideA, "Lions")

	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestEditor_ClearFilledSlotDownToEmpty(t *testing.T) {
	store := newFakeStore(nil, *slotMatch("m_qf1_123", "QF1", "Lions", "Tigers"))
	editor := newEditor(t, store)

	require.NoError(t, editor.ClearTeam("QF1", SideA))
	view := viewFor(t, editor, "QF1")
	require.NotNil(t, view.Match)
	assert.True(t, view.Match.TeamA.IsEmpty())
	assert.Equal(t, "Tigers", view.Match.TeamB.DisplayName())

	require.NoError(t, editor.ClearTeam("QF1", SideB))
	view = viewFor(t, editor, "QF1")
	assert.Nil(t, view.Match, "fully cleared slot renders empty")
	assert.True(t, editor.Dirty(), "the queued delete still needs saving")
}

func TestEditor_RefreshWhileDirtyIsDiscarded(t *testing.T) {
	store := newFakeStore(nil)
	editor := newEditor(t, store)

	require.NoError(t, editor.AssignTeam("QF1", SideA, "Lions"))

	conflicting := []*models.Match{slotMatch("m9", "QF1", "Imposters", "Fakers")}
	applied := editor.ApplySnapshot(conflicting)

	assert.False(t, applied)
	view := viewFor(t, editor, "QF1")
	require.NotNil(t, view.Match)
	assert.Equal(t, "Lions", view.Match.TeamA.DisplayName(), "pending assignment survives the refresh")
}

func TestEditor_SaveCommitsClearsAndReloads(t *testing.T) {
	store := newFakeStore(nil, *slotMatch("m_qf2", "QF2", "Bears", "Wolves"))
	editor := newEditor(t, store)

	require.NoError(t, editor.AssignTeam("QF1", SideA, "Lions"))
	require.NoError(t, editor.AssignTeam("QF1", SideB, "Tigers"))
	require.NoError(t, editor.ClearTeam("QF2", SideA))
	require.NoError(t, editor.ClearTeam("QF2", SideB))

	require.NoError(t, editor.Save(context.Background()))

	assert.False(t, editor.Dirty())

	// The reload after the save reflects the committed reality.
	qf1 := viewFor(t, editor, "QF1")
	require.NotNil(t, qf1.Match)
	assert.Equal(t, "Lions", qf1.Match.TeamA.DisplayName())
	assert.Equal(t, "Tigers", qf1.Match.TeamB.DisplayName())
	assert.Nil(t, viewFor(t, editor, "QF2").Match)

	// And now that nothing is pending, fresh snapshots apply again.
	applied := editor.ApplySnapshot([]*models.Match{slotMatch("m9", "QF3", "Newcomers", "")})
	assert.True(t, applied)
	require.NotNil(t, viewFor(t, editor, "QF3").Match)
}

func TestEditor_SavedMatchCanLaterBeDeleted(t *testing.T) {
	store := newFakeStore(nil)
	editor := newEditor(t, store)

	require.NoError(t, editor.AssignTeam("QF1", SideA, "Lions"))
	require.NoError(t, editor.AssignTeam("QF1", SideB, "Tigers"))
	require.NoError(t, editor.Save(context.Background()))

	view := viewFor(t, editor, "QF1")
	require.NotNil(t, view.Match)
	assert.False(t, IsLocalMatchID(view.Match.ID), "persisted match carries a real id")

	require.NoError(t, editor.ClearTeam("QF1", SideA))
	require.NoError(t, editor.ClearTeam("QF1", SideB))
	require.NoError(t, editor.Save(context.Background()))

	assert.Contains(t, store.Calls(), "delete:"+view.Match.ID)
	assert.Nil(t, viewFor(t, editor, "QF1").Match)
	assert.False(t, editor.Dirty())
}

func TestEditor_SaveFailureStillClears(t *testing.T) {
	store := newFakeStore(nil, *slotMatch("m_qf1", "QF1", "Lions", "Tigers"))
	editor := newEditor(t, store)
	store.failOn = "delete"

	require.NoError(t, editor.ClearTeam("QF1", SideA))
	require.NoError(t, editor.ClearTeam("QF1", SideB))

	err := editor.Save(context.Background())

	require.Error(t, err)
	assert.False(t, editor.Dirty(), "edits are cleared even on failure; the next refresh reveals true state")
	// The reload ran despite the failure, so the rendered bracket shows the
	// authoritative record that was never deleted.
	view := viewFor(t, editor, "QF1")
	require.NotNil(t, view.Match)
	assert.Equal(t, "Lions", view.Match.TeamA.DisplayName())
}

func TestEditor_SaveWithNothingPendingIsNoop(t *testing.T) {
	store := newFakeStore(nil)
	editor := newEditor(t, store)
	callsBefore := len(store.Calls())

	require.NoError(t, editor.Save(context.Background()))

	assert.Len(t, store.Calls(), callsBefore)
}

func TestEditor_WalkoverWritesThroughImmediately(t *testing.T) {
	store := newFakeStore(nil, *slotMatch("m_qf1", "QF1", "Lions", "Tigers"))
	editor := newEditor(t, store)

	require.NoError(t, editor.Walkover(context.Background(), "QF1", SideA))

	assert.Contains(t, store.Calls(), "result:m_qf1:3-0:A")
	assert.False(t, editor.Dirty(), "walkover bypasses the pending batch")

	view := viewFor(t, editor, "QF1")
	require.NotNil(t, view.Match)
	assert.Equal(t, models.MatchStatusFinished, view.Match.Status)
	assert.Equal(t, "Lions", view.Match.WinnerName())
}

func TestEditor_WalkoverSideBScoresThreeNil(t *testing.T) {
	store := newFakeStore(nil, *slotMatch("m_sf1", "SF1", "Lions", "Tigers"))
	editor := newEditor(t, store)

	require.NoError(t, editor.Walkover(context.Background(), "SF1", SideB))

	assert.Contains(t, store.Calls(), "result:m_sf1:0-3:B")
}

func TestEditor_WalkoverGuards(t *testing.T) {
	decided := *finishedMatch("m_done", "QF2", "Lions", "Tigers", 2, 1, "A")
	half := *slotMatch("m_half", "QF3", "Lions", "")
	store := newFakeStore(nil, decided, half)
	editor := newEditor(t, store)

	assert.ErrorIs(t, editor.Walkover(context.Background(), "QF1", SideA), ErrNoMatchForSlot)
	assert.ErrorIs(t, editor.Walkover(context.Background(), "QF2", SideA), ErrMatchAlreadyDecided)
	assert.ErrorIs(t, editor.Walkover(context.Background(), "QF3", SideA), ErrMatchIncomplete)
}

func TestEditor_RescheduleQueuesFieldChange(t *testing.T) {
	store := newFakeStore(nil, *slotMatch("m_qf1", "QF1", "Lions", "Tigers"))
	editor := newEditor(t, store)

	require.NoError(t, editor.Reschedule("QF1", FieldChange{Venue: strPtr("Main Pitch")}))

	view := viewFor(t, editor, "QF1")
	require.NotNil(t, view.Match)
	require.NotNil(t, view.Match.Venue)
	assert.Equal(t, "Main Pitch", *view.Match.Venue)
	assert.True(t, editor.Dirty())

	assert.ErrorIs(t, editor.Reschedule("QF4", FieldChange{Venue: strPtr("B Pitch")}), ErrNoMatchForSlot)
}

func TestEditor_EligibilityFromSnapshot(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "Lions", Status: models.TeamStatusApproved, Group: groupPtr("A")},
		{ID: "t2", Name: "Tigers", Status: models.TeamStatusApproved, Group: groupPtr("A")},
		{ID: "t3", Name: "Pending FC", Status: models.TeamStatusPending},
	}
	store := newFakeStore(teams,
		*finishedMatch("m1", "Group A - Round 1", "Lions", "Tigers", 2, 0, "Lions"),
	)
	editor := newEditor(t, store)

	elig := editor.Eligibility()

	require.Len(t, elig.Winners, 1)
	assert.Equal(t, "Lions", elig.Winners[0].DisplayName())
	require.Contains(t, elig.Standings, "A")
	assert.Equal(t, "Lions", elig.Standings["A"][0].Team.Name)
	// Approved roster plus the wildcard, without the pending team.
	require.Len(t, elig.Teams, 3)
	assert.Equal(t, models.WildcardTeamName, elig.Teams[2].Name)
}
