package brackets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSet(t *testing.T) *PendingEditSet {
	t.Helper()
	set := NewPendingEditSet()
	slots := Slots(Size16)

	// Two queued upserts and one queued delete on disjoint slots.
	for _, label := range []string{"QF2", "QF1"} {
		slot, ok := SlotByLabel(slots, label)
		require.True(t, ok)
		set.RecordAssignment(slotMatch("m_"+label, label, "Lions", "Tigers"), slot, SideA, "Bears")
	}
	sf1, ok := SlotByLabel(slots, "SF1")
	require.True(t, ok)
	existing := slotMatch("m_SF1", "SF1", "Lions", "Tigers")
	set.RecordAssignment(existing, sf1, SideA, "")
	set.RecordAssignment(existing, sf1, SideB, "")
	return set
}

func TestCommit_DeletesThenUpdatesInSortedOrder(t *testing.T) {
	store := newFakeStore(nil)
	committer := NewBatchCommitter(store)

	err := committer.Commit(context.Background(), "cup-2026", buildSet(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"delete:m_SF1", "upsert:m_QF1", "upsert:m_QF2"}, store.Calls())
}

func TestCommit_DeterministicAcrossEquivalentSets(t *testing.T) {
	storeA := newFakeStore(nil)
	storeB := newFakeStore(nil)

	require.NoError(t, NewBatchCommitter(storeA).Commit(context.Background(), "cup", buildSet(t)))
	require.NoError(t, NewBatchCommitter(storeB).Commit(context.Background(), "cup", buildSet(t)))

	assert.Equal(t, storeA.Calls(), storeB.Calls())
}

func TestCommit_StampsTournamentID(t *testing.T) {
	store := newFakeStore(nil)

	require.NoError(t, NewBatchCommitter(store).Commit(context.Background(), "cup-2026", buildSet(t)))

	for _, m := range store.matches {
		assert.Equal(t, "cup-2026", m.TournamentID)
	}
}

func TestCommit_StripsPlaceholderIDs(t *testing.T) {
	store := newFakeStore(nil)
	set := NewPendingEditSet()
	slot, ok := SlotByLabel(Slots(Size16), "QF1")
	require.True(t, ok)
	set.RecordAssignment(nil, slot, SideA, "Lions")

	require.NoError(t, NewBatchCommitter(store).Commit(context.Background(), "cup", set))

	require.Len(t, store.matches, 1)
	for id := range store.matches {
		assert.False(t, IsLocalMatchID(id))
	}
}

func TestCommit_FirstFailureAbortsWithoutRollback(t *testing.T) {
	store := newFakeStore(nil)
	store.failOn = "upsert:m_QF1"

	err := NewBatchCommitter(store).Commit(context.Background(), "cup", buildSet(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
	// The delete already landed and stays landed; the later upsert was never
	// attempted.
	assert.Equal(t, []string{"delete:m_SF1", "upsert:m_QF1"}, store.Calls())
	_, stillThere := store.matches["m_QF2"]
	assert.False(t, stillThere)
}

func TestCommit_EmptySetIssuesNoCalls(t *testing.T) {
	store := newFakeStore(nil)

	require.NoError(t, NewBatchCommitter(store).Commit(context.Background(), "cup", NewPendingEditSet()))

	assert.Empty(t, store.Calls())
}
