package brackets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qf1(t *testing.T) SlotDefinition {
	t.Helper()
	slot, ok := SlotByLabel(Slots(Size16), "QF1")
	require.True(t, ok)
	return slot
}

func TestRecordAssignment_IntoEmptySlot(t *testing.T) {
	set := NewPendingEditSet()

	set.RecordAssignment(nil, qf1(t), SideA, "Lions")

	require.True(t, set.IsDirty())
	updates := set.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "QF1", updates[0].RoundLabel)
	assert.Equal(t, "Lions", updates[0].TeamA.DisplayName())
	assert.True(t, updates[0].TeamB.IsEmpty())
	assert.True(t, IsLocalMatchID(updates[0].ID))
	assert.Empty(t, set.Deletes())
}

func TestRecordAssignment_SecondSideReusesTrackedRecord(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)

	set.RecordAssignment(nil, slot, SideA, "Lions")
	set.RecordAssignment(nil, slot, SideB, "Tigers")

	updates := set.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "Lions", updates[0].TeamA.DisplayName())
	assert.Equal(t, "Tigers", updates[0].TeamB.DisplayName())
}

func TestRecordAssignment_LastWriteWins(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)

	set.RecordAssignment(nil, slot, SideA, "Lions")
	set.RecordAssignment(nil, slot, SideA, "Bears")

	updates := set.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "Bears", updates[0].TeamA.DisplayName())
}

func TestRecordAssignment_ClearingServerMatchDownToEmptyBecomesDelete(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)
	existing := slotMatch("m_qf1_123", "QF1", "Lions", "Tigers")

	set.RecordAssignment(existing, slot, SideA, "")
	updates := set.Updates()
	require.Len(t, updates, 1)
	assert.True(t, updates[0].TeamA.IsEmpty())
	assert.Equal(t, "Tigers", updates[0].TeamB.DisplayName())

	set.RecordAssignment(existing, slot, SideB, "")
	assert.Empty(t, set.Updates(), "update entry must flip to a delete")
	assert.Equal(t, []string{"m_qf1_123"}, set.Deletes())
}

func TestRecordAssignment_ClearingLocalOnlySlotIsNoop(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)

	set.RecordAssignment(nil, slot, SideA, "Lions")
	set.RecordAssignment(nil, slot, SideA, "")

	assert.False(t, set.IsDirty())
	assert.Empty(t, set.Updates())
	assert.Empty(t, set.Deletes())
}

func TestRecordAssignment_ReassignAfterDeleteStartsEmpty(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)
	existing := slotMatch("m1", "QF1", "Lions", "Tigers")

	set.RecordAssignment(existing, slot, SideA, "")
	set.RecordAssignment(existing, slot, SideB, "")
	require.Equal(t, []string{"m1"}, set.Deletes())

	set.RecordAssignment(existing, slot, SideA, "Bears")

	updates := set.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "Bears", updates[0].TeamA.DisplayName())
	assert.True(t, updates[0].TeamB.IsEmpty(), "old pairing must not resurrect")
	assert.Empty(t, set.Deletes(), "recording an update clears the delete")
}

func TestMutualExclusivityInvariant(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)
	existing := slotMatch("m1", "QF1", "Lions", "Tigers")

	// Any interleaving of assignments and field changes must keep updates
	// and deletes disjoint.
	steps := []func(){
		func() { set.RecordAssignment(existing, slot, SideA, "") },
		func() { set.RecordAssignment(existing, slot, SideB, "") },
		func() { set.RecordAssignment(existing, slot, SideA, "Bears") },
		func() { set.RecordFieldChange(existing, FieldChange{Venue: strPtr("Main Pitch")}) },
		func() { set.RecordAssignment(existing, slot, SideA, "") },
		func() { set.RecordAssignment(existing, slot, SideB, "") },
	}
	for _, step := range steps {
		step()
		deleted := map[string]bool{}
		for _, id := range set.Deletes() {
			deleted[id] = true
		}
		for _, u := range set.Updates() {
			assert.Falsef(t, deleted[u.ID], "id %s in both updates and deletes", u.ID)
		}
	}
}

func TestRecordFieldChange_MergesIntoQueuedAssignment(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)
	existing := slotMatch("m1", "QF1", "Lions", "Tigers")

	set.RecordAssignment(existing, slot, SideA, "Bears")
	kickoff := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)
	set.RecordFieldChange(existing, FieldChange{Venue: strPtr("Main Pitch"), KickoffTime: &kickoff})

	updates := set.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "Bears", updates[0].TeamA.DisplayName(), "queued assignment preserved")
	require.NotNil(t, updates[0].Venue)
	assert.Equal(t, "Main Pitch", *updates[0].Venue)
	require.NotNil(t, updates[0].KickoffTime)
	assert.True(t, kickoff.Equal(*updates[0].KickoffTime))
}

func TestRecordFieldChange_QueuedDeleteStands(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)
	existing := slotMatch("m1", "QF1", "Lions", "Tigers")

	set.RecordAssignment(existing, slot, SideA, "")
	set.RecordAssignment(existing, slot, SideB, "")
	require.Equal(t, []string{"m1"}, set.Deletes())

	set.RecordFieldChange(existing, FieldChange{Venue: strPtr("Main Pitch")})

	assert.Equal(t, []string{"m1"}, set.Deletes(), "the delete stands")
	assert.Empty(t, set.Updates())
}

func TestClear(t *testing.T) {
	set := NewPendingEditSet()
	slot := qf1(t)

	set.RecordAssignment(slotMatch("m1", "QF1", "Lions", "Tigers"), slot, SideA, "")
	require.True(t, set.IsDirty())

	set.Clear()

	assert.False(t, set.IsDirty())
	assert.Empty(t, set.Updates())
	assert.Empty(t, set.Deletes())
}

func TestUpdatesAndDeletesAreSorted(t *testing.T) {
	set := NewPendingEditSet()
	slots := Slots(Size16)

	for _, label := range []string{"QF3", "QF1", "QF2"} {
		slot, ok := SlotByLabel(slots, label)
		require.True(t, ok)
		set.RecordAssignment(slotMatch("m_"+label, label, "Lions", "Tigers"), slot, SideA, "Bears")
	}

	ids := []string{}
	for _, u := range set.Updates() {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"m_QF1", "m_QF2", "m_QF3"}, ids)
}

func strPtr(s string) *string { return &s }
