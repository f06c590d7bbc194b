package brackets

import "github.com/matchops/cup-console/models"

// RefreshGuard enforces the one consistency invariant of the editor: an
// incoming authoritative snapshot must never silently discard unsaved
// operator edits. It is evaluated on every snapshot, whether it came from
// the poller, a post-commit reload or a manual refresh.
type RefreshGuard struct {
	slots []SlotDefinition
}

func NewRefreshGuard(slots []SlotDefinition) *RefreshGuard {
	return &RefreshGuard{slots: slots}
}

// Apply returns the next rendered state. While the pending set is dirty the
// incoming data is discarded for this cycle and current is returned
// untouched (applied == false); once the set is clean the state is rebuilt
// from the snapshot via the match index, returning any data-integrity
// warnings it produced.
func (g *RefreshGuard) Apply(incoming []*models.Match, set *PendingEditSet, current []SlotView) (next []SlotView, warnings []string, applied bool) {
	if set.IsDirty() {
		return current, nil, false
	}
	next, warnings = BuildIndex(g.slots, incoming)
	return next, warnings, true
}
