package brackets

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchops/cup-console/models"
)

// Side names one half of a match for assignment purposes.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// localIDPrefix marks a match id synthesized on this side for a slot that has
// no server record yet. A locally synthesized id must never be deleted
// against the server: there is nothing to delete.
const localIDPrefix = "local-"

// NewLocalMatchID synthesizes a placeholder id for a match the server has
// not seen yet.
func NewLocalMatchID() string {
	return localIDPrefix + uuid.NewString()
}

// IsLocalMatchID reports whether the id was synthesized locally rather than
// issued by the server.
func IsLocalMatchID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

// FieldChange carries rescheduling edits for a match. Nil fields are left
// untouched.
type FieldChange struct {
	Venue       *string
	KickoffTime *time.Time
}

// PendingEditSet is the single source of truth for what the operator has
// changed but not yet saved. Updates are full match records keyed by match
// id, deletes are bare ids; an id is never in both at once, and recording
// one clears the other. Last write wins within a session.
type PendingEditSet struct {
	updates map[string]models.Match
	deletes map[string]struct{}
}

func NewPendingEditSet() *PendingEditSet {
	return &PendingEditSet{
		updates: make(map[string]models.Match),
		deletes: make(map[string]struct{}),
	}
}

// RecordAssignment queues putting teamName on the given side of the slot, or
// clearing that side when teamName is empty. If the result leaves both sides
// empty the entry collapses: a real server match becomes a delete, a slot
// with no server match is simply dropped. The match id is resolved in order
// of preference: the id already tracked for this slot, the id of the
// authoritative server match (existing), else a fresh local placeholder id.
func (s *PendingEditSet) RecordAssignment(existing *models.Match, slot SlotDefinition, side Side, teamName string) {
	record, tracked := s.trackedForSlot(slot.Label)
	if !tracked {
		if existing != nil {
			record = *existing
			if s.IsDeleted(record.ID) {
				// The slot was cleared earlier in this session; assigning into
				// it again starts from an empty record, not the old pairing.
				record.TeamA = models.TeamRef{}
				record.TeamB = models.TeamRef{}
			}
		} else {
			record = models.Match{
				ID:         NewLocalMatchID(),
				RoundLabel: slot.Label,
				Status:     models.MatchStatusScheduled,
			}
		}
	}

	if side == SideB {
		record.TeamB = models.NameRef(teamName)
	} else {
		record.TeamA = models.NameRef(teamName)
	}

	if record.TeamA.IsEmpty() && record.TeamB.IsEmpty() {
		delete(s.updates, record.ID)
		if !IsLocalMatchID(record.ID) {
			s.deletes[record.ID] = struct{}{}
		}
		return
	}

	delete(s.deletes, record.ID)
	s.updates[record.ID] = record
}

// RecordFieldChange merges venue and kickoff edits into the tracked update
// for the match, preserving any queued team assignments. A match with a
// queued deletion is left alone: the delete stands.
func (s *PendingEditSet) RecordFieldChange(match *models.Match, change FieldChange) {
	if match == nil || s.IsDeleted(match.ID) {
		return
	}
	record, ok := s.updates[match.ID]
	if !ok {
		record = *match
	}
	if change.Venue != nil {
		venue := *change.Venue
		record.Venue = &venue
	}
	if change.KickoffTime != nil {
		kickoff := *change.KickoffTime
		record.KickoffTime = &kickoff
	}
	s.updates[record.ID] = record
}

// IsDirty reports whether anything is queued. The refresh guard keys off
// this.
func (s *PendingEditSet) IsDirty() bool {
	return len(s.updates) > 0 || len(s.deletes) > 0
}

// Clear empties the set. Called in bulk after a commit attempt, success or
// failure.
func (s *PendingEditSet) Clear() {
	s.updates = make(map[string]models.Match)
	s.deletes = make(map[string]struct{})
}

// Updates returns the queued upserts in ascending id order, so commit call
// sequences are deterministic.
func (s *PendingEditSet) Updates() []models.Match {
	ids := make([]string, 0, len(s.updates))
	for id := range s.updates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]models.Match, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.updates[id])
	}
	return out
}

// Deletes returns the queued deletions in ascending id order.
func (s *PendingEditSet) Deletes() []string {
	ids := make([]string, 0, len(s.deletes))
	for id := range s.deletes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UpdateForSlot returns the queued update occupying the slot, if any.
func (s *PendingEditSet) UpdateForSlot(label string) (models.Match, bool) {
	return s.trackedForSlot(label)
}

// IsDeleted reports whether the id has a queued deletion.
func (s *PendingEditSet) IsDeleted(id string) bool {
	_, ok := s.deletes[id]
	return ok
}

func (s *PendingEditSet) trackedForSlot(label string) (models.Match, bool) {
	for _, record := range s.updates {
		if record.RoundLabel == label {
			return record, true
		}
	}
	return models.Match{}, false
}
