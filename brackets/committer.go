package brackets

import (
	"context"
	"fmt"
	"strings"
)

// BatchCommitter turns a PendingEditSet into a sequence of store calls: all
// deletes first, then all updates, each list in ascending id order, issued
// sequentially. Deletes and updates touch disjoint id sets, so the relative
// order is not semantically significant, but it is fixed so that two commits
// of equivalent sets issue identical call sequences.
type BatchCommitter struct {
	store MatchStore
}

func NewBatchCommitter(store MatchStore) *BatchCommitter {
	return &BatchCommitter{store: store}
}

// Commit issues the queued calls. The first failing call aborts the batch
// and is reported as one aggregate error; calls already issued are not
// rolled back, the store is the source of truth and the next refresh reveals
// whatever actually landed. Commit does not clear the set; that is the
// caller's decision.
func (c *BatchCommitter) Commit(ctx context.Context, tournamentID string, set *PendingEditSet) error {
	for _, id := range set.Deletes() {
		if err := c.store.DeleteMatch(ctx, id); err != nil {
			return fmt.Errorf("bracket commit: delete match %s: %w", id, err)
		}
	}
	for _, record := range set.Updates() {
		record.TournamentID = tournamentID
		// A placeholder id becomes the real server id at the moment of
		// persistence. The prefix is stripped so that after the post-save
		// reload the match carries a real id and can be deleted like any
		// other.
		record.ID = strings.TrimPrefix(record.ID, localIDPrefix)
		if err := c.store.UpsertMatch(ctx, record); err != nil {
			return fmt.Errorf("bracket commit: upsert match %s (slot %s): %w", record.ID, record.RoundLabel, err)
		}
	}
	return nil
}
