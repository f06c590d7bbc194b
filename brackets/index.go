package brackets

import (
	"fmt"

	"github.com/matchops/cup-console/models"
)

// SlotView pairs a catalog slot with the match currently occupying it, if
// any. The rendered bracket is exactly one SlotView per slot, in catalog
// order.
type SlotView struct {
	Slot  SlotDefinition `json:"slot"`
	Match *models.Match  `json:"match"`
}

// BuildIndex reconciles the static catalog against the authoritative match
// list. Every slot appears exactly once in the output whether or not a match
// exists for it. A match binds to the slot whose label equals its RoundLabel;
// matches with no matching slot (group-stage fixtures) are skipped. If the
// server ever returns more than one match for a label the first encountered
// wins and the rest are reported as data-integrity warnings, never as a
// failure.
func BuildIndex(slots []SlotDefinition, serverMatches []*models.Match) ([]SlotView, []string) {
	byLabel := make(map[string]*models.Match, len(slots))
	var warnings []string

	for _, m := range serverMatches {
		if m == nil || m.RoundLabel == "" {
			continue
		}
		if _, known := SlotByLabel(slots, m.RoundLabel); !known {
			continue
		}
		if first, dup := byLabel[m.RoundLabel]; dup {
			warnings = append(warnings, fmt.Sprintf(
				"duplicate match %s for slot %s ignored (kept %s)", m.ID, m.RoundLabel, first.ID))
			continue
		}
		byLabel[m.RoundLabel] = m
	}

	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, SlotView{Slot: slot, Match: byLabel[slot.Label]})
	}
	return views, warnings
}
