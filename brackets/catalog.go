package brackets

import "fmt"

// Size selects the bracket layout. The console supports a 16-entrant and a
// 32-entrant cup; the catalog for either is fixed at startup and never
// mutated.
type Size int

const (
	Size16 Size = 16
	Size32 Size = 32
)

type LineID string

const (
	LineA     LineID = "A"
	LineB     LineID = "B"
	LineFinal LineID = "final"
)

type RoundTier string

const (
	TierR32   RoundTier = "R32"
	TierR16   RoundTier = "R16"
	TierQF    RoundTier = "QF"
	TierSF    RoundTier = "SF"
	TierFinal RoundTier = "FINAL"
)

// SlotDefinition is one fixed position in the knockout tree. Label is the
// join key matched against Match.RoundLabel; it is unique within a bracket.
type SlotDefinition struct {
	Label string    `json:"label"`
	Title string    `json:"title"`
	Line  LineID    `json:"line"`
	Tier  RoundTier `json:"tier"`
}

// Slots enumerates the catalog for the chosen size in render order: first
// round across both lines, then each converging tier, then the final. Two
// parallel lines A and B feed a single final slot. Size32 adds a round-of-32
// tier in front; any other value falls back to the 16 layout.
func Slots(size Size) []SlotDefinition {
	slots := make([]SlotDefinition, 0, 31)

	if size == Size32 {
		slots = append(slots, tier(TierR32, "R32-", "Round of 32 Match ", 16)...)
	}
	slots = append(slots, tier(TierR16, "R16-", "Round of 16 Match ", 8)...)
	slots = append(slots, tier(TierQF, "QF", "Quarter-final ", 4)...)
	slots = append(slots, tier(TierSF, "SF", "Semi-final ", 2)...)
	slots = append(slots, SlotDefinition{
		Label: "Final",
		Title: "Final",
		Line:  LineFinal,
		Tier:  TierFinal,
	})

	return slots
}

// tier builds one round's slots. The first half of every tier belongs to
// line A, the second half to line B, numbered sequentially across both lines.
func tier(t RoundTier, labelPrefix, titlePrefix string, count int) []SlotDefinition {
	slots := make([]SlotDefinition, 0, count)
	for i := 1; i <= count; i++ {
		line := LineA
		if i > count/2 {
			line = LineB
		}
		slots = append(slots, SlotDefinition{
			Label: fmt.Sprintf("%s%d", labelPrefix, i),
			Title: fmt.Sprintf("%s%d", titlePrefix, i),
			Line:  line,
			Tier:  t,
		})
	}
	return slots
}

// SlotByLabel looks a slot up in the given catalog. Only labels returned by
// Slots are editable; anything else is not part of the bracket tree.
func SlotByLabel(slots []SlotDefinition, label string) (SlotDefinition, bool) {
	for _, s := range slots {
		if s.Label == label {
			return s, true
		}
	}
	return SlotDefinition{}, false
}
