package brackets

import (
	"sort"
	"strings"

	"github.com/matchops/cup-console/models"
)

// groupStageTokens identify group-stage fixtures by their round label. The
// match is case-insensitive substring, so "Group A - Round 2", "GRP B" and
// "Pool 1" all count.
var groupStageTokens = []string{"group", "grp", "pool"}

// IsGroupStageLabel reports whether a round label names a group-stage
// fixture rather than a bracket slot.
func IsGroupStageLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, token := range groupStageTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// WinnersPool returns every team that has already won a recorded match,
// resolved to the full team object where the roster knows it. Order is the
// order of first appearance in the match list, deduplicated by name.
func WinnersPool(matches []*models.Match, teams []models.Team) []models.TeamRef {
	byName := make(map[string]*models.Team, len(teams))
	for i := range teams {
		byName[teams[i].Name] = &teams[i]
	}

	seen := make(map[string]bool)
	var pool []models.TeamRef
	for _, m := range matches {
		if m == nil || !m.HasWinner() {
			continue
		}
		name := m.WinnerName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if team, ok := byName[name]; ok {
			pool = append(pool, models.ResolvedRef(team))
		} else {
			pool = append(pool, models.NameRef(name))
		}
	}
	return pool
}

// StandingRow is one line of a group table.
type StandingRow struct {
	Team           models.Team `json:"team"`
	Played         int         `json:"played"`
	Wins           int         `json:"wins"`
	Draws          int         `json:"draws"`
	Losses         int         `json:"losses"`
	GoalsFor       int         `json:"goals_for"`
	GoalsAgainst   int         `json:"goals_against"`
	GoalDifference int         `json:"goal_difference"`
	Points         int         `json:"points"`
	Rank           int         `json:"rank"`
}

// GroupStandings ranks every grouped team from the finished group-stage
// fixtures. A win is 3 points, a draw 1 point each, a loss 0. Ranking is by
// points descending, ties broken by goal difference descending; equal keys
// keep roster order and Rank is the 1-based position after sorting. Teams
// with a group but no results yet still appear with zeroed rows.
func GroupStandings(matches []*models.Match, teams []models.Team) map[string][]StandingRow {
	rows := make(map[string]*StandingRow)
	groupOf := make(map[string]string)
	groups := make(map[string][]string)

	for i := range teams {
		team := teams[i]
		if team.Group == nil || *team.Group == "" {
			continue
		}
		group := *team.Group
		rows[team.Name] = &StandingRow{Team: team}
		groupOf[team.Name] = group
		groups[group] = append(groups[group], team.Name)
	}

	for _, m := range matches {
		if m == nil || !IsGroupStageLabel(m.RoundLabel) || m.Status != models.MatchStatusFinished {
			continue
		}
		nameA := m.TeamA.DisplayName()
		nameB := m.TeamB.DisplayName()
		rowA := rows[nameA]
		rowB := rows[nameB]
		if rowA == nil || rowB == nil {
			continue
		}

		rowA.Played++
		rowB.Played++
		rowA.GoalsFor += m.ScoreA
		rowA.GoalsAgainst += m.ScoreB
		rowB.GoalsFor += m.ScoreB
		rowB.GoalsAgainst += m.ScoreA

		switch m.WinnerName() {
		case nameA:
			rowA.Wins++
			rowA.Points += 3
			rowB.Losses++
		case nameB:
			rowB.Wins++
			rowB.Points += 3
			rowA.Losses++
		default:
			// Winner identifies neither side: a draw.
			rowA.Draws++
			rowB.Draws++
			rowA.Points++
			rowB.Points++
		}
	}

	standings := make(map[string][]StandingRow, len(groups))
	for group, names := range groups {
		table := make([]StandingRow, 0, len(names))
		for _, name := range names {
			row := *rows[name]
			row.GoalDifference = row.GoalsFor - row.GoalsAgainst
			table = append(table, row)
		}
		sort.SliceStable(table, func(i, j int) bool {
			if table[i].Points != table[j].Points {
				return table[i].Points > table[j].Points
			}
			return table[i].GoalDifference > table[j].GoalDifference
		})
		for i := range table {
			table[i].Rank = i + 1
		}
		standings[group] = table
	}
	return standings
}

// ApprovedTeams returns the full roster of approved teams plus the synthetic
// Wildcard entrant, for the slot assignment affordance.
func ApprovedTeams(teams []models.Team) []models.Team {
	out := make([]models.Team, 0, len(teams)+1)
	for _, t := range teams {
		if t.Status == models.TeamStatusApproved {
			out = append(out, t)
		}
	}
	out = append(out, models.WildcardTeam())
	return out
}
