package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchops/cup-console/models"
)

func groupPtr(g string) *string { return &g }

func finishedMatch(id, label, teamA, teamB string, scoreA, scoreB int, winner string) *models.Match {
	m := slotMatch(id, label, teamA, teamB)
	m.ScoreA = scoreA
	m.ScoreB = scoreB
	m.Status = models.MatchStatusFinished
	if winner != "" {
		m.Winner = &winner
	}
	return m
}

func TestIsGroupStageLabel(t *testing.T) {
	assert.True(t, IsGroupStageLabel("Group A - Round 1"))
	assert.True(t, IsGroupStageLabel("GRP B"))
	assert.True(t, IsGroupStageLabel("Pool 2"))
	assert.False(t, IsGroupStageLabel("QF1"))
	assert.False(t, IsGroupStageLabel("Final"))
}

func TestWinnersPool_ResolvesAndDeduplicates(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "Lions", Status: models.TeamStatusApproved},
		{ID: "t2", Name: "Tigers", Status: models.TeamStatusApproved},
	}
	matches := []*models.Match{
		finishedMatch("m1", "R16-1", "Lions", "Bears", 2, 0, "A"),
		finishedMatch("m2", "R16-2", "Tigers", "Wolves", 1, 0, "Tigers"),
		finishedMatch("m3", "QF1", "Lions", "Tigers", 3, 1, "A"),
		slotMatch("m4", "QF2", "Bears", "Wolves"),
	}

	pool := WinnersPool(matches, teams)

	require.Len(t, pool, 2)
	assert.Equal(t, "Lions", pool[0].DisplayName())
	require.NotNil(t, pool[0].Team, "winner on the roster should resolve to the full team")
	assert.Equal(t, "t1", pool[0].Team.ID)
	assert.Equal(t, "Tigers", pool[1].DisplayName())
}

func TestWinnersPool_UnknownWinnerKeptAsNameOnly(t *testing.T) {
	pool := WinnersPool([]*models.Match{
		finishedMatch("m1", "R16-1", "Ghosts", "Bears", 1, 0, "Ghosts"),
	}, nil)

	require.Len(t, pool, 1)
	assert.Equal(t, "Ghosts", pool[0].DisplayName())
	assert.Nil(t, pool[0].Team)
}

func TestGroupStandings_PointsAndGoalDifference(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "Lions", Status: models.TeamStatusApproved, Group: groupPtr("A")},
		{ID: "t2", Name: "Tigers", Status: models.TeamStatusApproved, Group: groupPtr("A")},
		{ID: "t3", Name: "Bears", Status: models.TeamStatusApproved, Group: groupPtr("A")},
	}
	matches := []*models.Match{
		finishedMatch("m1", "Group A - Round 1", "Lions", "Tigers", 3, 0, "A"),
		finishedMatch("m2", "Group A - Round 2", "Lions", "Bears", 2, 0, "A"),
		finishedMatch("m3", "Group A - Round 3", "Tigers", "Bears", 1, 1, ""),
		// Knockout results never count towards group tables.
		finishedMatch("m4", "QF1", "Bears", "Tigers", 9, 0, "A"),
	}

	standings := GroupStandings(matches, teams)

	require.Contains(t, standings, "A")
	table := standings["A"]
	require.Len(t, table, 3)

	assert.Equal(t, "Lions", table[0].Team.Name)
	assert.Equal(t, 6, table[0].Points)
	assert.Equal(t, 5, table[0].GoalDifference)
	assert.Equal(t, 1, table[0].Rank)

	// Tigers and Bears sit level on a point each; Bears' better goal
	// difference (-2 against -3) decides second place.
	assert.Equal(t, "Bears", table[1].Team.Name)
	assert.Equal(t, 1, table[1].Points)
	assert.Equal(t, -2, table[1].GoalDifference)
	assert.Equal(t, 2, table[1].Rank)
	assert.Equal(t, 1, table[1].Draws)

	assert.Equal(t, "Tigers", table[2].Team.Name)
	assert.Equal(t, 1, table[2].Points)
	assert.Equal(t, -3, table[2].GoalDifference)
	assert.Equal(t, 3, table[2].Rank)
}

func TestGroupStandings_GoalDifferenceBreaksTies(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "X", Group: groupPtr("B")},
		{ID: "t2", Name: "Y", Group: groupPtr("B")},
		{ID: "t3", Name: "Filler1", Group: groupPtr("B")},
		{ID: "t4", Name: "Filler2", Group: groupPtr("B")},
	}
	// X and Y both finish on 6 points; X has GD +6, Y has GD +2.
	matches := []*models.Match{
		finishedMatch("m1", "Group B", "X", "Filler1", 5, 2, "X"),
		finishedMatch("m2", "Group B", "X", "Filler2", 5, 2, "X"),
		finishedMatch("m3", "Group B", "Y", "Filler1", 3, 2, "Y"),
		finishedMatch("m4", "Group B", "Y", "Filler2", 2, 1, "Y"),
	}

	table := GroupStandings(matches, teams)["B"]
	require.True(t, len(table) >= 2)
	assert.Equal(t, "X", table[0].Team.Name)
	assert.Equal(t, 6, table[0].GoalDifference)
	assert.Equal(t, "Y", table[1].Team.Name)
	assert.Equal(t, 2, table[1].GoalDifference)
}

func TestGroupStandings_PointsBeatGoalDifference(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "Grinders", Group: groupPtr("C")},
		{ID: "t2", Name: "Flashy", Group: groupPtr("C")},
		{ID: "t3", Name: "A1", Group: groupPtr("C")},
		{ID: "t4", Name: "A2", Group: groupPtr("C")},
		{ID: "t5", Name: "A3", Group: groupPtr("C")},
	}
	// Grinders: three 1-0 wins, 9 points, GD +3.
	// Flashy: two huge wins and a draw, 7 points, GD +20.
	matches := []*models.Match{
		finishedMatch("m1", "Group C", "Grinders", "A1", 1, 0, "Grinders"),
		finishedMatch("m2", "Group C", "Grinders", "A2", 1, 0, "Grinders"),
		finishedMatch("m3", "Group C", "Grinders", "A3", 1, 0, "Grinders"),
		finishedMatch("m4", "Group C", "Flashy", "A1", 10, 0, "Flashy"),
		finishedMatch("m5", "Group C", "Flashy", "A2", 10, 0, "Flashy"),
		finishedMatch("m6", "Group C", "Flashy", "A3", 0, 0, ""),
	}

	table := GroupStandings(matches, teams)["C"]
	assert.Equal(t, "Grinders", table[0].Team.Name)
	assert.Equal(t, 9, table[0].Points)
	assert.Equal(t, "Flashy", table[1].Team.Name)
	assert.Equal(t, 7, table[1].Points)
}

func TestGroupStandings_Deterministic(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "X", Group: groupPtr("B")},
		{ID: "t2", Name: "Y", Group: groupPtr("B")},
	}
	matches := []*models.Match{
		finishedMatch("m1", "Group B", "X", "Y", 1, 1, ""),
	}

	first := GroupStandings(matches, teams)["B"]
	for i := 0; i < 10; i++ {
		again := GroupStandings(matches, teams)["B"]
		assert.Equal(t, first, again)
	}
}

func TestApprovedTeams_FiltersAndAppendsWildcard(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "Lions", Status: models.TeamStatusApproved},
		{ID: "t2", Name: "Shady FC", Status: models.TeamStatusPending},
		{ID: "t3", Name: "Banned United", Status: models.TeamStatusRejected},
	}

	out := ApprovedTeams(teams)

	require.Len(t, out, 2)
	assert.Equal(t, "Lions", out[0].Name)
	assert.Equal(t, models.WildcardTeamName, out[1].Name)
}
