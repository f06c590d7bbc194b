package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
)

// Match is one fixture of a tournament. RoundLabel is the join key between a
// match and a bracket slot: bracket matches carry a catalog label ("QF1",
// "SF2", ...), group-stage matches carry a group label ("Group A - Round 1").
type Match struct {
	ID           string      `json:"id" db:"id"`
	TournamentID string      `json:"tournament_id" db:"tournament_id"`
	RoundLabel   string      `json:"round_label" db:"round_label"`
	TeamA        TeamRef     `json:"team_a" db:"-"`
	TeamB        TeamRef     `json:"team_b" db:"-"`
	ScoreA       int         `json:"score_a" db:"score_a"`
	ScoreB       int         `json:"score_b" db:"score_b"`
	Winner       *string     `json:"winner,omitempty" db:"winner"`
	Status       MatchStatus `json:"status" db:"status"`
	Venue        *string     `json:"venue,omitempty" db:"venue"`
	KickoffTime  *time.Time  `json:"kickoff_time,omitempty" db:"kickoff_time"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// HasWinner reports whether the match is decided. A decided match is terminal:
// its score fields are authoritative for everything downstream.
func (m *Match) HasWinner() bool {
	return m.Winner != nil && *m.Winner != ""
}

// WinnerName resolves the stored winner value to a team name. The value is
// either the side marker "A"/"B" or a team name written out directly.
func (m *Match) WinnerName() string {
	if m.Winner == nil {
		return ""
	}
	switch *m.Winner {
	case "A":
		return m.TeamA.DisplayName()
	case "B":
		return m.TeamB.DisplayName()
	default:
		return *m.Winner
	}
}

// IsDraw reports a finished match where the recorded winner identifies
// neither side.
func (m *Match) IsDraw() bool {
	if m.Status != MatchStatusFinished {
		return false
	}
	if !m.HasWinner() {
		return true
	}
	name := m.WinnerName()
	return name != m.TeamA.DisplayName() && name != m.TeamB.DisplayName()
}
