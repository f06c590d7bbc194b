package models

import "time"

type TeamStatus string

const (
	TeamStatusPending  TeamStatus = "pending"
	TeamStatusApproved TeamStatus = "approved"
	TeamStatusRejected TeamStatus = "rejected"
)

// Team is a registered squad. Only approved teams take part in brackets and
// eligibility lists; pending teams sit in the registration review queue.
type Team struct {
	ID           string     `json:"id" db:"id"`
	TournamentID string     `json:"tournament_id" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	Status       TeamStatus `json:"status" db:"status"`
	Group        *string    `json:"group,omitempty" db:"group_name"`
	ContactName  *string    `json:"contact_name,omitempty" db:"contact_name"`
	ContactEmail *string    `json:"contact_email,omitempty" db:"contact_email"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// WildcardTeamName is the synthetic entrant offered alongside real teams when
// filling a slot, used for byes and unknown opponents.
const WildcardTeamName = "Wildcard"

// WildcardTeam builds the pseudo-team appended to every eligibility roster.
func WildcardTeam() Team {
	return Team{ID: "wildcard", Name: WildcardTeamName, Status: TeamStatusApproved}
}
