package models

import (
	"encoding/json"
	"fmt"
)

// TeamRef points at a team from a match side. Upstream data sometimes carries
// only the team name and sometimes the full team object; both collapse into
// this one type so callers never type-switch. For slot filling only the name
// matters.
type TeamRef struct {
	Name string
	Team *Team
}

func NameRef(name string) TeamRef {
	return TeamRef{Name: name}
}

func ResolvedRef(team *Team) TeamRef {
	if team == nil {
		return TeamRef{}
	}
	return TeamRef{Name: team.Name, Team: team}
}

// DisplayName is the single accessor the rest of the system uses to render or
// compare a side.
func (r TeamRef) DisplayName() string {
	if r.Team != nil && r.Team.Name != "" {
		return r.Team.Name
	}
	return r.Name
}

func (r TeamRef) IsEmpty() bool {
	return r.DisplayName() == ""
}

func (r TeamRef) MarshalJSON() ([]byte, error) {
	if r.Team != nil {
		return json.Marshal(r.Team)
	}
	return json.Marshal(r.Name)
}

func (r *TeamRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = TeamRef{Name: name}
		return nil
	}
	var team Team
	if err := json.Unmarshal(data, &team); err == nil {
		*r = ResolvedRef(&team)
		return nil
	}
	return fmt.Errorf("team ref must be a team name or a team object, got %s", string(data))
}
