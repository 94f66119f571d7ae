// Package board holds the in-memory walk board: dogs, groups, volunteers and
// teams, the pure mutations over them and the store that applies those
// mutations in call order.
package board

import (
	"errors"

	"walkboard/models"
)

var (
	ErrDogNotFound       = errors.New("dog not found")
	ErrDuplicateDog      = errors.New("dog already exists")
	ErrGroupNotFound     = errors.New("group not found")
	ErrVolunteerNotFound = errors.New("volunteer not found")
)

// State is one full snapshot of the board. Collections keep insertion order.
type State struct {
	Dogs           []models.Dog       `json:"dogs"`
	Groups         []models.WalkGroup `json:"groups"`
	Volunteers     []models.Volunteer `json:"volunteers"`
	Teams          []models.Team      `json:"teams"`
	Settings       models.Settings    `json:"settings"`
	SyncVersion    int64              `json:"syncVersion"`
	EditingGroupID string             `json:"editingGroupId,omitempty"`
}

// NewState returns an empty board for the given teams and settings.
func NewState(teams []models.Team, settings models.Settings) State {
	return State{
		Dogs:       []models.Dog{},
		Groups:     []models.WalkGroup{},
		Volunteers: []models.Volunteer{},
		Teams:      append([]models.Team(nil), teams...),
		Settings:   settings,
	}
}

// Clone returns a deep copy so pure mutations never alias the caller's slices.
func (s State) Clone() State {
	c := s
	c.Dogs = make([]models.Dog, len(s.Dogs))
	for i, d := range s.Dogs {
		c.Dogs[i] = d.Clone()
	}
	c.Groups = append([]models.WalkGroup{}, s.Groups...)
	c.Volunteers = append([]models.Volunteer{}, s.Volunteers...)
	c.Teams = append([]models.Team{}, s.Teams...)
	return c
}

func (s State) dogIndex(id string) int {
	for i := range s.Dogs {
		if s.Dogs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) groupIndex(id string) int {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) volunteerIndex(id string) int {
	for i := range s.Volunteers {
		if s.Volunteers[i].ID == id {
			return i
		}
	}
	return -1
}

// Dog looks a dog up by id.
func (s State) Dog(id string) (models.Dog, bool) {
	if i := s.dogIndex(id); i >= 0 {
		return s.Dogs[i], true
	}
	return models.Dog{}, false
}

// Group looks a group up by id.
func (s State) Group(id string) (models.WalkGroup, bool) {
	if i := s.groupIndex(id); i >= 0 {
		return s.Groups[i], true
	}
	return models.WalkGroup{}, false
}

// Volunteer looks a volunteer up by id.
func (s State) Volunteer(id string) (models.Volunteer, bool) {
	if i := s.volunteerIndex(id); i >= 0 {
		return s.Volunteers[i], true
	}
	return models.Volunteer{}, false
}

// TeamGroups returns the team's groups with the given status, in board order.
func (s State) TeamGroups(teamID string, status models.GroupStatus) []models.WalkGroup {
	var out []models.WalkGroup
	for _, g := range s.Groups {
		if g.TeamID == teamID && g.Status == status {
			out = append(out, g)
		}
	}
	return out
}
