package board

import (
	"time"

	"walkboard/models"
)

func strPtr(s string) *string { return &s }

func dog(id, name string) models.Dog {
	return models.Dog{
		ID:         id,
		Name:       name,
		Health:     models.HealthOK,
		Complexity: models.ComplexityGreen,
		Pairs:      []string{},
		Conflicts:  []string{},
		TeamID:     "team_1",
	}
}

func testState(dogs ...models.Dog) State {
	s := NewState([]models.Team{{ID: "team_1", Name: "Shelter"}}, models.Settings{
		WalkDuration:   30,
		AutoAddFriends: true,
		CurrentTeamID:  "team_1",
	})
	s.Dogs = append(s.Dogs, dogs...)
	return s
}

func withGroup(s State, id string, status models.GroupStatus) State {
	s.Groups = append(s.Groups, models.WalkGroup{ID: id, TeamID: "team_1", VolunteerName: "Anna", Status: status})
	return s
}

func inGroup(d models.Dog, groupID string) models.Dog {
	d.GroupID = strPtr(groupID)
	return d
}

type recordingPusher struct {
	actions []models.SyncAction
}

func (p *recordingPusher) Push(a models.SyncAction) { p.actions = append(p.actions, a) }

func (p *recordingPusher) names() []string {
	out := make([]string, 0, len(p.actions))
	for _, a := range p.actions {
		out = append(out, a.Action)
	}
	return out
}

type recordingRecorder struct {
	walks []FinishedWalk
}

func (r *recordingRecorder) RecordWalk(w FinishedWalk) { r.walks = append(r.walks, w) }

func fixedClock(hour, minute int) func() time.Time {
	t := time.Date(2024, 5, 10, hour, minute, 0, 0, time.UTC)
	return func() time.Time { return t }
}
