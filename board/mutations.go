package board

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"walkboard/models"
)

// The functions in this file are pure: they take a snapshot, return the next
// snapshot plus the outbound actions, and never touch their input. An empty
// action list means nothing changed.

// CreateGroup appends a forming group for the current team.
func CreateGroup(s State, volunteerName, volunteerID string, now time.Time) (State, models.WalkGroup, []models.SyncAction) {
	next := s.Clone()
	id := "group_" + strconv.FormatInt(now.UnixMilli(), 10)
	for n := 1; next.groupIndex(id) >= 0; n++ {
		id = fmt.Sprintf("group_%d", now.UnixMilli()+int64(n))
	}
	g := models.WalkGroup{
		ID:            id,
		TeamID:        s.Settings.CurrentTeamID,
		VolunteerName: volunteerName,
		VolunteerID:   volunteerID,
		Status:        models.GroupForming,
	}
	next.Groups = append(next.Groups, g)
	return next, g, []models.SyncAction{action(ActionCreateGroup, g)}
}

// MoveDogs assigns the named dogs to target, or returns them to the pool when
// target is nil. Unknown dog ids and dogs already in place are skipped, so a
// move that changes nothing emits no action.
func MoveDogs(s State, dogIDs []string, target *string) (State, []models.SyncAction, error) {
	if target != nil && *target == "" {
		target = nil
	}
	if target != nil && s.groupIndex(*target) < 0 {
		return s, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, *target)
	}
	next := s.Clone()
	var actions []models.SyncAction
	for _, id := range dedupe(dogIDs, "") {
		i := next.dogIndex(id)
		if i < 0 || groupIDValue(next.Dogs[i].GroupID) == groupIDValue(target) {
			continue
		}
		if target == nil {
			next.Dogs[i].GroupID = nil
		} else {
			gid := *target
			next.Dogs[i].GroupID = &gid
		}
		actions = append(actions, updateDogAction(id, map[string]interface{}{"groupId": groupIDValue(next.Dogs[i].GroupID)}))
	}
	return next, actions, nil
}

// StartWalk activates a group for walkDuration minutes from now. Starting an
// active group changes nothing.
func StartWalk(s State, groupID string, now time.Time) (State, models.WalkGroup, []models.SyncAction, error) {
	i := s.groupIndex(groupID)
	if i < 0 {
		return s, models.WalkGroup{}, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	if s.Groups[i].Status == models.GroupActive {
		return s, s.Groups[i], nil, nil
	}
	next := s.Clone()
	g := &next.Groups[i]
	g.Status = models.GroupActive
	g.StartTime = HHMM(now)
	g.EndTime = AddMinutes(now, s.Settings.WalkDuration)
	g.DurationMinutes = s.Settings.WalkDuration
	return next, *g, []models.SyncAction{updateGroupAction(groupID, map[string]interface{}{
		"status":    g.Status,
		"startTime": g.StartTime,
		"endTime":   g.EndTime,
	})}, nil
}

// FinishWalk credits every dog in the group with a walk, returns them to the
// pool and removes the group.
func FinishWalk(s State, groupID string, now time.Time) (State, []string, []models.SyncAction, error) {
	if s.groupIndex(groupID) < 0 {
		return s, nil, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	next := s.Clone()
	endTime := HHMM(now)
	dogIDs := []string{}
	for i := range next.Dogs {
		d := &next.Dogs[i]
		if !d.InGroup(groupID) {
			continue
		}
		d.WalksToday++
		d.LastWalkTime = endTime
		d.GroupID = nil
		dogIDs = append(dogIDs, d.ID)
	}
	next.Groups = slices.DeleteFunc(next.Groups, func(g models.WalkGroup) bool { return g.ID == groupID })
	if next.EditingGroupID == groupID {
		next.EditingGroupID = ""
	}
	return next, dogIDs, []models.SyncAction{action(ActionFinishWalk, map[string]interface{}{
		"groupId": groupID,
		"dogIds":  dogIDs,
		"endTime": endTime,
	})}, nil
}

// DeleteGroup removes a group of any status and returns its dogs to the pool.
func DeleteGroup(s State, groupID string) (State, []models.SyncAction, error) {
	if s.groupIndex(groupID) < 0 {
		return s, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	next := s.Clone()
	next.Groups = slices.DeleteFunc(next.Groups, func(g models.WalkGroup) bool { return g.ID == groupID })
	for i := range next.Dogs {
		if next.Dogs[i].InGroup(groupID) {
			next.Dogs[i].GroupID = nil
		}
	}
	if next.EditingGroupID == groupID {
		next.EditingGroupID = ""
	}
	return next, []models.SyncAction{action(ActionDeleteGroup, map[string]interface{}{"id": groupID})}, nil
}

// UpdateGroupVolunteer hands a group over to another volunteer.
func UpdateGroupVolunteer(s State, groupID string, v models.Volunteer) (State, []models.SyncAction, error) {
	i := s.groupIndex(groupID)
	if i < 0 {
		return s, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	next := s.Clone()
	next.Groups[i].VolunteerName = v.Name
	next.Groups[i].VolunteerID = v.ID
	return next, []models.SyncAction{updateGroupAction(groupID, map[string]interface{}{
		"volunteerName": v.Name,
		"volunteerId":   v.ID,
	})}, nil
}

// AddDog inserts a new dog and mirrors its relations onto the referenced dogs.
// An empty id gets the next free numeric id.
func AddDog(s State, dog models.Dog) (State, models.Dog, []models.SyncAction, error) {
	if dog.ID == "" {
		dog.ID = NextDogID(s.Dogs)
	}
	if s.dogIndex(dog.ID) >= 0 {
		return s, models.Dog{}, nil, fmt.Errorf("%w: %s", ErrDuplicateDog, dog.ID)
	}
	if dog.TeamID == "" {
		dog.TeamID = s.Settings.CurrentTeamID
	}
	if dog.Health == "" {
		dog.Health = models.HealthOK
	}
	if dog.Complexity == "" {
		dog.Complexity = models.ComplexityGreen
	}
	wantPairs, wantConflicts := dog.Pairs, dog.Conflicts
	dog.Pairs, dog.Conflicts = []string{}, []string{}

	next := s.Clone()
	next.Dogs = append(next.Dogs, dog.Clone())
	touched := next.reconcileRelations(dog.ID, wantPairs, wantConflicts)

	stored, _ := next.Dog(dog.ID)
	actions := []models.SyncAction{action(ActionAddDog, dogRecord(stored))}
	actions = append(actions, partnerUpdates(next, dog.ID, touched)...)
	return next, stored, actions, nil
}

// UpdateDog merges a partial update into a dog. Relation lists in the patch
// replace the dog's lists; the difference is propagated to the other dogs.
func UpdateDog(s State, id string, patch models.DogPatch) (State, models.Dog, []models.SyncAction, error) {
	i := s.dogIndex(id)
	if i < 0 {
		return s, models.Dog{}, nil, fmt.Errorf("%w: %s", ErrDogNotFound, id)
	}
	next := s.Clone()
	next.Dogs[i] = patch.Apply(next.Dogs[i])

	updates := patch.Updates()
	var touched []string
	if patch.Pairs != nil || patch.Conflicts != nil {
		oldPairs, oldConflicts := s.Dogs[i].Pairs, s.Dogs[i].Conflicts
		wantPairs := slices.Clone(oldPairs)
		if patch.Pairs != nil {
			wantPairs = slices.Clone(*patch.Pairs)
		}
		wantConflicts := slices.Clone(oldConflicts)
		if patch.Conflicts != nil {
			wantConflicts = slices.Clone(*patch.Conflicts)
		}
		// the newly added side wins; when both sides add the same id, conflict wins
		addedPairs := added(oldPairs, wantPairs)
		addedConflicts := added(oldConflicts, wantConflicts)
		wantConflicts = slices.DeleteFunc(wantConflicts, func(v string) bool {
			return addedPairs[v] && !addedConflicts[v]
		})
		wantPairs = slices.DeleteFunc(wantPairs, func(v string) bool { return addedConflicts[v] })
		touched = next.reconcileRelations(id, wantPairs, wantConflicts)
		updates["pairs"] = JoinIDs(next.Dogs[i].Pairs)
		updates["conflicts"] = JoinIDs(next.Dogs[i].Conflicts)
	}

	actions := []models.SyncAction{updateDogAction(id, updates)}
	actions = append(actions, partnerUpdates(next, id, touched)...)
	return next, next.Dogs[i], actions, nil
}

func added(before, after []string) map[string]bool {
	out := map[string]bool{}
	for _, v := range after {
		if !slices.Contains(before, v) {
			out[v] = true
		}
	}
	return out
}

func partnerUpdates(s State, self string, touched []string) []models.SyncAction {
	var actions []models.SyncAction
	for _, other := range touched {
		if other == self {
			continue
		}
		if d, ok := s.Dog(other); ok {
			actions = append(actions, relationsUpdate(d))
		}
	}
	return actions
}

// ToggleDogVisibility archives or restores a dog.
func ToggleDogVisibility(s State, id string) (State, models.Dog, []models.SyncAction, error) {
	d, ok := s.Dog(id)
	if !ok {
		return s, models.Dog{}, nil, fmt.Errorf("%w: %s", ErrDogNotFound, id)
	}
	hidden := !d.IsHidden
	return UpdateDog(s, id, models.DogPatch{IsHidden: &hidden})
}

// ResetWalks starts a new day: walk counters and assignments are cleared and
// every group is dropped.
func ResetWalks(s State) (State, []models.SyncAction) {
	next := s.Clone()
	for i := range next.Dogs {
		next.Dogs[i].WalksToday = 0
		next.Dogs[i].LastWalkTime = ""
		next.Dogs[i].GroupID = nil
	}
	next.Groups = []models.WalkGroup{}
	next.EditingGroupID = ""
	return next, []models.SyncAction{action(ActionResetWalks, map[string]interface{}{})}
}

// AddVolunteer registers a volunteer in the current team.
func AddVolunteer(s State, v models.Volunteer, now time.Time) (State, models.Volunteer, []models.SyncAction) {
	if v.ID == "" {
		v.ID = "u" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	if v.TeamID == "" {
		v.TeamID = s.Settings.CurrentTeamID
	}
	if v.Role == "" {
		v.Role = models.RoleVolunteer
	}
	if v.Status == "" {
		v.Status = models.VolunteerActive
	}
	next := s.Clone()
	if i := next.volunteerIndex(v.ID); i >= 0 {
		next.Volunteers[i] = v
	} else {
		next.Volunteers = append(next.Volunteers, v)
	}
	return next, v, []models.SyncAction{action(ActionAddVolunteer, v)}
}

// UpdateVolunteer merges a partial volunteer update.
func UpdateVolunteer(s State, id string, patch models.VolunteerPatch) (State, models.Volunteer, []models.SyncAction, error) {
	i := s.volunteerIndex(id)
	if i < 0 {
		return s, models.Volunteer{}, nil, fmt.Errorf("%w: %s", ErrVolunteerNotFound, id)
	}
	next := s.Clone()
	next.Volunteers[i] = patch.Apply(next.Volunteers[i])
	return next, next.Volunteers[i], []models.SyncAction{action(ActionUpdateVolunteer, map[string]interface{}{
		"id":      id,
		"updates": patch.Updates(),
	})}, nil
}
