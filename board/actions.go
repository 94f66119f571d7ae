package board

import (
	"strings"
	"time"

	"walkboard/models"
)

// Outbound action names understood by the remote sheet.
const (
	ActionCreateGroup     = "createGroup"
	ActionUpdateGroup     = "updateGroup"
	ActionDeleteGroup     = "deleteGroup"
	ActionFinishWalk      = "finishWalk"
	ActionAddDog          = "addDog"
	ActionUpdateDog       = "updateDog"
	ActionResetWalks      = "resetWalks"
	ActionAddVolunteer    = "addVolunteer"
	ActionUpdateVolunteer = "updateVolunteer"
	ActionLog             = "log"
	ActionSaveSetting     = "saveSetting"
)

// JoinIDs renders a relation list the way the sheet stores it.
func JoinIDs(ids []string) string {
	return strings.Join(ids, " ")
}

func action(name string, payload interface{}) models.SyncAction {
	return models.SyncAction{Action: name, Payload: payload}
}

func groupIDValue(gid *string) string {
	if gid == nil {
		return ""
	}
	return *gid
}

func dogRecord(d models.Dog) map[string]interface{} {
	rec := map[string]interface{}{
		"id":         d.ID,
		"name":       d.Name,
		"age":        d.Age,
		"weight":     d.Weight,
		"row":        d.Row,
		"notes":      d.Notes,
		"health":     d.Health,
		"complexity": d.Complexity,
		"pairs":      JoinIDs(d.Pairs),
		"conflicts":  JoinIDs(d.Conflicts),
		"teamId":     d.TeamID,
		"walksToday": d.WalksToday,
		"groupId":    groupIDValue(d.GroupID),
		"isHidden":   d.IsHidden,
	}
	if d.LastWalkTime != "" {
		rec["lastWalkTime"] = d.LastWalkTime
	}
	return rec
}

func updateDogAction(id string, updates map[string]interface{}) models.SyncAction {
	return action(ActionUpdateDog, map[string]interface{}{"id": id, "updates": updates})
}

func relationsUpdate(d models.Dog) models.SyncAction {
	return updateDogAction(d.ID, map[string]interface{}{
		"pairs":     JoinIDs(d.Pairs),
		"conflicts": JoinIDs(d.Conflicts),
	})
}

func updateGroupAction(id string, updates map[string]interface{}) models.SyncAction {
	return action(ActionUpdateGroup, map[string]interface{}{"id": id, "updates": updates})
}

// LogAction builds a system log entry for the remote journal.
func LogAction(message, data string, now time.Time) models.SyncAction {
	return action(ActionLog, map[string]interface{}{
		"timestamp": now.Format("02.01.2006, 15:04:05"),
		"message":   message,
		"data":      data,
	})
}

// SaveSettingAction persists one board setting remotely.
func SaveSettingAction(key string, value interface{}) models.SyncAction {
	return action(ActionSaveSetting, map[string]interface{}{"key": key, "value": value})
}
