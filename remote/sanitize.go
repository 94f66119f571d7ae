package remote

import (
	"strings"
	"time"

	"walkboard/models"
)

const defaultTeamID = "team_1"

// Spreadsheet spellings of the health column.
var healthAliases = map[string]models.HealthStatus{
	"ok":          models.HealthOK,
	"intreatment": models.HealthInTreatment,
	"лечение":     models.HealthInTreatment,
	"nowalk":      models.HealthNoWalk,
	"не гуляет":   models.HealthNoWalk,
}

type record = map[string]interface{}

// payload is the raw body of a pull.
type payload struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Dogs       []record `json:"dogs"`
	Groups     []record `json:"groups"`
	Volunteers []record `json:"volunteers"`
	Settings   []record `json:"settings"`
}

func sanitize(p payload, loc *time.Location) models.RemoteState {
	rs := models.RemoteState{
		Dogs:       make([]models.Dog, 0, len(p.Dogs)),
		Groups:     make([]models.WalkGroup, 0, len(p.Groups)),
		Volunteers: make([]models.Volunteer, 0, len(p.Volunteers)),
		Settings:   make([]models.Setting, 0, len(p.Settings)),
	}
	for _, r := range p.Dogs {
		if d, ok := sanitizeDog(r, loc); ok {
			rs.Dogs = append(rs.Dogs, d)
		}
	}
	for _, r := range p.Groups {
		if g, ok := sanitizeGroup(r, loc); ok {
			rs.Groups = append(rs.Groups, g)
		}
	}
	for _, r := range p.Volunteers {
		if v, ok := sanitizeVolunteer(r); ok {
			rs.Volunteers = append(rs.Volunteers, v)
		}
	}
	for _, r := range p.Settings {
		key := String(r["key"])
		if key == "" {
			continue
		}
		rs.Settings = append(rs.Settings, models.Setting{Key: key, Value: String(r["value"])})
	}
	return rs
}

func sanitizeDog(r record, loc *time.Location) (models.Dog, bool) {
	id := String(r["id"])
	if id == "" {
		return models.Dog{}, false
	}
	d := models.Dog{
		ID:         id,
		Name:       String(r["name"]),
		Age:        Float(r["age"]),
		Weight:     Float(r["weight"]),
		Row:        String(r["row"]),
		Notes:      String(r["notes"]),
		Health:     parseHealth(String(r["health"])),
		Complexity: parseComplexity(String(r["complexity"])),
		Pairs:      ParseList(r["pairs"]),
		Conflicts:  ParseList(r["conflicts"]),
		TeamID:     String(r["teamId"]),
		WalksToday: Int(r["walksToday"]),
		IsHidden:   Bool(r["isHidden"]),
	}
	if d.TeamID == "" {
		d.TeamID = defaultTeamID
	}
	if gid := String(r["groupId"]); gid != "" && gid != "null" {
		d.GroupID = &gid
	}
	if t, ok := ParseTime(r["lastWalkTime"], loc); ok {
		d.LastWalkTime = t
	}
	return d, true
}

func parseHealth(raw string) models.HealthStatus {
	if raw == "" {
		return models.HealthOK
	}
	if h, ok := healthAliases[strings.ToLower(raw)]; ok {
		return h
	}
	return models.HealthStatus(raw)
}

func parseComplexity(raw string) models.Complexity {
	switch c := models.Complexity(strings.ToLower(raw)); c {
	case models.ComplexityGreen, models.ComplexityYellow, models.ComplexityOrange, models.ComplexityRed:
		return c
	}
	return models.ComplexityGreen
}

// sanitizeGroup keeps only groups still on the board.
func sanitizeGroup(r record, loc *time.Location) (models.WalkGroup, bool) {
	id := String(r["id"])
	status := models.GroupStatus(String(r["status"]))
	if status == "" {
		status = models.GroupForming
	}
	if id == "" || (status != models.GroupForming && status != models.GroupActive) {
		return models.WalkGroup{}, false
	}
	g := models.WalkGroup{
		ID:              id,
		TeamID:          String(r["teamId"]),
		VolunteerName:   String(r["volunteerName"]),
		VolunteerID:     String(r["volunteerId"]),
		Status:          status,
		DurationMinutes: Int(r["durationMinutes"]),
	}
	if g.TeamID == "" {
		g.TeamID = defaultTeamID
	}
	g.StartTime, _ = ParseTime(r["startTime"], loc)
	g.EndTime, _ = ParseTime(r["endTime"], loc)
	return g, true
}

func sanitizeVolunteer(r record) (models.Volunteer, bool) {
	id := String(r["id"])
	if id == "" {
		return models.Volunteer{}, false
	}
	v := models.Volunteer{
		ID:               id,
		Name:             String(r["name"]),
		TelegramID:       String(r["telegramId"]),
		TelegramUsername: String(r["telegramUsername"]),
		Role:             String(r["role"]),
		Status:           String(r["status"]),
		Experience:       String(r["experience"]),
		LastLogin:        String(r["lastLogin"]),
		TeamID:           String(r["teamId"]),
	}
	if v.Role == "" {
		v.Role = models.RoleVolunteer
	}
	if v.Status == "" {
		v.Status = models.VolunteerActive
	}
	return v, true
}
