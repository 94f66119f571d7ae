package models

const (
	RoleVolunteer   = "volunteer"
	RoleCoordinator = "coordinator"

	VolunteerActive   = "active"
	VolunteerInactive = "inactive"

	ExperienceNovice      = "novice"
	ExperienceExperienced = "experienced"
)

// Volunteer represents a person who takes dogs out
type Volunteer struct {
	ID               string `json:"id"`
	Name             string `json:"name" validate:"required"`
	TelegramID       string `json:"telegramId,omitempty"`
	TelegramUsername string `json:"telegramUsername,omitempty"`
	Role             string `json:"role" validate:"oneof=volunteer coordinator"`
	Status           string `json:"status" validate:"oneof=active inactive"`
	Experience       string `json:"experience,omitempty" validate:"omitempty,oneof=novice experienced"`
	LastLogin        string `json:"lastLogin,omitempty"`
	TeamID           string `json:"teamId"`
}

// VolunteerPatch carries a partial volunteer update.
type VolunteerPatch struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1"`
	TelegramID       *string `json:"telegramId,omitempty"`
	TelegramUsername *string `json:"telegramUsername,omitempty"`
	Role             *string `json:"role,omitempty" validate:"omitempty,oneof=volunteer coordinator"`
	Status           *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Experience       *string `json:"experience,omitempty" validate:"omitempty,oneof=novice experienced"`
	TeamID           *string `json:"teamId,omitempty"`
}

// Apply merges the non-nil fields into v.
func (p VolunteerPatch) Apply(v Volunteer) Volunteer {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.TelegramID != nil {
		v.TelegramID = *p.TelegramID
	}
	if p.TelegramUsername != nil {
		v.TelegramUsername = *p.TelegramUsername
	}
	if p.Role != nil {
		v.Role = *p.Role
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.Experience != nil {
		v.Experience = *p.Experience
	}
	if p.TeamID != nil {
		v.TeamID = *p.TeamID
	}
	return v
}

// Updates renders the patch as a wire update map.
func (p VolunteerPatch) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.TelegramID != nil {
		updates["telegramId"] = *p.TelegramID
	}
	if p.TelegramUsername != nil {
		updates["telegramUsername"] = *p.TelegramUsername
	}
	if p.Role != nil {
		updates["role"] = *p.Role
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.Experience != nil {
		updates["experience"] = *p.Experience
	}
	if p.TeamID != nil {
		updates["teamId"] = *p.TeamID
	}
	return updates
}
