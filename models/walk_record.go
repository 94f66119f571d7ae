package models

import (
	"time"

	"gorm.io/gorm"
)

// WalkRecord keeps a finished walk after its group has left the board
type WalkRecord struct {
	gorm.Model
	GroupID       string      `gorm:"index;not null" json:"group_id"`
	TeamID        string      `gorm:"index" json:"team_id"`
	VolunteerID   string      `gorm:"index" json:"volunteer_id"`
	VolunteerName string      `json:"volunteer_name"`
	Status        GroupStatus `gorm:"default:'completed'" json:"status"`
	StartTime     string      `json:"start_time"`
	EndTime       string      `json:"end_time"`
	DogIDs        string      `json:"dog_ids"` // space separated, same as the wire format
	FinishedAt    time.Time   `gorm:"index" json:"finished_at"`
	AutoFinished  bool        `gorm:"default:false" json:"auto_finished"`
}

// Preference stores per-volunteer UI choices that never leave this service
type Preference struct {
	gorm.Model
	VolunteerID string `gorm:"uniqueIndex;not null" json:"volunteer_id"`
	Theme       string `gorm:"default:'dark'" json:"theme"`
}
