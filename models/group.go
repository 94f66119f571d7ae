package models

// GroupStatus is the lifecycle state of a walk group.
type GroupStatus string

const (
	GroupForming   GroupStatus = "forming"
	GroupActive    GroupStatus = "active"
	GroupCompleted GroupStatus = "completed" // only ever seen on walk records
)

// WalkGroup represents dogs walked together by one volunteer
type WalkGroup struct {
	ID              string      `json:"id"`
	TeamID          string      `json:"teamId"`
	VolunteerName   string      `json:"volunteerName"`
	VolunteerID     string      `json:"volunteerId,omitempty"`
	Status          GroupStatus `json:"status"`
	StartTime       string      `json:"startTime,omitempty"` // HH:MM, no date
	EndTime         string      `json:"endTime,omitempty"`   // HH:MM, no date
	DurationMinutes int         `json:"durationMinutes"`
}

// IssueType is the severity of a validation issue.
type IssueType string

const (
	IssueCritical IssueType = "critical"
	IssueWarning  IssueType = "warning"
	IssueInfo     IssueType = "info"
)

// ValidationIssue is an advisory finding about a group's composition.
type ValidationIssue struct {
	Type    IssueType `json:"type"`
	Message string    `json:"message"`
}
