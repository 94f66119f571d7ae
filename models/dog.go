package models

import "slices"

// HealthStatus describes whether a dog can be walked at all.
type HealthStatus string

const (
	HealthOK          HealthStatus = "OK"
	HealthInTreatment HealthStatus = "InTreatment"
	HealthNoWalk      HealthStatus = "NoWalk"
)

// Complexity is the behavioural risk tier, red being dangerous.
type Complexity string

const (
	ComplexityGreen  Complexity = "green"
	ComplexityYellow Complexity = "yellow"
	ComplexityOrange Complexity = "orange"
	ComplexityRed    Complexity = "red"
)

// Dog represents a shelter dog on the walk board
type Dog struct {
	ID     string  `json:"id"`
	Name   string  `json:"name" validate:"required"`
	Age    float64 `json:"age" validate:"gte=0"`
	Weight float64 `json:"weight" validate:"gte=0"`
	Row    string  `json:"row,omitempty"`   // aviary, used for sorting only
	Notes  string  `json:"notes,omitempty"` // free text

	Health     HealthStatus `json:"health" validate:"oneof=OK InTreatment NoWalk"`
	Complexity Complexity   `json:"complexity" validate:"oneof=green yellow orange red"`

	// Relations, kept symmetric and disjoint by the board
	Pairs     []string `json:"pairs"`
	Conflicts []string `json:"conflicts"`

	TeamID       string  `json:"teamId"`
	WalksToday   int     `json:"walksToday" validate:"gte=0"`
	LastWalkTime string  `json:"lastWalkTime,omitempty"` // HH:MM
	GroupID      *string `json:"groupId"`
	IsHidden     bool    `json:"isHidden"`
}

// InGroup reports whether the dog is assigned to the given group.
func (d Dog) InGroup(groupID string) bool {
	return d.GroupID != nil && *d.GroupID == groupID
}

// Assigned reports whether the dog sits in any group.
func (d Dog) Assigned() bool {
	return d.GroupID != nil && *d.GroupID != ""
}

// Available reports whether the dog may be offered for a walk at all.
func (d Dog) Available() bool {
	return d.Health == HealthOK && d.Complexity != ComplexityRed
}

// Clone returns a deep copy of the dog.
func (d Dog) Clone() Dog {
	c := d
	c.Pairs = slices.Clone(d.Pairs)
	c.Conflicts = slices.Clone(d.Conflicts)
	if d.GroupID != nil {
		gid := *d.GroupID
		c.GroupID = &gid
	}
	return c
}

// DogPatch carries a partial dog update. Nil fields are left untouched.
type DogPatch struct {
	Name         *string       `json:"name,omitempty" validate:"omitempty,min=1"`
	Age          *float64      `json:"age,omitempty" validate:"omitempty,gte=0"`
	Weight       *float64      `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Row          *string       `json:"row,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
	Health       *HealthStatus `json:"health,omitempty" validate:"omitempty,oneof=OK InTreatment NoWalk"`
	Complexity   *Complexity   `json:"complexity,omitempty" validate:"omitempty,oneof=green yellow orange red"`
	Pairs        *[]string     `json:"pairs,omitempty"`
	Conflicts    *[]string     `json:"conflicts,omitempty"`
	TeamID       *string       `json:"teamId,omitempty"`
	WalksToday   *int          `json:"walksToday,omitempty" validate:"omitempty,gte=0"`
	LastWalkTime *string       `json:"lastWalkTime,omitempty"`
	IsHidden     *bool         `json:"isHidden,omitempty"`
}

// Apply merges every non-nil field of the patch into the dog,
// except the relation lists which the board maintains itself.
func (p DogPatch) Apply(d Dog) Dog {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Age != nil {
		d.Age = *p.Age
	}
	if p.Weight != nil {
		d.Weight = *p.Weight
	}
	if p.Row != nil {
		d.Row = *p.Row
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.Health != nil {
		d.Health = *p.Health
	}
	if p.Complexity != nil {
		d.Complexity = *p.Complexity
	}
	if p.TeamID != nil {
		d.TeamID = *p.TeamID
	}
	if p.WalksToday != nil {
		d.WalksToday = *p.WalksToday
	}
	if p.LastWalkTime != nil {
		d.LastWalkTime = *p.LastWalkTime
	}
	if p.IsHidden != nil {
		d.IsHidden = *p.IsHidden
	}
	return d
}

// Updates renders the scalar part of the patch as a wire update map.
func (p DogPatch) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Age != nil {
		updates["age"] = *p.Age
	}
	if p.Weight != nil {
		updates["weight"] = *p.Weight
	}
	if p.Row != nil {
		updates["row"] = *p.Row
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.Health != nil {
		updates["health"] = *p.Health
	}
	if p.Complexity != nil {
		updates["complexity"] = *p.Complexity
	}
	if p.TeamID != nil {
		updates["teamId"] = *p.TeamID
	}
	if p.WalksToday != nil {
		updates["walksToday"] = *p.WalksToday
	}
	if p.LastWalkTime != nil {
		updates["lastWalkTime"] = *p.LastWalkTime
	}
	if p.IsHidden != nil {
		updates["isHidden"] = *p.IsHidden
	}
	return updates
}
