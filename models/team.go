package models

// Team represents a shelter volunteer team
type Team struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	Location        string `yaml:"location" json:"location"`
	CoordinatorName string `yaml:"coordinator_name" json:"coordinatorName"`
	MembersCount    int    `yaml:"members_count" json:"membersCount"`
}
