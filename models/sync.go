package models

// Setting keys understood by the remote sheet.
const (
	SettingWalkDuration   = "walkDuration"
	SettingAutoAddFriends = "autoAddFriends"
	SettingCurrentTeamID  = "currentTeamId"
	settingVersionPrefix  = "db_version_"
)

// VersionKey returns the settings key holding the server version counter of a team.
func VersionKey(teamID string) string {
	return settingVersionPrefix + teamID
}

// Settings are the board-wide knobs shared through the remote sheet
type Settings struct {
	WalkDuration   int    `json:"walkDuration"`
	AutoAddFriends bool   `json:"autoAddFriends"`
	CurrentTeamID  string `json:"currentTeamId"`
}

// Setting is one key/value row of the remote settings sheet
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SyncAction is a one-way outbound event for the remote endpoint.
type SyncAction struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// RemoteState is a sanitized full pull of the authoritative remote state
type RemoteState struct {
	Dogs       []Dog       `json:"dogs"`
	Groups     []WalkGroup `json:"groups"`
	Volunteers []Volunteer `json:"volunteers"`
	Settings   []Setting   `json:"settings"`
}

// Setting looks up a raw setting value by key.
func (r RemoteState) Setting(key string) (string, bool) {
	for _, s := range r.Settings {
		if s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}
