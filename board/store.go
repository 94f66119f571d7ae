package board

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"walkboard/models"
)

// Pusher receives outbound actions. Push must not block. Delivery is
// at-most-once with no acknowledgement; the remote may lag behind the local
// board until the next pull.
type Pusher interface {
	Push(action models.SyncAction)
}

// FinishedWalk describes a group that just left the board.
type FinishedWalk struct {
	Group        models.WalkGroup
	DogIDs       []string
	FinishedAt   time.Time
	AutoFinished bool
}

// WalkRecorder keeps finished walks after their group is gone.
type WalkRecorder interface {
	RecordWalk(walk FinishedWalk)
}

// DropResult tells the caller which dogs a drop moved and which partners it
// could still offer.
type DropResult struct {
	Moved     []string     `json:"moved"`
	Suggested []models.Dog `json:"suggested,omitempty"`
}

// Store owns the live board. Mutations run one at a time in call order; each
// effective one bumps SyncVersion exactly once and then hands its actions to
// the pusher.
type Store struct {
	mu       sync.Mutex
	state    State
	syncErr  string
	subs     map[int]chan int64
	nextSub  int
	pusher   Pusher
	recorder WalkRecorder
	now      func() time.Time
	logger   *logrus.Entry
}

// Option configures a Store.
type Option func(*Store)

func WithPusher(p Pusher) Option            { return func(s *Store) { s.pusher = p } }
func WithRecorder(r WalkRecorder) Option    { return func(s *Store) { s.recorder = r } }
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }
func WithLogger(l *logrus.Entry) Option     { return func(s *Store) { s.logger = l } }

// NewStore wraps an initial board.
func NewStore(initial State, opts ...Option) *Store {
	s := &Store{
		state:  initial.Clone(),
		subs:   map[int]chan int64{},
		now:    time.Now,
		logger: logrus.WithField("component", "board"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// commit installs next and, when bump is set and something changed, moves the
// version forward. Pushers must not block: actions are handed over under the
// lock so the outbound order matches the mutation order.
func (s *Store) commit(next State, actions []models.SyncAction, bump bool) {
	if bump && len(actions) > 0 {
		next.SyncVersion = s.state.SyncVersion + 1
	}
	s.state = next
	for _, ch := range s.subs {
		select {
		case ch <- s.state.SyncVersion:
		default:
		}
	}
	if s.pusher == nil {
		return
	}
	for _, a := range actions {
		s.pusher.Push(a)
	}
}

// Snapshot returns a private copy of the board.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Version returns the local sync version.
func (s *Store) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SyncVersion
}

// Settings returns the current board settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// Subscribe delivers the version after every change. Slow readers miss
// intermediate versions, never the channel. Call cancel when done.
func (s *Store) Subscribe() (<-chan int64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan int64, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Volunteer looks a volunteer up on the live board.
func (s *Store) Volunteer(id string) (models.Volunteer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Volunteer(id)
}

func (s *Store) CreateGroup(volunteerName, volunteerID string) models.WalkGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, g, actions := CreateGroup(s.state, volunteerName, volunteerID, s.now())
	s.commit(next, actions, true)
	return g
}

// MoveDogs assigns dogs to a group, or to the pool when target is nil.
func (s *Store) MoveDogs(dogIDs []string, target *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, actions, err := MoveDogs(s.state, dogIDs, target)
	if err != nil {
		return err
	}
	s.commit(next, actions, true)
	return nil
}

func (s *Store) StartWalk(groupID string) (models.WalkGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, g, actions, err := StartWalk(s.state, groupID, s.now())
	if err != nil {
		return models.WalkGroup{}, err
	}
	s.commit(next, actions, true)
	return g, nil
}

// StartWalkChecked validates the group and starts it under one lock. When the
// group has issues and confirmed is false nothing changes and the issues are
// returned for the caller to show.
func (s *Store) StartWalkChecked(groupID string, confirmed bool) (models.WalkGroup, []models.ValidationIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.groupIndex(groupID) < 0 {
		return models.WalkGroup{}, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	issues := ValidateGroup(s.state, groupID)
	if len(issues) > 0 && !confirmed {
		g, _ := s.state.Group(groupID)
		return g, issues, nil
	}
	next, g, actions, err := StartWalk(s.state, groupID, s.now())
	if err != nil {
		return models.WalkGroup{}, nil, err
	}
	s.commit(next, actions, true)
	return g, issues, nil
}

// FinishWalk ends a walk on request of a volunteer.
func (s *Store) FinishWalk(groupID string) ([]string, error) {
	return s.finish(groupID, false)
}

// AutoFinish ends a walk whose time ran out.
func (s *Store) AutoFinish(groupID string) ([]string, error) {
	return s.finish(groupID, true)
}

func (s *Store) finish(groupID string, auto bool) ([]string, error) {
	s.mu.Lock()
	now := s.now()
	group, _ := s.state.Group(groupID)
	next, dogIDs, actions, err := FinishWalk(s.state, groupID, now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.commit(next, actions, true)
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.RecordWalk(FinishedWalk{Group: group, DogIDs: dogIDs, FinishedAt: now, AutoFinished: auto})
	}
	s.logger.WithFields(logrus.Fields{"group_id": groupID, "dogs": len(dogIDs), "auto": auto}).Info("Walk finished")
	return dogIDs, nil
}

func (s *Store) DeleteGroup(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, actions, err := DeleteGroup(s.state, groupID)
	if err != nil {
		return err
	}
	s.commit(next, actions, true)
	return nil
}

// SetEditingGroup marks the group open in an editor; "" clears it.
func (s *Store) SetEditingGroup(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if groupID != "" && s.state.groupIndex(groupID) < 0 {
		return ErrGroupNotFound
	}
	next := s.state.Clone()
	next.EditingGroupID = groupID
	s.commit(next, nil, false)
	return nil
}

func (s *Store) EditingGroup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.EditingGroupID
}

func (s *Store) UpdateGroupVolunteer(groupID, volunteerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state.Volunteer(volunteerID)
	if !ok {
		return ErrVolunteerNotFound
	}
	next, actions, err := UpdateGroupVolunteer(s.state, groupID, v)
	if err != nil {
		return err
	}
	s.commit(next, actions, true)
	return nil
}

// ValidateGroup runs the group validator against the live board.
func (s *Store) ValidateGroup(groupID string) ([]models.ValidationIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.groupIndex(groupID) < 0 {
		return nil, ErrGroupNotFound
	}
	return ValidateGroup(s.state, groupID), nil
}

// Drop reconciles a dog dropped on a group or on the pool. With auto-add on,
// available partners follow the dog; otherwise they are returned as
// suggestions unless includePartners asks to take them along.
func (s *Store) Drop(dogID string, target *string, includePartners bool) (DropResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dog, ok := s.state.Dog(dogID)
	if !ok {
		return DropResult{}, ErrDogNotFound
	}
	if target == nil || *target == "" {
		if !dog.Assigned() {
			return DropResult{}, nil
		}
		next, actions, _ := MoveDogs(s.state, []string{dogID}, nil)
		s.commit(next, actions, true)
		return DropResult{Moved: []string{dogID}}, nil
	}
	if s.state.groupIndex(*target) < 0 {
		return DropResult{}, ErrGroupNotFound
	}

	partners := PartnersToMove(s.state, dogID, *target)
	partnerIDs := make([]string, 0, len(partners))
	for _, p := range partners {
		partnerIDs = append(partnerIDs, p.ID)
	}

	next, actions, _ := MoveDogs(s.state, []string{dogID}, target)
	s.commit(next, actions, true)
	result := DropResult{Moved: []string{dogID}}
	if len(partnerIDs) == 0 {
		return result, nil
	}
	if s.state.Settings.AutoAddFriends || includePartners {
		next, actions, _ = MoveDogs(s.state, partnerIDs, target)
		s.commit(next, actions, true)
		result.Moved = append(result.Moved, partnerIDs...)
		return result, nil
	}
	result.Suggested = partners
	return result, nil
}

func (s *Store) AddDog(dog models.Dog) (models.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, stored, actions, err := AddDog(s.state, dog)
	if err != nil {
		return models.Dog{}, err
	}
	s.commit(next, actions, true)
	return stored, nil
}

func (s *Store) UpdateDog(id string, patch models.DogPatch) (models.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, dog, actions, err := UpdateDog(s.state, id, patch)
	if err != nil {
		return models.Dog{}, err
	}
	s.commit(next, actions, true)
	return dog, nil
}

func (s *Store) ToggleDogVisibility(id string) (models.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, dog, actions, err := ToggleDogVisibility(s.state, id)
	if err != nil {
		return models.Dog{}, err
	}
	s.commit(next, actions, true)
	return dog, nil
}

// ResetWalks wipes the day. Callers must have the user's confirmation.
func (s *Store) ResetWalks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, actions := ResetWalks(s.state)
	s.commit(next, actions, true)
}

func (s *Store) AddVolunteer(v models.Volunteer) models.Volunteer {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, stored, actions := AddVolunteer(s.state, v, s.now())
	s.commit(next, actions, true)
	return stored
}

func (s *Store) UpdateVolunteer(id string, patch models.VolunteerPatch) (models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, v, actions, err := UpdateVolunteer(s.state, id, patch)
	if err != nil {
		return models.Volunteer{}, err
	}
	s.commit(next, actions, true)
	return v, nil
}

func (s *Store) DeactivateVolunteer(id string) (models.Volunteer, error) {
	inactive := models.VolunteerInactive
	return s.UpdateVolunteer(id, models.VolunteerPatch{Status: &inactive})
}

func (s *Store) SetWalkDuration(minutes int) {
	s.saveSetting(models.SettingWalkDuration, minutes, func(st *models.Settings) { st.WalkDuration = minutes })
}

func (s *Store) SetAutoAddFriends(enabled bool) {
	s.saveSetting(models.SettingAutoAddFriends, enabled, func(st *models.Settings) { st.AutoAddFriends = enabled })
}

func (s *Store) SetTeam(teamID string) {
	s.saveSetting(models.SettingCurrentTeamID, teamID, func(st *models.Settings) { st.CurrentTeamID = teamID })
}

func (s *Store) saveSetting(key string, value interface{}, apply func(*models.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	apply(&next.Settings)
	s.commit(next, []models.SyncAction{SaveSettingAction(key, value)}, false)
}

// LogAction sends a line to the remote journal. It does not touch the board.
func (s *Store) LogAction(message string, data interface{}) {
	encoded := ""
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			encoded = string(raw)
		}
	}
	if s.pusher != nil {
		s.pusher.Push(LogAction(message, encoded, s.now()))
	}
}

// MatchIdentity finds the volunteer behind an external identity: exact
// telegram id first, then case-insensitive username.
func (s *Store) MatchIdentity(telegramID, username string) (models.Volunteer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	telegramID = strings.TrimSpace(telegramID)
	if telegramID != "" {
		for _, v := range s.state.Volunteers {
			if strings.TrimSpace(v.TelegramID) == telegramID {
				return v, true
			}
		}
	}
	username = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
	if username != "" {
		for _, v := range s.state.Volunteers {
			candidate := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(v.TelegramUsername), "@"))
			if candidate == username {
				return v, true
			}
		}
	}
	return models.Volunteer{}, false
}

// DueGroups lists active groups whose walk has run its course, skipping the
// group under edit.
func (s *Store) DueGroups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var due []string
	for _, g := range s.state.Groups {
		if g.Status != models.GroupActive || g.ID == s.state.EditingGroupID {
			continue
		}
		if walkDue(g, now) {
			due = append(due, g.ID)
		}
	}
	return due
}

func walkDue(g models.WalkGroup, now time.Time) bool {
	if planned, ok := plannedMinutes(g.StartTime, g.EndTime); ok {
		// a full-day walk ends where it started
		if planned == 0 && g.DurationMinutes > 0 {
			planned = g.DurationMinutes
		}
		elapsed, _ := ElapsedMinutes(g.StartTime, now)
		return elapsed >= planned
	}
	end, ok := ParseHHMM(g.EndTime)
	if !ok {
		return false
	}
	return now.Hour()*60+now.Minute() >= end
}

// RemoteVersion extracts the server counter for the board's current team.
func (s *Store) RemoteVersion(rs models.RemoteState) int64 {
	s.mu.Lock()
	team := s.state.Settings.CurrentTeamID
	s.mu.Unlock()
	raw, ok := rs.Setting(models.VersionKey(team))
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ApplyRemote replaces the board with a full pull. Whichever pull lands last
// wins; the local version never moves backwards.
func (s *Store) ApplyRemote(rs models.RemoteState) {
	remoteVersion := s.RemoteVersion(rs)

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	next.Dogs = make([]models.Dog, len(rs.Dogs))
	for i, d := range rs.Dogs {
		next.Dogs[i] = d.Clone()
	}
	next.Groups = next.Groups[:0]
	for _, g := range rs.Groups {
		if g.Status == models.GroupForming || g.Status == models.GroupActive {
			next.Groups = append(next.Groups, g)
		}
	}
	next.Volunteers = append([]models.Volunteer{}, rs.Volunteers...)
	for _, setting := range rs.Settings {
		switch setting.Key {
		case models.SettingWalkDuration:
			if n, err := strconv.Atoi(strings.TrimSpace(setting.Value)); err == nil && n > 0 {
				next.Settings.WalkDuration = n
			}
		case models.SettingAutoAddFriends:
			next.Settings.AutoAddFriends = strings.EqualFold(strings.TrimSpace(setting.Value), "true")
		case models.SettingCurrentTeamID:
			if setting.Value != "" {
				next.Settings.CurrentTeamID = setting.Value
			}
		}
	}
	if next.EditingGroupID != "" && next.groupIndex(next.EditingGroupID) < 0 {
		next.EditingGroupID = ""
	}
	if remoteVersion > next.SyncVersion {
		next.SyncVersion = remoteVersion
	}
	s.syncErr = ""
	s.commit(next, nil, false)
}

// SetSyncError records the last failed pull for the error banner.
func (s *Store) SetSyncError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.syncErr = ""
		return
	}
	s.syncErr = err.Error()
}

func (s *Store) SyncError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncErr
}
