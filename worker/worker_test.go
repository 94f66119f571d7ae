package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"walkboard/board"
	"walkboard/models"
)

type fakeFetcher struct {
	mu    sync.Mutex
	state models.RemoteState
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (models.RemoteState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.state, f.err
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func remoteAt(version string, dogs ...models.Dog) models.RemoteState {
	return models.RemoteState{
		Dogs:     dogs,
		Settings: []models.Setting{{Key: models.VersionKey("team_1"), Value: version}},
	}
}

func newBoard(version int64) *board.Store {
	s := board.NewState(nil, models.Settings{WalkDuration: 30, CurrentTeamID: "team_1"})
	s.SyncVersion = version
	return board.NewStore(s)
}

func TestCheckForUpdates_OnlyNewerVersions(t *testing.T) {
	t.Parallel()

	store := newBoard(5)
	f := &fakeFetcher{state: remoteAt("5", models.Dog{ID: "1", Name: "Rex"})}
	sw := NewSyncWorker(f, store, 0, nil)

	if sw.CheckForUpdates(context.Background()) {
		t.Error("applied a pull at the same version")
	}
	if len(store.Snapshot().Dogs) != 0 {
		t.Error("board replaced without a newer version")
	}

	f.state = remoteAt("6", models.Dog{ID: "1", Name: "Rex"})
	if !sw.CheckForUpdates(context.Background()) {
		t.Fatal("newer version ignored")
	}
	if got := store.Snapshot(); len(got.Dogs) != 1 || got.SyncVersion != 6 {
		t.Errorf("board = %+v", got)
	}
	if f.calls != 2 {
		t.Errorf("fetch calls = %d, want one per check", f.calls)
	}
}

func TestRefresh_FailureKeepsBoardAndSetsBanner(t *testing.T) {
	t.Parallel()

	store := newBoard(0)
	store.AddDog(models.Dog{ID: "1", Name: "Rex"})
	f := &fakeFetcher{err: errors.New("remote unreachable")}
	sw := NewSyncWorker(f, store, 0, nil)

	if err := sw.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if store.SyncError() == "" {
		t.Error("sync error not recorded")
	}
	if len(store.Snapshot().Dogs) != 1 {
		t.Error("failed pull touched the board")
	}

	f.err = nil
	f.state = remoteAt("0")
	if err := sw.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if store.SyncError() != "" {
		t.Error("banner not cleared by a good pull")
	}
}

func TestPauseBelongsToSession(t *testing.T) {
	t.Parallel()

	sw := NewSyncWorker(&fakeFetcher{}, newBoard(0), time.Minute, nil)
	sw.Pause("tab-a")
	sw.Pause("tab-a")
	sw.Pause("tab-b")

	sw.Resume("tab-c")
	sw.Resume("tab-a")
	if !sw.Paused() {
		t.Fatal("another session released tab-b's pause")
	}
	select {
	case <-sw.kick:
		t.Error("pull requested while a pause is still held")
	default:
	}

	sw.Resume("tab-b")
	if sw.Paused() {
		t.Error("still paused")
	}
	select {
	case <-sw.kick:
	default:
		t.Error("last Resume did not request a pull")
	}
}

func TestPauseLeaseLapses(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 11, 10, 0, 0, 0, time.UTC)
	sw := NewSyncWorker(&fakeFetcher{}, newBoard(0), time.Minute, nil)
	sw.now = func() time.Time { return now }

	sw.Pause("gone")
	now = now.Add(90 * time.Second)
	if !sw.Paused() {
		t.Fatal("lease lapsed before its TTL")
	}
	sw.Pause("gone")
	now = now.Add(90 * time.Second)
	if !sw.Paused() {
		t.Fatal("renewed lease lapsed early")
	}
	now = now.Add(31 * time.Second)
	if sw.Paused() {
		t.Error("abandoned pause still holds after its lease")
	}
	select {
	case <-sw.kick:
	default:
		t.Error("lapsed lease did not request a pull")
	}
}

func TestStart_PollsAgainAfterAbandonedPause(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{state: remoteAt("0")}
	sw := NewSyncWorker(f, newBoard(0), 10*time.Millisecond, nil)
	sw.Pause("closed-tab")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	sw.Start(ctx)

	if got := f.count(); got < 5 {
		t.Errorf("fetches = %d, polling never came back after the lease ran out", got)
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	s := board.NewState(nil, models.Settings{WalkDuration: 30, CurrentTeamID: "team_1"})
	gid := "g1"
	s.Dogs = []models.Dog{{ID: "1", Name: "Rex", Health: models.HealthOK, TeamID: "team_1", GroupID: &gid}}
	s.Groups = []models.WalkGroup{
		{ID: "g1", TeamID: "team_1", Status: models.GroupActive, StartTime: "23:40", EndTime: "00:10"},
		{ID: "g2", TeamID: "team_1", Status: models.GroupActive, StartTime: "00:05", EndTime: "00:35"},
	}
	store := board.NewStore(s, board.WithClock(clockAt(0, 15)))

	sweeper := NewWalkSweeper(store, 0, nil)
	if n := sweeper.Sweep(); n != 1 {
		t.Errorf("finished = %d, want 1", n)
	}
	got := store.Snapshot()
	if len(got.Groups) != 1 || got.Groups[0].ID != "g2" {
		t.Errorf("groups = %+v", got.Groups)
	}
	if got.Dogs[0].WalksToday != 1 {
		t.Errorf("dog = %+v", got.Dogs[0])
	}
	if n := sweeper.Sweep(); n != 0 {
		t.Errorf("second sweep finished %d", n)
	}
}

func clockAt(hour, minute int) func() time.Time {
	t := time.Date(2024, 5, 11, hour, minute, 0, 0, time.UTC)
	return func() time.Time { return t }
}
