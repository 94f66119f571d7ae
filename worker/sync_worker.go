package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"walkboard/models"
)

// Fetcher pulls the full remote state.
type Fetcher interface {
	Fetch(ctx context.Context) (models.RemoteState, error)
}

// SyncTarget is the part of the board store the poller feeds.
type SyncTarget interface {
	Version() int64
	RemoteVersion(rs models.RemoteState) int64
	ApplyRemote(rs models.RemoteState)
	SetSyncError(err error)
}

// SyncWorker polls the remote sheet and replaces the local board when the
// server version moved past ours.
type SyncWorker struct {
	Fetcher  Fetcher
	Board    SyncTarget
	Interval time.Duration
	// LeaseTTL bounds how long one session's pause holds without renewal.
	LeaseTTL time.Duration
	Logger   *logrus.Entry

	mu     sync.Mutex
	leases map[string]time.Time
	kick   chan struct{}
	now    func() time.Time
}

func NewSyncWorker(fetcher Fetcher, board SyncTarget, interval time.Duration, logger *logrus.Entry) *SyncWorker {
	if logger == nil {
		logger = logrus.WithField("component", "sync")
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &SyncWorker{
		Fetcher:  fetcher,
		Board:    board,
		Interval: interval,
		LeaseTTL: 2 * interval,
		Logger:   logger,
		leases:   map[string]time.Time{},
		kick:     make(chan struct{}, 1),
		now:      time.Now,
	}
}

// Start loads the board once and then polls until ctx is done.
func (sw *SyncWorker) Start(ctx context.Context) {
	sw.Logger.WithField("interval", sw.Interval.String()).Info("Sync worker started")
	if err := sw.Refresh(ctx); err != nil {
		sw.Logger.WithError(err).Warn("Initial pull failed")
	}

	ticker := time.NewTicker(sw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sw.Logger.Info("Sync worker shutting down...")
			return
		case <-sw.kick:
			if err := sw.Refresh(ctx); err != nil {
				sw.Logger.WithError(err).Warn("Pull after resume failed")
			}
		case <-ticker.C:
			if sw.Paused() {
				continue
			}
			sw.CheckForUpdates(ctx)
		}
	}
}

// Pause suspends polling on behalf of one session, for example while it has
// an editor open or a drag in progress. The lease runs out after LeaseTTL;
// calling Pause again renews it.
func (sw *SyncWorker) Pause(session string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.leases[session] = sw.now().Add(sw.LeaseTTL)
}

// Resume releases the session's own pause. When no pause is left the board
// is pulled right away.
func (sw *SyncWorker) Resume(session string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if _, ok := sw.leases[session]; !ok {
		return
	}
	delete(sw.leases, session)
	if len(sw.leases) == 0 {
		sw.requestPull()
	}
}

// Paused reports whether any session still holds a live pause.
func (sw *SyncWorker) Paused() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.leases) == 0 {
		return false
	}
	now := sw.now()
	for session, expires := range sw.leases {
		if !now.Before(expires) {
			delete(sw.leases, session)
			sw.Logger.WithField("session_id", session).Info("Pause lease expired")
		}
	}
	if len(sw.leases) == 0 {
		sw.requestPull()
		return false
	}
	return true
}

// requestPull must be called with mu held.
func (sw *SyncWorker) requestPull() {
	select {
	case sw.kick <- struct{}{}:
	default:
	}
}

// CheckForUpdates pulls and applies the remote state only when its version is
// ahead. Background failures are logged; the banner is left to Refresh.
func (sw *SyncWorker) CheckForUpdates(ctx context.Context) bool {
	rs, err := sw.Fetcher.Fetch(ctx)
	if err != nil {
		sw.Logger.WithError(err).Debug("Background check failed")
		return false
	}
	remote, local := sw.Board.RemoteVersion(rs), sw.Board.Version()
	if remote <= local {
		return false
	}
	sw.Logger.WithFields(logrus.Fields{"remote": remote, "local": local}).Info("Found new version on server")
	sw.Board.ApplyRemote(rs)
	return true
}

// Refresh pulls and applies the remote state unconditionally. A failure is
// recorded on the board and leaves it untouched.
func (sw *SyncWorker) Refresh(ctx context.Context) error {
	rs, err := sw.Fetcher.Fetch(ctx)
	if err != nil {
		sw.Board.SetSyncError(err)
		return err
	}
	sw.Board.ApplyRemote(rs)
	return nil
}
