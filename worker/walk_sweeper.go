package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Finisher is the part of the board store the sweeper drives.
type Finisher interface {
	DueGroups() []string
	AutoFinish(groupID string) ([]string, error)
}

// WalkSweeper finishes walks whose time ran out.
type WalkSweeper struct {
	Board    Finisher
	Interval time.Duration
	Logger   *logrus.Entry
}

func NewWalkSweeper(board Finisher, interval time.Duration, logger *logrus.Entry) *WalkSweeper {
	if logger == nil {
		logger = logrus.WithField("component", "sweeper")
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &WalkSweeper{Board: board, Interval: interval, Logger: logger}
}

func (ws *WalkSweeper) Start(ctx context.Context) {
	ws.Logger.Info("Walk sweeper started")

	ticker := time.NewTicker(ws.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ws.Logger.Info("Walk sweeper shutting down...")
			return
		case <-ticker.C:
			ws.Sweep()
		}
	}
}

// Sweep finishes every due group and returns how many it finished.
func (ws *WalkSweeper) Sweep() int {
	finished := 0
	for _, id := range ws.Board.DueGroups() {
		dogIDs, err := ws.Board.AutoFinish(id)
		if err != nil {
			// someone finished or deleted it in between
			ws.Logger.WithError(err).WithField("group_id", id).Debug("Auto-finish skipped")
			continue
		}
		ws.Logger.WithFields(logrus.Fields{"group_id": id, "dogs": len(dogIDs)}).Info("Walk time is over, finishing")
		finished++
	}
	return finished
}
