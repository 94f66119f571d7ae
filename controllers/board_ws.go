package controller

import (
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"walkboard/board"
)

type versionMessage struct {
	Version   int64  `json:"version"`
	SyncError string `json:"syncError,omitempty"`
}

// BoardStream pushes the board version to a websocket client after every
// change so it knows when to reload.
func BoardStream(store *board.Store, logger *logrus.Entry) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		updates, cancel := store.Subscribe()
		defer cancel()

		// the client only ever closes; reading detects that
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := c.WriteJSON(versionMessage{Version: store.Version(), SyncError: store.SyncError()}); err != nil {
			return
		}
		for {
			select {
			case <-closed:
				return
			case v := <-updates:
				if err := c.WriteJSON(versionMessage{Version: v, SyncError: store.SyncError()}); err != nil {
					logger.WithError(err).Debug("Board stream closed")
					return
				}
			}
		}
	}
}
