// Package storage keeps the data that never goes to the remote sheet: the
// finished-walk history and per-volunteer preferences.
package storage

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"walkboard/board"
	"walkboard/models"
)

var ErrNoDatabase = errors.New("history database is not configured")

// History records finished walks. A History without a database accepts
// records and drops them.
type History struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewHistory(db *gorm.DB) *History {
	return &History{DB: db, Logger: logrus.WithField("component", "history")}
}

// NewWalkRecord converts a finished walk into its stored form.
func NewWalkRecord(w board.FinishedWalk) models.WalkRecord {
	return models.WalkRecord{
		GroupID:       w.Group.ID,
		TeamID:        w.Group.TeamID,
		VolunteerID:   w.Group.VolunteerID,
		VolunteerName: w.Group.VolunteerName,
		Status:        models.GroupCompleted,
		StartTime:     w.Group.StartTime,
		EndTime:       board.HHMM(w.FinishedAt),
		DogIDs:        strings.Join(w.DogIDs, " "),
		FinishedAt:    w.FinishedAt,
		AutoFinished:  w.AutoFinished,
	}
}

// RecordWalk implements board.WalkRecorder. Failures are logged only; the walk
// is already finished on the board.
func (h *History) RecordWalk(w board.FinishedWalk) {
	if h == nil || h.DB == nil {
		return
	}
	rec := NewWalkRecord(w)
	if err := h.DB.Create(&rec).Error; err != nil {
		h.Logger.WithError(err).WithField("group_id", rec.GroupID).Error("Failed to record walk")
	}
}

// List returns the team's most recent walks, newest first.
func (h *History) List(teamID string, limit int) ([]models.WalkRecord, error) {
	if h == nil || h.DB == nil {
		return nil, ErrNoDatabase
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var records []models.WalkRecord
	q := h.DB.Order("finished_at DESC").Limit(limit)
	if teamID != "" {
		q = q.Where("team_id = ?", teamID)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ForDog returns the walks a dog took part in, newest first.
func (h *History) ForDog(dogID string, limit int) ([]models.WalkRecord, error) {
	if h == nil || h.DB == nil {
		return nil, ErrNoDatabase
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var records []models.WalkRecord
	err := h.DB.
		Where(`(' ' || dog_ids || ' ') LIKE ? ESCAPE '\'`, dogIDPattern(dogID)).
		Order("finished_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// dogIDPattern matches one id inside the space separated dog_ids column.
// LIKE wildcards in the id are matched literally.
func dogIDPattern(dogID string) string {
	return "% " + likeEscaper.Replace(dogID) + " %"
}
