package storage

import (
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"walkboard/models"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

var ErrUnknownTheme = errors.New("unknown theme")

// Preferences stores UI choices per volunteer. Without a database they live
// in memory for the life of the process.
type Preferences struct {
	DB *gorm.DB

	mu     sync.RWMutex
	themes map[string]string
}

func NewPreferences(db *gorm.DB) *Preferences {
	return &Preferences{DB: db, themes: map[string]string{}}
}

// Theme returns the volunteer's theme, dark when nothing was saved.
func (p *Preferences) Theme(volunteerID string) (string, error) {
	if p.DB == nil {
		p.mu.RLock()
		defer p.mu.RUnlock()
		if theme, ok := p.themes[volunteerID]; ok {
			return theme, nil
		}
		return ThemeDark, nil
	}

	var pref models.Preference
	err := p.DB.Where("volunteer_id = ?", volunteerID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ThemeDark, nil
	}
	if err != nil {
		return "", err
	}
	return pref.Theme, nil
}

// SetTheme saves the volunteer's theme.
func (p *Preferences) SetTheme(volunteerID, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return ErrUnknownTheme
	}
	if p.DB == nil {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.themes[volunteerID] = theme
		return nil
	}

	pref := models.Preference{VolunteerID: volunteerID, Theme: theme}
	return p.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "volunteer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"theme", "updated_at"}),
	}).Create(&pref).Error
}

// ToggleTheme flips between dark and light and returns the new theme.
func (p *Preferences) ToggleTheme(volunteerID string) (string, error) {
	current, err := p.Theme(volunteerID)
	if err != nil {
		return "", err
	}
	next := ThemeLight
	if current == ThemeLight {
		next = ThemeDark
	}
	return next, p.SetTheme(volunteerID, next)
}
