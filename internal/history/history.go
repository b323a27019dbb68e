// Package history persists what the user typed into the interactive and chat
// loops, backed by sqlite.
package history

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sahilm/fuzzy"
	"gorm.io/gorm"
)

// Kind separates the interactive and chat histories.
type Kind string

const (
	KindInteractive Kind = "interactive"
	KindChat        Kind = "chat"
)

// Entry is one recorded input line.
type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Kind   string `gorm:"index"`
	Input  string
	Action string
}

// Manager stores and queries input history.
type Manager struct {
	db *gorm.DB
}

// NewManager opens (and migrates) the history database at dbFilePath.
// ":memory:" gives tests an ephemeral database.
func NewManager(dbFilePath string) (*Manager, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	return &Manager{db: db}, nil
}

// Append records an input line with the action that consumed it.
func (m *Manager) Append(kind Kind, input string, action string) (*Entry, error) {
	entry := Entry{
		Kind:   string(kind),
		Input:  input,
		Action: action,
	}

	result := m.db.Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

// Recent returns up to limit entries of the given kind, oldest first.
func (m *Manager) Recent(kind Kind, limit int) ([]Entry, error) {
	var entries []Entry
	result := m.db.Where("kind = ?", string(kind)).
		Order("id desc").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	// Reverse into chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// searchCandidateLimit bounds how much history a fuzzy search scans.
const searchCandidateLimit = 500

// Search fuzzy-matches query against recent entries of the given kind and
// returns the matching inputs ranked best first.
func (m *Manager) Search(kind Kind, query string, limit int) ([]string, error) {
	var entries []Entry
	result := m.db.Where("kind = ?", string(kind)).
		Order("id desc").
		Limit(searchCandidateLimit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	inputs := make([]string, len(entries))
	for i, entry := range entries {
		inputs[i] = entry.Input
	}

	matches := fuzzy.Find(query, inputs)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]string, len(matches))
	for i, match := range matches {
		results[i] = inputs[match.Index]
	}
	return results, nil
}

// Clear deletes all entries of the given kind.
func (m *Manager) Clear(kind Kind) error {
	result := m.db.Where("kind = ?", string(kind)).Delete(&Entry{})
	return result.Error
}
