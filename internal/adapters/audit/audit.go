// Package audit persists a best-effort session event trail with
// gorm.io/gorm and gorm.io/driver/sqlite, grounded in the teacher's
// internal/core/services/audit_service.go and internal/adapters/storage/sqlite.go.
// This is explicitly not FilterState's own persistence: FilterState stays
// in-memory and is destroyed with the session (spec.md §5's Non-goals);
// Store is an external collaborator the driver writes to, the way the
// teacher's AuditService sits alongside NetworkService rather than inside
// its domain invariants.
package audit

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EventKind identifies the category of a recorded session event.
type EventKind string

const (
	EventBSSIDLocked    EventKind = "bssid_locked"
	EventSSIDRejected   EventKind = "ssid_rejected"
	EventFrameConverted EventKind = "frame_converted"
	EventAckBuilt       EventKind = "ack_built"
	EventSnapshot       EventKind = "snapshot"
)

// EventModel is the GORM-mapped row for a single session event.
type EventModel struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID string    `gorm:"index"`
	Kind      string    `gorm:"index"`
	Detail    string
	Timestamp time.Time
}

// Store is a GORM-backed session event log.
type Store struct {
	db *gorm.DB
}

// Open initializes (and migrates) the SQLite-backed audit store at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&EventModel{}); err != nil {
		return nil, err
	}
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA busy_timeout=5000;")
	return &Store{db: db}, nil
}

// Record appends a single session event.
func (s *Store) Record(sessionID string, kind EventKind, detail string) error {
	return s.db.Create(&EventModel{
		SessionID: sessionID,
		Kind:      string(kind),
		Detail:    detail,
		Timestamp: time.Now(),
	}).Error
}

// Highlights returns the most recent n events for sessionID as
// "kind: detail" strings, newest first - the feed a session report summarizes.
func (s *Store) Highlights(sessionID string, n int) ([]string, error) {
	var rows []EventModel
	if err := s.db.Where("session_id = ?", sessionID).
		Order("timestamp desc").
		Limit(n).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Kind + ": " + r.Detail
	}
	return out, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
