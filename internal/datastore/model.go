// model.go: persisted data model for service chamber state and history.
package datastore

import "time"

// Service holds the current authoritative chamber list for one service. The
// list is replaced in full on every recorded update, never merged. Chambers
// is a strict typed list; legacy string-encoded lists must be migrated at
// the persistence boundary, the core never type-sniffs.
type Service struct {
	ID        uint     `gorm:"primaryKey"`
	ServiceID string   `gorm:"uniqueIndex;not null"` // external service identifier
	Chambers  []string `gorm:"serializer:json"`      // current ordered raw chamber labels
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackingHistory is one append-only upload event for a service: which
// chambers were added and removed relative to the state immediately prior.
// Rows are never updated or deleted.
type TrackingHistory struct {
	ID        uint      `gorm:"primaryKey"`
	ServiceID string    `gorm:"index:idx_tracking_history_service;not null"`
	SourceRef string    // reference to the originating tracking artifact
	Kind      string    `gorm:"type:varchar(20)"` // "principal" or "complementary"
	Timestamp time.Time `gorm:"index"`
	Added     []string  `gorm:"serializer:json"`
	Removed   []string  `gorm:"serializer:json"`
}
