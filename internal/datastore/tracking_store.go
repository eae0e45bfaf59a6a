// tracking_store.go: database operations for service chamber state and
// tracking history.
//
// The history table is append-only: entries are created here and never
// updated or deleted. The current chamber list is replaced in full on every
// recorded update, and both writes happen in one transaction so a crash
// cannot leave history and state disagreeing.
package datastore

import (
	"time"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/errors"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/tracking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetServiceChambers returns the current chamber list for a service. A
// service with no recorded state yet yields an empty list, not an error.
func (ds *DataStore) GetServiceChambers(serviceID string) ([]string, error) {
	if serviceID == "" {
		return nil, validationError("service id cannot be empty", "service_id", serviceID)
	}

	var svc Service
	err := ds.DB.Where("service_id = ?", serviceID).First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []string{}, nil
		}
		return nil, dbError(err, "get_service_chambers", errors.PriorityMedium,
			"service", serviceID)
	}
	return svc.Chambers, nil
}

// GetAllServiceChambers returns the full persisted corpus, ordered by
// service id for deterministic search output.
func (ds *DataStore) GetAllServiceChambers() ([]tracking.ServiceChambers, error) {
	var services []Service
	if err := ds.DB.Order("service_id").Find(&services).Error; err != nil {
		return nil, dbError(err, "get_all_service_chambers", errors.PriorityMedium)
	}

	corpus := make([]tracking.ServiceChambers, len(services))
	for i, svc := range services {
		corpus[i] = tracking.ServiceChambers{
			ServiceID: svc.ServiceID,
			Chambers:  svc.Chambers,
		}
	}
	return corpus, nil
}

// GetTrackingHistory returns a service's upload history, oldest first.
func (ds *DataStore) GetTrackingHistory(serviceID string) ([]tracking.HistoryEntry, error) {
	if serviceID == "" {
		return nil, validationError("service id cannot be empty", "service_id", serviceID)
	}

	var rows []TrackingHistory
	err := ds.DB.Where("service_id = ?", serviceID).
		Order("timestamp asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "get_tracking_history", errors.PriorityMedium,
			"service", serviceID)
	}

	history := make([]tracking.HistoryEntry, len(rows))
	for i, row := range rows {
		history[i] = tracking.HistoryEntry{
			SourceRef: row.SourceRef,
			Kind:      tracking.Kind(row.Kind),
			Timestamp: row.Timestamp,
			Added:     row.Added,
			Removed:   row.Removed,
		}
	}
	return history, nil
}

// RecordTrackingUpdate appends a history entry and replaces the service's
// current chamber list in one transaction. The new list is authoritative,
// not merged with the previous one.
func (ds *DataStore) RecordTrackingUpdate(serviceID string, chambers []string, entry *tracking.HistoryEntry) error {
	if serviceID == "" {
		return validationError("service id cannot be empty", "service_id", serviceID)
	}
	if entry == nil {
		return validationError("history entry cannot be nil", "entry", nil)
	}

	now := time.Now()
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		svc := Service{
			ServiceID: serviceID,
			Chambers:  chambers,
			CreatedAt: now,
			UpdatedAt: now,
		}
		// Upsert on the unique service id: replace the whole list.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "service_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"chambers", "updated_at"}),
		}).Create(&svc).Error; err != nil {
			return err
		}

		row := TrackingHistory{
			ServiceID: serviceID,
			SourceRef: entry.SourceRef,
			Kind:      string(entry.Kind),
			Timestamp: entry.Timestamp,
			Added:     entry.Added,
			Removed:   entry.Removed,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return dbError(err, "record_tracking_update", errors.PriorityHigh,
			"service", serviceID,
			"source", entry.SourceRef,
			"kind", string(entry.Kind))
	}
	return nil
}
