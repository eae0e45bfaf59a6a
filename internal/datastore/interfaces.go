// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/conf"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/tracking"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// defaultSlowQueryThreshold defines the duration after which a query is
// considered slow and logged as such.
const defaultSlowQueryThreshold = 1 * time.Second

// Interface abstracts the underlying database implementation and defines the
// operations the tracking engine needs from persistence.
type Interface interface {
	Open() error
	Close() error

	// GetServiceChambers returns the current authoritative chamber list for a
	// service, or an empty list when the service has no state yet.
	GetServiceChambers(serviceID string) ([]string, error)

	// GetAllServiceChambers returns the full persisted corpus for search.
	GetAllServiceChambers() ([]tracking.ServiceChambers, error)

	// GetTrackingHistory returns a service's upload history, oldest first.
	GetTrackingHistory(serviceID string) ([]tracking.HistoryEntry, error)

	// RecordTrackingUpdate appends a history entry and replaces the service's
	// current chamber list, as one transaction.
	RecordTrackingUpdate(serviceID string, chambers []string, entry *tracking.HistoryEntry) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new store instance based on the provided configuration.
func New(settings *conf.Settings) (Interface, error) {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}, nil
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}, nil
	default:
		return nil, fmt.Errorf("no database output enabled in settings")
	}
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             defaultSlowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// performAutoMigration runs the schema migration for all persisted models.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Service{}, &TrackingHistory{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}
	return nil
}

// close releases the underlying SQL connection of a GORM handle.
func (ds *DataStore) close() error {
	if ds.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve generic DB object: %w", err)
	}
	return sqlDB.Close()
}
