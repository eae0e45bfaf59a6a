// tracking_store_test.go: unit tests for chamber state and history persistence
package datastore

import (
	"testing"
	"time"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTrackingTestDB creates an in-memory SQLite database for testing
func setupTrackingTestDB(t *testing.T) *DataStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to create test database")

	// Auto-migrate the schema
	err = db.AutoMigrate(&Service{}, &TrackingHistory{})
	require.NoError(t, err, "Failed to migrate schema")

	return &DataStore{DB: db}
}

func testEntry(sourceRef string, added, removed []string) *tracking.HistoryEntry {
	return &tracking.HistoryEntry{
		SourceRef: sourceRef,
		Kind:      tracking.KindPrincipal,
		Timestamp: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
		Added:     added,
		Removed:   removed,
	}
}

func TestGetServiceChambers(t *testing.T) {
	t.Run("UnknownServiceYieldsEmptyList", func(t *testing.T) {
		ds := setupTrackingTestDB(t)

		chambers, err := ds.GetServiceChambers("SVC-404")

		require.NoError(t, err)
		assert.Empty(t, chambers)
	})

	t.Run("RejectEmptyServiceID", func(t *testing.T) {
		ds := setupTrackingTestDB(t)

		_, err := ds.GetServiceChambers("")
		assert.Error(t, err)
	})
}

func TestRecordTrackingUpdate(t *testing.T) {
	t.Run("CreatesStateAndHistory", func(t *testing.T) {
		ds := setupTrackingTestDB(t)

		labels := []string{"Camara A", "Camara B"}
		err := ds.RecordTrackingUpdate("SVC-001", labels, testEntry("traza1.txt", labels, nil))
		require.NoError(t, err)

		chambers, err := ds.GetServiceChambers("SVC-001")
		require.NoError(t, err)
		assert.Equal(t, labels, chambers)

		history, err := ds.GetTrackingHistory("SVC-001")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "traza1.txt", history[0].SourceRef)
		assert.Equal(t, tracking.KindPrincipal, history[0].Kind)
		assert.Equal(t, labels, history[0].Added)
		assert.Empty(t, history[0].Removed)
	})

	t.Run("ReplacesListInFull", func(t *testing.T) {
		ds := setupTrackingTestDB(t)

		require.NoError(t, ds.RecordTrackingUpdate("SVC-001",
			[]string{"Camara A"}, testEntry("t1", []string{"Camara A"}, nil)))
		require.NoError(t, ds.RecordTrackingUpdate("SVC-001",
			[]string{"Camara B"}, testEntry("t2", []string{"Camara B"}, []string{"Camara A"})))

		chambers, err := ds.GetServiceChambers("SVC-001")
		require.NoError(t, err)
		assert.Equal(t, []string{"Camara B"}, chambers, "new list is authoritative, not merged")
	})

	t.Run("HistoryIsAppendOnlyAndOrdered", func(t *testing.T) {
		ds := setupTrackingTestDB(t)

		for i, ref := range []string{"t1", "t2", "t3"} {
			entry := testEntry(ref, []string{"Camara"}, nil)
			entry.Timestamp = entry.Timestamp.Add(time.Duration(i) * time.Hour)
			require.NoError(t, ds.RecordTrackingUpdate("SVC-001", []string{"Camara"}, entry))
		}

		history, err := ds.GetTrackingHistory("SVC-001")
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "t1", history[0].SourceRef)
		assert.Equal(t, "t3", history[2].SourceRef)
	})

	t.Run("RejectNilEntry", func(t *testing.T) {
		ds := setupTrackingTestDB(t)

		err := ds.RecordTrackingUpdate("SVC-001", []string{"Camara A"}, nil)
		assert.Error(t, err)
	})
}

func TestGetAllServiceChambers(t *testing.T) {
	ds := setupTrackingTestDB(t)

	require.NoError(t, ds.RecordTrackingUpdate("SVC-002",
		[]string{"Camara Sur"}, testEntry("t1", []string{"Camara Sur"}, nil)))
	require.NoError(t, ds.RecordTrackingUpdate("SVC-001",
		[]string{"Camara Norte"}, testEntry("t2", []string{"Camara Norte"}, nil)))

	corpus, err := ds.GetAllServiceChambers()

	require.NoError(t, err)
	require.Len(t, corpus, 2)
	// Ordered by service id for deterministic output.
	assert.Equal(t, "SVC-001", corpus[0].ServiceID)
	assert.Equal(t, []string{"Camara Norte"}, corpus[0].Chambers)
	assert.Equal(t, "SVC-002", corpus[1].ServiceID)
}

// TestTrackerRoundTrip drives the tracker against the real store, covering
// the full upload path: parse result in, diff, persist, read back.
func TestTrackerRoundTrip(t *testing.T) {
	ds := setupTrackingTestDB(t)
	tracker := tracking.NewTracker(ds, nil)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	outcome, err := tracker.DiffAndRecord("SVC-001",
		[]string{"Camara A", "Camara B"}, tracking.KindPrincipal, "traza1.txt", now)
	require.NoError(t, err)
	assert.True(t, outcome.Changed)

	// Permuted re-upload: unchanged, no write.
	outcome, err = tracker.DiffAndRecord("SVC-001",
		[]string{"Camara B", "Camara A"}, tracking.KindPrincipal, "traza1b.txt", now)
	require.NoError(t, err)
	assert.False(t, outcome.Changed)

	history, err := ds.GetTrackingHistory("SVC-001")
	require.NoError(t, err)
	assert.Len(t, history, 1, "unchanged upload must not append history")

	// A real change appends and replaces.
	outcome, err = tracker.DiffAndRecord("SVC-001",
		[]string{"Camara B", "Camara C"}, tracking.KindComplementary, "traza2.txt", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"Camara C"}, outcome.Added)
	assert.Equal(t, []string{"Camara A"}, outcome.Removed)

	history, err = ds.GetTrackingHistory("SVC-001")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, tracking.KindComplementary, history[1].Kind)

	chambers, err := ds.GetServiceChambers("SVC-001")
	require.NoError(t, err)
	assert.Equal(t, []string{"Camara B", "Camara C"}, chambers)
}
