// tracker_test.go: unit tests for diff-and-record semantics
package tracking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory Store for unit tests; the GORM-backed
// implementation is covered in the datastore package.
type memoryStore struct {
	mu       sync.Mutex
	chambers map[string][]string
	history  map[string][]HistoryEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		chambers: make(map[string][]string),
		history:  make(map[string][]HistoryEntry),
	}
}

func (m *memoryStore) GetServiceChambers(serviceID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chambers[serviceID], nil
}

func (m *memoryStore) RecordTrackingUpdate(serviceID string, chambers []string, entry *HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chambers[serviceID] = chambers
	m.history[serviceID] = append(m.history[serviceID], *entry)
	return nil
}

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestDiffAndRecordFirstUpload(t *testing.T) {
	store := newMemoryStore()
	tracker := NewTracker(store, nil)

	outcome, err := tracker.DiffAndRecord("SVC-001", []string{"Camara A", "Camara B"}, KindPrincipal, "traza1.txt", testNow)

	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, []string{"Camara A", "Camara B"}, outcome.Added)
	assert.Empty(t, outcome.Removed)

	require.Len(t, store.history["SVC-001"], 1)
	entry := store.history["SVC-001"][0]
	assert.Equal(t, "traza1.txt", entry.SourceRef)
	assert.Equal(t, KindPrincipal, entry.Kind)
	assert.Equal(t, testNow, entry.Timestamp)
}

func TestDiffAndRecordAddedAndRemoved(t *testing.T) {
	store := newMemoryStore()
	store.chambers["SVC-001"] = []string{"Camara A", "Camara B"}
	tracker := NewTracker(store, nil)

	outcome, err := tracker.DiffAndRecord("SVC-001", []string{"Camara B", "Camara C"}, KindPrincipal, "traza2.txt", testNow)

	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, []string{"Camara C"}, outcome.Added)
	assert.Equal(t, []string{"Camara A"}, outcome.Removed)

	// The new list is authoritative, not merged.
	assert.Equal(t, []string{"Camara B", "Camara C"}, store.chambers["SVC-001"])
}

func TestDiffAndRecordSymmetric(t *testing.T) {
	oldLabels := []string{"Camara A", "Camara B"}
	newLabels := []string{"Camara B", "Camara C"}

	store := newMemoryStore()
	store.chambers["SVC-001"] = oldLabels
	tracker := NewTracker(store, nil)

	forward, err := tracker.DiffAndRecord("SVC-001", newLabels, KindPrincipal, "f", testNow)
	require.NoError(t, err)

	backward, err := tracker.DiffAndRecord("SVC-001", oldLabels, KindPrincipal, "b", testNow)
	require.NoError(t, err)

	assert.Equal(t, forward.Added, backward.Removed)
	assert.Equal(t, forward.Removed, backward.Added)
}

func TestDiffAndRecordUnchanged(t *testing.T) {
	t.Run("IdenticalList", func(t *testing.T) {
		store := newMemoryStore()
		store.chambers["SVC-001"] = []string{"Camara A", "Camara B"}
		tracker := NewTracker(store, nil)

		outcome, err := tracker.DiffAndRecord("SVC-001", []string{"Camara A", "Camara B"}, KindPrincipal, "again.txt", testNow)

		require.NoError(t, err)
		assert.False(t, outcome.Changed)
		assert.Empty(t, store.history["SVC-001"], "no history entry for an unchanged upload")
	})

	t.Run("PermutedList", func(t *testing.T) {
		store := newMemoryStore()
		store.chambers["SVC-001"] = []string{"Camara A", "Camara B"}
		tracker := NewTracker(store, nil)

		outcome, err := tracker.DiffAndRecord("SVC-001", []string{"Camara B", "Camara A"}, KindPrincipal, "permuted.txt", testNow)

		require.NoError(t, err)
		assert.False(t, outcome.Changed)
		assert.Empty(t, store.history["SVC-001"])
	})

	t.Run("NormalizedVariants", func(t *testing.T) {
		store := newMemoryStore()
		store.chambers["SVC-001"] = []string{"Cámara Central"}
		tracker := NewTracker(store, nil)

		outcome, err := tracker.DiffAndRecord("SVC-001", []string{"CAMARA CENTRAL"}, KindComplementary, "variant.txt", testNow)

		require.NoError(t, err)
		assert.False(t, outcome.Changed, "accent and case variants are the same chamber")
	})
}

func TestDiffAndRecordValidation(t *testing.T) {
	tracker := NewTracker(newMemoryStore(), nil)

	_, err := tracker.DiffAndRecord("", []string{"Camara A"}, KindPrincipal, "x", testNow)
	assert.Error(t, err)

	_, err = tracker.DiffAndRecord("SVC-001", []string{"Camara A"}, Kind("bogus"), "x", testNow)
	assert.Error(t, err)
}

func TestDiffAndRecordConcurrentSameService(t *testing.T) {
	store := newMemoryStore()
	tracker := NewTracker(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			labels := []string{"Camara A"}
			if i%2 == 0 {
				labels = []string{"Camara B"}
			}
			_, err := tracker.DiffAndRecord("SVC-001", labels, KindPrincipal, "race.txt", testNow)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every recorded entry reflects a real transition: replaying the history
	// from an empty list must end at the final persisted state.
	current := map[string]bool{}
	for _, entry := range store.history["SVC-001"] {
		for _, added := range entry.Added {
			current[Key(added)] = true
		}
		for _, removed := range entry.Removed {
			delete(current, Key(removed))
		}
	}
	final := map[string]bool{}
	for _, label := range store.chambers["SVC-001"] {
		final[Key(label)] = true
	}
	assert.Equal(t, final, current)
}
