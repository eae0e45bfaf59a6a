// tracker.go: append-only diff history for service chamber lists.
package tracking

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/errors"
)

// Kind classifies a tracking upload as the primary route record or a
// supplementary one.
type Kind string

const (
	KindPrincipal     Kind = "principal"
	KindComplementary Kind = "complementary"
)

// Valid reports whether the kind is one of the known classification tags.
func (k Kind) Valid() bool {
	return k == KindPrincipal || k == KindComplementary
}

// HistoryEntry is one recorded upload event: which chambers were added and
// removed relative to the state immediately prior. Entries are append-only;
// once recorded they are never mutated or reordered.
type HistoryEntry struct {
	SourceRef string
	Kind      Kind
	Timestamp time.Time
	Added     []string
	Removed   []string
}

// Outcome is the result of a diff-and-record operation. Changed is false
// when the new chamber set equals the old one by normalized key; nothing was
// persisted in that case.
type Outcome struct {
	Changed bool
	Added   []string
	Removed []string
}

// Store is the persistence collaborator the tracker writes through. The
// tracker is the only component permitted to mutate persisted chamber state,
// and RecordTrackingUpdate must apply the history append and the list
// replacement as one atomic call.
type Store interface {
	GetServiceChambers(serviceID string) ([]string, error)
	RecordTrackingUpdate(serviceID string, chambers []string, entry *HistoryEntry) error
}

// Tracker computes chamber-list diffs and records them. Writes for the same
// service are serialized through a per-service mutex, so two concurrent
// uploads cannot lose each other's diff; writes for different services
// proceed in parallel. The serialization only covers this process, not
// concurrent writers against the same database.
type Tracker struct {
	store Store
	log   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTracker returns a Tracker writing through the given store.
func NewTracker(store Store, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		store: store,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

// serviceLock returns the mutex guarding one service's chamber state.
func (t *Tracker) serviceLock(serviceID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[serviceID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[serviceID] = lock
	}
	return lock
}

// keysAndRepresentatives maps each normalized key in labels to the raw label
// that first introduced it.
func keysAndRepresentatives(labels []string) map[string]string {
	reps := make(map[string]string, len(labels))
	for _, label := range labels {
		key := Key(label)
		if key == "" {
			continue
		}
		if _, ok := reps[key]; !ok {
			reps[key] = label
		}
	}
	return reps
}

// diffChambers computes the added and removed chambers between two label
// lists by normalized key, rendered via the list that owns them: added
// chambers via new-list labels, removed chambers via old-list labels. Both
// results are sorted.
func diffChambers(oldLabels, newLabels []string) (added, removed []string) {
	oldKeys := keysAndRepresentatives(oldLabels)
	newKeys := keysAndRepresentatives(newLabels)

	for key, rep := range newKeys {
		if _, ok := oldKeys[key]; !ok {
			added = append(added, rep)
		}
	}
	for key, rep := range oldKeys {
		if _, ok := newKeys[key]; !ok {
			removed = append(removed, rep)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// DiffAndRecord compares newLabels against the service's current persisted
// chamber list. When the normalized sets are identical it returns an
// unchanged outcome and writes nothing, so callers can suppress redundant
// report generation. Otherwise it appends a history entry and replaces the
// current list with newLabels in full, as one atomic store call, and
// returns the added and removed chambers.
func (t *Tracker) DiffAndRecord(serviceID string, newLabels []string, kind Kind, sourceRef string, now time.Time) (Outcome, error) {
	if serviceID == "" {
		return Outcome{}, errors.Newf("service id cannot be empty").
			Component("tracking").
			Category(errors.CategoryValidation).
			Build()
	}
	if !kind.Valid() {
		return Outcome{}, errors.Newf("unknown tracking kind %q", kind).
			Component("tracking").
			Category(errors.CategoryValidation).
			Context("service", serviceID).
			Build()
	}

	lock := t.serviceLock(serviceID)
	lock.Lock()
	defer lock.Unlock()

	oldLabels, err := t.store.GetServiceChambers(serviceID)
	if err != nil {
		return Outcome{}, err
	}

	added, removed := diffChambers(oldLabels, newLabels)
	if len(added) == 0 && len(removed) == 0 {
		t.log.Info("tracking upload has no chamber changes, skipping",
			"service", serviceID, "source", sourceRef)
		return Outcome{Changed: false}, nil
	}

	entry := &HistoryEntry{
		SourceRef: sourceRef,
		Kind:      kind,
		Timestamp: now,
		Added:     added,
		Removed:   removed,
	}
	if err := t.store.RecordTrackingUpdate(serviceID, newLabels, entry); err != nil {
		return Outcome{}, err
	}

	t.log.Info("tracking update recorded",
		"service", serviceID, "source", sourceRef, "kind", string(kind),
		"added", len(added), "removed", len(removed))
	return Outcome{Changed: true, Added: added, Removed: removed}, nil
}
