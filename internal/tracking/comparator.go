// comparator.go: cross-file chamber comparison sessions.
package tracking

import (
	"sort"
)

// SectionWriter receives the tabular export of a comparison: a sequence of
// named sections, each holding two-column rows. The workbook writer in
// internal/export implements it; tests use an in-memory one.
type SectionWriter interface {
	Section(name string) error
	Row(cells ...string) error
}

// MatchesSection is the name of the closing export section listing the
// chambers common to every source.
const MatchesSection = "Coincidencias"

// Comparator accumulates tracking sources for one comparison session. A
// Comparator is a caller-owned value scoped to a single request: construct
// it, add the sources, read the result, drop it. Reusing an instance for an
// unrelated session without calling Clear first is a caller error.
type Comparator struct {
	sources []*TrackingSource
}

// NewComparator returns an empty comparison session.
func NewComparator() *Comparator {
	return &Comparator{}
}

// AddSource adds a parsed tracking source to the session.
func (c *Comparator) AddSource(src *TrackingSource) {
	c.sources = append(c.sources, src)
}

// Clear drops all accumulated sources so the instance can start a new
// session.
func (c *Comparator) Clear() {
	c.sources = nil
}

// CommonChambers returns the chambers present in every accumulated source,
// compared by normalized key. Each key is rendered as a deterministic
// representative: the raw label that first introduces the key in the source
// with the lexicographically smallest name, so the result is stable no
// matter the order sources were added. The result is sorted. With no
// sources the result is empty; with one source it is that source's distinct
// chambers.
func (c *Comparator) CommonChambers() []string {
	if len(c.sources) == 0 {
		return nil
	}

	ordered := make([]*TrackingSource, len(c.sources))
	copy(ordered, c.sources)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	representative := make(map[string]string)
	sourceCount := make(map[string]int)
	for _, src := range ordered {
		inThisSource := make(map[string]bool)
		for _, rec := range src.Records {
			key := Key(rec.Label)
			if key == "" {
				// A blank label does not name a chamber.
				continue
			}
			if !inThisSource[key] {
				inThisSource[key] = true
				sourceCount[key]++
			}
			if _, ok := representative[key]; !ok {
				representative[key] = rec.Label
			}
		}
	}

	var common []string
	for key, count := range sourceCount {
		if count == len(ordered) {
			common = append(common, representative[key])
		}
	}
	sort.Strings(common)
	return common
}

// Export writes one section per source, rows in original file order with the
// raw label and distance columns, followed by the matches section listing
// the common chambers.
func (c *Comparator) Export(w SectionWriter) error {
	for _, src := range c.sources {
		if err := w.Section(src.Name); err != nil {
			return err
		}
		for _, rec := range src.Records {
			if err := w.Row(rec.Label, rec.Distance); err != nil {
				return err
			}
		}
	}

	if err := w.Section(MatchesSection); err != nil {
		return err
	}
	for _, chamber := range c.CommonChambers() {
		if err := w.Row(chamber); err != nil {
			return err
		}
	}
	return nil
}
