// search.go: fuzzy and exact chamber search across the persisted corpus.
package tracking

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sahilm/fuzzy"
)

// ServiceChambers is one corpus entry: a service and its current authoritative
// chamber list.
type ServiceChambers struct {
	ServiceID string
	Chambers  []string
}

// CorpusProvider supplies the full set of persisted per-service chamber
// lists. Implemented by the datastore.
type CorpusProvider interface {
	GetAllServiceChambers() ([]ServiceChambers, error)
}

// quotePairs maps an opening quote to its closing counterpart. Wrapping a
// query in one matching pair is the user-facing way to force exact matching.
var quotePairs = map[rune]rune{
	'"':      '"',
	'\'':     '\'',
	'“': '”', // curly double quotes
	'‘': '’', // curly single quotes
}

// ParseQuery strips a single matching pair of straight or curly quotes from
// the query. The second return value reports whether exact matching was
// forced that way.
func ParseQuery(query string) (text string, exact bool) {
	trimmed := strings.TrimSpace(query)
	runes := []rune(trimmed)
	if len(runes) >= 2 {
		if closing, ok := quotePairs[runes[0]]; ok && runes[len(runes)-1] == closing {
			return string(runes[1 : len(runes)-1]), true
		}
	}
	return trimmed, false
}

// Match reports whether a chamber key satisfies a query key. Exact mode
// requires key equality. Fuzzy mode is a bidirectional substring test, so a
// short fragment matches a longer stored label and vice versa. Empty keys
// never match.
func Match(queryKey, chamberKey string, exact bool) bool {
	if queryKey == "" || chamberKey == "" {
		return false
	}
	if exact {
		return queryKey == chamberKey
	}
	return strings.Contains(chamberKey, queryKey) || strings.Contains(queryKey, chamberKey)
}

// Search returns the ids of the services whose chamber list matches the
// query, de-duplicated. A quoted query forces exact mode regardless of the
// exact flag. No match is not an error, just an empty result.
func Search(query string, corpus []ServiceChambers, exact bool) []string {
	text, forced := ParseQuery(query)
	if forced {
		exact = true
	}
	queryKey := Key(text)
	if queryKey == "" {
		return nil
	}

	var matches []string
	for _, entry := range corpus {
		for _, chamber := range entry.Chambers {
			if Match(queryKey, Key(chamber), exact) {
				matches = append(matches, entry.ServiceID)
				break
			}
		}
	}
	return matches
}

// SearchOptions tunes fuzzy matching. The bidirectional substring rule lets
// very short fragments match unrelated long labels, so queries shorter than
// MinFragment are demoted to exact matching.
type SearchOptions struct {
	MinFragment int
}

// RankedMatch is a service hit with a fuzzy match score, higher is better.
type RankedMatch struct {
	ServiceID string
	Score     int
}

// Searcher binds the corpus provider with a normalized-key cache so repeated
// searches do not re-normalize unchanged chamber lists.
type Searcher struct {
	corpus CorpusProvider
	opts   SearchOptions
	keys   *gocache.Cache
	log    *slog.Logger
}

// cachedKeys holds the normalized keys of one service's chamber list along
// with a fingerprint of the raw labels they were derived from.
type cachedKeys struct {
	fingerprint string
	keys        []string
}

// NewSearcher returns a Searcher over the given corpus provider.
func NewSearcher(corpus CorpusProvider, opts SearchOptions, log *slog.Logger) *Searcher {
	if log == nil {
		log = slog.Default()
	}
	return &Searcher{
		corpus: corpus,
		opts:   opts,
		keys:   gocache.New(5*time.Minute, 10*time.Minute),
		log:    log,
	}
}

// serviceKeys returns the normalized chamber keys for one corpus entry,
// recomputing only when the raw labels changed since the last search.
func (s *Searcher) serviceKeys(entry ServiceChambers) []string {
	fingerprint := strings.Join(entry.Chambers, "\x00")
	if cached, ok := s.keys.Get(entry.ServiceID); ok {
		ck := cached.(cachedKeys)
		if ck.fingerprint == fingerprint {
			return ck.keys
		}
	}

	keys := make([]string, len(entry.Chambers))
	for i, chamber := range entry.Chambers {
		keys[i] = Key(chamber)
	}
	s.keys.SetDefault(entry.ServiceID, cachedKeys{fingerprint: fingerprint, keys: keys})
	return keys
}

// Search runs the corpus search against the persisted chamber lists. A
// quoted query forces exact mode; a fuzzy query shorter than MinFragment is
// demoted to exact.
func (s *Searcher) Search(query string, exact bool) ([]string, error) {
	text, forced := ParseQuery(query)
	if forced {
		exact = true
	}
	queryKey := Key(text)
	if queryKey == "" {
		return nil, nil
	}
	if !exact && s.opts.MinFragment > 0 && len([]rune(queryKey)) < s.opts.MinFragment {
		s.log.Debug("query below minimum fragment length, using exact match",
			"query", queryKey, "min_fragment", s.opts.MinFragment)
		exact = true
	}

	corpus, err := s.corpus.GetAllServiceChambers()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, entry := range corpus {
		for _, chamberKey := range s.serviceKeys(entry) {
			if Match(queryKey, chamberKey, exact) {
				matches = append(matches, entry.ServiceID)
				break
			}
		}
	}

	s.log.Debug("corpus search finished",
		"query", queryKey, "exact", exact, "services", len(corpus), "matches", len(matches))
	return matches, nil
}

// SearchRanked scores fuzzy matches so presentation layers can show the most
// relevant services first. A quoted query still forces exact matching; exact
// hits all carry score zero.
func (s *Searcher) SearchRanked(query string) ([]RankedMatch, error) {
	text, forced := ParseQuery(query)
	queryKey := Key(text)
	if queryKey == "" {
		return nil, nil
	}

	corpus, err := s.corpus.GetAllServiceChambers()
	if err != nil {
		return nil, err
	}

	if forced {
		var ranked []RankedMatch
		for _, entry := range corpus {
			for _, chamberKey := range s.serviceKeys(entry) {
				if Match(queryKey, chamberKey, true) {
					ranked = append(ranked, RankedMatch{ServiceID: entry.ServiceID})
					break
				}
			}
		}
		return ranked, nil
	}

	// Flatten all chamber keys so one fuzzy pass covers the whole corpus.
	var allKeys []string
	var owner []string
	for _, entry := range corpus {
		for _, chamberKey := range s.serviceKeys(entry) {
			allKeys = append(allKeys, chamberKey)
			owner = append(owner, entry.ServiceID)
		}
	}

	best := make(map[string]int)
	for _, m := range fuzzy.Find(queryKey, allKeys) {
		serviceID := owner[m.Index]
		if score, ok := best[serviceID]; !ok || m.Score > score {
			best[serviceID] = m.Score
		}
	}

	ranked := make([]RankedMatch, 0, len(best))
	for serviceID, score := range best {
		ranked = append(ranked, RankedMatch{ServiceID: serviceID, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ServiceID < ranked[j].ServiceID
	})
	return ranked, nil
}
