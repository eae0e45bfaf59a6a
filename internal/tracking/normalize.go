// normalize.go: canonical comparison keys for chamber labels.
//
// Field crews and carriers write the same chamber in many ways: "Cám. 12 Av.
// Mitre", "CAMARA 12 AVENIDA MITRE", "cam 12 av mitre". All variants must
// compare equal, so labels are folded to a canonical key before any set
// operation.
package tracking

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks and recomposes,
// turning "cámara" into "camara".
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// abbreviations expands the short forms crews commonly use in tracking files.
// Applied after punctuation stripping so dotted forms like "cam." or "c.a.m"
// reduce to the bare abbreviation first; word-bounded so expanded words are
// never re-expanded.
var abbreviations = []struct {
	re        *regexp.Regexp
	expansion string
}{
	{regexp.MustCompile(`\bcam\b`), "camara"},
	{regexp.MustCompile(`\bav\b`), "avenida"},
	{regexp.MustCompile(`\bgral\b`), "general"},
	{regexp.MustCompile(`\bcra\b`), "carrera"},
}

// punctuation strips the separators that survive field splitting.
var punctuation = strings.NewReplacer(".", "", ",", "", ";", "", ":", "")

// Key derives the canonical comparison key for a chamber label. Two labels
// name the same chamber iff their keys are equal. Key never fails: text that
// cannot be folded further normalizes to itself. Key is idempotent, so
// Key(Key(x)) == Key(x).
func Key(label string) string {
	s, _, err := transform.String(stripAccents, label)
	if err != nil {
		// Transform only fails on invalid UTF-8; keep the raw bytes and
		// fold what we can.
		s = label
	}
	s = strings.ToLower(s)
	s = punctuation.Replace(s)
	for _, a := range abbreviations {
		s = a.re.ReplaceAllString(s, a.expansion)
	}
	return strings.Join(strings.Fields(s), " ")
}
