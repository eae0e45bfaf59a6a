// parser.go: reads loosely structured tracking log files.
//
// Tracking files have no fixed schema: one chamber per line, the distance in
// a second field when present, separated by semicolons, tabs or plain
// whitespace depending on who exported the file. A malformed line is salvaged
// best-effort, never fatal; only a failed read of the stream itself is
// surfaced to the caller.
package tracking

import (
	"bufio"
	"io"
	"strings"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/errors"
)

// ChamberRecord is one parsed line of a tracking file. Label is kept exactly
// as found in the source, even when it fails normalization later.
type ChamberRecord struct {
	Label    string // raw chamber label
	Distance string // raw distance text, empty if the line had none
}

// TrackingSource is the ordered record sequence parsed from one tracking
// file. A TrackingSource is owned by the comparison or upload that created
// it and must not be shared across requests.
type TrackingSource struct {
	Name    string // sheet-safe source name, see SheetName
	Records []ChamberRecord
}

// Labels returns the raw chamber labels in file order.
func (ts *TrackingSource) Labels() []string {
	labels := make([]string, len(ts.Records))
	for i, rec := range ts.Records {
		labels[i] = rec.Label
	}
	return labels
}

// sheetNameSanitizer replaces the characters a workbook sheet name cannot
// contain. The exported artifact is a multi-sheet workbook, so source names
// must be valid sheet names.
var sheetNameSanitizer = strings.NewReplacer(
	`\`, "_", "/", "_", "*", "_", "?", "_", "[", "_", "]", "_",
)

// sheetNameMaxLen is the workbook sheet name limit.
const sheetNameMaxLen = 31

// SheetName derives a sheet-safe source name: illegal characters become '_'
// and the result is truncated to 31 runes.
func SheetName(name string) string {
	name = sheetNameSanitizer.Replace(name)
	runes := []rune(name)
	if len(runes) > sheetNameMaxLen {
		return string(runes[:sheetNameMaxLen])
	}
	return name
}

// Parse reads a tracking file into a TrackingSource tagged with the
// sheet-safe form of sourceName. Blank lines are skipped. Lines containing a
// semicolon or tab are split strictly on those characters; otherwise the
// line is split on whitespace with at most two splits so a free-text
// remainder may contain spaces. The first field is the chamber label, the
// second the distance, anything further is discarded.
func Parse(r io.Reader, sourceName string) (*TrackingSource, error) {
	source := &TrackingSource{Name: SheetName(sourceName)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var label, distance string
		if strings.ContainsAny(line, ";\t") {
			fields := strings.Split(strings.ReplaceAll(line, "\t", ";"), ";")
			label = strings.TrimSpace(fields[0])
			if len(fields) > 1 {
				distance = strings.TrimSpace(fields[1])
			}
		} else {
			fields := strings.Fields(line)
			if len(fields) > 0 {
				label = fields[0]
			}
			if len(fields) > 1 {
				distance = fields[1]
			}
		}

		source.Records = append(source.Records, ChamberRecord{Label: label, Distance: distance})
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.New(err).
			Component("tracking").
			Category(errors.CategoryFileParsing).
			Context("source", sourceName).
			Build()
	}

	return source, nil
}
