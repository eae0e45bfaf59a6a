package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/conf"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/errors"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/export"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/tracking"
	"github.com/spf13/cobra"
)

// Command creates the compare command for cross-file comparison reports.
func Command(settings *conf.Settings) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compare [tracking files...]",
		Short: "Compare tracking files and export a workbook",
		Long:  `Parse two or more tracking files, compute the chambers common to all of them and export one workbook sheet per file plus the matches sheet.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(settings, args, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Path for the generated workbook (default: timestamped file under the export directory)")

	return cmd
}

func runCompare(settings *conf.Settings, files []string, output string) error {
	// The comparator is scoped to this invocation; it is dropped when the
	// command returns.
	comparator := tracking.NewComparator()

	for _, path := range files {
		src, err := parseFile(path)
		if err != nil {
			return err
		}
		comparator.AddSource(src)
	}

	workbook := export.NewWorkbook()
	defer workbook.Close()

	if err := comparator.Export(workbook); err != nil {
		return err
	}

	if output == "" {
		output = export.ReportPath(settings.Output.Export.Path)
	}
	if err := workbook.SaveAs(output); err != nil {
		return err
	}

	common := comparator.CommonChambers()
	fmt.Printf("Compared %d tracking files, %d common chambers\n", len(files), len(common))
	for _, chamber := range common {
		fmt.Printf("  %s\n", chamber)
	}
	fmt.Printf("Workbook written to %s\n", output)
	return nil
}

// parseFile opens one tracking file and parses it, naming the source after
// the file's base name without extension.
func parseFile(path string) (*tracking.TrackingSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("compare").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return tracking.Parse(f, name)
}
