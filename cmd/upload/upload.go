package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/conf"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/datastore"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/errors"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/logging"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/tracking"
	"github.com/spf13/cobra"
)

// Command creates the upload command for recording a tracking file against a
// service.
func Command(settings *conf.Settings) *cobra.Command {
	var kind string
	var sourceRef string

	cmd := &cobra.Command{
		Use:   "upload [service] [tracking file]",
		Short: "Record a tracking upload for a service",
		Long:  `Parse a tracking file, diff it against the service's current chamber list and, when there are changes, append a history entry and replace the list.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(settings, args[0], args[1], tracking.Kind(kind), sourceRef)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(tracking.KindPrincipal), "Upload kind: principal or complementary")
	cmd.Flags().StringVar(&sourceRef, "ref", "", "Reference to the originating tracking artifact (default: file base name)")

	return cmd
}

func runUpload(settings *conf.Settings, serviceID, path string, kind tracking.Kind, sourceRef string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.New(err).
			Component("upload").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	source, err := tracking.Parse(f, name)
	if err != nil {
		return err
	}
	if sourceRef == "" {
		sourceRef = base
	}

	store, err := datastore.New(settings)
	if err != nil {
		return err
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	tracker := tracking.NewTracker(store, logging.ForService("tracker"))
	outcome, err := tracker.DiffAndRecord(serviceID, source.Labels(), kind, sourceRef, time.Now())
	if err != nil {
		return err
	}

	if !outcome.Changed {
		fmt.Printf("Sin diferencias: the chamber list for %s is unchanged, upload skipped\n", serviceID)
		return nil
	}

	fmt.Printf("Recorded tracking update for %s (%d added, %d removed)\n",
		serviceID, len(outcome.Added), len(outcome.Removed))
	for _, chamber := range outcome.Added {
		fmt.Printf("  + %s\n", chamber)
	}
	for _, chamber := range outcome.Removed {
		fmt.Printf("  - %s\n", chamber)
	}
	return nil
}
