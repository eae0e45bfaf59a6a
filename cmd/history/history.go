package history

import (
	"fmt"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/conf"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/datastore"
	"github.com/spf13/cobra"
)

// Command creates the history command for listing a service's upload events.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [service]",
		Short: "Show the tracking history of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(settings, args[0])
		},
	}

	return cmd
}

func runHistory(settings *conf.Settings, serviceID string) error {
	store, err := datastore.New(settings)
	if err != nil {
		return err
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.GetTrackingHistory(serviceID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No tracking history for %s\n", serviceID)
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%s  %s  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Kind, entry.SourceRef)
		for _, chamber := range entry.Added {
			fmt.Printf("  + %s\n", chamber)
		}
		for _, chamber := range entry.Removed {
			fmt.Printf("  - %s\n", chamber)
		}
	}
	return nil
}
