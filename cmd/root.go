package cmd

import (
	"fmt"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/cmd/compare"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/cmd/history"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/cmd/search"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/cmd/upload"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/conf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "focas-tracking",
		Short: "LAS-FOCAS fiber tracking CLI",
		Long:  `Compare fiber tracking files, search the chamber corpus and record tracking uploads.`,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		return nil, err
	}

	subcommands := []*cobra.Command{
		compare.Command(settings),
		upload.Command(settings),
		search.Command(settings),
		history.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd, nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
