package main

import (
	"fmt"
	"os"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/cmd"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/conf"
	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := conf.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	logging.Init()

	if settings.Main.Log.Enabled {
		closeLog, err := logging.SetupFileOutput(settings)
		if err != nil {
			return fmt.Errorf("setting up log file: %w", err)
		}
		defer func() {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
			}
		}()
	}

	rootCmd, err := cmd.RootCommand(settings)
	if err != nil {
		return err
	}
	return rootCmd.Execute()
}
