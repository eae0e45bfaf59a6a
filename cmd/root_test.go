package cmd

import (
	"testing"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/conf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	settings := &conf.Settings{}

	rootCmd, err := RootCommand(settings)
	require.NoError(t, err)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))

	var names []string
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"compare", "upload", "search", "history"}, names)
}
