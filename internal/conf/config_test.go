package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestSettings() *Settings {
	settings := &Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = "tracking.db"
	settings.Tracking.Search.MinFragment = 3
	return settings
}

func TestValidateSettings(t *testing.T) {
	t.Run("ValidSettings", func(t *testing.T) {
		assert.NoError(t, ValidateSettings(validTestSettings()))
	})

	t.Run("BothDatabasesEnabled", func(t *testing.T) {
		settings := validTestSettings()
		settings.Output.MySQL.Enabled = true

		assert.Error(t, ValidateSettings(settings))
	})

	t.Run("SQLiteWithoutPath", func(t *testing.T) {
		settings := validTestSettings()
		settings.Output.SQLite.Path = ""

		assert.Error(t, ValidateSettings(settings))
	})

	t.Run("MySQLWithoutHost", func(t *testing.T) {
		settings := validTestSettings()
		settings.Output.SQLite.Enabled = false
		settings.Output.MySQL.Enabled = true
		settings.Output.MySQL.Database = "tracking"

		assert.Error(t, ValidateSettings(settings))
	})

	t.Run("NegativeMinFragment", func(t *testing.T) {
		settings := validTestSettings()
		settings.Tracking.Search.MinFragment = -1

		assert.Error(t, ValidateSettings(settings))
	})
}
