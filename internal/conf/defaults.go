// defaults.go: default configuration values applied before a config file is read.
package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets the default configuration values for viper.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "focas-tracking")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "focas-tracking.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)
	viper.SetDefault("main.log.rotationday", "Sunday")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "tracking.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "focas")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.database", "tracking")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("output.export.path", "reports/")

	viper.SetDefault("tracking.search.minfragment", 3)
	viper.SetDefault("tracking.search.ranked", false)
}
