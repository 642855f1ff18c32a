package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aegis-robotics/swarm-coord/pkg/logger"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "swarm-core-sim",
	Short: "Drone swarm coordination core demo harness",
	Long: `swarm-core-sim drives the ground-station coordination core against an
in-process simulated swarm: a fixed pattern catalog, an injected comms
simulator standing in for the radio link, and a tick loop that exercises
the constraint engine and role-assignment engine exactly as a real
deployment would.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "coordinator config file (default: config.yaml, swarm-coord.yaml, or built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initConfig wires global flags into the logger and into viper, mirroring
// how the coordinator config loader falls back to environment overrides.
func initConfig() {
	logger.SetLevel(logger.ParseLevel(logLevel))
	logger.SetNoColor(noColor)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("swarm-coord")
	}

	viper.SetEnvPrefix("SWARM")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}
