package cmd

import (
	"github.com/gnzdotmx/clipper/internal/config"
	"github.com/gnzdotmx/clipper/internal/utils"

	"github.com/spf13/cobra"
)

var (
	// verbosityLevel is the command-line flag for setting the log level
	verbosityLevel string

	// configFilePath is the optional defaults file
	configFilePath string

	// credentialsFlag points at the OAuth client secrets JSON file
	credentialsFlag string

	// cfg holds the loaded defaults, available to all subcommands
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "clipper",
	Short: "Turn a CSV cut schedule into extracted clips and a published YouTube playlist",
	Long: `Clipper reads a CSV cut schedule for long-form footage, extracts the
described clips with ffmpeg, and reconciles the uploaded results on YouTube:
renaming, describing, playlist membership, and visibility. Both passes are
incremental; rerunning a command only performs the remaining work.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set the global log level based on the flag
		logLevel := utils.LogLevelFromString(verbosityLevel)
		utils.SetLogLevel(logLevel)

		var err error
		cfg, err = config.Load(configFilePath)
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize global flags
	rootCmd.PersistentFlags().StringVarP(&verbosityLevel, "log-level", "l", "normal",
		"Set the logging verbosity level: quiet, normal, verbose, debug")
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "",
		"Path to a clipper.yaml defaults file (default: ./clipper.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&credentialsFlag, "credentials", "",
		"Path to the OAuth client secrets JSON file")
}
