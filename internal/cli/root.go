// Package cli implements the isoseq command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/nfisoseq/internal/config"
	"github.com/me/nfisoseq/internal/logging"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the isoseq CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "isoseq",
		Short: "nf-core/isoseq on a shared volume",
		Long: `isoseq provisions a shared storage volume, stages the pipeline template
into it and runs nf-core/isoseq with Nextflow. The Nextflow log is uploaded
after every run, successful or not.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(flagConfig, cmd.Flags())
			if err != nil {
				return err
			}
			cfg = loaded
			logger = logging.New(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Debug:  flagDebug,
			})
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newInitializeCmd(),
		newRuntimeCmd(),
		newDescribeCmd(),
		newParamsCmd(),
		newConfigCmd(),
		newProvisionerCmd(),
	)
	return root
}
