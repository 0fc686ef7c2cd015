package cmd

import (
	"fmt"
	"os"

	"chainflow/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "chainflow",
	Short: "Chained workflow runner",
	Long: `chainflow runs workflows whose tasks are ordered explicitly rather than
through data dependencies. The bundled example creates a bucket, writes
iris.csv into it and reads it back, once with chained tasks and once with
chained sub-workflows.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running the binary without a subcommand runs both example workflows.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCmd.RunE(cmd, nil)
	},
}

// configDir is where the .env file is looked up.
var configDir string

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing the .env file")
	RootCmd.Flags().Bool("json", false, "print executions as JSON")
}
