package cmd

import (
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <workflow>",
	Short: "Print the dependency graph of a workflow in DOT format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		return rt.iris.Graph(args[0], cmd.OutOrStdout())
	},
}

func init() {
	RootCmd.AddCommand(graphCmd)
}
