package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"chainflow/feature/executions"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored workflow executions",
	Long:  `Lists executions recorded in the history database, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		workflowName, _ := cmd.Flags().GetString("workflow")
		limit, _ := cmd.Flags().GetInt("limit")

		summaries, err := executions.NewService(rt.history).List(cmd.Context(), workflowName, limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWORKFLOW\tSTATUS\tSTARTED\tDURATION\tERROR")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				s.ID, s.Workflow, s.Status,
				s.StartedAt.Format(time.RFC3339),
				s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond),
				s.Error,
			)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().String("workflow", "", "only show executions of this workflow")
	historyCmd.Flags().Int("limit", executions.DefaultLimit, "maximum number of executions")
	RootCmd.AddCommand(historyCmd)
}
