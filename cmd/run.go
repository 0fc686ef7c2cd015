package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"chainflow/core/workflow"
	"chainflow/feature/iris"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [workflow...]",
	Short: "Run workflows and print their results",
	Long: `Runs the named workflows one after another and prints each result.
Without arguments both chain_tasks_wf and chain_workflows_wf are run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		asJSON, _ := cmd.Flags().GetBool("json")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		names := args
		if len(names) == 0 {
			names = iris.DefaultWorkflows
		}

		out := cmd.OutOrStdout()
		for _, name := range names {
			exec, err := rt.iris.Run(ctx, name)
			if exec != nil {
				if perr := printExecution(out, name, exec, asJSON); perr != nil {
					return perr
				}
			}
			if err != nil {
				return fmt.Errorf("workflow %s failed: %w", name, err)
			}
		}
		return nil
	},
}

func printExecution(w io.Writer, name string, exec *workflow.Execution, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exec.Summary())
	}

	if exec.Err != nil {
		_, err := fmt.Fprintf(w, "Running %s()... failed: %v\n", name, exec.Err)
		return err
	}

	if table, ok := exec.Output.(iris.Table); ok {
		data, err := iris.EncodeCSV(table)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Running %s()...\n%s", name, data)
		return err
	}
	_, err := fmt.Fprintf(w, "Running %s()... %v\n", name, exec.Output)
	return err
}

func init() {
	runCmd.Flags().Bool("json", false, "print executions as JSON")
	RootCmd.AddCommand(runCmd)
}
