package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/kbtools/url2kb/internal/api"
	"github.com/kbtools/url2kb/internal/importer"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Inspect a conversion task",
	Long: `Show the current status of a conversion task. For a completed
task the extractable chunks are listed.

Examples:
  url2kb status 4f7c21d0`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	taskID := args[0]

	st, err := apiClient.TaskStatus(cmd.Context(), taskID)
	if err != nil {
		return fmt.Errorf("task status: %w", err)
	}
	return renderStatus(os.Stdout, taskID, st)
}

func renderStatus(out io.Writer, taskID string, st *api.StatusResponse) error {
	fmt.Fprintf(out, "Task: %s\n", taskID)
	fmt.Fprintf(out, "  Status: %s\n", st.Status)

	switch st.Status {
	case api.StatusPending, api.StatusRunning:
		fmt.Fprintln(out, "  Still in progress; check again later")

	case api.StatusFailed:
		fmt.Fprintf(out, "  Reason: %s\n", importer.FailureReason(st.Result))

	case api.StatusCompleted:
		doc, err := importer.ParseResult(st.Result)
		if err != nil {
			return err
		}
		units := importer.Flatten(doc)
		if len(units) == 0 {
			fmt.Fprintln(out, "  No extractable content")
			return nil
		}
		fmt.Fprintf(out, "\nExtractable chunks (%d):\n", len(units))
		for _, u := range units {
			fmt.Fprintf(out, "  %-28s %d bytes\n", u.Filename, len(u.Content))
		}
	}

	return nil
}
