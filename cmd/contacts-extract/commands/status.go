package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/robertrahardja/mac-contacts-extract/pkg/checkpoint"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the progress recorded in the checkpoint file",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().String("checkpoint", ".contacts-checkpoint.json", "checkpoint file path")
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := mustString(cmd, "checkpoint")

	st, err := checkpoint.NewStore(path).Load()
	if err != nil {
		logError("%v", err)
		return err
	}
	if st == nil {
		fmt.Printf("No checkpoint at %s, nothing in progress.\n", path)
		return nil
	}

	fmt.Printf("Checkpoint: %s\n", path)
	fmt.Printf("  Run ID:        %s\n", st.RunID)
	fmt.Printf("  Saved at:      %s\n", st.SavedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  Last position: %s\n", humanize.Comma(int64(st.LastIndex)))
	fmt.Printf("  Rows:          %s\n", humanize.Comma(int64(len(st.Contacts))))
	fmt.Printf("  Columns:       %d\n", len(st.Columns))
	if len(st.Failed) > 0 {
		fmt.Printf("  Failed:        %d positions %v\n", len(st.Failed), st.Failed)
	}
	return nil
}
