package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyJSON   bool
	historyForget bool
)

var historyCmd = &cobra.Command{
	Use:   "history [document-id]",
	Short: "Show archived transcripts",
	Long: `Without arguments, lists documents with archived transcripts, most recent
first. With a document id, prints that document's transcript.

Entries are archived while the auto_save preference is on.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "only show the last N entries")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output entries as JSON")
	historyCmd.Flags().BoolVar(&historyForget, "forget", false, "delete the document's archived transcript")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if services == nil || services.History == nil {
		return errors.New("history service not configured")
	}
	history := services.History
	ctx := cmd.Context()

	if len(args) == 0 {
		if historyForget {
			return errors.New("--forget requires a document id")
		}
		ids, err := history.Documents(ctx)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		if len(ids) == 0 {
			cmd.Println("No archived transcripts.")
			return nil
		}
		for _, id := range ids {
			cmd.Println(id)
		}
		return nil
	}

	if historyForget {
		if err := history.Forget(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete transcript: %w", err)
		}
		cmd.Printf("Deleted transcript for %s\n", args[0])
		return nil
	}

	msgs, err := history.Transcript(ctx, args[0], historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		data, err := json.MarshalIndent(msgs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal transcript: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, m := range msgs {
		cmd.Printf("[%s] ", m.Timestamp.Local().Format("2006-01-02 15:04"))
		printEntry(cmd, m)
		if m.Error != "" {
			cmd.Printf("  error: %s\n", m.Error)
		}
		cmd.Println()
	}
	return nil
}
