package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [document-id]",
	Short: "Start an interactive question session",
	Long: `Opens an interactive terminal session for asking questions about
one document. Answers are grounded in the document's indexed content.`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	// Fail fast on unknown documents instead of inside the session.
	doc, err := ingestService.Document(ctx, args[0])
	if err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}

	app := tui.NewApp(ctx, queryService, doc.ID)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
