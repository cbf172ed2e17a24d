package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a document",
	Long: `Extracts text from the given file, normalises it, splits it into
chunks, and stores the result. Run "docqa index" afterwards to make the
document searchable.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	doc, err := ingestService.Upload(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %s\n", doc.Filename)
	cmd.Printf("  ID:     %s\n", doc.ID)
	cmd.Printf("  Chunks: %d\n", doc.ChunkCount)
	return nil
}
