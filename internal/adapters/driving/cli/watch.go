package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/logger"
)

// settleDelay gives writers time to finish before a new file is
// ingested. Editors and downloaders often create then write.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new files",
	Long: `Watches the given directory and automatically uploads and indexes
every file created in it. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			ingestWatched(cmd, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		case <-sig:
			cmd.Println("Stopping.")
			return nil
		}
	}
}

// ingestWatched uploads and indexes one newly created file. Failures
// are reported and skipped so the watcher keeps running.
func ingestWatched(cmd *cobra.Command, path string) {
	time.Sleep(settleDelay)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	ctx := context.Background()
	doc, err := ingestService.Upload(ctx, path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}
	if err := ingestService.Index(ctx, doc.ID); err != nil {
		cmd.Printf("Uploaded %s (%s) but indexing failed: %v\n", doc.Filename, doc.ID, err)
		return
	}
	cmd.Printf("Ingested %s (%s, %d chunks)\n", doc.Filename, doc.ID, doc.ChunkCount)
}
