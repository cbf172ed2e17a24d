// Package cli implements the docqa command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired by the composition root before Execute.
var (
	queryService  driving.QueryService
	ingestService driving.IngestService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Question answering over your documents",
	Long: `docqa ingests documents, indexes them into a vector store, and
answers questions grounded in a single document's content.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// SetServices wires the driving services into the commands.
func SetServices(query driving.QueryService, ingest driving.IngestService) {
	queryService = query
	ingestService = ingest
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
