// Package cli implements the docquery command-line interface.
//
// Commands hold no business logic: they parse arguments, call the
// driving ports, and render results. Services are injected once by the
// composition root via SetServices before Execute runs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/core/services"
	"github.com/custodia-labs/docquery/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root.
var (
	ingestService   driving.IngestService
	answerService   driving.AnswerService
	settingsService driving.SettingsService
	uploadWatcher   WatchRunner
)

// WatchRunner runs the upload watcher until the context is cancelled.
type WatchRunner interface {
	Run(ctx context.Context) error
}

var (
	verbose  bool
	tenantID string
)

var rootCmd = &cobra.Command{
	Use:   "docquery",
	Short: "Ask questions about your PDF documents",
	Long: `docquery ingests PDF documents into a vector index and answers
natural-language questions grounded in their content.

Documents and answers are scoped to a tenant. Pass --tenant to select
one; without it an ephemeral anonymous tenant is generated per run.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&tenantID, "tenant", "t", "", "tenant scope (anonymous when empty)")
}

// SetServices injects the driving ports. Called once by main before Execute.
func SetServices(
	ingest driving.IngestService,
	answer driving.AnswerService,
	settings driving.SettingsService,
	watcher WatchRunner,
) {
	ingestService = ingest
	answerService = answer
	settingsService = settings
	uploadWatcher = watcher
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveTenant returns the --tenant flag value, issuing an ephemeral
// anonymous tenant when the flag is unset.
func resolveTenant() string {
	if tenantID != "" {
		return tenantID
	}
	return services.NewAnonymousTenant()
}
