package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ingestion history for the tenant",
	Long: `Lists the tenant's ingestions, newest first. A row left in the
pending state means the ingestion was interrupted and should be
re-run; a failed row never reached the index.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output history as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	tenant := resolveTenant()
	rows, err := ingestService.History(context.Background(), tenant)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(rows) == 0 {
		cmd.Printf("No ingestions for tenant %s.\n", tenant)
		return nil
	}

	cmd.Printf("Ingestions for tenant %s:\n\n", tenant)
	for _, row := range rows {
		cmd.Printf("  %-10s %-40s %4d chunks  %s\n",
			statusLabel(row.Status), row.Filename, row.ChunkCount,
			row.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func statusLabel(s domain.IngestStatus) string {
	switch s {
	case domain.IngestStatusComplete:
		return "complete"
	case domain.IngestStatusFailed:
		return "FAILED"
	case domain.IngestStatusPending:
		return "pending"
	default:
		return s.String()
	}
}
