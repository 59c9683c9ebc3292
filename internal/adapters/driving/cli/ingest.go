package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a PDF document",
	Long: `Extracts text from a PDF, splits it into overlapping chunks, embeds
each chunk, and stores the vectors under the current tenant.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	tenant := resolveTenant()
	cmd.Printf("Ingesting %s for tenant %s...\n", filepath.Base(path), tenant)

	result, err := ingestService.Ingest(context.Background(), tenant, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Stored %d chunks from %s.\n", result.ChunkCount, result.Filename)
	if result.SkippedChunks > 0 {
		cmd.Printf("Skipped %d chunks that failed to embed.\n", result.SkippedChunks)
	}
	if result.ChunkCount == 0 {
		cmd.Println("No text could be extracted; the document is indexed empty.")
	}
	return nil
}
