package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sift-sh/sift/internal/db"
	"github.com/sift-sh/sift/internal/review"
)

// importEntry is the accepted wire shape for bulk imports.
type importEntry struct {
	Title  string  `json:"title"`
	Body   string  `json:"body,omitempty"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Bulk-load items into the review queue",
	Long:  "Read a JSON array of items and append them to the pending queue.",
	Args:  cobra.ExactArgs(1),
	Example: `
# Import findings from a scanner run
sift import findings.json
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := setupApp(cmd)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}
		var entries []importEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("failed to parse import file: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Nothing to import.")
			return nil
		}

		conn, err := db.Connect(ctx, cfg.DataDir())
		if err != nil {
			return fmt.Errorf("failed to open item store: %w", err)
		}
		defer conn.Close()

		service := review.NewService(db.New(conn))
		for _, entry := range entries {
			if entry.Title == "" {
				return fmt.Errorf("invalid entry: missing title")
			}
			if _, err := service.Create(ctx, review.CreateItemParams{
				Title:  entry.Title,
				Body:   entry.Body,
				Source: entry.Source,
				Score:  entry.Score,
			}); err != nil {
				return fmt.Errorf("failed to import %q: %w", entry.Title, err)
			}
		}

		fmt.Printf("Imported %d items.\n", len(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
