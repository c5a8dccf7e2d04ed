package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sift-sh/sift/internal/db"
	"github.com/sift-sh/sift/internal/review"
)

// exportItem is the outward-facing item shape for list/export output.
type exportItem struct {
	ID         string  `json:"id" yaml:"id"`
	Title      string  `json:"title" yaml:"title"`
	Body       string  `json:"body,omitempty" yaml:"body,omitempty"`
	Source     string  `json:"source,omitempty" yaml:"source,omitempty"`
	Score      float64 `json:"score" yaml:"score"`
	Status     string  `json:"status" yaml:"status"`
	ReasonCode string  `json:"reason_code,omitempty" yaml:"reason_code,omitempty"`
	CreatedAt  string  `json:"created_at" yaml:"created_at"`
	UpdatedAt  string  `json:"updated_at" yaml:"updated_at"`
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage review items",
	Long:  "List and export the items in the review queue.",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		status, _ := cmd.Flags().GetString("status")
		return runItems(cmd, func(ctx context.Context, service review.Service) ([]review.Item, error) {
			if status == "pending" {
				return service.ListPending(ctx)
			}
			return service.ListAll(ctx)
		}, format)
	},
}

var itemsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all items",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return runItems(cmd, func(ctx context.Context, service review.Service) ([]review.Item, error) {
			return service.ListAll(ctx)
		}, format)
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsExportCmd)

	itemsListCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	itemsListCmd.Flags().StringP("status", "s", "pending", "Status filter (pending, all)")
	itemsExportCmd.Flags().StringP("format", "f", "json", "Export format (json, yaml)")
}

func runItems(cmd *cobra.Command, load func(context.Context, review.Service) ([]review.Item, error), format string) error {
	ctx := cmd.Context()

	cfg, err := setupApp(cmd)
	if err != nil {
		return err
	}
	conn, err := db.Connect(ctx, cfg.DataDir())
	if err != nil {
		return fmt.Errorf("failed to open item store: %w", err)
	}
	defer conn.Close()

	items, err := load(ctx, review.NewService(db.New(conn)))
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	return formatItems(items, format)
}

func formatItems(items []review.Item, format string) error {
	out := make([]exportItem, len(items))
	for i, item := range items {
		out[i] = exportItem{
			ID:         item.ID,
			Title:      item.Title,
			Body:       item.Body,
			Source:     item.Source,
			Score:      item.Score,
			Status:     string(item.Status),
			ReasonCode: item.ReasonCode,
			CreatedAt:  formatTimestamp(item.CreatedAt),
			UpdatedAt:  formatTimestamp(item.UpdatedAt),
		}
	}

	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Println(string(data))
	case "text":
		if len(out) == 0 {
			fmt.Println("No items found.")
			return nil
		}
		for _, item := range out {
			fmt.Printf("• [%s] %s (%s, %.2f)\n", item.Status, item.Title, item.Source, item.Score)
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

func formatTimestamp(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format("2006-01-02 15:04:05")
}
