package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print directories used by sift",
	Long:  "Print the directory where sift stores its configuration, item store, and logs.",
	Example: `
# Print the data directory
sift dirs
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupApp(cmd)
		if err != nil {
			return err
		}
		fmt.Println(cfg.DataDir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dirsCmd)
}
