package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List knowledge-base collections",
	Args:  cobra.NoArgs,
	RunE:  runCollections,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

func runCollections(cmd *cobra.Command, args []string) error {
	names, err := apiClient.ListCollections(cmd.Context())
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	if len(names) == 0 {
		fmt.Println("No collections found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
