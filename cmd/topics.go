package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikiheller/reading-comprehension/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Inspect the recent-topic history",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently used story topics (oldest first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := topics.NewSQLite(resolveDBPath(cmd), nil)
		if err != nil {
			return fmt.Errorf("open topic history: %w", err)
		}
		defer store.Close()

		recent := store.Recent()
		if len(recent) == 0 {
			fmt.Println("No recent topics.")
			return nil
		}
		for i, topic := range recent {
			fmt.Printf("%d. %s\n", i+1, topic)
		}
		return nil
	},
}

var topicsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recent topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := topics.NewSQLite(resolveDBPath(cmd), nil)
		if err != nil {
			return fmt.Errorf("open topic history: %w", err)
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Recent topics cleared.")
		return nil
	},
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsClearCmd)
}
