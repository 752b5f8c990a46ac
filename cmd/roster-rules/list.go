// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/roster-rules/internal/roster"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rosters in the roster database",
	RunE:  runList,
}

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a roster from the roster database",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	listCmd.Flags().Bool("json", false, "output rosters as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := roster.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	rosters, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if rosters == nil {
			rosters = []roster.Summary{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rosters)
	}

	if len(rosters) == 0 {
		fmt.Println("No rosters stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-40s  %s\n", "ID", "Name", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range rosters {
		name := r.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-40s  %s\n", r.ID, name, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d rosters\n", len(rosters))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := roster.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.Delete(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("roster %q not found", args[0])
	}
	fmt.Printf("removed: %s\n", args[0])
	return nil
}
