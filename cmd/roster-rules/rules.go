// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/roster-rules/internal/extract"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [roster-id]",
	Short: "Print the special rules referenced by a roster",
	Long: `Rules collects the special rules of every unit and detachment in a roster,
applying the roster's army composition overrides, and prints them sorted and
deduplicated. Variable parameters such as "(1)" or "(D3)" are shown as "(X)".

The roster is read from the roster database, or from a file with --file.`,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().String("file", "", "read the roster from a file instead of the database")
	rulesCmd.Flags().Bool("sources", false, "list the units referencing each rule")
	rulesCmd.Flags().Bool("json", false, "output rules as JSON")

	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	withSources, _ := cmd.Flags().GetBool("sources")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	acc, id, closeFn, err := rosterSource(cfg, file, args)
	if err != nil {
		return err
	}
	defer closeFn()

	r, found, err := acc.Get(context.Background(), id)
	if err != nil {
		return err
	}
	if !found {
		slog.Warn("roster not found", "roster", id)
	}

	rules := extract.SpecialRules(r, cfg.Language)
	var sources map[string][]string
	if withSources {
		sources = extract.Sources(r, cfg.Language)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if withSources {
			return enc.Encode(sources)
		}
		return enc.Encode(rules)
	}

	if len(rules) == 0 {
		fmt.Println("No special rules found.")
		return nil
	}
	for _, name := range rules {
		if withSources {
			fmt.Printf("%s: %s\n", name, strings.Join(sources[name], ", "))
			continue
		}
		fmt.Println(name)
	}
	return nil
}
