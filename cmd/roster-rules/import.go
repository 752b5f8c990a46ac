// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/roster-rules/internal/roster"
)

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import roster files into the roster database",
	Long: `Import reads roster documents (YAML, or JSON for files ending in .json)
and stores them by roster ID. A roster without an ID is stored under its file
name. Existing rosters with the same ID are replaced.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more roster files")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := roster.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	summary := store.Import(context.Background(), args, os.Stdout)
	if summary.HasFailures() {
		return fmt.Errorf("%d roster file(s) failed import", summary.Failed)
	}
	return nil
}
