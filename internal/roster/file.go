// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/roster-rules/pkg/types"
)

// LoadFile reads a roster document. Files ending in .json are decoded as
// JSON, everything else as YAML. A roster without an ID takes the file
// name without extension.
func LoadFile(path string) (*types.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}

	var r types.Roster
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &r)
	} else {
		err = yaml.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}

	if r.ID == "" {
		r.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &r, nil
}

// ImportSummary holds the outcome of an Import run.
type ImportSummary struct {
	Imported int
	Failed   int
}

// Total returns the number of files processed.
func (s ImportSummary) Total() int {
	return s.Imported + s.Failed
}

// HasFailures reports whether any file failed.
func (s ImportSummary) HasFailures() bool {
	return s.Failed > 0
}

// Import loads each file and stores it, printing per-file status to w.
// It continues after individual failures.
func (s *Store) Import(ctx context.Context, paths []string, w io.Writer) ImportSummary {
	var summary ImportSummary
	for _, path := range paths {
		r, err := LoadFile(path)
		if err == nil {
			err = s.Put(ctx, r)
		}
		if err != nil {
			fmt.Fprintf(w, "failed:   %s (%v)\n", path, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "imported: %s (%d units)\n", r.ID, len(r.Units()))
		summary.Imported++
	}
	fmt.Fprintf(w, "\nImport summary: %d imported, %d failed (total: %d)\n",
		summary.Imported, summary.Failed, summary.Total())
	return summary
}
