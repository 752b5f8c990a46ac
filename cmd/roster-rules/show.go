// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/roster-rules/internal/extract"
	"github.com/pdiddy/roster-rules/internal/render"
	"github.com/pdiddy/roster-rules/internal/view"
)

var showCmd = &cobra.Command{
	Use:   "show [roster-id]",
	Short: "Print a roster's special rules with their descriptions",
	Long: `Show collects a roster's special rules and fetches the published
description of each one concurrently. Rules whose description cannot be
found or fetched are shown as "description not available".

Output formats are table (default), json, yaml, and html. With --print the
page is written as a printable HTML document to --output.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("file", "", "read the roster from a file instead of the database")
	showCmd.Flags().String("format", "table", "output format: table, json, yaml, or html")
	showCmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")
	showCmd.Flags().Bool("sources", false, "list the units referencing each rule")
	showCmd.Flags().Bool("print", false, "write a printable HTML page to --output")
	showCmd.Flags().Int("max-concurrent", 0, "maximum concurrent description fetches (0 = one per rule)")
	showCmd.Flags().String("metadata", "", "rule metadata YAML file (default: built-in table)")

	rootCmd.AddCommand(showCmd)
}

// pagePrinter prints a view by writing it as an HTML document to path.
type pagePrinter struct {
	path    string
	view    *view.View
	sources bool
}

func (p *pagePrinter) Print() error {
	defer p.view.AfterPrint()

	f, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", p.path, err)
	}
	if err := render.FormatHTML(pageOf(p.view, p.sources), f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", p.path, err)
	}
	fmt.Fprintf(os.Stderr, "printed: %s\n", p.path)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	withSources, _ := cmd.Flags().GetBool("sources")
	printPage, _ := cmd.Flags().GetBool("print")

	if printPage && output == "" {
		return fmt.Errorf("--print requires --output")
	}
	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-concurrent") {
		cfg.Resolver.MaxConcurrent, _ = cmd.Flags().GetInt("max-concurrent")
	}
	if metadataFile, _ := cmd.Flags().GetString("metadata"); metadataFile != "" {
		cfg.Resolver.MetadataFile = metadataFile
	}

	acc, id, closeFn, err := rosterSource(cfg, file, args)
	if err != nil {
		return err
	}
	defer closeFn()

	resolver, err := newResolver(cfg.Resolver)
	if err != nil {
		return err
	}

	printer := &pagePrinter{path: output, sources: withSources}
	opts := view.Options{Logger: slog.Default()}
	if printPage {
		opts.Printer = printer
	}
	v := view.New(acc, view.Language(cfg.Language), resolver, opts)
	printer.view = v

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v.SetRoster(id)
	select {
	case <-v.Refresh(ctx):
	case <-ctx.Done():
		return ctx.Err()
	}
	if v.Roster() == nil {
		slog.Warn("roster not found", "roster", id)
	}

	if printPage {
		return v.Print()
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	return writePage(pageOf(v, withSources), format, w)
}

// checkFormat rejects output formats writePage does not support.
func checkFormat(format string) error {
	switch format {
	case "table", "", "json", "yaml", "html":
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use table, json, yaml, or html", format)
	}
}

// writePage renders page to w in format.
func writePage(page render.Page, format string, w io.Writer) error {
	switch format {
	case "table", "":
		render.FormatTable(page, w)
		return nil
	case "json":
		return render.FormatJSON(page, w)
	case "yaml":
		return render.FormatYAML(page, w)
	case "html":
		return render.FormatHTML(page, w)
	default:
		return checkFormat(format)
	}
}

// pageOf collects the current state of v into a render.Page.
func pageOf(v *view.View, withSources bool) render.Page {
	page := render.Page{
		Language: v.Language(),
		Loading:  v.Loading(),
		Rules:    v.Rules(),
		Contents: v.Contents(),
	}
	if r := v.Roster(); r != nil {
		page.Title = r.Name
		if page.Title == "" {
			page.Title = r.ID
		}
		if withSources {
			page.Sources = extract.Sources(r, page.Language)
		}
	}
	return page
}
