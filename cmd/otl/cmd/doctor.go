package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/canvas"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/render"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/sexpr"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor <layout_file>",
	Short: "Check a layout file for problems",
	Long: `Check that a layout file is well formed: it parses with both the
editor's s-expression reader and an independent one, decodes into a
document, declares the android namespace, uses known element types,
renders, and survives a save and reload unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// check is one doctor finding.
type check struct {
	name string
	err  error
	// warn marks findings that do not fail the command.
	warn bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read layout: %w", err)
	}

	var checks []check
	add := func(name string, err error, warn bool) {
		checks = append(checks, check{name: name, err: err, warn: warn})
	}

	exprs, err := sexpr.Parse(bytes.NewReader(data))
	if err == nil && len(exprs) != 1 {
		err = fmt.Errorf("found %d top-level expressions, want 1", len(exprs))
	}
	add("s-expression syntax", err, false)

	add("reference reader", crossCheck(data, len(exprs)), true)

	doc, err := document.Load(bytes.NewReader(data))
	add("document structure", err, false)
	if err == nil {
		add("namespace declaration", checkNamespace(doc, cfg.Namespace.URI), true)

		opts, err := canvas.ConfigOptions(cfg, doc)
		if err == nil {
			add("element types", checkTypes(doc, opts.Lookup), true)
			_, err = opts.Renderer.Render(context.Background(), doc, render.Hints{Width: cfg.Render.Width, Height: cfg.Render.Height})
		}
		add("render", err, false)
		add("round trip", checkRoundTrip(doc), false)
	}

	return report(cmd.OutOrStdout(), args[0], checks)
}

// crossCheck parses data with github.com/chewxy/sexp and compares the
// number of top-level expressions.
func crossCheck(data []byte, want int) error {
	exprs, err := sexp.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if len(exprs) != want {
		return fmt.Errorf("reference reader found %d top-level expressions, editor found %d", len(exprs), want)
	}
	for i, e := range exprs {
		if e.IsLeaf() {
			return fmt.Errorf("expression %d is an atom", i+1)
		}
	}
	return nil
}

func checkNamespace(doc *document.Document, uri string) error {
	root := doc.Root()
	if root == nil || !root.Exists() {
		return nil
	}
	if !document.HasNamespaceDecl(root, uri) {
		return fmt.Errorf("root %s does not declare %s", root.ShortName(), uri)
	}
	return nil
}

func checkTypes(doc *document.Document, lookup descriptor.Lookup) error {
	var unknown []string
	seen := make(map[string]bool)
	doc.Walk(func(n *document.Node) bool {
		if lookup.Describe(n.Type()) == nil && !seen[n.Type()] {
			seen[n.Type()] = true
			unknown = append(unknown, n.Type())
		}
		return true
	})
	if len(unknown) > 0 {
		return fmt.Errorf("unknown element types %v render as plain views", unknown)
	}
	return nil
}

func checkRoundTrip(doc *document.Document) error {
	first := doc.String()
	again, err := document.ParseString(first)
	if err != nil {
		return fmt.Errorf("saved form does not parse: %w", err)
	}
	if second := again.String(); second != first {
		return fmt.Errorf("saved form changes on reload")
	}
	return nil
}

func report(w io.Writer, path string, checks []check) error {
	fmt.Fprintf(w, "Checking %s\n", path)
	failed := 0
	for _, c := range checks {
		switch {
		case c.err == nil:
			fmt.Fprintf(w, "  ok    %s\n", c.name)
		case c.warn:
			fmt.Fprintf(w, "  warn  %s: %v\n", c.name, c.err)
		default:
			failed++
			fmt.Fprintf(w, "  FAIL  %s: %v\n", c.name, c.err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%s: %d check(s) failed", path, failed)
	}
	fmt.Fprintln(w, "No problems found")
	return nil
}
