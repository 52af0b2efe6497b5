package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/canvas"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/config"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "otl",
	Short: "OpenTraceLayout - layout canvas editor and tools",
	Long: `OpenTraceLayout (otl) edits view layouts: a canvas with selection,
drag and drop, resize and clipboard operations over an undoable document.

Examples:
  otl ui main.layout                   # Edit a layout
  otl info main.layout                 # Print the rendered view tree
  otl render main.layout -o out.png    # Render to PNG
  otl run main.layout steps.otls       # Replay a gesture script
  otl doctor main.layout               # Check a layout file`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: discovered .otl/config.yaml)")
}

// logf logs only in verbose mode.
func logf(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// loadConfig resolves the configuration from --config or discovery.
func loadConfig() (*config.Config, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path != "" {
		logf("otl: using config %s", path)
	}
	return cfg, nil
}

// openCanvas loads the document at path and renders it once. Rendering
// is always synchronous on the command line.
func openCanvas(cfg *config.Config, path string) (*canvas.Canvas, error) {
	local := *cfg
	local.Canvas.AsyncRender = false
	cfg = &local

	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}
	opts, err := canvas.ConfigOptions(cfg, doc)
	if err != nil {
		return nil, err
	}
	opts.Logf = logf
	c := canvas.New(opts)
	c.Loop().Drain()
	if err := c.RenderError(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to render %s: %w", path, err)
	}
	return c, nil
}
