// Package ui is the gio window of the layout editor: a palette of element
// types, one canvas, a toolbar, a log pane and a status bar.
package ui

import (
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/config"
)

// Options configure the editor window.
type Options struct {
	Config *config.Config
	// Path is the document to open; empty starts a new document.
	Path string
	// Watch reloads the document when the file changes on disk.
	Watch bool
}

// Run launches the Gio UI and blocks until the window closes.
func Run(opts Options) error {
	if opts.Config == nil {
		c := config.Default()
		opts.Config = &c
	}

	go func() {
		w := new(app.Window)
		w.Option(
			app.Title("OpenTraceLayout"),
			app.Size(unit.Dp(float32(opts.Config.UI.Width)), unit.Dp(float32(opts.Config.UI.Height))),
		)
		ui, err := New(w, opts.Config, opts.Path)
		if err != nil {
			log.Printf("ui: %v", err)
			os.Exit(1)
		}
		stop := func() {}
		if opts.Watch && opts.Path != "" {
			if stop, err = ui.watch(opts.Path); err != nil {
				log.Printf("ui: watch %s: %v", opts.Path, err)
				stop = func() {}
			}
		}
		if err := ui.Run(); err != nil {
			log.Printf("ui: %v", err)
		}
		stop()
		os.Exit(0)
	}()

	app.Main()
	return nil
}
