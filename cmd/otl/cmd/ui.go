package cmd

import (
	"github.com/spf13/cobra"

	appui "github.com/OpenTraceLab/OpenTraceLayout/internal/ui"
)

var watchFile bool

var uiCmd = &cobra.Command{
	Use:   "ui [layout_file]",
	Short: "Open the layout editor",
	Long: `Open a layout in the interactive editor. Without a file the editor
starts with an empty document; drop an element from the palette to
create its root.

Controls:
  Click / Shift+Click     - Select / toggle selection
  Alt+Click               - Cycle through overlapping views
  Drag                    - Move selection, or marquee on empty space
  Drag a handle           - Resize
  Right Click             - Context menu
  Ctrl+C/X/V/D            - Copy / cut / paste / duplicate
  Ctrl+Z / Ctrl+Shift+Z   - Undo / redo
  Delete                  - Delete selection
  F2                      - Rename
  Ctrl+Scroll / Ctrl+0    - Zoom / fit
  Escape                  - Cancel the current gesture`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := appui.Options{Config: cfg, Watch: watchFile}
		if len(args) == 1 {
			opts.Path = args[0]
		}
		return appui.Run(opts)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload the layout when the file changes")
}
