package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

var (
	screenWidth  int
	screenHeight int
	showEmpty    bool
)

var infoCmd = &cobra.Command{
	Use:   "info <layout_file>",
	Short: "Show the rendered view tree of a layout",
	Long: `Render a layout with the box renderer and print every view with its
bounds in layout pixels.

Examples:
  otl info main.layout
  otl info --width 480 --height 800 --show-empty main.layout`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addScreenFlags(infoCmd)
}

// addScreenFlags registers the flags overriding the render settings.
func addScreenFlags(c *cobra.Command) {
	c.Flags().IntVar(&screenWidth, "width", 0, "screen width hint (default from config)")
	c.Flags().IntVar(&screenHeight, "height", 0, "screen height hint (default from config)")
	c.Flags().BoolVar(&showEmpty, "show-empty", false, "pad empty layouts so they can be seen")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyScreenFlags(cmd, &cfg.Render.Width, &cfg.Render.Height, &cfg.Canvas.ShowEmptyLayouts)

	c, err := openCanvas(cfg, args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Layout: %s\n", args[0])
	fmt.Fprintf(out, "  Elements: %d\n", c.Document().Count())
	fmt.Fprintf(out, "  Screen: %dx%d\n", cfg.Render.Width, cfg.Render.Height)
	root := c.Tree().Root()
	if root == nil {
		fmt.Fprintln(out, "  (empty)")
		return nil
	}
	fmt.Fprintln(out)
	printView(out, root, 0)
	return nil
}

func applyScreenFlags(cmd *cobra.Command, width, height *int, empty *bool) {
	if cmd.Flags().Changed("width") {
		*width = screenWidth
	}
	if cmd.Flags().Changed("height") {
		*height = screenHeight
	}
	if cmd.Flags().Changed("show-empty") {
		*empty = showEmpty
	}
}

func printView(w io.Writer, v *viewinfo.Node, depth int) {
	b := v.Bounds()
	var flags []string
	if v.IsHidden() {
		flags = append(flags, "hidden")
	}
	if v.IsInvisible() {
		flags = append(flags, "invisible")
	}
	if v.IsExploded() {
		flags = append(flags, "exploded")
	}
	line := fmt.Sprintf("%s%s [%d,%d %dx%d]", strings.Repeat("  ", depth), v.Name(), b.Min.X, b.Min.Y, b.Dx(), b.Dy())
	if n := v.DocNode(); n != nil {
		if id := n.AndroidAttr("id"); id != "" {
			line += " " + id
		}
	}
	if len(flags) > 0 {
		line += " (" + strings.Join(flags, ", ") + ")"
	}
	fmt.Fprintln(w, line)
	for _, c := range v.Children() {
		printView(w, c, depth+1)
	}
}
