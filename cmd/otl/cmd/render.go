package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/render"
)

var (
	renderOutput string
	renderSelect []string
)

var renderCmd = &cobra.Command{
	Use:   "render <layout_file>",
	Short: "Render a layout to PNG",
	Long: `Render a layout with the box renderer and write it as a PNG image.
Selected views are drawn with the canvas selection feedback.

Examples:
  otl render main.layout -o main.png
  otl render main.layout -o sel.png --select ok,label`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addScreenFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output PNG file")
	renderCmd.Flags().StringSliceVar(&renderSelect, "select", nil, "ids of views to draw as selected")
	renderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
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

	img := c.Image()
	if img == nil {
		return fmt.Errorf("%s has nothing to render", args[0])
	}

	if len(renderSelect) > 0 {
		nodes, err := nodesByID(c.Document(), renderSelect)
		if err != nil {
			return err
		}
		c.Selection().SetSelection(nodes)
	}

	dc := render.Overlay(img)
	c.Paint(render.NewGraphics(dc, gfx.DefaultPalette()))
	if err := dc.SavePNG(renderOutput); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOutput, err)
	}
	b := img.Bounds()
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", renderOutput, b.Dx(), b.Dy())
	return nil
}

// nodesByID finds the elements with the given android:id values, with or
// without the "@+id/" prefix.
func nodesByID(doc *document.Document, ids []string) ([]*document.Node, error) {
	byID := make(map[string]*document.Node)
	doc.Walk(func(n *document.Node) bool {
		id := n.AndroidAttr("id")
		id = strings.TrimPrefix(strings.TrimPrefix(id, "@+id/"), "@id/")
		if id != "" {
			byID[id] = n
		}
		return true
	})
	nodes := make([]*document.Node, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimPrefix(strings.TrimPrefix(id, "@+id/"), "@id/")
		n, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("no view with id %q", id)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
