package ui

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/canvas"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/config"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
)

// tool is one toolbar button.
type tool struct {
	icon  *widget.Icon
	click widget.Clickable
	desc  string
	run   func()
}

var (
	lightPalette = theme.Palette{
		Bg:         rgb(0xf6f7f9),
		Fg:         rgb(0x1f2430),
		ContrastBg: rgb(0x2f7d6d),
		ContrastFg: rgb(0xffffff),
		Bg2:        rgb(0xe3e7ec),
	}
	darkPalette = theme.Palette{
		Bg:         rgb(0x16191e),
		Fg:         rgb(0xe6e8eb),
		ContrastBg: rgb(0x4fb39e),
		ContrastFg: rgb(0x0d1013),
		Bg2:        rgb(0x262b33),
	}
)

func rgb(c uint32) color.NRGBA {
	return color.NRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
}

// App is the layout editor window.
type App struct {
	window *app.Window
	ops    op.Ops
	cfg    *config.Config

	gvTheme  *theme.Theme
	darkMode bool
	explorer *explorer.Explorer

	path      string
	canvas    *canvas.Canvas
	clipboard payload.Clipboard
	drags     *payload.DragRegistry
	view      *viewport
	palette   *palette
	// viewArea is the viewport rectangle in window coordinates.
	viewArea image.Rectangle

	tools     []*tool
	showEmpty widget.Bool
	dark      widget.Bool

	renaming     bool
	renameEditor widget.Editor

	reloads chan string

	log *logPane

	status    string
	statusErr string
}

// New creates the editor for the document at path. An empty path starts
// with an empty document.
func New(w *app.Window, cfg *config.Config, path string) (*App, error) {
	a := &App{
		window:    w,
		cfg:       cfg,
		darkMode:  cfg.UI.Dark,
		clipboard: &payload.SystemClipboard{},
		drags:     payload.NewDragRegistry(),
		view:      newViewport(),
		reloads:   make(chan string, 1),
		log:       newLogPane(),
	}
	a.gvTheme = theme.NewTheme("", nil, true)
	a.explorer = explorer.NewExplorer(w)
	a.renameEditor.SingleLine = true
	a.renameEditor.Submit = true
	a.dark.Value = a.darkMode
	a.showEmpty.Value = cfg.Canvas.ShowEmptyLayouts
	a.applyPalette()
	a.buildTools()

	doc := document.New()
	if path != "" {
		d, err := document.LoadFile(path)
		if err != nil {
			return nil, err
		}
		doc = d
	}
	if err := a.setDocument(doc, path); err != nil {
		return nil, err
	}
	a.Logf("[BOOT] Layout editor initialized")
	return a, nil
}

// setDocument replaces the edited document, keeping the zoom and scroll
// of the previous canvas.
func (a *App) setDocument(doc *document.Document, path string) error {
	opts, err := canvas.ConfigOptions(a.cfg, doc)
	if err != nil {
		return err
	}
	opts.Clipboard = a.clipboard
	opts.Drags = a.drags
	opts.Status = a
	opts.TextSelection = a
	opts.Logf = a.Logf
	opts.OnAction = a.onAction
	opts.Wake = a.invalidate
	opts.Settings.ShowEmptyLayouts = a.showEmpty.Value

	c := canvas.New(opts)
	if old := a.canvas; old != nil {
		*c.Transform() = *old.Transform()
		old.Close()
	} else {
		a.view.fitted = false
	}
	a.canvas = c
	a.path = path

	names := descriptor.Builtin().Names()
	if cat, ok := opts.Lookup.(*descriptor.Catalog); ok {
		names = cat.Names()
	}
	a.palette = newPalette(names)
	a.updateTitle()
	return nil
}

func (a *App) updateTitle() {
	name := "untitled"
	if a.path != "" {
		name = a.path
	}
	a.window.Option(app.Title("OpenTraceLayout - " + name))
}

func (a *App) buildTools() {
	add := func(data []byte, desc string, run func()) {
		t := &tool{desc: desc, run: run}
		if icon, err := widget.NewIcon(data); err == nil {
			t.icon = icon
		}
		a.tools = append(a.tools, t)
	}
	add(icons.FileFolderOpen, "Open", a.openFilePicker)
	add(icons.ContentSave, "Save", a.save)
	add(icons.ContentUndo, "Undo", func() { a.canvas.Undo() })
	add(icons.ContentRedo, "Redo", func() { a.canvas.Redo() })
	add(icons.ContentContentCut, "Cut", func() { a.canvas.Cut() })
	add(icons.ContentContentCopy, "Copy", func() { a.canvas.Copy() })
	add(icons.ContentContentPaste, "Paste", func() { a.canvas.Paste() })
	add(icons.ActionDelete, "Delete", func() { a.canvas.Delete("Delete") })
	add(icons.MapsZoomOutMap, "Fit", func() { a.view.fit(a.canvas) })
}

// Run blocks processing window events until the window closes.
func (a *App) Run() error {
	defer func() { a.canvas.Close() }()
	for {
		e := a.window.Event()
		a.explorer.ListenEvents(e)
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			a.drainReloads()
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.handleGlobalKeys(gtx)
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	var toolbarHeight, paletteWidth int
	dims := layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			d := a.layoutToolbar(gtx)
			toolbarHeight = d.Size.Y
			return d
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					width := gtx.Dp(unit.Dp(160))
					gtx.Constraints.Min.X = width
					gtx.Constraints.Max.X = width
					paletteWidth = width
					return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return a.palette.Layout(gtx, a.gvTheme, a.canvas, payload.SexpCodec{})
					})
				}),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					d := a.view.Layout(gtx, a.gvTheme, a.canvas, a.contextMenu)
					a.viewArea = image.Rectangle{Max: d.Size}.Add(image.Pt(paletteWidth, toolbarHeight))
					return d
				}),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			d, moved := a.log.Layout(gtx, a.gvTheme)
			if moved {
				a.invalidate()
			}
			return d
		}),
		layout.Rigid(a.layoutStatusBar),
	)
	a.palette.Track(gtx, a.canvas, a.viewArea)
	return dims
}

// handleGlobalKeys handles the shortcuts that work regardless of focus.
func (a *App) handleGlobalKeys(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "S", Required: key.ModShortcut},
			key.Filter{Name: "O", Required: key.ModShortcut},
			key.Filter{Name: key.NameF2},
		)
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		switch ke.Name {
		case "S":
			a.save()
		case "O":
			a.openFilePicker()
		case key.NameF2:
			a.startRename()
		}
	}
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	for _, t := range a.tools {
		if t.click.Clicked(gtx) {
			t.run()
		}
	}
	if a.showEmpty.Update(gtx) {
		a.canvas.SetShowEmptyLayouts(a.showEmpty.Value)
	}
	if a.dark.Update(gtx) {
		a.setDarkMode(a.dark.Value)
	}

	children := make([]layout.FlexChild, 0, len(a.tools)+6)
	for _, t := range a.tools {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if t.icon == nil {
				return material.Button(a.gvTheme.Theme, &t.click, t.desc).Layout(gtx)
			}
			btn := material.IconButton(a.gvTheme.Theme, &t.click, t.icon, t.desc)
			btn.Size = unit.Dp(18)
			btn.Inset = layout.UniformInset(unit.Dp(6))
			btn.Background = a.gvTheme.Bg2
			btn.Color = a.gvTheme.Palette.Fg
			return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, btn.Layout)
		}))
	}
	children = append(children,
		layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
		layout.Rigid(a.layoutRename),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions { return layout.Dimensions{} }),
		layout.Rigid(a.labeledSwitch(&a.showEmpty, "Show empty layouts")),
		layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
		layout.Rigid(a.labeledSwitch(&a.dark, "Dark")),
	)
	return layout.Inset{Left: unit.Dp(8), Right: unit.Dp(8), Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
	})
}

func (a *App) labeledSwitch(b *widget.Bool, label string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.Body2(a.gvTheme.Theme, label).Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
			layout.Rigid(material.Switch(a.gvTheme.Theme, b, label).Layout),
		)
	}
}

// layoutRename shows the id editor while a rename is in progress.
func (a *App) layoutRename(gtx layout.Context) layout.Dimensions {
	if !a.renaming {
		return layout.Dimensions{}
	}
	for {
		ev, ok := a.renameEditor.Update(gtx)
		if !ok {
			break
		}
		if sub, ok := ev.(widget.SubmitEvent); ok {
			a.renaming = false
			if err := a.canvas.PerformRename(sub.Text); err != nil {
				a.SetStatus("", err.Error())
			}
		}
	}
	gtx.Constraints.Max.X = gtx.Dp(unit.Dp(220))
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	ed := material.Editor(a.gvTheme.Theme, &a.renameEditor, "new id, Enter to apply")
	return widget.Border{
		Color:        a.gvTheme.Palette.ContrastBg,
		CornerRadius: unit.Dp(4),
		Width:        unit.Dp(1),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(4)).Layout(gtx, ed.Layout)
	})
}

func (a *App) startRename() {
	items := a.canvas.Selection().Selections()
	if len(items) != 1 {
		a.SetStatus("", "Select a single view to rename")
		return
	}
	id := items[0].Node().AndroidAttr("id")
	id = strings.TrimPrefix(strings.TrimPrefix(id, "@+id/"), "@id/")
	a.renameEditor.SetText(id)
	a.renaming = true
	a.invalidate()
}

// onAction handles the actions the canvas leaves to its host.
func (a *App) onAction(id string, nodes []*document.Node) {
	switch id {
	case rules.ActionRename:
		a.startRename()
	case rules.ActionProperties:
		for _, n := range nodes {
			var attrs []string
			for _, at := range n.Attributes() {
				attrs = append(attrs, fmt.Sprintf("%s=%q", at.Name, at.Value))
			}
			a.Logf("[PROPS] %s %s", n.ShortName(), strings.Join(attrs, " "))
		}
	default:
		a.Logf("[WARN] unhandled action %q", id)
	}
}

// contextMenu builds the menu for the view under a secondary click at
// the device point at, selecting the view first when it is not selected.
func (a *App) contextMenu(at image.Point) *menu.DropdownMenu {
	c := a.canvas
	pos := c.Transform().ToLayout(layout.FPt(at))
	v := c.Tree().FindDeepest(pos)
	if v == nil {
		return nil
	}
	if !c.Selection().Contains(v) {
		c.Selection().SelectSingle(v)
	}
	actions := c.ContextMenu(v)
	if len(actions) == 0 {
		return nil
	}
	opts := make([]menu.MenuOption, 0, len(actions))
	for _, act := range actions {
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				return a.canvas.PerformAction(act.ID)
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, material.Body1(th.Theme, act.Title).Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(260)
	return drop
}

func (a *App) openFilePicker() {
	go func() {
		file, err := a.explorer.ChooseFile("layout")
		if err != nil {
			if !errors.Is(err, explorer.ErrUserDecline) {
				a.Logf("[ERROR] File picker failed: %v", err)
			}
			return
		}
		defer file.Close()
		f, ok := file.(*os.File)
		if !ok {
			a.Logf("[ERROR] Unable to get file path from picker")
			return
		}
		a.requestReload(f.Name())
	}()
}

func (a *App) save() {
	if a.path == "" {
		a.SetStatus("", "No file to save to")
		return
	}
	if err := a.canvas.Document().Save(a.path); err != nil {
		a.Logf("[ERROR] save %s: %v", a.path, err)
		return
	}
	a.Logf("[INFO] Saved %s", a.path)
}

// requestReload asks the UI goroutine to load path. Safe from any
// goroutine.
func (a *App) requestReload(path string) {
	select {
	case a.reloads <- path:
	default:
	}
	a.invalidate()
}

func (a *App) drainReloads() {
	for {
		select {
		case path := <-a.reloads:
			a.reload(path)
		default:
			return
		}
	}
}

// reload loads path unless it holds exactly what is being edited, which
// is the case right after a save.
func (a *App) reload(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.Logf("[ERROR] reload %s: %v", path, err)
		return
	}
	if path == a.path && bytes.Equal(bytes.TrimSpace(data), bytes.TrimSpace([]byte(a.canvas.Document().String()))) {
		return
	}
	doc, err := document.Load(bytes.NewReader(data))
	if err != nil {
		a.Logf("[ERROR] reload %s: %v", path, err)
		return
	}
	if err := a.setDocument(doc, path); err != nil {
		a.Logf("[ERROR] reload %s: %v", path, err)
		return
	}
	a.Logf("[INFO] Loaded %s (%d elements)", path, doc.Count())
}

// SetStatus implements canvas.StatusSink.
func (a *App) SetStatus(message, errorMessage string) {
	a.status, a.statusErr = message, errorMessage
	if errorMessage != "" {
		a.Logf("[STATUS] %s", errorMessage)
	}
	a.invalidate()
}

// SelectedText implements canvas.TextSelectionProvider with the log pane
// selection.
func (a *App) SelectedText() string { return a.log.selectedText() }

func (a *App) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	inset := layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6)}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if a.statusErr != "" {
					lbl := material.Body2(a.gvTheme.Theme, a.statusErr)
					lbl.Color = color.NRGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff}
					return lbl.Layout(gtx)
				}
				msg := a.status
				if msg == "" {
					msg = "Ready"
				}
				return material.Body2(a.gvTheme.Theme, msg).Layout(gtx)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions { return layout.Dimensions{} }),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				c := a.canvas
				info := fmt.Sprintf("%d selected  %d elements  %.0f%%", c.Selection().Len(), c.Document().Count(), c.Transform().Scale*100)
				if c.IsStale() {
					info += "  rendering"
				}
				return material.Body2(a.gvTheme.Theme, info).Layout(gtx)
			}),
		)
	})
}

func (a *App) applyPalette() {
	if a.gvTheme == nil {
		return
	}
	if a.darkMode {
		a.gvTheme.WithPalette(darkPalette)
	} else {
		a.gvTheme.WithPalette(lightPalette)
	}
}

func (a *App) setDarkMode(enabled bool) {
	if a.darkMode == enabled {
		return
	}
	a.darkMode = enabled
	a.applyPalette()
	a.Logf("[UI] Dark mode %v", enabled)
}

func (a *App) invalidate() {
	if a.window != nil {
		a.window.Invalidate()
	}
}

// Logf appends a line to the log pane.
func (a *App) Logf(format string, args ...any) {
	a.log.add(format, args...)
	a.invalidate()
}
