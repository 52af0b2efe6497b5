package document

import (
	"errors"
	"strings"
	"testing"
)

const sample = `
(LinearLayout
  (@ xmlns:android "http://schemas.android.com/apk/res/android")
  (@ android:orientation "vertical")
  (Button (@ android:id "@+id/ok") (@ android:text "OK"))
  (FrameLayout
    (TextView (@ android:text "nested"))))
`

func TestLoad(t *testing.T) {
	d := MustParse(sample)
	root := d.Root()
	if root == nil || root.Type() != "LinearLayout" {
		t.Fatalf("root = %v", root)
	}
	if got := root.AndroidAttr("orientation"); got != "vertical" {
		t.Fatalf("orientation = %q", got)
	}
	if !HasNamespaceDecl(root, AndroidURI) {
		t.Fatalf("missing xmlns:android on root")
	}
	if root.ChildCount() != 2 {
		t.Fatalf("children = %d, want 2", root.ChildCount())
	}
	text := root.Child(1).Child(0)
	if text.AndroidAttr("text") != "nested" {
		t.Fatalf("nested text = %q", text.AndroidAttr("text"))
	}
	if p := text.Path(); len(p) != 2 || p[0] != 1 || p[1] != 0 {
		t.Fatalf("path = %v", p)
	}
	if d.Count() != 4 {
		t.Fatalf("count = %d, want 4", d.Count())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	d := MustParse(sample)
	out := d.String()
	again, err := ParseString(out)
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, out)
	}
	if again.String() != out {
		t.Fatalf("round trip differs:\n%s\n---\n%s", out, again.String())
	}
	if !strings.Contains(out, `(@ android:text "OK")`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestUnknownPrefix(t *testing.T) {
	_, err := ParseString(`(Button (@ foo:text "x"))`)
	if err == nil {
		t.Fatalf("expected error for unknown prefix")
	}
}

func TestEditCommitsAndUndoes(t *testing.T) {
	d := MustParse(sample)
	var labels []string
	d.OnChange(func(label string) { labels = append(labels, label) })

	button := d.Root().Child(0)
	err := d.Edit("Change Text", func(tx *Tx) error {
		return tx.SetAndroidAttr(button, "text", "Cancel")
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if button.AndroidAttr("text") != "Cancel" {
		t.Fatalf("text = %q", button.AndroidAttr("text"))
	}
	if got := d.History().UndoLabel(); got != "Change Text" {
		t.Fatalf("undo label = %q", got)
	}

	if label, ok := d.Undo(); !ok || label != "Change Text" {
		t.Fatalf("undo = %q %v", label, ok)
	}
	if button.AndroidAttr("text") != "OK" {
		t.Fatalf("text after undo = %q", button.AndroidAttr("text"))
	}
	if _, ok := d.Redo(); !ok {
		t.Fatalf("redo failed")
	}
	if button.AndroidAttr("text") != "Cancel" {
		t.Fatalf("text after redo = %q", button.AndroidAttr("text"))
	}
	want := []string{"Change Text", "Undo Change Text", "Redo Change Text"}
	if strings.Join(labels, "|") != strings.Join(want, "|") {
		t.Fatalf("notifications = %v, want %v", labels, want)
	}
}

func TestEditRollsBackOnError(t *testing.T) {
	d := MustParse(sample)
	before := d.String()
	root := d.Root()
	frame := root.Child(1)

	boom := errors.New("boom")
	err := d.Edit("Broken", func(tx *Tx) error {
		if err := tx.SetAndroidAttr(root, "orientation", "horizontal"); err != nil {
			return err
		}
		if err := tx.Move(root.Child(0), frame, 0); err != nil {
			return err
		}
		if err := tx.Append(frame, d.NewElement("View")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if after := d.String(); after != before {
		t.Fatalf("document changed after failed edit:\n%s", after)
	}
	if d.History().CanUndo() {
		t.Fatalf("failed edit recorded in history")
	}
}

func TestEditRollsBackOnPanic(t *testing.T) {
	d := MustParse(sample)
	before := d.String()
	func() {
		defer func() { recover() }()
		d.Edit("Panics", func(tx *Tx) error {
			tx.Remove(d.Root().Child(0))
			panic("bad rule")
		})
	}()
	if d.String() != before {
		t.Fatalf("document changed after panic")
	}
	if d.InSession() {
		t.Fatalf("session left open")
	}
}

func TestNestedEdit(t *testing.T) {
	d := MustParse(sample)
	err := d.Edit("Outer", func(tx *Tx) error {
		return d.Edit("Inner", func(*Tx) error { return nil })
	})
	if !errors.Is(err, ErrNestedSession) {
		t.Fatalf("err = %v, want ErrNestedSession", err)
	}
}

func TestRemoveRootRefused(t *testing.T) {
	d := MustParse(sample)
	err := d.Edit("Delete", func(tx *Tx) error { return tx.Remove(d.Root()) })
	if !errors.Is(err, ErrRootDelete) {
		t.Fatalf("err = %v, want ErrRootDelete", err)
	}
	if d.Root() == nil {
		t.Fatalf("root removed")
	}
}

func TestMoveIntoSubtreeRefused(t *testing.T) {
	d := MustParse(sample)
	frame := d.Root().Child(1)
	text := frame.Child(0)
	err := d.Edit("Move", func(tx *Tx) error { return tx.Move(frame, text, -1) })
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
}

func TestTxAfterClose(t *testing.T) {
	d := MustParse(sample)
	var leaked *Tx
	d.Edit("Leak", func(tx *Tx) error { leaked = tx; return nil })
	if err := leaked.SetAttr(d.Root(), "", "x", "y"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestMoveKeepsIdentityAndReportsInserted(t *testing.T) {
	d := MustParse(sample)
	button := d.Root().Child(0)
	frame := d.Root().Child(1)
	var inserted []*Node
	err := d.Edit("Move Button in FrameLayout", func(tx *Tx) error {
		if err := tx.Move(button, frame, 0); err != nil {
			return err
		}
		inserted = tx.Inserted()
		return nil
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if button.Parent() != frame || frame.Child(0) != button {
		t.Fatalf("button not moved")
	}
	if len(inserted) != 1 || inserted[0] != button {
		t.Fatalf("inserted = %v", inserted)
	}
	d.Undo()
	if button.Parent() != d.Root() || button.Index() != 0 {
		t.Fatalf("undo did not restore position: parent=%v index=%d", button.Parent(), button.Index())
	}
}

func TestSetRootOnEmptyDocument(t *testing.T) {
	d := New()
	err := d.Edit("Paste root Button in document", func(tx *Tx) error {
		b := d.NewElement("Button")
		if err := tx.SetRoot(b); err != nil {
			return err
		}
		return tx.SetAttr(b, XMLNSURI, AndroidPrefix, AndroidURI)
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if d.Root() == nil || !d.Root().Exists() {
		t.Fatalf("root not installed")
	}
	d.Undo()
	if !d.IsEmpty() {
		t.Fatalf("undo did not clear root")
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(2)
	for _, l := range []string{"a", "b", "c"} {
		h.push(&Record{Label: l})
	}
	if got := strings.Join(h.Labels(), ","); got != "b,c" {
		t.Fatalf("labels = %s", got)
	}
}

func TestSnapshotMapsBack(t *testing.T) {
	d := MustParse(sample)
	snap, origin := d.Snapshot()
	if snap.Count() != d.Count() {
		t.Fatalf("snapshot has %d nodes, want %d", snap.Count(), d.Count())
	}
	snap.Walk(func(n *Node) bool {
		o := origin[n]
		if o == nil || o.Type() != n.Type() || o == n {
			t.Fatalf("bad origin for %v: %v", n, o)
		}
		return true
	})

	err := d.Edit("Clear text", func(tx *Tx) error {
		return tx.SetAndroidAttr(d.Root().Child(0), "text", "changed")
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := snap.Root().Child(0).AndroidAttr("text"); got != "OK" {
		t.Fatalf("snapshot followed the edit: %q", got)
	}
}
