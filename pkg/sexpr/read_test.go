package sexpr

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseNested(t *testing.T) {
	exprs, err := ParseString(`# layout
(LinearLayout
  (@ android:orientation "vertical")
  (Button (@ android:text "Hi \"there\"")))`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(exprs) != 1 {
		t.Fatalf("got %d expressions, want 1", len(exprs))
	}
	root := exprs[0]
	if Key(root) != "LinearLayout" {
		t.Fatalf("key = %q", Key(root))
	}
	attr, ok := FindNode(root, "@")
	if !ok {
		t.Fatalf("attribute node missing")
	}
	val, err := GetString(attr, 2)
	if err != nil || val != "vertical" {
		t.Fatalf("GetString = %q, %v", val, err)
	}
	button, ok := FindNode(root, "Button")
	if !ok {
		t.Fatalf("Button child missing")
	}
	text, _ := GetString(Items(button)[1], 2)
	if text != `Hi "there"` {
		t.Fatalf("text = %q", text)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	src := `(FrameLayout (@ android:id "@+id/root") (TextView (@ android:text "a b\nc")) (View))`
	exprs, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, exprs...); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	again, err := ParseString(buf.String())
	if err != nil {
		t.Fatalf("reparse failed: %v\n%s", err, buf.String())
	}
	if Format(again[0]) != Format(exprs[0]) {
		t.Fatalf("round trip mismatch:\n%s\n%s", Format(again[0]), Format(exprs[0]))
	}
	if !strings.Contains(buf.String(), "\n  (TextView") {
		t.Fatalf("expected indented child, got:\n%s", buf.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated list", "(a (b c)"},
		{"stray close", ")"},
		{"unterminated string", `(a "b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseString(tt.input); err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
		})
	}
}

func TestFormatQuotesUnsafeSymbols(t *testing.T) {
	got := Format(NewList(Symbol("a"), Symbol("has space"), String("")))
	if got != `(a "has space" "")` {
		t.Fatalf("Format = %s", got)
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := ParseString("(a\n  (b \"c)")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Line != 2 || se.Col != 6 {
		t.Fatalf("error at %d:%d, want 2:6 (%v)", se.Line, se.Col, err)
	}
}
