package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/sexpr"
)

// AttrKey is the head symbol of an attribute list: (@ android:text "Hi").
const AttrKey = "@"

// Load parses a layout document. The file holds one element expression:
//
//	(LinearLayout
//	  (@ xmlns:android "http://schemas.android.com/apk/res/android")
//	  (@ android:orientation "vertical")
//	  (Button (@ android:text "Hi")))
func Load(r io.Reader) (*Document, error) {
	exprs, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	d := New()
	switch len(exprs) {
	case 0:
		return d, nil
	case 1:
	default:
		return nil, fmt.Errorf("document has %d top-level elements, want 1", len(exprs))
	}
	root, err := d.Decode(exprs[0], DefaultNamespaces())
	if err != nil {
		return nil, err
	}
	d.root = root
	return d, nil
}

// LoadFile reads a document from path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ParseString is Load over a string.
func ParseString(s string) (*Document, error) {
	return Load(strings.NewReader(s))
}

// MustParse is ParseString for fixtures; it panics on error.
func MustParse(s string) *Document {
	d, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Decode builds a detached element tree owned by d from an expression.
// Namespace declarations found on an element are visible to its subtree.
func (d *Document) Decode(s sexpr.Sexp, ns *Namespaces) (*Node, error) {
	items := sexpr.Items(s)
	if len(items) == 0 {
		return nil, fmt.Errorf("expected element list, got %v", s)
	}
	typ, ok := items[0].(sexpr.Symbol)
	if !ok || typ == AttrKey {
		return nil, fmt.Errorf("expected element type, got %v", items[0])
	}
	n := d.NewElement(string(typ))

	var raw [][2]string
	for _, item := range items[1:] {
		if sexpr.Key(item) != AttrKey {
			continue
		}
		name, err := sexpr.GetString(item, 1)
		if err != nil {
			return nil, fmt.Errorf("%s attribute: %w", typ, err)
		}
		value, err := sexpr.GetString(item, 2)
		if err != nil {
			return nil, fmt.Errorf("%s attribute %s: %w", typ, name, err)
		}
		raw = append(raw, [2]string{name, value})
	}

	scope := ns
	for _, kv := range raw {
		if kv[0] == "xmlns" || strings.HasPrefix(kv[0], "xmlns:") {
			if scope == ns {
				scope = ns.Clone()
			}
			if p, ok := strings.CutPrefix(kv[0], "xmlns:"); ok {
				scope.Declare(p, kv[1])
			}
		}
	}
	for _, kv := range raw {
		uri, local, err := scope.Resolve(kv[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", typ, err)
		}
		n.setAttr(uri, local, kv[1])
	}

	for _, item := range items[1:] {
		if _, isList := item.(*sexpr.List); !isList || sexpr.Key(item) == AttrKey {
			continue
		}
		child, err := d.Decode(item, scope)
		if err != nil {
			return nil, err
		}
		n.insertChild(-1, child)
	}
	return n, nil
}

// Encode converts n and its subtree to an expression.
func Encode(n *Node, ns *Namespaces) sexpr.Sexp {
	scope := ns
	for _, a := range n.attrs {
		if a.Namespace == XMLNSURI && a.Name != "xmlns" {
			scope = ns.Clone()
			break
		}
	}
	scope.declareFrom(n.attrs)

	l := sexpr.NewList(sexpr.Symbol(n.typ))
	for _, a := range n.attrs {
		l.Append(sexpr.NewList(sexpr.Symbol(AttrKey), sexpr.Symbol(scope.QName(a.Namespace, a.Name)), sexpr.String(a.Value)))
	}
	for _, c := range n.children {
		l.Append(Encode(c, scope))
	}
	return l
}

// WriteTo pretty-prints the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if d.root != nil {
		if err := sexpr.Write(&buf, Encode(d.root, DefaultNamespaces())); err != nil {
			return 0, err
		}
	}
	return buf.WriteTo(w)
}

// String returns the pretty-printed document.
func (d *Document) String() string {
	var b strings.Builder
	d.WriteTo(&b)
	return b.String()
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	return os.WriteFile(path, []byte(d.String()), 0o644)
}
