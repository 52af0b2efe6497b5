// Package sexpr reads and writes the s-expression form used for layout
// documents and for the structured clipboard flavor.
//
// The grammar is deliberately small: lists, bare symbols and double quoted
// strings. A '#' starts a comment that runs to the end of the line.
package sexpr

import "strings"

// Sexp is an s-expression node: either a leaf (Symbol, String) or a *List.
type Sexp interface {
	IsLeaf() bool
	LeafCount() int
	Head() Sexp
	Tail() Sexp
	String() string
}

// Symbol is a bare atom such as an element type or an attribute name.
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// String is a quoted atom. It is kept distinct from Symbol so that
// values survive a write/read round trip with their quoting intact.
type String string

func (s String) IsLeaf() bool   { return true }
func (s String) LeafCount() int { return 1 }
func (s String) Head() Sexp     { return s }
func (s String) Tail() Sexp     { return nil }
func (s String) String() string { return quote(string(s)) }

// List is an ordered list of expressions.
type List struct {
	elements []Sexp
}

// NewList returns a list holding items.
func NewList(items ...Sexp) *List {
	return &List{elements: append([]Sexp(nil), items...)}
}

// Append adds items to the end of the list.
func (l *List) Append(items ...Sexp) {
	l.elements = append(l.elements, items...)
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return &List{}
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at index, or nil when out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements.
func (l *List) Len() int {
	return len(l.elements)
}

// Items returns the elements of the list. The slice must not be modified.
func (l *List) Items() []Sexp {
	return l.elements
}
