package sexpr

import (
	"bufio"
	"io"
	"strings"
)

// Format renders s on a single line.
func Format(s Sexp) string {
	if s == nil {
		return ""
	}
	if sym, ok := s.(Symbol); ok {
		return formatSymbol(sym)
	}
	if l, ok := s.(*List); ok {
		var b strings.Builder
		b.WriteByte('(')
		for i, e := range l.elements {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(Format(e))
		}
		b.WriteByte(')')
		return b.String()
	}
	return s.String()
}

// Write pretty-prints exprs to w, one top-level expression per line.
// Lists holding only leaves stay on one line; nested lists are indented
// by two spaces per level.
func Write(w io.Writer, exprs ...Sexp) error {
	bw := bufio.NewWriter(w)
	for _, e := range exprs {
		writeIndented(bw, e, 0)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeIndented(w *bufio.Writer, s Sexp, depth int) {
	l, ok := s.(*List)
	if !ok || !hasNestedList(l) {
		w.WriteString(Format(s))
		return
	}

	w.WriteByte('(')
	nested := false
	for i, e := range l.elements {
		_, isList := e.(*List)
		if isList {
			nested = true
		}
		if nested {
			w.WriteByte('\n')
			w.WriteString(strings.Repeat("  ", depth+1))
		} else if i > 0 {
			w.WriteByte(' ')
		}
		writeIndented(w, e, depth+1)
	}
	w.WriteByte(')')
}

func hasNestedList(l *List) bool {
	for _, e := range l.elements {
		if _, ok := e.(*List); ok {
			return true
		}
	}
	return false
}

func formatSymbol(s Symbol) string {
	str := string(s)
	if str == "" {
		return `""`
	}
	for _, r := range str {
		if isDelimiter(r) || r == '\\' {
			return quote(str)
		}
	}
	return str
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
