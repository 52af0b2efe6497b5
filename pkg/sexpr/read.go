package sexpr

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports malformed input with the position it was found at.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse reads every top-level expression from r.
func Parse(r io.Reader) ([]Sexp, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	rd := &reader{src: data, line: 1, col: 1}
	var out []Sexp
	for {
		rd.skipSpace()
		if rd.eof() {
			return out, nil
		}
		e, err := rd.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
}

// ParseString parses all top-level expressions in s.
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}

// reader is a recursive descent reader over the whole input.
type reader struct {
	src       []byte
	off       int
	line, col int
}

func (r *reader) eof() bool { return r.off >= len(r.src) }

func (r *reader) peek() rune {
	c, _ := utf8.DecodeRune(r.src[r.off:])
	return c
}

func (r *reader) next() rune {
	c, n := utf8.DecodeRune(r.src[r.off:])
	r.off += n
	if c == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return c
}

func (r *reader) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace consumes whitespace and '#' comments.
func (r *reader) skipSpace() {
	for !r.eof() {
		switch c := r.peek(); {
		case c == '#':
			for !r.eof() && r.next() != '\n' {
			}
		case unicode.IsSpace(c):
			r.next()
		default:
			return
		}
	}
}

func (r *reader) expr() (Sexp, error) {
	line, col := r.line, r.col
	switch r.peek() {
	case '(':
		r.next()
		return r.list(line, col)
	case ')':
		return nil, r.errorf(line, col, "unexpected ')'")
	case '"':
		r.next()
		return r.quoted(line, col)
	}
	start := r.off
	for !r.eof() && !isDelimiter(r.peek()) {
		r.next()
	}
	return Symbol(r.src[start:r.off]), nil
}

func (r *reader) list(line, col int) (Sexp, error) {
	l := &List{}
	for {
		r.skipSpace()
		if r.eof() {
			return nil, r.errorf(line, col, "list is never closed")
		}
		if r.peek() == ')' {
			r.next()
			return l, nil
		}
		e, err := r.expr()
		if err != nil {
			return nil, err
		}
		l.elements = append(l.elements, e)
	}
}

func (r *reader) quoted(line, col int) (Sexp, error) {
	var b strings.Builder
	for !r.eof() {
		c := r.next()
		switch c {
		case '"':
			return String(b.String()), nil
		case '\\':
			if r.eof() {
				break
			}
			b.WriteRune(unescape(r.next()))
		default:
			b.WriteRune(c)
		}
	}
	return nil, r.errorf(line, col, "string is never closed")
}

func unescape(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return c
}

// isDelimiter reports whether c ends a bare symbol.
func isDelimiter(c rune) bool {
	return unicode.IsSpace(c) || c == '(' || c == ')' || c == '"' || c == '#'
}
