package payload

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/sexpr"
)

const (
	payloadKey = "widgets"
	boundsKey  = "@bounds"
)

// Codec converts elements to transfer data and back.
type Codec interface {
	// ToPayload returns the structured data and the plain text flavor.
	ToPayload(elements []Element) (data []byte, text string)
	// FromPayload decodes structured data, returning nil for empty or
	// malformed input.
	FromPayload(data []byte) []Element
}

// SexpCodec is the default Codec:
//
//	(widgets
//	  (Button (@ android:text "Hi") (@bounds 0 0 80 40)))
type SexpCodec struct{}

func (SexpCodec) ToPayload(elements []Element) ([]byte, string) {
	ns := document.DefaultNamespaces()
	l := sexpr.NewList(sexpr.Symbol(payloadKey))
	for _, e := range elements {
		l.Append(encode(e, ns))
	}
	var buf bytes.Buffer
	sexpr.Write(&buf, l)
	return buf.Bytes(), Text(elements)
}

func encode(e Element, ns *document.Namespaces) sexpr.Sexp {
	l := sexpr.NewList(sexpr.Symbol(e.Type))
	for _, a := range e.Attributes {
		l.Append(sexpr.NewList(sexpr.Symbol(document.AttrKey), sexpr.Symbol(ns.QName(a.Namespace, a.Name)), sexpr.String(a.Value)))
	}
	if !e.Bounds.Empty() {
		b := e.Bounds
		l.Append(sexpr.NewList(sexpr.Symbol(boundsKey),
			sexpr.Symbol(strconv.Itoa(b.Min.X)), sexpr.Symbol(strconv.Itoa(b.Min.Y)),
			sexpr.Symbol(strconv.Itoa(b.Dx())), sexpr.Symbol(strconv.Itoa(b.Dy()))))
	}
	for _, c := range e.Children {
		l.Append(encode(c, ns))
	}
	return l
}

func (SexpCodec) FromPayload(data []byte) []Element {
	exprs, err := sexpr.ParseString(string(data))
	if err != nil || len(exprs) != 1 || sexpr.Key(exprs[0]) != payloadKey {
		return nil
	}
	ns := document.DefaultNamespaces()
	var out []Element
	for _, item := range sexpr.Items(exprs[0])[1:] {
		e, err := decode(item, ns)
		if err != nil {
			return nil
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func decode(s sexpr.Sexp, ns *document.Namespaces) (Element, error) {
	typ := sexpr.Key(s)
	if typ == "" || typ == document.AttrKey || typ == boundsKey {
		return Element{}, fmt.Errorf("expected element, got %v", s)
	}
	e := Element{Type: typ}
	for _, item := range sexpr.Items(s)[1:] {
		switch sexpr.Key(item) {
		case document.AttrKey:
			name, err := sexpr.GetString(item, 1)
			if err != nil {
				return Element{}, err
			}
			value, err := sexpr.GetString(item, 2)
			if err != nil {
				return Element{}, err
			}
			uri, local, err := ns.Resolve(name)
			if err != nil {
				return Element{}, err
			}
			e.Attributes = append(e.Attributes, document.Attribute{Namespace: uri, Name: local, Value: value})
		case boundsKey:
			b, err := decodeBounds(item)
			if err != nil {
				return Element{}, err
			}
			e.Bounds = b
		case "":
			return Element{}, fmt.Errorf("unexpected atom %v in %s", item, typ)
		default:
			c, err := decode(item, ns)
			if err != nil {
				return Element{}, err
			}
			e.Children = append(e.Children, c)
		}
	}
	return e, nil
}

func decodeBounds(s sexpr.Sexp) (image.Rectangle, error) {
	var v [4]int
	for i := range v {
		str, err := sexpr.GetString(s, i+1)
		if err != nil {
			return image.Rectangle{}, err
		}
		if v[i], err = strconv.Atoi(str); err != nil {
			return image.Rectangle{}, fmt.Errorf("bounds: %w", err)
		}
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// Text renders elements as XML markup for the plain text flavor.
func Text(elements []Element) string {
	ns := document.DefaultNamespaces()
	var b strings.Builder
	enc := xml.NewEncoder(&b)
	enc.Indent("", "    ")
	for _, e := range elements {
		if err := encodeXML(enc, e, ns); err != nil {
			return ""
		}
	}
	if err := enc.Flush(); err != nil {
		return ""
	}
	return b.String()
}

func encodeXML(enc *xml.Encoder, e Element, ns *document.Namespaces) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Type}}
	for _, a := range e.Attributes {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: ns.QName(a.Namespace, a.Name)}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := encodeXML(enc, c, ns); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
