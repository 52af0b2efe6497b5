package document

import (
	"fmt"
	"strings"
)

// Well known namespace URIs.
const (
	AndroidURI = "http://schemas.android.com/apk/res/android"
	ToolsURI   = "http://schemas.android.com/tools"
	AutoURI    = "http://schemas.android.com/apk/res-auto"
	XMLNSURI   = "http://www.w3.org/2000/xmlns/"

	AndroidPrefix = "android"
)

// Namespaces maps prefixes to namespace URIs for reading and writing
// qualified attribute names such as "android:text".
type Namespaces struct {
	byPrefix map[string]string
	byURI    map[string]string
}

// DefaultNamespaces returns the android, tools and app prefixes.
func DefaultNamespaces() *Namespaces {
	ns := &Namespaces{byPrefix: map[string]string{}, byURI: map[string]string{}}
	ns.Declare(AndroidPrefix, AndroidURI)
	ns.Declare("tools", ToolsURI)
	ns.Declare("app", AutoURI)
	return ns
}

// Declare binds prefix to uri, replacing an earlier binding of prefix.
func (ns *Namespaces) Declare(prefix, uri string) {
	if old, ok := ns.byPrefix[prefix]; ok && ns.byURI[old] == prefix {
		delete(ns.byURI, old)
	}
	ns.byPrefix[prefix] = uri
	ns.byURI[uri] = prefix
}

// Clone returns an independent copy, used when entering a nested scope.
func (ns *Namespaces) Clone() *Namespaces {
	c := &Namespaces{
		byPrefix: make(map[string]string, len(ns.byPrefix)),
		byURI:    make(map[string]string, len(ns.byURI)),
	}
	for k, v := range ns.byPrefix {
		c.byPrefix[k] = v
	}
	for k, v := range ns.byURI {
		c.byURI[k] = v
	}
	return c
}

// URI returns the namespace bound to prefix.
func (ns *Namespaces) URI(prefix string) (string, bool) {
	uri, ok := ns.byPrefix[prefix]
	return uri, ok
}

// Prefix returns the prefix bound to uri.
func (ns *Namespaces) Prefix(uri string) (string, bool) {
	p, ok := ns.byURI[uri]
	return p, ok
}

// Resolve splits a qualified name into namespace URI and local name.
// Accepted forms: "name", "prefix:name", "xmlns", "xmlns:prefix" and
// "{uri}name".
func (ns *Namespaces) Resolve(qname string) (uri, local string, err error) {
	if qname == "" {
		return "", "", fmt.Errorf("empty attribute name")
	}
	if qname == "xmlns" {
		return XMLNSURI, "xmlns", nil
	}
	if strings.HasPrefix(qname, "{") {
		end := strings.IndexByte(qname, '}')
		if end < 0 || end == len(qname)-1 {
			return "", "", fmt.Errorf("malformed name %q", qname)
		}
		return qname[1:end], qname[end+1:], nil
	}
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		return "", qname, nil
	}
	if prefix == "xmlns" {
		return XMLNSURI, local, nil
	}
	uri, found := ns.byPrefix[prefix]
	if !found {
		return "", "", fmt.Errorf("unknown namespace prefix %q in %q", prefix, qname)
	}
	return uri, local, nil
}

// QName formats uri and local as a qualified name that Resolve accepts.
func (ns *Namespaces) QName(uri, local string) string {
	switch {
	case uri == "":
		return local
	case uri == XMLNSURI:
		if local == "xmlns" {
			return local
		}
		return "xmlns:" + local
	}
	if p, ok := ns.byURI[uri]; ok {
		return p + ":" + local
	}
	return "{" + uri + "}" + local
}

// declareFrom binds every xmlns attribute of n.
func (ns *Namespaces) declareFrom(attrs []Attribute) {
	for _, a := range attrs {
		if a.Namespace == XMLNSURI && a.Name != "xmlns" {
			ns.Declare(a.Name, a.Value)
		}
	}
}

// HasNamespaceDecl reports whether n declares uri.
func HasNamespaceDecl(n *Node, uri string) bool {
	for _, a := range n.attrs {
		if a.Namespace == XMLNSURI && a.Value == uri {
			return true
		}
	}
	return false
}
