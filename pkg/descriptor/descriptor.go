// Package descriptor describes the element types a layout may contain:
// whether they hold children and which size attributes a new element gets.
package descriptor

import (
	_ "embed"
	"fmt"
	"image"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

// Size attribute values understood by the box renderer.
const (
	WrapContent = "wrap_content"
	MatchParent = "match_parent"
	FillParent  = "fill_parent"
	AttrWidth   = "layout_width"
	AttrHeight  = "layout_height"
	AttrOrient  = "orientation"
	Vertical    = "vertical"
	Horizontal  = "horizontal"
)

//go:embed catalog.yaml
var builtin []byte

// Descriptor is the static metadata of one element type.
type Descriptor struct {
	Name          string   `yaml:"name"`
	Container     bool     `yaml:"container"`
	DefaultWidth  string   `yaml:"width"`
	DefaultHeight string   `yaml:"height"`
	Preferred     []int    `yaml:"preferred,omitempty"`
	Attributes    []string `yaml:"attributes,omitempty"`
}

// PreferredSize is the natural size of a wrap_content element.
func (d *Descriptor) PreferredSize() image.Point {
	if len(d.Preferred) == 2 {
		return image.Pt(d.Preferred[0], d.Preferred[1])
	}
	if d.Container {
		return image.Pt(0, 0)
	}
	return image.Pt(16, 16)
}

// Lookup resolves a type name to its descriptor, or nil when unknown.
type Lookup interface {
	Describe(typeName string) *Descriptor
}

// Catalog is a Lookup backed by a name index.
type Catalog struct {
	byName map[string]*Descriptor
}

type catalogFile struct {
	Elements []*Descriptor `yaml:"elements"`
}

// Builtin returns the embedded catalog.
func Builtin() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("descriptor: embedded catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{byName: make(map[string]*Descriptor, len(f.Elements))}
	for i, d := range f.Elements {
		if d.Name == "" {
			return nil, fmt.Errorf("catalog element %d has no name", i)
		}
		c.byName[d.Name] = d
	}
	return c, nil
}

// LoadFile reads the built-in catalog extended by the file at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c := Builtin()
	c.Merge(extra)
	return c, nil
}

// Merge adds or replaces the entries of other.
func (c *Catalog) Merge(other *Catalog) {
	for name, d := range other.byName {
		c.byName[name] = d
	}
}

// Describe implements Lookup. Qualified names such as
// "android.widget.Button" fall back to their short name.
func (c *Catalog) Describe(typeName string) *Descriptor {
	if d, ok := c.byName[typeName]; ok {
		return d
	}
	if d, ok := c.byName[document.ShortName(typeName)]; ok {
		return d
	}
	return nil
}

// Names returns the known type names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsContainer reports whether n should be treated as holding children:
// it either has children or its descriptor says so.
func IsContainer(lookup Lookup, n *document.Node) bool {
	if n == nil {
		return false
	}
	if n.ChildCount() > 0 {
		return true
	}
	if lookup == nil {
		return false
	}
	d := lookup.Describe(n.Type())
	return d != nil && d.Container
}
