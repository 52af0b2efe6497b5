package rules

import (
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

// Map is a Registry keyed by element type. Unregistered types fall back
// to a container or leaf rule according to the descriptor catalog.
type Map struct {
	lookup    descriptor.Lookup
	rules     map[string]Rule
	leaf      Rule
	container Rule
}

// NewMap returns a registry with the built-in layout rules.
func NewMap(lookup descriptor.Lookup) *Map {
	m := &Map{
		lookup:    lookup,
		rules:     make(map[string]Rule),
		leaf:      BaseRule{},
		container: &ContainerRule{Lookup: lookup},
	}
	linear := &LinearRule{ContainerRule: ContainerRule{Lookup: lookup}}
	m.Register("LinearLayout", linear)
	m.Register("RadioGroup", linear)
	m.Register("TableRow", &LinearRule{ContainerRule: ContainerRule{Lookup: lookup}, Orientation: descriptor.Horizontal})
	m.Register("TableLayout", &LinearRule{ContainerRule: ContainerRule{Lookup: lookup}, Orientation: descriptor.Vertical})
	m.Register("ScrollView", &LinearRule{ContainerRule: ContainerRule{Lookup: lookup}, Orientation: descriptor.Vertical})
	m.Register("AbsoluteLayout", &AbsoluteRule{ContainerRule: ContainerRule{Lookup: lookup}})
	return m
}

// Register binds a rule to a type name.
func (m *Map) Register(typ string, r Rule) { m.rules[typ] = r }

// RuleFor implements Registry.
func (m *Map) RuleFor(n *document.Node) Rule {
	if r, ok := m.rules[n.Type()]; ok {
		return r
	}
	if r, ok := m.rules[n.ShortName()]; ok {
		return r
	}
	if descriptor.IsContainer(m.lookup, n) {
		return m.container
	}
	return m.leaf
}
