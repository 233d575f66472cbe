package esg

import (
	"reflect"
	"sort"
	"strings"
)

// Kind tags the variant of a Node.
type Kind int

const (
	KindLeaf  Kind = iota + 1 // a MetricSeries
	KindGroup                 // named children
	KindValue                 // opaque scalar or array, copied whole
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindGroup:
		return "group"
	case KindValue:
		return "value"
	default:
		return "unknown"
	}
}

// Node is one position in a document tree.
type Node interface {
	Kind() Kind
	clone() Node
	raw() any
}

// Leaf wraps a MetricSeries.
type Leaf struct {
	Series MetricSeries
}

// NewLeaf returns a leaf holding an empty series.
func NewLeaf() *Leaf { return &Leaf{Series: EmptySeries()} }

func (l *Leaf) Kind() Kind  { return KindLeaf }
func (l *Leaf) clone() Node { return &Leaf{Series: l.Series.clone()} }
func (l *Leaf) raw() any    { return l.Series.raw() }

// Value holds a non-series field such as a note or a list of references.
type Value struct {
	Raw any
}

func (v *Value) Kind() Kind  { return KindValue }
func (v *Value) clone() Node { return &Value{Raw: copyRaw(v.Raw)} }
func (v *Value) raw() any    { return copyRaw(v.Raw) }

// Group maps names to child nodes.
type Group struct {
	children map[string]Node
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{children: make(map[string]Node)}
}

func (g *Group) Kind() Kind { return KindGroup }

func (g *Group) clone() Node {
	out := &Group{children: make(map[string]Node, len(g.children))}
	for k, c := range g.children {
		out.children[k] = c.clone()
	}
	return out
}

func (g *Group) raw() any {
	m := make(map[string]any, len(g.children))
	for k, c := range g.children {
		m[k] = c.raw()
	}
	return m
}

// Set replaces the child under name.
func (g *Group) Set(name string, n Node) {
	if g.children == nil {
		g.children = make(map[string]Node)
	}
	g.children[name] = n
}

// Get returns the child under name.
func (g *Group) Get(name string) (Node, bool) {
	if g == nil {
		return nil, false
	}
	n, ok := g.children[name]
	return n, ok
}

// Len returns the number of children.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.children)
}

// Keys returns child names in sorted order.
func (g *Group) Keys() []string {
	if g == nil {
		return nil
	}
	keys := make([]string, 0, len(g.children))
	for k := range g.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup follows path from g. It returns nil when a step is missing or
// passes through something other than a group.
func (g *Group) Lookup(path ...string) Node {
	var cur Node = g
	for _, name := range path {
		if cur == nil || cur.Kind() != KindGroup {
			return nil
		}
		next, ok := cur.(*Group).Get(name)
		if !ok {
			return nil
		}
		cur = next
	}
	if g == nil {
		return nil
	}
	return cur
}

// Group returns the sub-group at path, or an empty group.
func (g *Group) Group(path ...string) *Group {
	if n := g.Lookup(path...); n != nil && n.Kind() == KindGroup {
		return n.(*Group)
	}
	return NewGroup()
}

// Series returns the series at path, or an empty series when the path does
// not end at a leaf.
func (g *Group) Series(path ...string) MetricSeries {
	if n := g.Lookup(path...); n != nil && n.Kind() == KindLeaf {
		return n.(*Leaf).Series
	}
	return EmptySeries()
}

// Walk calls fn for every leaf under g in sorted path order.
func (g *Group) Walk(fn func(path string, s MetricSeries)) {
	g.walk(nil, fn)
}

func (g *Group) walk(prefix []string, fn func(path string, s MetricSeries)) {
	for _, k := range g.Keys() {
		p := append(append([]string(nil), prefix...), k)
		switch c := g.children[k]; c.Kind() {
		case KindLeaf:
			fn(strings.Join(p, "."), c.(*Leaf).Series)
		case KindGroup:
			c.(*Group).walk(p, fn)
		}
	}
}

// Leaves returns every series under n: n itself when it is a leaf, all
// descendants when it is a group, nothing otherwise.
func Leaves(n Node) []MetricSeries {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case KindLeaf:
		return []MetricSeries{n.(*Leaf).Series}
	case KindGroup:
		var out []MetricSeries
		n.(*Group).Walk(func(_ string, s MetricSeries) {
			out = append(out, s)
		})
		return out
	default:
		return nil
	}
}

// HasData reports whether n carries at least one data point: a leaf with
// values, a group with such a descendant, or a non-empty value.
func HasData(n Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case KindLeaf:
		return !n.(*Leaf).Series.IsEmpty()
	case KindGroup:
		g := n.(*Group)
		for _, k := range g.Keys() {
			if HasData(g.children[k]) {
				return true
			}
		}
		return false
	case KindValue:
		return !emptyRaw(n.(*Value).Raw)
	default:
		return false
	}
}

func emptyRaw(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}

// copyRaw deep-copies decoded JSON/YAML values (maps and slices); scalars are
// returned as is.
func copyRaw(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, c := range t {
			m[k] = copyRaw(c)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, c := range t {
			s[i] = copyRaw(c)
		}
		return s
	default:
		return v
	}
}
