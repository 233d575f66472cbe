package esg

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

const scoresKey = "scores"

// TryAdopt accepts raw as an already-canonical document when all three pillar
// keys are present and non-null. The tree is converted structurally and kept
// as given: unknown keys survive and nothing is validated, so an adopted
// document can be inconsistent (see Document.Issues). A raw "scores" block is
// dropped because scores are always recomputed.
func TryAdopt(raw map[string]any) (*Document, bool) {
	for _, p := range Pillars {
		if v, ok := raw[p]; !ok || v == nil {
			return nil, false
		}
	}
	root := NewGroup()
	for k, v := range raw {
		if k == scoresKey {
			continue
		}
		root.Set(k, adoptNode(v))
	}
	return &Document{Root: root}, true
}

func adoptNode(v any) Node {
	m, ok := asMap(v)
	if !ok {
		return &Value{Raw: copyRaw(normalizeRaw(v))}
	}
	if isSeriesMap(m) {
		return &Leaf{Series: seriesFromRaw(m, true)}
	}
	g := NewGroup()
	for k, c := range m {
		g.Set(k, adoptNode(c))
	}
	return g
}

// Normalize maps an arbitrary input document onto the canonical schema. Input
// that TryAdopt accepts is returned as adopted. Anything else is merged into a
// fresh template: leaves take years, values and unit from the input as given,
// groups recurse, values are copied whole, and keys the template does not
// know are dropped. Normalize never fails; unrelated input yields an empty
// template.
func Normalize(raw map[string]any) *Document {
	if doc, ok := TryAdopt(raw); ok {
		return doc
	}
	root := Template()
	mergeGroup(root, raw)
	return &Document{Root: root}
}

func mergeGroup(tmpl *Group, src map[string]any) {
	for _, key := range tmpl.Keys() {
		v, ok := src[key]
		if !ok {
			continue
		}
		node, _ := tmpl.Get(key)
		switch node.Kind() {
		case KindGroup:
			if m, ok := asMap(v); ok {
				mergeGroup(node.(*Group), m)
			}
		case KindLeaf:
			if m, ok := asMap(v); ok {
				leaf := node.(*Leaf)
				leaf.Series = mergeSeries(leaf.Series, m)
			}
		case KindValue:
			tmpl.Set(key, &Value{Raw: copyRaw(normalizeRaw(v))})
		}
	}
}

func mergeSeries(s MetricSeries, m map[string]any) MetricSeries {
	if v, ok := m["years"]; ok {
		s.Years = coerceYears(v)
	}
	if v, ok := m["values"]; ok {
		s.Values = coerceValues(v)
	}
	if v, ok := m["unit"]; ok {
		s.Unit = coerceUnit(v)
	}
	return s
}

// seriesFromRaw builds a series from a raw leaf map. withExtra keeps fields
// other than years, values and unit.
func seriesFromRaw(m map[string]any, withExtra bool) MetricSeries {
	s := mergeSeries(EmptySeries(), m)
	if !withExtra {
		return s
	}
	for k, v := range m {
		switch k {
		case "years", "values", "unit":
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[k] = copyRaw(normalizeRaw(v))
	}
	return s
}

func isSeriesMap(m map[string]any) bool {
	_, hasYears := m["years"]
	_, hasValues := m["values"]
	return hasYears || hasValues
}

// asMap accepts the map shapes produced by encoding/json, yaml.v3 and
// hand-built Go literals.
func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, c := range t {
			m[fmt.Sprint(k)] = c
		}
		return m, true
	default:
		return nil, false
	}
}

// asSlice returns the elements of any slice or array value.
func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// normalizeRaw rewrites map[any]any and typed slices into the plain
// map[string]any / []any forms so copies compare and encode uniformly.
func normalizeRaw(v any) any {
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for k, c := range m {
			out[k] = normalizeRaw(c)
		}
		return out
	}
	if _, isString := v.(string); !isString {
		if s, ok := asSlice(v); ok {
			out := make([]any, len(s))
			for i, c := range s {
				out[i] = normalizeRaw(c)
			}
			return out
		}
	}
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceValues converts each element to float64; anything non-numeric becomes
// NaN so the defect stays visible downstream. A non-list yields no values.
func coerceValues(v any) []float64 {
	items, ok := asSlice(v)
	if !ok {
		return []float64{}
	}
	out := make([]float64, len(items))
	for i, it := range items {
		f, ok := toFloat(it)
		if !ok {
			f = math.NaN()
		}
		out[i] = f
	}
	return out
}

// coerceYears converts each element to an int year; anything non-numeric
// becomes 0. A non-list yields no years.
func coerceYears(v any) []int {
	items, ok := asSlice(v)
	if !ok {
		return []int{}
	}
	out := make([]int, len(items))
	for i, it := range items {
		if f, ok := toFloat(it); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			out[i] = int(f)
		}
	}
	return out
}

func coerceUnit(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
