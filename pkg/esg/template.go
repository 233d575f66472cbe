package esg

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed template.yaml
var templateYAML []byte

// shape is the parsed template: nested maps whose leaves are markers.
var shape = mustParseShape(templateYAML)

const (
	markerSeries = "series"
	markerText   = "text"
	markerList   = "list"
)

func mustParseShape(data []byte) map[string]any {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		panic(fmt.Sprintf("esg: parsing canonical template: %v", err))
	}
	if err := checkShape(m, ""); err != nil {
		panic(fmt.Sprintf("esg: canonical template: %v", err))
	}
	return m
}

func checkShape(m map[string]any, prefix string) error {
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			if err := checkShape(t, prefix+k+"."); err != nil {
				return err
			}
		case string:
			if t != markerSeries && t != markerText && t != markerList {
				return fmt.Errorf("%s%s: unknown marker %q", prefix, k, t)
			}
		default:
			return fmt.Errorf("%s%s: unexpected %T", prefix, k, v)
		}
	}
	return nil
}

// Template returns a fresh canonical tree with every leaf empty.
func Template() *Group {
	return buildGroup(shape)
}

func buildGroup(m map[string]any) *Group {
	g := NewGroup()
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			g.Set(k, buildGroup(t))
		case string:
			switch t {
			case markerSeries:
				g.Set(k, NewLeaf())
			case markerText:
				g.Set(k, &Value{Raw: ""})
			case markerList:
				g.Set(k, &Value{Raw: []any{}})
			}
		}
	}
	return g
}
