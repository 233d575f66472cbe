package esg

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Format identifies an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("unsupported format %q (want json, yaml or xlsx)", s)
	}
}

// Decode reads a raw document. The result is input for Normalize; its shape
// is not checked beyond requiring an object at the root.
func Decode(r io.Reader, f Format) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "reading document")
	}

	switch f {
	case FormatXLSX:
		return DecodeXLSX(data, XLSXOptions{SkipRows: 1})
	case FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, eris.Wrap(err, "parsing yaml document")
		}
		if raw == nil {
			raw = map[string]any{}
		}
		return raw, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var root any
		if err := dec.Decode(&root); err != nil {
			return nil, eris.Wrap(err, "parsing json document")
		}
		raw, ok := root.(map[string]any)
		if !ok {
			return nil, eris.Errorf("document root must be an object, got %T", root)
		}
		return raw, nil
	}
}

// ReadRaw decodes the file at path, picking the format from its extension.
func ReadRaw(path string) (map[string]any, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "opening document")
	}
	defer fh.Close()
	return Decode(fh, f)
}

// SaveDocument writes a document to disk as indented JSON.
func SaveDocument(path string, doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "creating directory for document")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshaling document")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "writing document")
	}

	return nil
}

// LoadDocument reads a JSON document from disk and normalizes it. A stored
// scores block is restored as is.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "reading document")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "unmarshaling document")
	}

	return &doc, nil
}
