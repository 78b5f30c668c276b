// Package meta loads page metadata files: a YAML mapping of slug to a free-form
// attribute object. Entries keep the order in which they appear in the file.
package meta

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TagsField is the optional attribute holding an entry's tags.
const TagsField = "tags"

// ErrNotMapping is returned when the document root is not a slug mapping.
var ErrNotMapping = errors.New("metadata root must be a mapping of slug to attributes")

// Entry is one item of a metadata file.
type Entry struct {
	Key    string
	Fields map[string]any
}

// Tags returns the entry's tags in file order, each in its textual form.
// A missing or null field yields nil; a scalar is a single tag.
func (e Entry) Tags() []string {
	raw, ok := e.Fields[TagsField]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			tags = append(tags, fmt.Sprint(t))
		}
		return tags
	case []string:
		return append([]string(nil), v...)
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Document is the ordered content of a metadata file.
type Document []Entry

// Keys returns the slugs in file order.
func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// Load reads and parses the metadata file at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes metadata. An empty document, a null document, or an empty
// collection parses to a zero-length Document without error.
func Parse(data []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return Document{}, nil
		}
		node = node.Content[0]
	}
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch {
	case node.Kind == 0:
		return Document{}, nil
	case node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null":
		return Document{}, nil
	case node.Kind == yaml.SequenceNode && len(node.Content) == 0:
		return Document{}, nil
	case node.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("line %d: %w", node.Line, ErrNotMapping)
	}

	doc := make(Document, 0, len(node.Content)/2)
	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || k.ShortTag() == "!!merge" {
			return nil, fmt.Errorf("line %d: slug must be a plain scalar", k.Line)
		}
		if first, dup := seen[k.Value]; dup {
			return nil, fmt.Errorf("line %d: duplicate slug %q (first defined on line %d)", k.Line, k.Value, first)
		}
		seen[k.Value] = k.Line

		fields := map[string]any{}
		if !(v.Kind == yaml.ScalarNode && v.ShortTag() == "!!null") {
			if err := v.Decode(&fields); err != nil {
				return nil, fmt.Errorf("entry %q (line %d): %w", k.Value, v.Line, err)
			}
		}
		doc = append(doc, Entry{Key: k.Value, Fields: fields})
	}
	return doc, nil
}
