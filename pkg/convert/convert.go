// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     convert
// Description: Conversion between property documents, maps, TOML and YAML
// Author:      Mike Stoffels
// Created:     2025-12-09
// License:     MIT
// ============================================================================

// Package convert moves property documents in and out of other formats.
// Nested TOML tables and YAML mappings are flattened into dotted keys on
// import. Export writes flat keys.
package convert

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/properties"
)

// Format names accepted by the CLI
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// ToMap copies the entries of doc into a map
func ToMap(doc *properties.Document) map[string]string {
	m := make(map[string]string, doc.Len())
	for _, e := range doc.Entries() {
		m[e.Key] = e.Value
	}
	return m
}

// FromMap builds an unbound document from m. Keys are inserted in sorted
// order so the result is deterministic.
func FromMap(m map[string]string, opts ...properties.Option) (*properties.Document, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := properties.New(opts...)
	for _, k := range keys {
		if err := set(doc, k, m[k], "convert.FromMap"); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// EncodeTOML writes doc as a flat TOML table. The encoder sorts keys.
func EncodeTOML(w io.Writer, doc *properties.Document) error {
	if err := toml.NewEncoder(w).Encode(ToMap(doc)); err != nil {
		return mdwerror.Wrap(err, "failed to encode TOML").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("convert.EncodeTOML")
	}
	return nil
}

// DecodeTOML reads a TOML document. Keys keep their order of appearance.
func DecodeTOML(r io.Reader, opts ...properties.Option) (*properties.Document, error) {
	var raw map[string]interface{}
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to decode TOML").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("convert.DecodeTOML")
	}

	doc := properties.New(opts...)
	for _, key := range md.Keys() {
		value, ok := lookup(raw, key)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case map[string]interface{}:
			// Tables contribute through their own keys
			continue
		case []map[string]interface{}:
			return nil, unsupported("convert.DecodeTOML", key.String(), "array of tables")
		default:
			s, err := scalarString(v)
			if err != nil {
				return nil, unsupported("convert.DecodeTOML", key.String(), err.Error())
			}
			if err := set(doc, strings.Join(key, "."), s, "convert.DecodeTOML"); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// lookup follows key through nested tables
func lookup(raw map[string]interface{}, key toml.Key) (interface{}, bool) {
	var current interface{} = raw
	for _, part := range key {
		table, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if current, ok = table[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// EncodeYAML writes doc as a flat YAML mapping in insertion order
func EncodeYAML(w io.Writer, doc *properties.Document) error {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range doc.Entries() {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}); err != nil {
		return mdwerror.Wrap(err, "failed to encode YAML").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("convert.EncodeYAML")
	}
	return enc.Close()
}

// DecodeYAML reads a YAML mapping. Nested mappings become dotted keys in
// order of appearance.
func DecodeYAML(r io.Reader, opts ...properties.Option) (*properties.Document, error) {
	doc := properties.New(opts...)

	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return doc, nil
		}
		return nil, mdwerror.Wrap(err, "failed to decode YAML").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("convert.DecodeYAML")
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, unsupported("convert.DecodeYAML", "", "top level must be a mapping")
	}
	if err := flattenYAML(doc, "", node); err != nil {
		return nil, err
	}
	return doc, nil
}

func flattenYAML(doc *properties.Document, prefix string, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		value := node.Content[i+1]
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}

		switch value.Kind {
		case yaml.MappingNode:
			if err := flattenYAML(doc, key, value); err != nil {
				return err
			}
		case yaml.SequenceNode:
			parts := make([]string, 0, len(value.Content))
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return unsupported("convert.DecodeYAML", key, "nested sequence")
				}
				parts = append(parts, item.Value)
			}
			if err := set(doc, key, strings.Join(parts, ","), "convert.DecodeYAML"); err != nil {
				return err
			}
		default:
			v := value.Value
			if value.Tag == "!!null" {
				v = ""
			}
			if err := set(doc, key, v, "convert.DecodeYAML"); err != nil {
				return err
			}
		}
	}
	return nil
}

// scalarString renders a decoded TOML value. Arrays of scalars are joined
// with commas.
func scalarString(v interface{}) (string, error) {
	switch t := v.(type) {
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, err := scalarString(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	case map[string]interface{}, []map[string]interface{}:
		return "", fmt.Errorf("nested value of type %T", v)
	default:
		return fmt.Sprint(t), nil
	}
}

// set stores key=value unless the pair could not be read back from a
// properties file
func set(doc *properties.Document, key, value, op string) error {
	if err := properties.CheckEntry(key, value, doc.Separator(), doc.Comment()); err != nil {
		return mdwerror.Wrap(err, "entry cannot be stored").
			WithOperation(op)
	}
	doc.Set(key, value)
	return nil
}

func unsupported(op, key, what string) error {
	return mdwerror.New("unsupported structure: "+what).
		WithCode(mdwerror.CodeInvalidFormat).
		WithOperation(op).
		WithDetail("key", key)
}
