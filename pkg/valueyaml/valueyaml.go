// Package valueyaml decodes YAML (and JSON) documents into the plain Go
// values contracts are checked against: nil, bool, int64, float64, string,
// []any and map[string]any.
package valueyaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var ErrEmptyDocument = errors.New("empty YAML document")

// Decode decodes a single document.
func Decode(in []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(in, &doc); err != nil {
		return nil, fmt.Errorf("phase=decode: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("phase=decode line=1: %w", ErrEmptyDocument)
	}
	return convert(doc.Content[0])
}

// DecodeAll decodes every document of a `---` separated stream, in order.
func DecodeAll(in []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(in))
	var out []any
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("phase=decode document=%d: %w", len(out)+1, err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		v, err := convert(doc.Content[0])
		if err != nil {
			return nil, fmt.Errorf("document=%d %w", len(out)+1, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("phase=decode line=1: %w", ErrEmptyDocument)
	}
	return out, nil
}

// Encode renders v as YAML, used to print values and bindings back.
func Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// maxAliasNodes bounds the nodes produced by expanding aliases, so that
// nested anchors cannot blow a small document up exponentially.
const maxAliasNodes = 100_000

// decoder converts one document. yaml.v3 only guards against alias loops
// and alias bombs when decoding into Go values, not into yaml.Node.
type decoder struct {
	// active holds the collections currently being converted.
	active map[*yaml.Node]bool
	// aliasDepth is the number of aliases being expanded.
	aliasDepth int
	aliased    int
}

func convert(n *yaml.Node) (any, error) {
	d := &decoder{active: make(map[*yaml.Node]bool)}
	return d.convert(n)
}

// follow resolves an alias, refusing aliases to an enclosing collection.
func (d *decoder) follow(n *yaml.Node) (*yaml.Node, error) {
	if n.Alias == nil || d.active[n.Alias] {
		return nil, fmt.Errorf("phase=decode line=%d: alias *%s refers to a value that contains it", n.Line, n.Value)
	}
	return n.Alias, nil
}

func (d *decoder) convert(n *yaml.Node) (any, error) {
	if d.aliasDepth > 0 {
		d.aliased++
		if d.aliased > maxAliasNodes {
			return nil, fmt.Errorf("phase=decode line=%d: aliases expand to more than %d values", n.Line, maxAliasNodes)
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.convert(n.Content[0])
	case yaml.AliasNode:
		target, err := d.follow(n)
		if err != nil {
			return nil, err
		}
		d.aliasDepth++
		defer func() { d.aliasDepth-- }()
		return d.convert(target)
	case yaml.ScalarNode:
		return convertScalar(n)
	case yaml.SequenceNode:
		d.active[n] = true
		defer delete(d.active, n)
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.convert(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		d.active[n] = true
		defer delete(d.active, n)
		out := make(map[string]any, len(n.Content)/2)
		if err := d.convertMapping(n, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("phase=decode line=%d: unexpected YAML node kind %d", n.Line, n.Kind)
}

func convertScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("phase=decode line=%d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("phase=decode line=%d: integer %s does not fit in 64 bits", n.Line, n.Value)
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("phase=decode line=%d: %w", n.Line, err)
		}
		return f, nil
	}
	// !!str, !!timestamp, !!binary and custom tags keep their text
	return n.Value, nil
}

// convertMapping fills out from n. Merge keys (`<<: *base`) are applied
// first so that explicit keys win.
func (d *decoder) convertMapping(n *yaml.Node, out map[string]any) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.ShortTag() != "!!merge" {
			continue
		}
		if err := d.merge(val, out); err != nil {
			return err
		}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.ShortTag() == "!!merge" {
			continue
		}
		if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!str" {
			return fmt.Errorf("phase=decode line=%d: mapping key %q is not a string", key.Line, key.Value)
		}
		v, err := d.convert(val)
		if err != nil {
			return err
		}
		out[key.Value] = v
	}
	return nil
}

func (d *decoder) merge(val *yaml.Node, out map[string]any) error {
	if val.Kind == yaml.AliasNode {
		target, err := d.follow(val)
		if err != nil {
			return err
		}
		d.aliasDepth++
		defer func() { d.aliasDepth-- }()
		val = target
	}
	switch val.Kind {
	case yaml.MappingNode:
		d.active[val] = true
		defer delete(d.active, val)
		return d.convertMapping(val, out)
	case yaml.SequenceNode:
		// earlier mappings take precedence
		for i := len(val.Content) - 1; i >= 0; i-- {
			if err := d.merge(val.Content[i], out); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("phase=decode line=%d: merge value must be a mapping", val.Line)
}
