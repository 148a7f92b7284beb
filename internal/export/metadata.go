package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/elliotchance/orderedmap/v3"
	"gopkg.in/yaml.v3"
)

// Metadata output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// WriteMetadata renders ordered fields as an aligned table, JSON or YAML.
// Keys keep their insertion order in every format.
func WriteMetadata(w io.Writer, fields *orderedmap.OrderedMap[string, any], format string) error {
	switch format {
	case FormatTable, "":
		return writeTable(w, fields)
	case FormatJSON:
		data, err := MarshalJSON(fields)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatYAML:
		node, err := yamlNode(fields)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (must be table, json or yaml)", format)
	}
}

// MarshalJSON encodes the fields as an indented JSON object in key order
func MarshalJSON(fields *orderedmap.OrderedMap[string, any]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	first := true
	for key, value := range fields.AllFromFront() {
		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", key, err)
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if !first {
			buf.WriteString(",")
		}
		first = false
		buf.WriteString("\n  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
	}
	if !first {
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

func yamlNode(fields *orderedmap.OrderedMap[string, any]) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for key, value := range fields.AllFromFront() {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&v)
	}
	return node, nil
}

func writeTable(w io.Writer, fields *orderedmap.OrderedMap[string, any]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for key, value := range fields.AllFromFront() {
		fmt.Fprintf(tw, "%s:\t%v\n", key, value)
	}
	return tw.Flush()
}
