package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetValue sets the scalar at a dotted key path (e.g. "render.mode") in the
// config file, creating missing mappings. Comments and formatting elsewhere
// in the file are preserved by editing the yaml.Node tree.
func SetValue(configPath, key, value string) error {
	path := strings.Split(key, ".")
	for _, p := range path {
		if p == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}
	return updateFile(configPath, func(root *yaml.Node) error {
		parent := root
		for _, p := range path[:len(path)-1] {
			child := lookup(parent, p)
			if child == nil {
				child = &yaml.Node{Kind: yaml.MappingNode}
				setKey(parent, p, child)
			}
			if child.Kind != yaml.MappingNode {
				return fmt.Errorf("%s: %q is not a mapping", key, p)
			}
			parent = child
		}
		setKey(parent, path[len(path)-1], &yaml.Node{Kind: yaml.ScalarNode, Value: value})
		return nil
	})
}

// SaveMarks replaces the marks section of the config file.
func SaveMarks(configPath string, marks []MarkConfig) error {
	if err := ValidateMarks(marks); err != nil {
		return err
	}
	return updateFile(configPath, func(root *yaml.Node) error {
		setKey(root, "marks", buildMarksNode(marks))
		return nil
	})
}

// buildMarksNode creates a yaml.Node representing the marks array.
func buildMarksNode(marks []MarkConfig) *yaml.Node {
	node := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Content: make([]*yaml.Node, 0, len(marks)),
	}
	for _, m := range marks {
		node.Content = append(node.Content, &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "text"},
				{Kind: yaml.ScalarNode, Value: m.Text},
				{Kind: yaml.ScalarNode, Value: "color"},
				{Kind: yaml.ScalarNode, Value: m.Color},
			},
		})
	}
	return node
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setKey replaces the value under key, or appends the pair.
func setKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			// Keep any comment attached to the old value.
			value.LineComment = mapping.Content[i+1].LineComment
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

// updateFile parses configPath (a missing file is an empty document), lets
// edit change the root mapping and writes the result back atomically.
func updateFile(configPath string, edit func(root *yaml.Node) error) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user-chosen config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}
	if err := edit(doc.Content[0]); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".intradiff.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
