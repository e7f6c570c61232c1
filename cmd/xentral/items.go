package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/loykin/xentral"
	"github.com/loykin/xentral/internal/value"
	"gopkg.in/yaml.v3"
)

// itemsDoc is the items file. It is either a list of per-item parameter maps or
// a mapping with run-level params and items.
type itemsDoc struct {
	Params map[string]value.Value   `yaml:"params"`
	Items  []map[string]value.Value `yaml:"items"`
}

func readItems(path string, stdin io.Reader) (itemsDoc, error) {
	var doc itemsDoc
	data, err := readSource(path, stdin)
	if err != nil {
		return doc, err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return doc, fmt.Errorf("parse items %s: %w", path, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}
	top := root.Content[0]
	switch top.Kind {
	case yaml.SequenceNode:
		err = top.Decode(&doc.Items)
	case yaml.MappingNode:
		err = top.Decode(&doc)
	default:
		err = errors.New("expected a list of items or a mapping with params/items")
	}
	if err != nil {
		return doc, fmt.Errorf("parse items %s: %w", path, err)
	}
	return doc, nil
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	// #nosec G304 -- items path is provided intentionally by the user
	return os.ReadFile(filepath.Clean(path))
}

// parseParams turns name=value flags into string parameters.
func parseParams(flags []string) (map[string]value.Value, error) {
	out := make(map[string]value.Value, len(flags))
	for _, f := range flags {
		name, val, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", f)
		}
		out[name] = value.String(val)
	}
	return out, nil
}

// selectionFlags holds the flags shared by run and resolve.
type selectionFlags struct {
	Resource  string
	Operation string
	ItemsPath string
	Params    []string
}

// buildHost merges the items file, --param flags and the selection into a host.
// Flags override params from the file.
func buildHost(f selectionFlags, creds map[string]any, stdin io.Reader) (*xentral.StaticHost, error) {
	var doc itemsDoc
	if strings.TrimSpace(f.ItemsPath) != "" {
		var err error
		if doc, err = readItems(f.ItemsPath, stdin); err != nil {
			return nil, err
		}
	}
	params := make(map[string]value.Value, len(doc.Params)+len(f.Params)+2)
	for k, v := range doc.Params {
		params[k] = v
	}
	flagParams, err := parseParams(f.Params)
	if err != nil {
		return nil, err
	}
	for k, v := range flagParams {
		params[k] = v
	}
	if f.Resource != "" {
		params["resource"] = value.String(f.Resource)
	}
	if f.Operation != "" {
		params["operation"] = value.String(f.Operation)
	}
	return &xentral.StaticHost{Creds: creds, Params: params, Items: doc.Items}, nil
}
