// Package load reads entity declarations from YAML model files.
//
// A model file lists entities and their fields:
//
//	entities:
//	  - name: Article
//	    mixins: [timestamps]
//	    fields:
//	      - {name: headline, kind: char, max_length: 100, column: head}
//	      - {name: body, kind: text, deferred: content}
//	      - {name: price, kind: decimal, max_digits: 10, decimal_places: 2}
//
// Field kinds are given by short name ("char") or class name ("CharField").
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/bridge/entity"
)

// Config holds the configuration for loading model files.
type Config struct {
	// Paths are model files or directories. Directories are read for
	// files with the .yaml or .yml extension, not recursively.
	Paths []string
}

// SchemaSpec holds the entities loaded from model files.
type SchemaSpec struct {
	// Entities are the declared entities, in file and declaration order.
	Entities []*Entity
	// Files are the files that were read.
	Files []string
}

// Load reads the model files of the config.
func (c *Config) Load() (*SchemaSpec, error) {
	if len(c.Paths) == 0 {
		return nil, errors.New("load: no model paths")
	}
	spec := &SchemaSpec{}
	for _, p := range c.Paths {
		files, err := modelFiles(p)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		spec.Files = append(spec.Files, files...)
	}
	seen := make(map[string]*Entity)
	for _, name := range spec.Files {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		entities, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		for _, e := range entities {
			if prev, ok := seen[e.Name]; ok {
				return nil, fmt.Errorf("load: entity %s declared at %s and %s", e.Name, prev.Pos, e.Pos)
			}
			seen[e.Name] = e
		}
		spec.Entities = append(spec.Entities, entities...)
	}
	return spec, nil
}

// Graph builds the mapped entities of the loaded files.
func (s *SchemaSpec) Graph(opts ...entity.Option) (*entity.Graph, error) {
	g := entity.NewGraph(opts...)
	for _, e := range s.Entities {
		sc, err := NewSchema(e)
		if err != nil {
			return nil, err
		}
		if _, err := g.Add(e.Name, sc); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Pos, err)
		}
	}
	return g, nil
}

// document is the top level of a model file.
type document struct {
	Entities []*Entity `yaml:"entities"`
}

// Parse decodes the entities of one model file. Unknown keys are
// rejected. The name is used in positions and errors.
func Parse(name string, data []byte) ([]*Entity, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("load: %s: %w", name, err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("load: %s: %w", name, err)
	}
	lines := entityLines(&root)
	for i, e := range doc.Entities {
		if e == nil {
			return nil, fmt.Errorf("load: %s: entity %d is empty", name, i)
		}
		e.Pos = name
		if i < len(lines) {
			e.Pos = fmt.Sprintf("%s:%d", name, lines[i])
		}
	}
	return doc.Entities, nil
}

// entityLines returns the lines of the items of the entities list.
func entityLines(root *yaml.Node) []int {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != "entities" {
			continue
		}
		var lines []int
		for _, item := range m.Content[i+1].Content {
			lines = append(lines, item.Line)
		}
		return lines
	}
	return nil
}

func modelFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if ext := strings.ToLower(filepath.Ext(e.Name())); !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no model files in %s", path)
	}
	return files, nil
}
