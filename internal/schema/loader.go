package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DescriptorFile is the YAML structure for one industry schema file.
type DescriptorFile struct {
	Industry    string `yaml:"industry"`
	Description string `yaml:"description"`
	SchemaURL   string `yaml:"schema_url"`
	Tables      []struct {
		Name    string   `yaml:"name"`
		Columns []string `yaml:"columns"`
	} `yaml:"tables"`
	Relationships []string `yaml:"relationships"`
}

// Loader reads industry schema descriptors from YAML files.
type Loader struct {
	basePath string
}

// NewLoader creates a loader rooted at basePath.
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// LoadDescriptor loads a single industry schema file.
func (l *Loader) LoadDescriptor(name string) (*Descriptor, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, name))
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var file DescriptorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse schema file %s: %w", name, err)
	}

	d := &Descriptor{
		Industry:      file.Industry,
		Description:   file.Description,
		SchemaURL:     file.SchemaURL,
		Tables:        make([]Table, len(file.Tables)),
		Relationships: file.Relationships,
	}
	for i, t := range file.Tables {
		d.Tables[i] = Table{Name: t.Name, Columns: t.Columns}
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("schema file %s: %w", name, err)
	}

	return d, nil
}

// LoadCatalog loads every *.yaml file in the base directory into a catalog.
// Any malformed file fails the whole load; a partially valid catalog is
// never returned.
func (l *Loader) LoadCatalog() (*Catalog, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("read schema directory: %w", err)
	}

	var descriptors []*Descriptor
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		d, err := l.LoadDescriptor(entry.Name())
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	if len(descriptors) == 0 {
		return nil, fmt.Errorf("no schema files found in %s", l.basePath)
	}

	return NewCatalog(descriptors...)
}
