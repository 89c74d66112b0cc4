// Package catalogfile loads resource catalogs from YAML files validated
// against an embedded JSON schema.
package catalogfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/mythic-mines/internal/domain/catalog"
)

//go:embed catalog.schema.json
var schemaJSON string

const schemaURL = "catalog.schema.json"

// resourceEntry is one resource as written in the YAML file
type resourceEntry struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	Hardness          float64 `yaml:"hardness"`
	SlotUnlockLevels  []int   `yaml:"slot_unlock_levels"`
	ReservoirCapacity float64 `yaml:"reservoir_capacity"`
	RequiredRole      string  `yaml:"required_role"`
}

type catalogFile struct {
	Resources []resourceEntry `yaml:"resources"`
}

// Loader parses and validates catalog files
type Loader struct {
	schema *jsonschema.Schema
}

// NewLoader compiles the embedded schema
func NewLoader() (*Loader, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add catalog schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return &Loader{schema: schema}, nil
}

// LoadFile reads a catalog from disk
func (l *Loader) LoadFile(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	cat, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse validates YAML against the schema and builds a catalog.
// Resources keep file order, which is their depth order.
func (l *Loader) Parse(data []byte) (*catalog.Catalog, error) {
	if err := l.validate(data); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	descriptors := make([]catalog.ResourceDescriptor, 0, len(file.Resources))
	for _, r := range file.Resources {
		d := catalog.ResourceDescriptor{
			ID:                r.ID,
			Name:              r.Name,
			Hardness:          r.Hardness,
			ReservoirCapacity: r.ReservoirCapacity,
			RequiredRole:      r.RequiredRole,
		}
		copy(d.SlotUnlockLevel[:], r.SlotUnlockLevels)
		descriptors = append(descriptors, d)
	}
	return catalog.New(descriptors)
}

// validate converts the YAML document to JSON values and checks it against the schema
func (l *Loader) validate(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("catalog is not representable as JSON: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return err
	}
	if err := l.schema.Validate(value); err != nil {
		return fmt.Errorf("catalog does not match schema: %w", err)
	}
	return nil
}

// Load returns the catalog at path, or the built-in catalog when path is empty
func Load(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	loader, err := NewLoader()
	if err != nil {
		return nil, err
	}
	return loader.LoadFile(path)
}
