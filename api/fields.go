package api

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/shelf-cli/pkg/valueeditor"
)

// ListFields returns the filterable field schema, ordered by name.
func (c *Client) ListFields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.Query(ctx, "fields:list", nil, &fields); err != nil {
		return nil, err
	}

	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})
	return fields, nil
}

// FieldByName finds a field in a schema.
func FieldByName(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// LoadFieldsFile reads a field schema from a YAML file:
//
//	fields:
//	  - name: status
//	    type: select
//	    values:
//	      - {name: active, label: Active}
func LoadFieldsFile(path string) ([]Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fields file: %w", err)
	}

	var doc struct {
		Fields []Field `yaml:"fields"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fields file: %w", err)
	}

	for i, f := range doc.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i+1)
		}
		if doc.Fields[i].Type == "" {
			doc.Fields[i].Type = valueeditor.TypeText
		}
	}

	sort.SliceStable(doc.Fields, func(i, j int) bool {
		return doc.Fields[i].Name < doc.Fields[j].Name
	})
	return doc.Fields, nil
}
