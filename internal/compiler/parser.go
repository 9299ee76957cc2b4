package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/modelo/internal/dto"
	"github.com/aretw0/modelo/pkg/schema"
)

var (
	delegateSchema = schema.Schema{
		"func":    schema.String(),
		"gets":    schema.Slice(schema.String()),
		"sets":    schema.Slice(schema.String()),
		"deletes": schema.Slice(schema.String()),
	}

	attributeSchema = schema.Schema{
		"name":         schema.String(),
		"type":         schema.String(),
		"factory":      schema.String(),
		"accepts_none": schema.Bool(),
		"default":      schema.Any(),
		"comparable":   schema.Bool(),
		"represented":  schema.Bool(),
		"parent":       schema.Bool(),
		"history":      schema.Bool(),
		"final":        schema.Bool(),
		"getter":       schema.Of[map[string]any](),
		"setter":       schema.Of[map[string]any](),
		"deleter":      schema.Of[map[string]any](),
	}

	classSchema = schema.Schema{
		"name":       schema.String(),
		"extends":    schema.String(),
		"attributes": schema.Slice(schema.Of[map[string]any]()),
	}
)

// Parser is responsible for converting raw declaration files into documents.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads path and parses it. Files ending in .json are read as
// JSON, everything else as YAML.
func (p *Parser) ParseFile(path string) (dto.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dto.Document{}, fmt.Errorf("failed to read declarations: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return dto.Document{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return p.decode(raw)
	}
	return p.Parse(data)
}

// Parse decodes YAML content into a document. Every class and attribute
// entry is checked against the declaration schema first, so unknown keys and
// mistyped values are reported together.
func (p *Parser) Parse(data []byte) (dto.Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return dto.Document{}, fmt.Errorf("failed to parse declarations: %w", err)
	}
	return p.decode(raw)
}

func (p *Parser) decode(raw map[string]any) (dto.Document, error) {
	var doc dto.Document
	entries, ok := raw["classes"].([]any)
	if !ok {
		return doc, fmt.Errorf("declarations missing 'classes' list")
	}

	var errs []error
	for i, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("class #%d: invalid definition type: %T", i+1, entry))
			continue
		}
		class, err := decodeClass(item)
		if err != nil {
			errs = append(errs, fmt.Errorf("class #%d: %w", i+1, err))
			continue
		}
		doc.Classes = append(doc.Classes, class)
	}
	if err := schema.Join(errs); err != nil {
		return dto.Document{}, err
	}
	return doc, nil
}

func decodeClass(item map[string]any) (dto.ClassDecl, error) {
	class := dto.ClassDecl{}
	if err := schema.ValidatePartial(classSchema, item); err != nil {
		return class, err
	}
	class.Name, _ = item["name"].(string)
	class.Extends, _ = item["extends"].(string)

	attrs, _ := item["attributes"].([]any)
	var errs []error
	for j, a := range attrs {
		attr, err := decodeAttribute(a.(map[string]any))
		if err != nil {
			errs = append(errs, fmt.Errorf("attribute #%d: %w", j+1, err))
			continue
		}
		class.Attributes = append(class.Attributes, attr)
	}
	return class, schema.Join(errs)
}

func decodeAttribute(item map[string]any) (dto.AttributeDecl, error) {
	var attr dto.AttributeDecl
	if err := schema.ValidatePartial(attributeSchema, item); err != nil {
		return attr, err
	}
	for _, key := range []string{"getter", "setter", "deleter"} {
		if d, ok := item[key].(map[string]any); ok {
			if err := schema.ValidatePartial(delegateSchema, d); err != nil {
				return attr, fmt.Errorf("%s: %w", key, err)
			}
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &attr,
		ErrorUnused: true,
	})
	if err != nil {
		return attr, err
	}
	if err := decoder.Decode(item); err != nil {
		return attr, fmt.Errorf("failed to decode attribute: %w", err)
	}
	_, attr.HasDefault = item["default"]
	return attr, nil
}
