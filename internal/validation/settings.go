package validation

import (
	"encoding/json"
	"fmt"
)

// Per-block-type JSON Schemas for the settings payload. Unknown block
// types fall back to the permissive object schema so third-party theme
// blocks are not rejected.
var blockSettingsSchemas = map[string]string{
	"text": `{
		"type": "object",
		"properties": {
			"text":  {"type": "string"},
			"size":  {"type": "string", "enum": ["sm", "md", "lg", "xl"]},
			"color": {"type": "string"}
		},
		"additionalProperties": true
	}`,
	"image": `{
		"type": "object",
		"properties": {
			"src": {"type": "string"},
			"alt": {"type": "string"},
			"width":  {"type": "integer", "minimum": 0},
			"height": {"type": "integer", "minimum": 0}
		},
		"additionalProperties": true
	}`,
	"button": `{
		"type": "object",
		"properties": {
			"label": {"type": "string"},
			"href":  {"type": "string"},
			"style": {"type": "string", "enum": ["primary", "secondary", "link"]}
		},
		"additionalProperties": true
	}`,
	"container": `{
		"type": "object",
		"properties": {
			"gap":       {"type": "integer", "minimum": 0},
			"direction": {"type": "string", "enum": ["row", "column"]},
			"align":     {"type": "string"}
		},
		"additionalProperties": true
	}`,
	"icon-group": `{
		"type": "object",
		"properties": {
			"size":    {"type": "string"},
			"spacing": {"type": "integer", "minimum": 0}
		},
		"additionalProperties": true
	}`,
	"mega-menu": `{
		"type": "object",
		"properties": {
			"title":   {"type": "string"},
			"columns": {"type": "integer", "minimum": 1, "maximum": 6}
		},
		"additionalProperties": true
	}`,
	"mega-menu-column": `{
		"type": "object",
		"properties": {
			"heading": {"type": "string"},
			"width":   {"type": "integer", "minimum": 1}
		},
		"additionalProperties": true
	}`,
}

// permissiveSchema accepts any JSON object. Applied to block types without
// a registered schema.
const permissiveSchema = `{"type": "object"}`

// SettingsValidator validates block settings against the schema registered
// for the block's type.
type SettingsValidator struct {
	validator SchemaValidator
}

// NewSettingsValidator creates a SettingsValidator backed by gojsonschema.
func NewSettingsValidator() *SettingsValidator {
	return &SettingsValidator{validator: NewJSONSchemaValidator()}
}

// ValidateBlockSettings checks a settings payload for the given block
// type. A nil or empty payload is always valid.
func (sv *SettingsValidator) ValidateBlockSettings(blockType string, settings json.RawMessage) error {
	if len(settings) == 0 {
		return nil
	}

	schema, ok := blockSettingsSchemas[blockType]
	if !ok {
		schema = permissiveSchema
	}

	if err := sv.validator.Validate(schema, settings); err != nil {
		return fmt.Errorf("invalid settings for block type %q: %w", blockType, err)
	}
	return nil
}

// ValidateSettingsMap is a convenience wrapper for settings that arrive as
// a decoded map rather than raw JSON.
func (sv *SettingsValidator) ValidateSettingsMap(blockType string, settings map[string]any) error {
	if settings == nil {
		return nil
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return sv.ValidateBlockSettings(blockType, raw)
}
