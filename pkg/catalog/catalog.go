package catalog

import (
	_ "embed"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/pkg/toolregistry"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed recruitcrm.yaml
var recruitCRM []byte

// ErrInvalidCatalog is returned when a catalog document fails validation
var ErrInvalidCatalog = errors.New("invalid catalog")

// schemaJSON describes a catalog document
const schemaJSON = `{
  "type": "object",
  "required": ["tools"],
  "properties": {
    "tools": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "category", "description"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "category": {"enum": ["search", "reports", "actions", "helpers", "communication"]},
          "description": {"type": "string"},
          "keywords": {"type": "array", "items": {"type": "string"}},
          "required_params": {"type": "array", "items": {"type": "string"}},
          "optional_params": {"type": "array", "items": {"type": "string"}},
          "helper_tools": {"type": "array", "items": {"type": "string"}},
          "requires_confirmation": {"type": "boolean"},
          "typical_usage_pattern": {"type": "string"}
        }
      }
    }
  }
}`

var schema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(err)
	}
	return s
}

type document struct {
	Tools []toolregistry.ToolMetadata `yaml:"tools"`
}

// Default returns the built-in Recruit CRM tool catalog
func Default() ([]toolregistry.ToolMetadata, error) {
	tools, err := Parse(recruitCRM)
	if err != nil {
		return nil, errors.Wrap(err, "built-in catalog")
	}
	return tools, nil
}

// LoadFile reads and parses a catalog file
func LoadFile(path string) ([]toolregistry.ToolMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML (or JSON) catalog document, validating it first
func Parse(data []byte) ([]toolregistry.ToolMetadata, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode catalog"), ErrInvalidCatalog)
	}
	if raw == nil {
		return nil, errors.Wrap(ErrInvalidCatalog, "empty document")
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to validate catalog"), ErrInvalidCatalog)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.Wrapf(ErrInvalidCatalog, "%s", strings.Join(msgs, "; "))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode catalog"), ErrInvalidCatalog)
	}
	return doc.Tools, nil
}

// NewRegistry builds a registry from the built-in catalog
func NewRegistry(opts ...toolregistry.Option) (*toolregistry.Registry, error) {
	tools, err := Default()
	if err != nil {
		return nil, err
	}
	return toolregistry.New(tools, opts...), nil
}
