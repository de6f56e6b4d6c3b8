package tools

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// argumentSchema compiles the parameters schema of a definition. A nil
// schema is returned for tools without parameters.
func argumentSchema(def ToolDefinition) (*gojsonschema.Schema, error) {
	if def.Parameters == nil {
		return nil, nil
	}
	b, err := json.Marshal(def.Parameters)
	if err != nil {
		return nil, errors.Wrapf(err, "could not marshal parameters of %s", def.Name)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid parameters schema for %s", def.Name)
	}
	return schema, nil
}

// validateArguments returns the schema violations of args, joined in one line.
func validateArguments(schema *gojsonschema.Schema, args map[string]any) (string, error) {
	if schema == nil {
		return "", nil
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return "", err
	}
	if result.Valid() {
		return "", nil
	}
	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return strings.Join(problems, "; "), nil
}
