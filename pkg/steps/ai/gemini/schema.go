package gemini

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/google/generative-ai-go/genai"
	"github.com/invopop/jsonschema"
)

// convertJSONSchemaToGenAI maps the subset of JSON schema Gemini understands.
func convertJSONSchemaToGenAI(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	gs := &genai.Schema{Description: s.Description}
	switch s.Type {
	case "string":
		gs.Type = genai.TypeString
		for _, e := range s.Enum {
			gs.Enum = append(gs.Enum, fmt.Sprint(e))
		}
		if len(gs.Enum) > 0 {
			gs.Format = "enum"
		}
	case "number":
		gs.Type = genai.TypeNumber
		gs.Format = s.Format
	case "integer":
		gs.Type = genai.TypeInteger
		gs.Format = s.Format
	case "boolean":
		gs.Type = genai.TypeBoolean
	case "array":
		gs.Type = genai.TypeArray
		if s.Items != nil {
			gs.Items = convertJSONSchemaToGenAI(s.Items)
		} else {
			gs.Items = &genai.Schema{Type: genai.TypeString}
		}
	default:
		// default to object when unspecified
		gs.Type = genai.TypeObject
		if s.Properties != nil && s.Properties.Len() > 0 {
			gs.Properties = map[string]*genai.Schema{}
			for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
				gs.Properties[pair.Key] = convertJSONSchemaToGenAI(pair.Value)
			}
			gs.Required = append(gs.Required, s.Required...)
		}
	}
	return gs
}

func functionDeclarations(defs []tools.ToolDefinition) []*genai.FunctionDeclaration {
	var decls []*genai.FunctionDeclaration
	for _, td := range defs {
		desc := td.Description
		// parameter names help the model fill arguments
		if names := td.ParameterNames(); len(names) > 0 {
			desc = strings.TrimSpace(desc + " Parameters: " + strings.Join(names, ", "))
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        td.Name,
			Description: desc,
			Parameters:  convertJSONSchemaToGenAI(td.Parameters),
		})
	}
	return decls
}
