package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Executor resolves a tool call into its result.
type Executor interface {
	Execute(ctx context.Context, call turns.ToolCall) turns.ToolResult
}

type registeredTool struct {
	def    ToolDefinition
	fn     ToolFunc
	schema *gojsonschema.Schema
}

// Registry maps tool names to their definitions and implementations. Unknown
// tools resolve to an error-shaped result.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]registeredTool{}}
}

// Register adds a tool. Registering the same name twice is an error.
func (r *Registry) Register(def ToolDefinition, fn ToolFunc) error {
	if def.Name == "" {
		return errors.New("tool name cannot be empty")
	}
	if fn == nil {
		return errors.Errorf("tool %s has no implementation", def.Name)
	}
	schema, err := argumentSchema(def)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[def.Name]; ok {
		return errors.Errorf("tool %s already registered", def.Name)
	}
	r.tools[def.Name] = registeredTool{def: def, fn: fn, schema: schema}
	r.order = append(r.order, def.Name)
	return nil
}

// Alias registers an existing tool under another name.
func (r *Registry) Alias(alias, name string) error {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return errors.Errorf("tool not found: %s", name)
	}
	return r.Register(t.def.WithName(alias), t.fn)
}

func (r *Registry) Get(name string) (ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t.def, ok
}

// List returns the definitions in registration order.
func (r *Registry) List() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].def)
	}
	return out
}

// Execute runs the named tool. Arguments are checked against the tool's
// schema first.
func (r *Registry) Execute(ctx context.Context, call turns.ToolCall) turns.ToolResult {
	r.mu.RLock()
	t, ok := r.tools[call.Name]
	r.mu.RUnlock()
	if !ok {
		log.Warn().Str("tool", call.Name).Msg("model requested an unknown tool")
		return turns.ErrorResult(fmt.Sprintf("unknown tool: %s", call.Name))
	}
	log.Debug().Str("tool", call.Name).Interface("arguments", call.Arguments).Msg("executing tool")
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	// tools report bad input in their result, a mismatch is only logged
	if problems, err := validateArguments(t.schema, args); err != nil {
		log.Debug().Err(err).Str("tool", call.Name).Msg("could not validate tool arguments")
	} else if problems != "" {
		log.Warn().Str("tool", call.Name).Str("problems", problems).Msg("tool arguments do not match the schema")
	}
	result := t.fn(ctx, args)
	if result == nil {
		result = turns.ToolResult{}
	}
	return result
}

var _ Executor = (*Registry)(nil)
