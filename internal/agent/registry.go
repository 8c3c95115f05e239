package agent

import (
	"context"
	"fmt"
	"strings"
)

// ToolFunc executes a tool. Tools never fail structurally: error information
// comes back as plain text so the loop can treat it as an ordinary
// observation to reason about.
type ToolFunc func(ctx context.Context, args map[string]interface{}) string

// Tool is one registered capability
type Tool struct {
	Name        string
	Description string
	Run         ToolFunc
}

// Registry maps tool names to typed implementations
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool; re-registering a name replaces it
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Lookup returns the tool registered under name
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Describe renders the tool list for prompt injection, in registration order
func (r *Registry) Describe() string {
	var sb strings.Builder
	sb.WriteString("Available Tools:\n")
	for _, name := range r.order {
		fmt.Fprintf(&sb, "- %s: %s\n", name, r.tools[name].Description)
	}
	return sb.String()
}

// Execute runs the named tool, returning its textual observation. Unknown
// names yield an error string rather than failing.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) string {
	t, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Error: Tool %s not found.", name)
	}
	return t.Run(ctx, args)
}

// StringArg extracts a string argument by key, tolerating absence
func StringArg(args map[string]interface{}, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
