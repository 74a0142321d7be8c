package toolbox

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// ToolBox orchestrates a collection of tools, resources, and prompts. It allows
// registering, retrieving, listing, and calling them. The MCP server and the
// CLI both serve from a ToolBox.
type ToolBox struct {
	tools     map[string]Tool
	resources map[string]Resource
	prompts   map[string]Prompt
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		prompts:   make(map[string]Prompt),
	}
}

// Register adds one or more tools to the ToolBox. If a tool with the same name
// already exists, it is replaced.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// RegisterResources adds resources keyed by URI or URI template.
func (tb *ToolBox) RegisterResources(resources ...Resource) {
	for _, r := range resources {
		tb.resources[r.Key()] = r
	}
}

// RegisterPrompts adds prompts keyed by name.
func (tb *ToolBox) RegisterPrompts(prompts ...Prompt) {
	for _, p := range prompts {
		tb.prompts[p.Name] = p
	}
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Prompt returns a prompt by name.
func (tb *ToolBox) Prompt(name string) (Prompt, bool) {
	p, ok := tb.prompts[name]
	return p, ok
}

// Merge registers everything from another ToolBox into this one. Entries with
// the same key are replaced.
func (tb *ToolBox) Merge(other *ToolBox) {
	for _, t := range other.tools {
		tb.tools[t.Name] = t
	}
	for k, r := range other.resources {
		tb.resources[k] = r
	}
	for _, p := range other.prompts {
		tb.prompts[p.Name] = p
	}
}

// Filter returns a ToolBox exposing only the named tools. Resources and
// prompts are carried over unchanged. An empty names list returns tb itself.
func (tb *ToolBox) Filter(names []string) *ToolBox {
	if len(names) == 0 {
		return tb
	}

	out := New()
	for _, name := range names {
		if t, ok := tb.tools[name]; ok {
			out.tools[name] = t
		}
	}
	for k, r := range tb.resources {
		out.resources[k] = r
	}
	for k, p := range tb.prompts {
		out.prompts[k] = p
	}

	return out
}

// Tools returns all registered tools sorted by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	slices.SortFunc(result, func(a, b Tool) int { return cmp.Compare(a.Name, b.Name) })

	return result
}

// Resources returns all registered resources sorted by address.
func (tb *ToolBox) Resources() []Resource {
	result := make([]Resource, 0, len(tb.resources))
	for _, r := range tb.resources {
		result = append(result, r)
	}
	slices.SortFunc(result, func(a, b Resource) int { return cmp.Compare(a.Key(), b.Key()) })

	return result
}

// Prompts returns all registered prompts sorted by name.
func (tb *ToolBox) Prompts() []Prompt {
	result := make([]Prompt, 0, len(tb.prompts))
	for _, p := range tb.prompts {
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b Prompt) int { return cmp.Compare(a.Name, b.Name) })

	return result
}

// Call executes the named tool and returns a Result. If the tool is not found
// or the handler returns an error, the result will have IsError set to true.
func (tb *ToolBox) Call(ctx context.Context, name string, input json.RawMessage) Result {
	t, ok := tb.tools[name]
	if !ok {
		return Result{
			Content: fmt.Sprintf("tool not found: %s", name),
			IsError: true,
		}
	}

	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	result, err := t.Handler(ctx, input)
	if err != nil {
		return Result{
			Content: err.Error(),
			IsError: true,
		}
	}

	return Result{Content: result}
}
