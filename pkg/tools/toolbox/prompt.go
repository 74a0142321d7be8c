package toolbox

import "context"

// PromptHandler renders a prompt from its string arguments.
type PromptHandler func(ctx context.Context, args map[string]string) (string, error)

// PromptArgument describes one named prompt argument.
type PromptArgument struct {
	Name        string
	Description string
	Required    bool
}

// Prompt is a named text template offered to the client.
type Prompt struct {
	Name        string
	Description string
	Arguments   []PromptArgument
	Handler     PromptHandler
}
