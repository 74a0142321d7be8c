// Package mcpclient connects to an MCP server, in-process or over streamable
// HTTP, and exposes its tools, resources, and prompts as toolbox values.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

// ClientName identifies this client to servers during initialization.
const ClientName = "oncemcp-cli"

// MCPClient is a connected MCP client session.
type MCPClient struct {
	session *mcp.ClientSession
}

// Connect initializes a session over transport.
func Connect(ctx context.Context, transport mcp.Transport, version string) (*MCPClient, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    ClientName,
		Version: version,
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: connect: %w", err)
	}

	return &MCPClient{session: session}, nil
}

// DialHTTP connects to a streamable HTTP endpoint such as
// http://localhost:8080/mcp. A nil httpClient uses http.DefaultClient.
func DialHTTP(ctx context.Context, endpoint string, httpClient *http.Client, version string) (*MCPClient, error) {
	return Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   endpoint,
		HTTPClient: httpClient,
	}, version)
}

// ListTools fetches the server's tools. Each returned Tool's Handler calls
// back through the session.
func (c *MCPClient) ListTools(ctx context.Context) ([]toolbox.Tool, error) {
	result, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: list tools: %w", err)
	}

	tools := make([]toolbox.Tool, 0, len(result.Tools))
	for _, sdkTool := range result.Tools {
		t, err := c.fromSDKTool(sdkTool)
		if err != nil {
			return nil, fmt.Errorf("mcpclient: convert tool %q: %w", sdkTool.Name, err)
		}
		tools = append(tools, t)
	}

	return tools, nil
}

// CallTool invokes a tool. A tool-level failure is reported through
// Result.IsError; the error return is reserved for protocol failures.
func (c *MCPClient) CallTool(ctx context.Context, name string, arguments json.RawMessage) (toolbox.Result, error) {
	var args map[string]any
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			return toolbox.Result{}, fmt.Errorf("mcpclient: unmarshal arguments: %w", err)
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("mcpclient: call tool: %w", err)
	}

	return toolbox.Result{Content: extractText(result.Content), IsError: result.IsError}, nil
}

// ReadResource reads a resource and joins its text contents.
func (c *MCPClient) ReadResource(ctx context.Context, uri string) (string, error) {
	result, err := c.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
	if err != nil {
		return "", fmt.Errorf("mcpclient: read resource: %w", err)
	}

	texts := make([]string, 0, len(result.Contents))
	for _, rc := range result.Contents {
		texts = append(texts, rc.Text)
	}

	return strings.Join(texts, "\n"), nil
}

// Resources lists fixed resource URIs followed by resource templates.
func (c *MCPClient) Resources(ctx context.Context) ([]toolbox.Resource, error) {
	list, err := c.session.ListResources(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: list resources: %w", err)
	}

	templates, err := c.session.ListResourceTemplates(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: list resource templates: %w", err)
	}

	out := make([]toolbox.Resource, 0, len(list.Resources)+len(templates.ResourceTemplates))
	for _, r := range list.Resources {
		out = append(out, toolbox.Resource{URI: r.URI, Name: r.Name, Description: r.Description, MIMEType: r.MIMEType})
	}
	for _, rt := range templates.ResourceTemplates {
		out = append(out, toolbox.Resource{URITemplate: rt.URITemplate, Name: rt.Name, Description: rt.Description, MIMEType: rt.MIMEType})
	}

	return out, nil
}

// GetPrompt renders a prompt and joins the text of its messages.
func (c *MCPClient) GetPrompt(ctx context.Context, name string, args map[string]string) (string, error) {
	result, err := c.session.GetPrompt(ctx, &mcp.GetPromptParams{Name: name, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("mcpclient: get prompt: %w", err)
	}

	contents := make([]mcp.Content, 0, len(result.Messages))
	for _, m := range result.Messages {
		contents = append(contents, m.Content)
	}

	return extractText(contents), nil
}

// Close ends the session.
func (c *MCPClient) Close() error {
	return c.session.Close()
}

func (c *MCPClient) fromSDKTool(sdkTool *mcp.Tool) (toolbox.Tool, error) {
	schemaBytes, err := json.Marshal(sdkTool.InputSchema)
	if err != nil {
		return toolbox.Tool{}, fmt.Errorf("marshal input schema: %w", err)
	}

	name := sdkTool.Name

	return toolbox.Tool{
		Name:        sdkTool.Name,
		Description: sdkTool.Description,
		InputSchema: json.RawMessage(schemaBytes),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			result, err := c.CallTool(ctx, name, input)
			if err != nil {
				return "", err
			}
			if result.IsError {
				return "", fmt.Errorf("mcpclient: %s: %s", name, result.Content)
			}

			return result.Content, nil
		},
	}, nil
}

// extractText joins all TextContent items with newlines.
func extractText(content []mcp.Content) string {
	var texts []string
	for _, item := range content {
		if tc, ok := item.(*mcp.TextContent); ok {
			texts = append(texts, tc.Text)
		}
	}

	return strings.Join(texts, "\n")
}
