package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

// MCPServer serves tools, resources, and prompts over the MCP protocol using
// the official MCP Go SDK.
type MCPServer struct {
	server  *mcp.Server
	name    string
	version string
	log     zerolog.Logger
}

// New creates a new MCPServer with the given name and version.
func New(name, version string, log zerolog.Logger) *MCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)

	return &MCPServer{server: server, name: name, version: version, log: log}
}

// Mount registers every tool, resource, and prompt of tb.
func (s *MCPServer) Mount(tb *toolbox.ToolBox) {
	s.Register(tb.Tools()...)
	s.RegisterResources(tb.Resources()...)
	s.RegisterPrompts(tb.Prompts()...)
}

// Register adds tools to the server.
func (s *MCPServer) Register(tools ...toolbox.Tool) {
	for _, t := range tools {
		s.server.AddTool(toSDKTool(t), s.toSDKHandler(t.Name, t.Handler))
	}
}

// RegisterResources adds fixed and templated resources to the server.
func (s *MCPServer) RegisterResources(resources ...toolbox.Resource) {
	for _, r := range resources {
		if r.URITemplate != "" {
			s.server.AddResourceTemplate(&mcp.ResourceTemplate{
				URITemplate: r.URITemplate,
				Name:        r.Name,
				Description: r.Description,
				MIMEType:    r.MIMEType,
			}, s.toSDKResourceHandler(r))

			continue
		}

		s.server.AddResource(&mcp.Resource{
			URI:         r.URI,
			Name:        r.Name,
			Description: r.Description,
			MIMEType:    r.MIMEType,
		}, s.toSDKResourceHandler(r))
	}
}

// RegisterPrompts adds prompts to the server.
func (s *MCPServer) RegisterPrompts(prompts ...toolbox.Prompt) {
	for _, p := range prompts {
		s.server.AddPrompt(toSDKPrompt(p), toSDKPromptHandler(p))
	}
}

// Serve starts serving MCP requests. It reads requests from in and writes
// responses to out. It blocks until ctx is cancelled or the transport closes.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}

	return s.Run(ctx, transport)
}

// Run serves MCP over transport until ctx is cancelled or the peer
// disconnects. Pair it with mcp.NewInMemoryTransports for in-process clients.
func (s *MCPServer) Run(ctx context.Context, transport mcp.Transport) error {
	s.log.Info().Str("server", s.name).Str("version", s.version).Msg("mcp server started")
	defer s.log.Info().Str("server", s.name).Msg("mcp server stopped")

	return s.server.Run(ctx, transport)
}

// toSDKTool converts a toolbox.Tool to an SDK *mcp.Tool.
func toSDKTool(t toolbox.Tool) *mcp.Tool {
	return &mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}

// toSDKHandler wraps a toolbox.Handler as an SDK ToolHandler. Handler errors
// become tool results flagged IsError so the calling model can see them.
func (s *MCPServer) toSDKHandler(name string, h toolbox.Handler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.Params.Arguments
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}

		start := time.Now()
		result, err := h(ctx, args)

		ev := s.log.Debug().Str("tool", name).Dur("latency", time.Since(start))
		if err != nil {
			ev.Err(err).Msg("tool call failed")

			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}
		ev.Msg("tool call")

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result}},
		}, nil
	}
}

// toSDKResourceHandler wraps a toolbox.ResourceHandler as an SDK ResourceHandler.
func (s *MCPServer) toSDKResourceHandler(r toolbox.Resource) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI

		text, err := r.Handler(ctx, uri)
		if err != nil {
			s.log.Debug().Str("resource", uri).Err(err).Msg("resource read failed")
			return nil, err
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: r.MIMEType,
				Text:     text,
			}},
		}, nil
	}
}

// toSDKPrompt converts a toolbox.Prompt to an SDK *mcp.Prompt.
func toSDKPrompt(p toolbox.Prompt) *mcp.Prompt {
	args := make([]*mcp.PromptArgument, 0, len(p.Arguments))
	for _, a := range p.Arguments {
		args = append(args, &mcp.PromptArgument{
			Name:        a.Name,
			Description: a.Description,
			Required:    a.Required,
		})
	}

	return &mcp.Prompt{
		Name:        p.Name,
		Description: p.Description,
		Arguments:   args,
	}
}

// toSDKPromptHandler renders the prompt as a single user message.
func toSDKPromptHandler(p toolbox.Prompt) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		for _, a := range p.Arguments {
			if _, ok := args[a.Name]; a.Required && !ok {
				return nil, fmt.Errorf("prompt %s: missing required argument %q", p.Name, a.Name)
			}
		}

		text, err := p.Handler(ctx, args)
		if err != nil {
			return nil, err
		}

		return &mcp.GetPromptResult{
			Description: p.Description,
			Messages: []*mcp.PromptMessage{{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			}},
		}, nil
	}
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
