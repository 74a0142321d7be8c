package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

func echoHandler(_ context.Context, input json.RawMessage) (string, error) {
	return string(input), nil
}

func errorHandler(_ context.Context, _ json.RawMessage) (string, error) {
	return "", errors.New("tool failed")
}

func newTestTool(name string) toolbox.Tool {
	return toolbox.Tool{
		Name:        name,
		Description: "Test tool: " + name,
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     echoHandler,
	}
}

// setupTestClient creates an MCPServer serving tb, connects an SDK client via
// in-memory transports, and returns the client session. The server runs in a
// background goroutine tied to t.Cleanup.
func setupTestClient(t *testing.T, tb *toolbox.ToolBox) *mcp.ClientSession {
	t.Helper()

	s := New("test-server", "1.0.0", zerolog.Nop())
	s.Mount(tb)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- s.Run(ctx, serverTransport)
	}()
	t.Cleanup(func() {
		cancel()
		<-serverDone
	})

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func toolsOf(tools ...toolbox.Tool) *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(tools...)

	return tb
}

func TestNew(t *testing.T) {
	s := New("srv", "1.0.0", zerolog.Nop())
	assert.NotNil(t, s.server)
}

func TestListTools(t *testing.T) {
	session := setupTestClient(t, toolsOf(
		newTestTool("echo"),
		toolbox.Tool{
			Name:        "greet",
			Description: "Say hello",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`),
			Handler:     echoHandler,
		},
	))

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)

	toolsByName := make(map[string]*mcp.Tool, len(result.Tools))
	for _, tool := range result.Tools {
		toolsByName[tool.Name] = tool
	}

	echo, ok := toolsByName["echo"]
	require.True(t, ok)
	assert.Equal(t, "Test tool: echo", echo.Description)

	greet, ok := toolsByName["greet"]
	require.True(t, ok)
	assert.Equal(t, "Say hello", greet.Description)
}

func TestToolCallSuccess(t *testing.T) {
	session := setupTestClient(t, toolsOf(newTestTool("echo")))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"msg": "hello"},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"msg":"hello"}`, tc.Text)
}

func TestToolCallHandlerError(t *testing.T) {
	session := setupTestClient(t, toolsOf(toolbox.Tool{
		Name:        "fail",
		Description: "Always fails",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     errorHandler,
	}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "fail",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "tool failed", tc.Text)
}

func TestToolCallNotFound(t *testing.T) {
	session := setupTestClient(t, toolbox.New())

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "missing",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestResources(t *testing.T) {
	tb := toolbox.New()
	tb.RegisterResources(
		toolbox.Resource{
			URI:      "resource://test/static",
			Name:     "static",
			MIMEType: "application/json",
			Handler: func(_ context.Context, _ string) (string, error) {
				return `{"static":true}`, nil
			},
		},
		toolbox.Resource{
			URITemplate: "resource://test/items/{id}",
			Name:        "item",
			MIMEType:    "application/json",
			Handler: func(_ context.Context, uri string) (string, error) {
				return `{"uri":"` + uri + `"}`, nil
			},
		},
	)
	session := setupTestClient(t, tb)
	ctx := context.Background()

	list, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list.Resources, 1)
	assert.Equal(t, "resource://test/static", list.Resources[0].URI)

	templates, err := session.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, templates.ResourceTemplates, 1)
	assert.Equal(t, "resource://test/items/{id}", templates.ResourceTemplates[0].URITemplate)

	res, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "resource://test/static"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.JSONEq(t, `{"static":true}`, res.Contents[0].Text)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	res, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "resource://test/items/42"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.JSONEq(t, `{"uri":"resource://test/items/42"}`, res.Contents[0].Text)
}

func TestResourceHandlerError(t *testing.T) {
	tb := toolbox.New()
	tb.RegisterResources(toolbox.Resource{
		URI:  "resource://test/broken",
		Name: "broken",
		Handler: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("upstream unavailable")
		},
	})
	session := setupTestClient(t, tb)

	_, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "resource://test/broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestPrompts(t *testing.T) {
	tb := toolbox.New()
	tb.RegisterPrompts(toolbox.Prompt{
		Name:        "greet",
		Description: "Greets someone",
		Arguments:   []toolbox.PromptArgument{{Name: "who", Required: true}},
		Handler: func(_ context.Context, args map[string]string) (string, error) {
			return "Hello " + args["who"], nil
		},
	})
	session := setupTestClient(t, tb)
	ctx := context.Background()

	list, err := session.ListPrompts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list.Prompts, 1)
	assert.Equal(t, "greet", list.Prompts[0].Name)
	require.Len(t, list.Prompts[0].Arguments, 1)
	assert.True(t, list.Prompts[0].Arguments[0].Required)

	res, err := session.GetPrompt(ctx, &mcp.GetPromptParams{
		Name:      "greet",
		Arguments: map[string]string{"who": "world"},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, mcp.Role("user"), res.Messages[0].Role)

	tc, ok := res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "Hello world", tc.Text)

	_, err = session.GetPrompt(ctx, &mcp.GetPromptParams{Name: "greet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "who")
}

func TestContextCancellation(t *testing.T) {
	s := New("srv", "1.0.0", zerolog.Nop())
	serverTransport, _ := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, serverTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRouterHealthz(t *testing.T) {
	s := New("srv", "1.2.3", zerolog.Nop())

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","name":"srv","version":"1.2.3"}`, rec.Body.String())
}

func TestRouterStreamableHTTP(t *testing.T) {
	s := New("srv", "1.0.0", zerolog.Nop())
	s.Mount(toolsOf(newTestTool("echo")))

	httpSrv := httptest.NewServer(s.Router())
	t.Cleanup(httpSrv.Close)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{
		Endpoint: httpSrv.URL + MCPPath,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"via": "http"},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"via":"http"}`, tc.Text)
}
