package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/germanamz/oncemcp/pkg/config"
	"github.com/germanamz/oncemcp/pkg/iottoolbox/defaults"
	"github.com/germanamz/oncemcp/pkg/logging"
	"github.com/germanamz/oncemcp/pkg/management"
	"github.com/germanamz/oncemcp/pkg/management/auth"
	"github.com/germanamz/oncemcp/pkg/tools/mcpclient"
	"github.com/germanamz/oncemcp/pkg/tools/mcpserver"
	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

type app struct {
	cfg    config.Config
	log    zerolog.Logger
	tools  *toolbox.ToolBox
	server *mcpserver.MCPServer
}

// wireApp loads and validates configuration and assembles the management
// client, toolbox, and MCP server. Logs go to logOut.
func wireApp(opts *rootOptions, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.Open(cfg.Log.Format, cfg.Log.Level, logOut)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	tokenURL := strings.TrimRight(cfg.BaseURL, "/") + management.TokenPath
	exchange, err := auth.NewClientCredentials(tokenURL, cfg.Credentials(), httpClient, log)
	if err != nil {
		return nil, fmt.Errorf("wire token source: %w", err)
	}

	var tokens auth.TokenSource = exchange
	if cfg.Auth.CacheTokens {
		tokens = auth.NewCache(exchange, cfg.Auth.RenewalBuffer)
	}

	client := management.New(cfg.BaseURL, tokens, httpClient, log)

	tb, err := selectTools(defaults.New(client), cfg.Server.Tools)
	if err != nil {
		return nil, err
	}

	server := mcpserver.New(cfg.Server.Name, version, log)
	server.Mount(tb)

	log.Debug().
		Str("base_url", client.BaseURL()).
		Bool("cache_tokens", cfg.Auth.CacheTokens).
		Int("tools", len(tb.Tools())).
		Msg("wired")

	return &app{cfg: cfg, log: log, tools: tb, server: server}, nil
}

// selectTools narrows tb to the allow-listed names. Unknown names are a
// configuration error.
func selectTools(tb *toolbox.ToolBox, names []string) (*toolbox.ToolBox, error) {
	for _, name := range names {
		if _, ok := tb.Get(name); !ok {
			return nil, fmt.Errorf("config: server: unknown tool %q", name)
		}
	}

	return tb.Filter(names), nil
}

// connect runs the server in-process and returns a client session bound to
// it. The returned func closes the session and stops the server.
func (a *app) connect(ctx context.Context) (*mcpclient.MCPClient, func(), error) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- a.server.Run(ctx, serverTransport)
	}()

	client, err := mcpclient.Connect(ctx, clientTransport, version)
	if err != nil {
		cancel()
		<-done
		return nil, nil, err
	}

	return client, func() {
		_ = client.Close()
		cancel()
		<-done
	}, nil
}

// openSession connects to remote when set, otherwise to an in-process server
// built from the local configuration.
func openSession(ctx context.Context, opts *rootOptions, remote string, logOut io.Writer) (*mcpclient.MCPClient, func(), error) {
	if remote != "" {
		client, err := mcpclient.DialHTTP(ctx, remote, nil, version)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	}

	a, err := wireApp(opts, logOut)
	if err != nil {
		return nil, nil, err
	}

	return a.connect(ctx)
}
