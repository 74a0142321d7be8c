// Package tools provides the MCP plumbing the IoT toolboxes are served through.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/oncemcp/pkg/tools/toolbox]: Tool, Resource, and Prompt types and the ToolBox that registers, filters, and calls them
//   - [github.com/germanamz/oncemcp/pkg/tools/mcpserver]: MCP server over stdio, in-memory, or streamable HTTP (gin) transports
//   - [github.com/germanamz/oncemcp/pkg/tools/mcpclient]: MCP client session used by the CLI, in-process or against a remote endpoint
//
// The toolbox sub-package is the foundation layer. mcpserver and mcpclient
// both depend on toolbox but not on each other. Both wrap the official MCP Go
// SDK (github.com/modelcontextprotocol/go-sdk).
package tools
