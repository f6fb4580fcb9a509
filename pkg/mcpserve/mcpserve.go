// Package mcpserve is a thin serving shell that exposes toolbox tools over
// the MCP protocol using the official MCP Go SDK.
package mcpserve

import (
	"context"
	"encoding/json"
	"io"

	"github.com/germanamz/weatherctl/pkg/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server serves tools to a single MCP client over a duplex byte stream.
// Tools live in a toolbox.ToolBox and every call dispatches through it, so
// the registry's error-as-data Result is the single dispatch path.
type Server struct {
	server *mcp.Server
	tools  *toolbox.ToolBox
}

// New creates a Server advertising the given implementation name and version.
func New(name, version string) *Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)

	return &Server{
		server: server,
		tools:  toolbox.New(),
	}
}

// Register adds tools to the registry and advertises them to clients.
func (s *Server) Register(tools ...toolbox.Tool) {
	s.tools.Register(tools...)

	for _, t := range tools {
		s.server.AddTool(toSDKTool(t), s.dispatch(t.Name))
	}
}

// Serve reads MCP requests from in and writes responses to out, blocking
// until ctx is cancelled or the transport closes. Serving a process's
// stdin/stdout is the expected production use.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}

	return s.run(ctx, transport)
}

// run starts the server on the given transport. Tests call it directly with
// an in-memory transport.
func (s *Server) run(ctx context.Context, transport mcp.Transport) error {
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

// dispatch returns an SDK ToolHandler that routes the call through the
// registry. Handler failures (and unknown tools) become IsError results so
// the caller sees a displayable message instead of a protocol fault.
func (s *Server) dispatch(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.Params.Arguments
		if args == nil {
			args = json.RawMessage("{}")
		}

		result := s.tools.Call(ctx, name, args)

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.Content}},
			IsError: result.IsError,
		}, nil
	}
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
