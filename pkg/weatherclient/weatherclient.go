// Package weatherclient is a session façade over a weather MCP server. It
// wraps connect, list tools, invoke, and close into a single object with an
// explicit lifecycle, delegating transport and protocol work to the official
// MCP Go SDK.
package weatherclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/germanamz/weatherctl/pkg/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Client holds one open session to a weather MCP server. Its lifecycle is
// uninitialized → connected → closed; only Connect may run before the
// session is connected, and nothing may run after Close.
//
// A Client is not safe for concurrent use. It issues one outstanding request
// at a time; callers that need concurrency should use independent Client
// instances.
type Client struct {
	log         *slog.Logger
	client      *mcp.Client
	session     *mcp.ClientSession
	tools       []toolbox.Tool
	middlewares []Middleware
	closed      bool
}

// Connect spawns the server process identified by command and args,
// establishes an MCP session over its stdio (the SDK performs the initialize
// handshake inside Connect), and fetches the advertised tool list. On any
// failure the partially-acquired session is released before the error, a
// *ConnectError, is returned.
func Connect(ctx context.Context, command string, args ...string) (*Client, error) {
	transport := &mcp.CommandTransport{
		Command: exec.Command(command, args...), //nolint:gosec // command is caller-provided by design
	}

	return connectTransport(ctx, transport)
}

// connectTransport connects over the given transport. Used by Connect and by
// tests with InMemoryTransport.
func connectTransport(ctx context.Context, transport mcp.Transport) (*Client, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "weatherctl",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, &ConnectError{Err: err}
	}

	c := &Client{
		log:     slog.Default(),
		client:  client,
		session: session,
	}

	tools, err := c.fetchTools(ctx)
	if err != nil {
		// Release the session before the error propagates so a failed
		// connect leaves nothing open.
		_ = c.Close()
		return nil, &ConnectError{Err: err}
	}

	c.tools = tools

	return c, nil
}

// SetLogger replaces the logger used for teardown warnings. The default is
// slog.Default().
func (c *Client) SetLogger(log *slog.Logger) {
	c.log = log
}

// Tools returns the tool descriptors fetched during the connect handshake,
// in server order. It fails with ErrNotConnected outside the connected
// window.
func (c *Client) Tools() ([]toolbox.Tool, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	return c.tools, nil
}

// RefreshTools re-queries the server for its tool list and replaces the
// cached descriptors.
func (c *Client) RefreshTools(ctx context.Context) ([]toolbox.Tool, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	tools, err := c.fetchTools(ctx)
	if err != nil {
		return nil, err
	}

	c.tools = tools

	return c.tools, nil
}

// Use appends middlewares around every subsequent invocation, outermost
// first. GetAlerts and GetForecast pass through the same chain.
func (c *Client) Use(middlewares ...Middleware) {
	c.middlewares = append(c.middlewares, middlewares...)
}

// Invoke calls a named tool on the server with the given arguments and
// returns the text of the first content block of the response. It fails with
// ErrNotConnected before connect or after close, without touching the
// network; remote failures, error results, and contentless responses are
// wrapped as *InvokeError.
func (c *Client) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	if err := c.ensureConnected(); err != nil {
		return "", err
	}

	return Chain(InvokerFunc(c.invoke), c.middlewares...).Invoke(ctx, name, args)
}

func (c *Client) invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", &InvokeError{Tool: name, Err: err}
	}

	text, ok := firstText(result)

	if result.IsError {
		if !ok {
			text = "tool reported an error"
		}
		return "", &InvokeError{Tool: name, Err: errors.New(text)}
	}

	if !ok {
		return "", &InvokeError{Tool: name, Err: errors.New("response contained no content")}
	}

	return text, nil
}

// GetAlerts returns active weather alerts for a two-letter US state code.
// Invocation failures are flattened into a descriptive string result rather
// than an error: "no alerts" and "call failed" are both normal, displayable
// outcomes. Only ErrNotConnected is surfaced as an error.
func (c *Client) GetAlerts(ctx context.Context, state string) (string, error) {
	text, err := c.Invoke(ctx, "get_alerts", map[string]any{"state": state})
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return "", err
		}
		return fmt.Sprintf("could not fetch alerts for %s: %v", state, cause(err)), nil
	}

	return text, nil
}

// GetForecast returns the weather forecast for a latitude/longitude pair,
// with the same error-as-data contract as GetAlerts.
func (c *Client) GetForecast(ctx context.Context, latitude, longitude float64) (string, error) {
	text, err := c.Invoke(ctx, "get_forecast", map[string]any{
		"latitude":  latitude,
		"longitude": longitude,
	})
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return "", err
		}
		return fmt.Sprintf("could not fetch forecast for %.4f,%.4f: %v", latitude, longitude, cause(err)), nil
	}

	return text, nil
}

// Close releases the protocol session, which in turn tears down the
// transport and the spawned subprocess. It is idempotent and never returns
// an error: teardown failures are logged and swallowed so that a failed
// release cannot mask the caller's intent to stop.
func (c *Client) Close() error {
	if c.session == nil || c.closed {
		return nil
	}

	c.closed = true

	if err := c.session.Close(); err != nil {
		c.log.Warn("session close failed", "error", err)
	}

	c.session = nil
	c.tools = nil

	return nil
}

func (c *Client) ensureConnected() error {
	if c.session == nil || c.closed {
		return ErrNotConnected
	}

	return nil
}

// fetchTools queries the server's tool list and converts each entry to a
// toolbox.Tool whose handler calls back through Invoke.
func (c *Client) fetchTools(ctx context.Context) ([]toolbox.Tool, error) {
	result, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	tools := make([]toolbox.Tool, 0, len(result.Tools))
	for _, sdkTool := range result.Tools {
		t, err := fromSDKTool(sdkTool, c)
		if err != nil {
			return nil, fmt.Errorf("convert tool %q: %w", sdkTool.Name, err)
		}
		tools = append(tools, t)
	}

	return tools, nil
}

// fromSDKTool converts an SDK *mcp.Tool to a toolbox.Tool. The handler
// closure calls Invoke on the client.
func fromSDKTool(sdkTool *mcp.Tool, c *Client) (toolbox.Tool, error) {
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
			var args map[string]any
			if len(input) > 0 {
				if err := json.Unmarshal(input, &args); err != nil {
					return "", fmt.Errorf("unmarshal arguments: %w", err)
				}
			}
			return c.Invoke(ctx, name, args)
		},
	}, nil
}

// cause strips one layer of wrapping so flattened messages read as the
// remote failure rather than the façade's prefix.
func cause(err error) error {
	if u := errors.Unwrap(err); u != nil {
		return u
	}

	return err
}

// firstText returns the text of the first TextContent block of a result. The
// first block's text is the canonical string result of an invocation.
func firstText(result *mcp.CallToolResult) (string, bool) {
	for _, item := range result.Content {
		if tc, ok := item.(*mcp.TextContent); ok {
			return tc.Text, true
		}
	}

	return "", false
}
