package mcpserve

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/germanamz/weatherctl/pkg/toolbox"
	"github.com/germanamz/weatherctl/pkg/weatherserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(_ context.Context, input json.RawMessage) (string, error) {
	return string(input), nil
}

func newTestTool(name string) toolbox.Tool {
	return toolbox.Tool{
		Name:        name,
		Description: "Test tool: " + name,
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     echoHandler,
	}
}

// setupTestClient creates a Server, connects an SDK client via in-memory
// transports, and returns the client session. The server runs in a
// background goroutine tied to t.Cleanup.
func setupTestClient(t *testing.T, tools ...toolbox.Tool) *mcp.ClientSession {
	t.Helper()

	s := New("weather", "0.1.0")
	s.Register(tools...)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- s.run(ctx, serverTransport)
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

func TestNew(t *testing.T) {
	s := New("weather", "0.1.0")
	assert.NotNil(t, s.server)
	assert.NotNil(t, s.tools)
}

func TestRegisterPopulatesRegistry(t *testing.T) {
	s := New("weather", "0.1.0")
	s.Register(newTestTool("get_alerts"), newTestTool("get_forecast"))

	tools := s.tools.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "get_alerts", tools[0].Name)
	assert.Equal(t, "get_forecast", tools[1].Name)

	_, ok := s.tools.Get("get_alerts")
	assert.True(t, ok)
}

func TestCallToolDispatchesThroughRegistry(t *testing.T) {
	// The advertised handler closes over the tool name only; the handler
	// executed for a call must come from the registry.
	called := false
	session := setupTestClient(t, toolbox.Tool{
		Name:        "record_call",
		Description: "Records that the registry handler ran",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
			called = true
			return "from registry", nil
		},
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "record_call",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.True(t, called)

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "from registry", tc.Text)
}

func TestListTools(t *testing.T) {
	session := setupTestClient(t,
		newTestTool("get_alerts"),
		newTestTool("get_forecast"),
	)

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)

	names := make(map[string]bool, len(result.Tools))
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["get_alerts"])
	assert.True(t, names["get_forecast"])
}

func TestCallTool(t *testing.T) {
	session := setupTestClient(t, newTestTool("echo"))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"state": "CA"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"state":"CA"}`, tc.Text)
}

func TestCallToolHandlerError(t *testing.T) {
	session := setupTestClient(t, toolbox.Tool{
		Name:        "fail",
		Description: "Always fails",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
			return "", errors.New("upstream unavailable")
		},
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "fail",
	})
	require.NoError(t, err, "handler errors become IsError results, not protocol faults")
	require.True(t, result.IsError)

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "upstream unavailable", tc.Text)
}

func TestCallToolNilArguments(t *testing.T) {
	session := setupTestClient(t, newTestTool("echo"))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "echo",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{}`, tc.Text)
}

func TestServesWeatherTools(t *testing.T) {
	session := setupTestClient(t, weatherserver.New().Tools()...)

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)

	names := make(map[string]string, len(result.Tools))
	for _, tool := range result.Tools {
		names[tool.Name] = tool.Description
	}
	assert.Contains(t, names["get_alerts"], "alerts")
	assert.Contains(t, names["get_forecast"], "forecast")
}
