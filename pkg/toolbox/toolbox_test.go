package toolbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(_ context.Context, input json.RawMessage) (string, error) {
	return string(input), nil
}

func errorHandler(_ context.Context, _ json.RawMessage) (string, error) {
	return "", errors.New("tool failed")
}

func newEchoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "Echoes input",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     echoHandler,
	}
}

func TestNew(t *testing.T) {
	tb := New()
	assert.NotNil(t, tb)
	assert.Empty(t, tb.Tools())
}

func TestRegisterAndGet(t *testing.T) {
	tb := New()
	tb.Register(newEchoTool("echo"))

	got, ok := tb.Get("echo")
	assert.True(t, ok)
	assert.Equal(t, "echo", got.Name)
}

func TestGetNotFound(t *testing.T) {
	tb := New()

	_, ok := tb.Get("missing")
	assert.False(t, ok)
}

func TestRegisterReplace(t *testing.T) {
	tb := New()
	tb.Register(Tool{
		Name:        "tool",
		Description: "original",
		Handler:     echoHandler,
	})
	tb.Register(Tool{
		Name:        "tool",
		Description: "replaced",
		Handler:     echoHandler,
	})

	got, ok := tb.Get("tool")
	require.True(t, ok)
	assert.Equal(t, "replaced", got.Description)
	assert.Len(t, tb.Tools(), 1)
}

func TestToolsSorted(t *testing.T) {
	tb := New()
	tb.Register(
		newEchoTool("get_forecast"),
		newEchoTool("get_alerts"),
	)

	tools := tb.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "get_alerts", tools[0].Name)
	assert.Equal(t, "get_forecast", tools[1].Name)
}

func TestCallSuccess(t *testing.T) {
	tb := New()
	tb.Register(newEchoTool("echo"))

	result := tb.Call(context.Background(), "echo", json.RawMessage(`{"msg":"hi"}`))
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"msg":"hi"}`, result.Content)
}

func TestCallNotFound(t *testing.T) {
	tb := New()

	result := tb.Call(context.Background(), "missing", nil)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "tool not found")
}

func TestCallHandlerError(t *testing.T) {
	tb := New()
	tb.Register(Tool{
		Name:        "fail",
		Description: "Always fails",
		Handler:     errorHandler,
	})

	result := tb.Call(context.Background(), "fail", json.RawMessage(`{}`))
	assert.True(t, result.IsError)
	assert.Equal(t, "tool failed", result.Content)
}
