package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingMiddleware records the order in which hooks run
type recordingMiddleware struct {
	name   string
	events *[]string
	reqErr error
}

func (m *recordingMiddleware) Name() string { return m.name }

func (m *recordingMiddleware) ProcessRequest(ctx context.Context, req *ChatRequest) (*ChatRequest, error) {
	*m.events = append(*m.events, m.name+":request")
	if m.reqErr != nil {
		return nil, m.reqErr
	}
	return req, nil
}

func (m *recordingMiddleware) ProcessResponse(ctx context.Context, req *ChatRequest, resp *ChatResponse, err error) (*ChatResponse, error) {
	*m.events = append(*m.events, m.name+":response")
	return resp, nil
}

func TestMiddlewareChain_Order(t *testing.T) {
	var events []string
	client := WithMiddleware(&MockChatCompleter{},
		&recordingMiddleware{name: "first", events: &events},
		&recordingMiddleware{name: "second", events: &events},
	)

	_, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first:request", "second:request", "second:response", "first:response"}, events)
}

func TestMiddlewareChain_RequestErrorStopsCall(t *testing.T) {
	var events []string
	mock := &MockChatCompleter{}
	client := WithMiddleware(mock, &recordingMiddleware{name: "guard", events: &events, reqErr: errors.New("denied")})

	_, err := client.ChatCompletion(context.Background(), ChatRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "middleware guard failed")
	assert.Equal(t, 0, mock.callCount)
}

func TestWithMiddleware_AppendsToExistingChain(t *testing.T) {
	var events []string
	client := WithMiddleware(&MockChatCompleter{}, &recordingMiddleware{name: "a", events: &events})
	client = WithMiddleware(client, &recordingMiddleware{name: "b", events: &events})

	enhanced, ok := client.(*EnhancedClient)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, enhanced.GetMiddlewareNames())

	assert.True(t, enhanced.RemoveMiddleware("a"))
	assert.False(t, enhanced.RemoveMiddleware("a"))
	assert.Equal(t, []string{"b"}, enhanced.GetMiddlewareNames())
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	t.Run("logs payload", func(t *testing.T) {
		client := WithMiddleware(&MockChatCompleter{}, NewLoggingMiddleware(logger))

		_, err := client.ChatCompletion(context.Background(), ChatRequest{
			Model:       "gpt-test",
			Messages:    []Message{NewTextMessage(RoleUser, "hello there")},
			Temperature: Float32(0.1),
		})
		require.NoError(t, err)

		entries := logs.FilterMessage("chat completion request").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "gpt-test", fields["model"])
		assert.Equal(t, "hello there", fields["prompt"])
		assert.Equal(t, false, fields["stream"])
	})

	t.Run("logs failures", func(t *testing.T) {
		failing := &MockChatCompleter{errors: []error{&Error{Kind: KindUpstream, Message: "nope", StatusCode: 500}}}
		client := WithMiddleware(failing, NewLoggingMiddleware(logger))

		_, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "gpt-test"})
		require.Error(t, err)

		entries := logs.FilterMessage("chat completion failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "upstream", entries[0].ContextMap()["kind"])
	})
}
