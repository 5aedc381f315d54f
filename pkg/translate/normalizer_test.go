package translate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inercia/go-llm-heuristics/pkg/gateway"
	"github.com/inercia/go-llm-heuristics/pkg/llm"
	"github.com/inercia/go-llm-heuristics/pkg/providers/mock"
	"github.com/inercia/go-llm-heuristics/pkg/providers/openai"
)

var fastRetry = llm.RetryConfig{
	MaxRetries:    3,
	BaseDelay:     time.Millisecond,
	MaxDelay:      5 * time.Millisecond,
	BackoffFactor: 2.0,
}

func newMock(t *testing.T) *mock.Client {
	t.Helper()
	client, err := mock.NewClient("test-model", "mock")
	require.NoError(t, err)
	return client
}

func newNormalizer(client *mock.Client, opts ...Option) *Normalizer {
	opts = append([]Option{WithRetryConfig(fastRetry)}, opts...)
	return New(gateway.New(client), opts...)
}

func TestNormalize_FastPath(t *testing.T) {
	inputs := []string{"", "hello world", "12345 !?", "café ünïcödé", "こんにちは", "```go\nx := 1\n```"}

	for _, text := range inputs {
		client := newMock(t)
		assert.Equal(t, text, newNormalizer(client).Normalize(context.Background(), text, ""))
		assert.Equal(t, 0, client.CallCount(), "no call for %q", text)
	}
}

func TestNormalize_ReturnsTranslation(t *testing.T) {
	client := newMock(t).WithSimpleResponse("Draw a dragon")
	n := newNormalizer(client, WithDefaultModel("general"))

	assert.Equal(t, "Draw a dragon", n.Normalize(context.Background(), "画一条龙", ""))
	assert.Equal(t, 1, client.CallCount())

	req := client.GetLastCall()
	assert.Equal(t, "general", req.Model)
	assert.Contains(t, req.Messages[0].Content, "###\n画一条龙\n###")
	require.NotNil(t, req.Temperature)
	assert.Equal(t, Temperature, *req.Temperature)
}

func TestNormalize_AnswerIsNotVerified(t *testing.T) {
	client := newMock(t).WithSimpleResponse("还是中文")

	assert.Equal(t, "还是中文", newNormalizer(client).Normalize(context.Background(), "你好", ""))
	assert.Equal(t, 1, client.CallCount())
}

func TestNormalize_CodeFence(t *testing.T) {
	text := "你好\n```py\nprint(1)\n```"
	answer := "Hello\n```py\nprint(1)\n```"
	client := newMock(t).WithSimpleResponse(answer)

	assert.Equal(t, answer, newNormalizer(client).Normalize(context.Background(), text, ""))
	assert.Contains(t, client.GetLastCall().Messages[0].Content, "不要翻译```...```中的代码内容")
}

func TestNormalize_FailureReturnsOriginal(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mock.Client)
		calls int
	}{
		{
			name:  "bad request is not retried",
			setup: func(c *mock.Client) { c.WithError("invalid_request_error", "bad", 400) },
			calls: 1,
		},
		{
			name:  "empty answer is not retried",
			setup: func(c *mock.Client) { c.WithSimpleResponse("") },
			calls: 1,
		},
		{
			name: "persistent outage exhausts the budget",
			setup: func(c *mock.Client) {
				c.WithAlwaysError(llm.NewError(llm.KindTransport, "network_error", "connection refused", nil))
			},
			calls: DefaultMaxAttempts,
		},
		{
			name:  "rate limited",
			setup: func(c *mock.Client) { c.WithAlwaysError(&llm.Error{Kind: llm.KindUpstream, Code: "rate_limit_exceeded", StatusCode: 429}) },
			calls: DefaultMaxAttempts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMock(t)
			tt.setup(client)

			assert.Equal(t, "画一条龙", newNormalizer(client).Normalize(context.Background(), "画一条龙", ""))
			assert.Equal(t, tt.calls, client.CallCount())
		})
	}
}

func TestNormalize_RetriesServerErrors(t *testing.T) {
	client := newMock(t).
		WithError("server_error", "unavailable", 503).
		WithSimpleResponse("Hello")

	assert.Equal(t, "Hello", newNormalizer(client).Normalize(context.Background(), "你好", ""))
	assert.Equal(t, 2, client.CallCount())
}

func TestNormalize_MaxAttempts(t *testing.T) {
	client := newMock(t).WithAlwaysError(io.ErrUnexpectedEOF)

	assert.Equal(t, "你好", newNormalizer(client, WithMaxAttempts(5)).Normalize(context.Background(), "你好", ""))
	assert.Equal(t, 5, client.CallCount())

	client.Reset().WithAlwaysError(io.ErrUnexpectedEOF)
	newNormalizer(client, WithMaxAttempts(0)).Normalize(context.Background(), "你好", "")
	assert.Equal(t, 1, client.CallCount())
}

func TestNormalize_CanceledContext(t *testing.T) {
	client := newMock(t).WithSimpleResponse("Hello")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "你好", newNormalizer(client).Normalize(ctx, "你好", ""))
	assert.LessOrEqual(t, client.CallCount(), 1)
}

func TestNormalize_CancelDuringBackoff(t *testing.T) {
	client := newMock(t).WithAlwaysError(io.ErrUnexpectedEOF)
	slow := llm.RetryConfig{BaseDelay: time.Hour, MaxDelay: time.Hour, BackoffFactor: 2}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	text := newNormalizer(client, WithRetryConfig(slow)).Normalize(ctx, "你好", "")

	assert.Equal(t, "你好", text)
	assert.Equal(t, 1, client.CallCount())
	assert.Less(t, time.Since(start), time.Minute)
}

func TestNormalize_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := newMock(t).WithError("invalid_request_error", "bad", 400)

	newNormalizer(client, WithLogger(zap.New(core))).Normalize(context.Background(), "你好", "")

	entries := logs.FilterMessage("translation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "upstream", entries[0].ContextMap()["kind"])
	assert.Equal(t, "translate", entries[0].LoggerName)
}

func TestNormalize_OverOpenAIBackend(t *testing.T) {
	text := "你好\n```py\nprint(1)\n```"
	answer := "Hello\n```py\nprint(1)\n```"

	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		resp, _ := sjson.Set(`{"choices":[{"index":0,"message":{"role":"assistant"}}]}`, "choices.0.message.content", answer)
		_, _ = io.WriteString(w, resp)
	}))
	defer server.Close()

	client, err := openai.NewClient(llm.ClientConfig{Model: "general", BaseURL: server.URL})
	require.NoError(t, err)

	got := Translate(context.Background(), gateway.New(client), text, "")

	assert.Equal(t, answer, got)
	prompt := gjson.GetBytes(body, "messages.0.content").String()
	assert.Contains(t, prompt, "```py\nprint(1)\n```")
	assert.Contains(t, prompt, "不要翻译```...```中的代码内容")
	assert.False(t, gjson.GetBytes(body, "stream").Bool())
}
