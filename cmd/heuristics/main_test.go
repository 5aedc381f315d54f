package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type fakeBackend struct {
	server *httptest.Server
	calls  atomic.Int32
	models atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/models") {
			b.models.Add(1)
			_, _ = io.WriteString(w, `{"object":"list","data":[{"id":"zeta","object":"model"},{"id":"alpha","object":"model"}]}`)
			return
		}

		b.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		prompt := gjson.GetBytes(body, "messages.0.content").String()

		var answer string
		switch {
		case strings.Contains(prompt, "### 用户的输入:"):
			answer = "是，信心指数0.98"
		case strings.Contains(prompt, "翻译成英语"):
			answer = "Draw a dragon"
		case strings.Contains(prompt, "三个问题"):
			answer = `["a?","b?","c?"]`
		default:
			answer = "?"
		}
		resp, _ := sjson.Set(`{"choices":[{"index":0,"message":{"role":"assistant"}}]}`, "choices.0.message.content", answer)
		resp, _ = sjson.Set(resp, "model", gjson.GetBytes(body, "model").String())
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(b.server.Close)

	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_MODEL", "general")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", b.server.URL)
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_MAX_RETRIES", "3")
	return b
}

func runCLI(t *testing.T, args []string, stdin string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	b := newFakeBackend(t)

	out, err := runCLI(t, []string{"classify", "画一条龙"}, "")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestClassifyCommand_JSONAndThreshold(t *testing.T) {
	newFakeBackend(t)

	out, err := runCLI(t, []string{"classify", "--json", "--threshold", "0.99", "画一条龙"}, "")
	require.NoError(t, err)
	assert.False(t, gjson.Get(out, "wanted").Bool())
	assert.Equal(t, "below_threshold", gjson.Get(out, "reason").String())
	assert.InDelta(t, 0.98, gjson.Get(out, "confidence").Float(), 1e-9)
}

func TestTranslateCommand(t *testing.T) {
	b := newFakeBackend(t)

	out, err := runCLI(t, []string{"translate", "画一条龙"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Draw a dragon\n", out)
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestTranslateCommand_FastPathFromStdin(t *testing.T) {
	b := newFakeBackend(t)

	out, err := runCLI(t, []string{"translate"}, "already english\n")
	require.NoError(t, err)
	assert.Equal(t, "already english\n", out)
	assert.Equal(t, int32(0), b.calls.Load())
}

func TestSuggestCommand(t *testing.T) {
	newFakeBackend(t)

	out, err := runCLI(t, []string{"suggest", "长期训练可以改善注意力。"}, "")
	require.NoError(t, err)
	assert.Equal(t, "a?\nb?\nc?\n", out)
}

func TestModelsCommand(t *testing.T) {
	b := newFakeBackend(t)

	out, err := runCLI(t, []string{"models"}, "")
	require.NoError(t, err)
	assert.Equal(t, "alpha\nzeta\n", out)
	assert.Equal(t, int32(1), b.models.Load())
}

func TestModelFlagOverridesConfig(t *testing.T) {
	var model string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		model = gjson.GetBytes(body, "model").String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"否"}}]}`)
	}))
	defer server.Close()
	newFakeBackend(t)
	t.Setenv("OPENAI_BASE_URL", server.URL)

	out, err := runCLI(t, []string{"--model", "vision", "classify", "早上好"}, "")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
	assert.Equal(t, "vision", model)
}

func TestMissingInput(t *testing.T) {
	newFakeBackend(t)

	_, err := runCLI(t, []string{"classify"}, "  \n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input")
}

func TestUnsupportedProvider(t *testing.T) {
	newFakeBackend(t)
	t.Setenv("LLM_PROVIDER", "carrier-pigeon")

	_, err := runCLI(t, []string{"classify", "画一条龙"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}
