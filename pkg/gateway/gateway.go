package gateway

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// DefaultTemperature is used when a request leaves Temperature at zero
const DefaultTemperature float32 = 0.1

// Request is one completion request: a single user prompt, never streamed
type Request struct {
	Prompt      string
	Model       string
	Temperature float32
	Files       []llm.FileRef
	Extra       map[string]any
}

// Result holds either the answer text or the reason no answer is available
type Result struct {
	Text string
	Err  error
}

// OK reports whether the result holds an answer
func (r Result) OK() bool {
	return r.Err == nil
}

// Success returns a successful result
func Success(text string) Result {
	return Result{Text: text}
}

// Failure returns a failed result. The error is classified into the llm taxonomy.
func Failure(err error) Result {
	if err == nil {
		err = llm.NewError(llm.KindTransport, "unknown_error", "completion failed", nil)
	}
	return Result{Err: llm.ClassifyError(err)}
}

// Completer is the contract the heuristics depend on
type Completer interface {
	Complete(ctx context.Context, req Request) Result
}

// Gateway implements Completer on top of any llm.ChatCompleter
type Gateway struct {
	client       llm.ChatCompleter
	defaultModel string
	logger       *zap.Logger
}

// Option configures a Gateway
type Option func(*Gateway)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDefaultModel sets the model used when a request names none
func WithDefaultModel(model string) Option {
	return func(g *Gateway) {
		g.defaultModel = model
	}
}

// New creates a gateway. Outbound payloads and failures are logged through the
// llm logging middleware.
func New(client llm.ChatCompleter, opts ...Option) *Gateway {
	g := &Gateway{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.Named("gateway")
	g.client = llm.WithMiddleware(client, llm.NewLoggingMiddleware(g.logger))
	return g
}

// Complete sends exactly one request with streaming disabled.
// Transport, upstream and parse failures all come back as a failed Result.
func (g *Gateway) Complete(ctx context.Context, req Request) Result {
	if strings.TrimSpace(req.Prompt) == "" {
		return Failure(&llm.Error{
			Kind:    llm.KindValidation,
			Code:    "empty_prompt",
			Message: "prompt must not be empty",
		})
	}

	model := req.Model
	if model == "" {
		model = g.defaultModel
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	resp, err := g.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:       model,
		Messages:    []llm.Message{llm.NewTextMessage(llm.RoleUser, req.Prompt)},
		Temperature: llm.Float32(temperature),
		Stream:      false,
		Files:       req.Files,
		Extra:       req.Extra,
	})
	if err != nil {
		return Failure(err)
	}

	text, ok := resp.FirstText()
	if !ok {
		g.logger.Warn("completion has no answer",
			zap.String("model", model),
			zap.Int("choices", len(resp.Choices)))
		return Failure(llm.NewError(llm.KindParse, "empty_answer", "response lacks answer content", nil))
	}

	return Success(text)
}

// Call is an in-flight completion that can be cancelled independently
type Call struct {
	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// Start runs Complete in the background and returns a handle to it
func (g *Gateway) Start(ctx context.Context, req Request) *Call {
	ctx, cancel := context.WithCancel(ctx)
	call := &Call{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(call.done)
		defer cancel()
		call.result = g.Complete(ctx, req)
	}()

	return call
}

// Cancel aborts the call. It has no effect once the call has finished.
func (c *Call) Cancel() {
	c.cancel()
}

// Done is closed when the result is available
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call finishes and returns its result
func (c *Call) Wait() Result {
	<-c.done
	return c.result
}

var _ Completer = (*Gateway)(nil)
