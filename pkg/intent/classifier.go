package intent

import (
	"context"

	"go.uber.org/zap"

	"github.com/inercia/go-llm-heuristics/pkg/gateway"
)

// Temperature is the sampling temperature used for classification requests
const Temperature float32 = 0.1

// Classifier asks a model a binary question and gates the answer on its
// self-reported confidence
type Classifier struct {
	completer gateway.Completer
	question  Question
	parser    ResponseParser
	threshold float64
	model     string
	logger    *zap.Logger
}

// Option configures a Classifier
type Option func(*Classifier)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithQuestion replaces the default image-generation question
func WithQuestion(q Question) Option {
	return func(c *Classifier) {
		c.question = q
	}
}

// WithParser replaces the default answer parser
func WithParser(p ResponseParser) Option {
	return func(c *Classifier) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithThreshold sets the confidence threshold quoted in the prompt.
// When the default parser is in use it is also the acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(c *Classifier) {
		c.threshold = threshold
		if p, ok := c.parser.(ConfidenceParser); ok {
			p.Threshold = threshold
			c.parser = p
		}
	}
}

// WithDefaultModel sets the model used when Classify is called without one
func WithDefaultModel(model string) Option {
	return func(c *Classifier) {
		c.model = model
	}
}

// New creates a classifier over the given completer
func New(completer gateway.Completer, opts ...Option) *Classifier {
	c := &Classifier{
		completer: completer,
		question:  ImageGeneration,
		parser:    DefaultParser(),
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("intent")
	return c
}

// Classify asks the question about input and returns the gated outcome.
// Every failure collapses to an Outcome with Wanted false.
func (c *Classifier) Classify(ctx context.Context, input, model string) Outcome {
	if model == "" {
		model = c.model
	}

	prompt, err := c.question.Prompt(input, c.threshold)
	if err != nil {
		c.logger.Error("failed to render classifier prompt", zap.Error(err))
		return Outcome{Reason: ReasonGatewayFailure}
	}

	result := c.completer.Complete(ctx, gateway.Request{
		Prompt:      prompt,
		Model:       model,
		Temperature: Temperature,
	})
	if !result.OK() {
		c.logger.Warn("classifier got no answer",
			zap.String("model", model),
			zap.Error(result.Err))
		return Outcome{Reason: ReasonGatewayFailure}
	}

	outcome, err := c.parser.Parse(result.Text)
	if err != nil {
		c.logger.Warn("unrecognized classifier answer",
			zap.String("answer", result.Text),
			zap.Error(err))
		return Outcome{Answer: outcome.Answer, Reason: ReasonUnrecognized}
	}

	c.logger.Debug("classified",
		zap.String("model", model),
		zap.String("answer", outcome.Answer),
		zap.Float64("confidence", outcome.Confidence),
		zap.Bool("wanted", outcome.Wanted),
		zap.String("reason", string(outcome.Reason)))
	return outcome
}

// Wants reports whether the model confidently answered yes for input
func (c *Classifier) Wants(ctx context.Context, input, model string) bool {
	return c.Classify(ctx, input, model).Wanted
}

// WantsImage reports whether input asks for an image to be generated
func WantsImage(ctx context.Context, completer gateway.Completer, input, model string, opts ...Option) bool {
	return New(completer, opts...).Wants(ctx, input, model)
}
