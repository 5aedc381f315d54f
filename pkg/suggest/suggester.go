package suggest

import (
	"context"

	"go.uber.org/zap"

	"github.com/inercia/go-llm-heuristics/pkg/gateway"
	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// Temperature is the sampling temperature used for suggestion requests
const Temperature float32 = 0.7

// Instruction tells the model how to shape its answer
const Instruction = "请预测用户可能会问的三个问题。这些问题应是用户可能提出的，而不是向用户提出的问题。问题必须准确，以免影响用户体验。" +
	"每个问题的长度不能超过20个字符。\n" +
	"不要重复用户已问过的问题。\n" +
	"确保输出语言与助手最新回复一致（如果回复是中文，则输出也必须是中文）。\n" +
	"输出格式必须是三个问题的JSON数组（最外层有中括号），不需要格式标记，遵循以下格式：\n" +
	"[\"question1\",\"question2\",\"question3\"]\n" +
	"不要下面这样的格式：\n" +
	"{\"question1\":\"训练方案具体是怎样的？\",\"question2\":\"改善效果如何评估？\",\"question3\":\"长时间训练会影响孩子吗？\"}\n"

var suggestTemplate = llm.NewPromptTemplate(`{{.Instruction}}输出需符合以下JSON Schema：
{{.JSONSchema}}

### 助手最新回复:
{{.Answer}}`)

// BuildPrompt renders the suggestion prompt for an assistant answer
func BuildPrompt(answer string) (string, error) {
	return suggestTemplate.RenderWithJSONSchemaFor(map[string]any{
		"Instruction": Instruction,
		"Answer":      answer,
	}, []string{})
}

// Suggester asks a model for follow-up questions
type Suggester struct {
	completer gateway.Completer
	model     string
	logger    *zap.Logger
}

// Option configures a Suggester
type Option func(*Suggester)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Suggester) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultModel sets the model used when FollowUps is called without one
func WithDefaultModel(model string) Option {
	return func(s *Suggester) {
		s.model = model
	}
}

// New creates a suggester over the given completer
func New(completer gateway.Completer, opts ...Option) *Suggester {
	s := &Suggester{completer: completer, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("suggest")
	return s
}

// FollowUps returns three questions the user may ask after answer
func (s *Suggester) FollowUps(ctx context.Context, answer, model string) ([]string, error) {
	if model == "" {
		model = s.model
	}

	prompt, err := BuildPrompt(answer)
	if err != nil {
		return nil, err
	}

	result := s.completer.Complete(ctx, gateway.Request{
		Prompt:      prompt,
		Model:       model,
		Temperature: Temperature,
	})
	if !result.OK() {
		return nil, result.Err
	}

	questions, err := ParseQuestions(result.Text)
	if err != nil {
		s.logger.Warn("could not parse suggested questions",
			zap.String("answer", result.Text),
			zap.Error(err))
		return nil, err
	}
	return questions, nil
}
