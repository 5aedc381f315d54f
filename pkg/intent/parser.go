package intent

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// DefaultThreshold is the minimum confidence accepted for an affirmative answer
const DefaultThreshold = 0.95

// Reason explains how an Outcome was reached
type Reason string

const (
	ReasonAffirmed       Reason = "affirmed"
	ReasonBelowThreshold Reason = "below_threshold"
	ReasonNegative       Reason = "negative"
	ReasonUnrecognized   Reason = "unrecognized"
	ReasonGatewayFailure Reason = "gateway_failure"
)

// Outcome is the result of a classification
type Outcome struct {
	Wanted     bool    `json:"wanted"`
	Confidence float64 `json:"confidence"`
	Answer     string  `json:"answer"`
	Reason     Reason  `json:"reason"`
}

// ErrUnrecognizedAnswer is the cause of answers matching no expected shape
var ErrUnrecognizedAnswer = errors.New("unrecognized answer")

// ResponseParser turns a raw model answer into an Outcome.
// Implementations return an error for answers they cannot interpret.
type ResponseParser interface {
	Parse(answer string) (Outcome, error)
}

// ParserFunc adapts a function to ResponseParser
type ParserFunc func(answer string) (Outcome, error)

// Parse implements ResponseParser
func (f ParserFunc) Parse(answer string) (Outcome, error) {
	return f(answer)
}

// ConfidenceParser accepts answers starting with a yes or no token, where yes
// answers carry a decimal confidence in [0,1].
type ConfidenceParser struct {
	YesTokens []string
	NoTokens  []string
	Threshold float64
}

// DefaultParser returns the parser for "是"/"否" (or "yes"/"no") answers
func DefaultParser() ConfidenceParser {
	return ConfidenceParser{
		YesTokens: []string{"是", "yes"},
		NoTokens:  []string{"否", "no"},
		Threshold: DefaultThreshold,
	}
}

var decimalPattern = regexp.MustCompile(`\d+\.\d+`)

// Normalize trims the answer and removes all whitespace inside it
func Normalize(answer string) string {
	return strings.Join(strings.Fields(answer), "")
}

// Parse implements ResponseParser. The last decimal number in an affirmative
// answer is taken as the confidence.
func (p ConfidenceParser) Parse(answer string) (Outcome, error) {
	normalized := Normalize(answer)
	outcome := Outcome{Answer: normalized}
	lower := strings.ToLower(normalized)

	if hasAnyPrefix(lower, p.YesTokens) {
		numbers := decimalPattern.FindAllString(normalized, -1)
		if len(numbers) == 0 {
			return unrecognized(outcome, "affirmative answer without confidence")
		}
		confidence, err := strconv.ParseFloat(numbers[len(numbers)-1], 64)
		if err != nil || confidence < 0 || confidence > 1 {
			return unrecognized(outcome, "confidence out of range")
		}

		outcome.Confidence = confidence
		if confidence >= p.Threshold {
			outcome.Wanted = true
			outcome.Reason = ReasonAffirmed
		} else {
			outcome.Reason = ReasonBelowThreshold
		}
		return outcome, nil
	}

	if hasAnyPrefix(lower, p.NoTokens) {
		outcome.Reason = ReasonNegative
		return outcome, nil
	}

	return unrecognized(outcome, "answer is neither affirmative nor negative")
}

func unrecognized(outcome Outcome, detail string) (Outcome, error) {
	outcome.Wanted = false
	outcome.Confidence = 0
	outcome.Reason = ReasonUnrecognized
	return outcome, &llm.Error{
		Kind:    llm.KindHeuristicParse,
		Code:    "unrecognized_answer",
		Message: detail,
		Cause:   ErrUnrecognizedAnswer,
	}
}

func hasAnyPrefix(s string, tokens []string) bool {
	for _, token := range tokens {
		if token != "" && strings.HasPrefix(s, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

var _ ResponseParser = ConfidenceParser{}
