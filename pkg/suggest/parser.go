package suggest

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// Count is the number of questions returned
const Count = 3

// ErrUnparsableQuestions is the cause of answers holding no usable question list
var ErrUnparsableQuestions = errors.New("unparsable questions")

var arrayPattern = regexp.MustCompile(`(?s)\[.*?\]`)

// ParseQuestions extracts the suggested questions from a model answer.
//
// The first bracketed span must be a JSON array of at least three strings;
// the first three are returned. Answers without any bracket are read as a JSON
// object whose "question*" keys hold the questions.
func ParseQuestions(text string) ([]string, error) {
	text = strings.TrimSpace(text)

	if span := arrayPattern.FindString(text); span != "" {
		return parseArray(span)
	}
	return parseObject(text)
}

func parseArray(span string) ([]string, error) {
	if !gjson.Valid(span) {
		return nil, parseError("bracketed span is not valid JSON")
	}
	items := gjson.Parse(span).Array()
	if len(items) < Count {
		return nil, parseError("fewer than three questions")
	}

	questions := make([]string, 0, Count)
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, parseError("question is not a string")
		}
		if len(questions) < Count {
			questions = append(questions, item.String())
		}
	}
	return questions, nil
}

func parseObject(text string) ([]string, error) {
	if !gjson.Valid(text) {
		return nil, parseError("answer is not valid JSON")
	}
	obj := gjson.Parse(text)
	if !obj.IsObject() {
		return nil, parseError("answer is neither an array nor an object")
	}

	var questions []string
	obj.ForEach(func(key, value gjson.Result) bool {
		if strings.HasPrefix(key.String(), "question") && value.Type == gjson.String {
			questions = append(questions, value.String())
		}
		return len(questions) < Count
	})
	if len(questions) == 0 {
		return nil, parseError("object holds no questions")
	}
	return questions, nil
}

func parseError(detail string) error {
	return &llm.Error{
		Kind:    llm.KindHeuristicParse,
		Code:    "unparsable_questions",
		Message: detail,
		Cause:   ErrUnparsableQuestions,
	}
}
