package translate

import (
	"strings"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// CodeFence delimits fenced code blocks
const CodeFence = "```"

var (
	codeTemplate = llm.NewPromptTemplate("请将以下###标记之间的文本翻译成英语。注意，不要翻译```...```中的代码内容，而是将其原样保留在翻译结果中。只翻译代码外的说明文字。翻译时保持专业、准确，并使用技术写作的语气。请确保说明文字的翻译是纯英文，不包含任何Unicode字符或翻译注释。将原始代码和翻译后的说明文字组合在一起，形成完整的翻译结果。以下是需要翻译的文本：\n\n###\n{{.Text}}\n###")

	plainTemplate = llm.NewPromptTemplate("请将以下文本翻译成英语。翻译时保持专业、准确，并使用技术写作的语气。请确保翻译是纯英文，不包含任何Unicode字符或翻译注释。以下是需要翻译的文本：\n\n###\n{{.Text}}\n###")
)

// HasCodeFence reports whether text contains a fenced code marker
func HasCodeFence(text string) bool {
	return strings.Contains(text, CodeFence)
}

// BuildPrompt wraps text in the translation instruction.
// Text containing a code fence gets the code-preserving template.
func BuildPrompt(text string) (string, error) {
	tmpl := plainTemplate
	if HasCodeFence(text) {
		tmpl = codeTemplate
	}
	return tmpl.Render(map[string]any{"Text": text})
}
