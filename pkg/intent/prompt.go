package intent

import (
	"strconv"

	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

// Question is a binary question with worked examples anchoring the model's calibration
type Question struct {
	Instruction string
	Positive    []string
	Negative    []string
}

// ImageGeneration asks whether the user wants an image to be drawn
var ImageGeneration = Question{
	Instruction: "判断用户的输入是否想要绘制图像。",
	Positive: []string{
		"画一条龙",
		"画只狗",
		"画条鱼",
		"生成一只穿衣服的老虎",
		"漂亮的自行车",
	},
	Negative: []string{
		"商场",
		"老虎",
		"为什么要上班",
		"早上好",
		"画画",
		"画饼",
		"画龙点睛",
		"画蛇添足（这类固定词汇或成语也要回答“否”）",
	},
}

var questionTemplate = llm.NewPromptTemplate(`{{.Instruction}}请回答“是”或“否”，并给出你对回答“是”的信心指数，用0到1之间的数字表示。只有在信心指数达到{{.Threshold}}或以上时，才可回答“是”。请仔细确认，回答要保守。

需要回答“是”的示例：
{{range .Positive}}- {{.}}
{{end}}
需要回答“否”的示例：
{{range .Negative}}- {{.}}
{{end}}
### 用户的输入: {{.Input}}`)

// Prompt renders the constrained-answer prompt for input
func (q Question) Prompt(input string, threshold float64) (string, error) {
	return questionTemplate.Render(map[string]any{
		"Instruction": q.Instruction,
		"Threshold":   strconv.FormatFloat(threshold, 'f', -1, 64),
		"Positive":    q.Positive,
		"Negative":    q.Negative,
		"Input":       input,
	})
}
