package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCodeFence(t *testing.T) {
	assert.True(t, HasCodeFence("你好\n```py\nprint(1)\n```"))
	assert.True(t, HasCodeFence("```"))
	assert.False(t, HasCodeFence("你好 `x` ``y``"))
	assert.False(t, HasCodeFence(""))
}

func TestBuildPrompt_Plain(t *testing.T) {
	prompt, err := BuildPrompt("你好")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "请将以下文本翻译成英语。"))
	assert.NotContains(t, prompt, "代码内容")
	assert.True(t, strings.HasSuffix(prompt, "###\n你好\n###"))
}

func TestBuildPrompt_CodeIsKeptVerbatim(t *testing.T) {
	text := "解释这段代码：\n```go\nif a < b && c > \"d\" {\n}\n```"

	prompt, err := BuildPrompt(text)
	require.NoError(t, err)

	assert.Contains(t, prompt, "不要翻译```...```中的代码内容")
	assert.Contains(t, prompt, "###\n"+text+"\n###")
}
