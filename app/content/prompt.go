package content

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Prompt is the message pair sent to the language model.
type Prompt struct {
	System string
	User   string
}

const (
	minWords = 800
	maxWords = 1200
)

// LanguageName returns the name of the BCP 47 tag in its own language, or the tag itself when unknown.
func LanguageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.Self.Name(t); name != "" {
		return name
	}
	return tag
}

// BuildPrompt asks for an article on topic written in lang. reference is optional source text.
func BuildPrompt(topic Topic, lang string, reference string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("请写一篇关于\"%s\"的博客文章，要求：\n", topic.Title))
	sb.WriteString(fmt.Sprintf("1. 文章长度约%d-%d字\n", minWords, maxWords))
	sb.WriteString("2. 结构清晰，包含引言、正文和结论\n")
	sb.WriteString(fmt.Sprintf("3. 使用%s撰写\n", lang))
	sb.WriteString(fmt.Sprintf("4. 自然地融入以下关键词：%s\n", strings.Join(topic.Keywords, "、")))
	sb.WriteString("5. 使用 Markdown 格式，以一级标题作为文章标题\n")
	if reference != "" {
		sb.WriteString("6. 可参考以下资料，但不要照搬原文：\n\n")
		sb.WriteString(reference)
		sb.WriteString("\n")
	}

	return Prompt{
		System: "你是一位专业的博客作者，擅长撰写结构清晰、内容充实的文章。请直接输出 Markdown，不要额外解释。",
		User:   sb.String(),
	}
}
