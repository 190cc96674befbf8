package content

import (
	"fmt"
	"strings"
)

// FallbackBody renders the fixed article template used when the language model is unavailable.
func FallbackBody(topic Topic) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", topic.Title))

	sb.WriteString("## 引言\n\n")
	sb.WriteString(fmt.Sprintf("在当今快速发展的数字时代，%s已经成为一个备受关注的话题。", topic.Title))
	sb.WriteString("本文将探讨这一领域的核心概念、实际应用以及未来发展趋势。\n\n")

	sb.WriteString("## 主要内容\n\n")
	for _, keyword := range topic.Keywords {
		sb.WriteString(fmt.Sprintf("- %s的应用与发展\n", keyword))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s涉及多个方面的技术和理念。", topic.Title))
	sb.WriteString("通过深入理解这些核心要素，我们可以更好地把握行业发展方向，为实际工作提供有价值的指导。\n\n")

	sb.WriteString("## 未来展望\n\n")
	sb.WriteString("随着技术的不断进步，这一领域将继续演进，带来更多创新的解决方案和应用场景。")
	sb.WriteString("保持学习和实践，是跟上发展步伐的关键。\n\n")

	sb.WriteString("## 结论\n\n")
	sb.WriteString(fmt.Sprintf("%s正在深刻影响着我们的工作和生活。", topic.Title))
	sb.WriteString("理解并善用这些变化，将帮助我们在未来的竞争中占据有利位置。\n\n")

	sb.WriteString("---\n\n")
	sb.WriteString("*本文由AI自动生成，仅供参考。*\n")

	return sb.String()
}
