package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"matebuilder/internal/generator"
)

func reportMarkdown(r generator.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Title)
	if len(r.Tags) > 0 {
		tags := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = "`#" + t + "`"
		}
		sb.WriteString(strings.Join(tags, " "))
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "## 深度分析\n\n%s\n\n", r.Narrative)
	if r.Advice != "" {
		fmt.Fprintf(&sb, "## 建议\n\n> %s\n", r.Advice)
	}
	return sb.String()
}

func matchMarkdown(m generator.MatchResult, partner generator.Party) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# 匹配度 %d%%\n\n", m.Score)
	fmt.Fprintf(&sb, "**%s**\n\n", m.Title)
	if partner.MBTI != "" {
		fmt.Fprintf(&sb, "对方: %s / %s\n\n", partner.MBTI, partner.Gender)
	}
	fmt.Fprintf(&sb, "%s\n\n", m.Narrative)
	if m.Warning != "" {
		fmt.Fprintf(&sb, "> ⚠️ %s\n", m.Warning)
	}
	return sb.String()
}

// renderMarkdown renders md for the terminal, falling back to the raw text
// when the renderer cannot be built.
func renderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
