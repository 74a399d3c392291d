package ui

import (
	"fmt"
	"strings"

	"matebuilder/internal/allocation"
	"matebuilder/internal/catalog"
	"matebuilder/internal/usage"
)

// LowBalance is the balance below which the coin counter turns into a
// warning.
const LowBalance = 5

// TokenLine renders a token as "emoji label (weight)".
func TokenLine(tok catalog.Token) string {
	emoji := tok.Emoji
	if emoji == "" {
		emoji = "•"
	}
	return fmt.Sprintf("%s %s (%d)", emoji, tok.Label, tok.Weight)
}

// Column is one bucket as shown on the board.
type Column struct {
	Bucket      allocation.Bucket
	Title       string
	Description string
	Tokens      []catalog.Token
	// Limit is 0 for unlimited buckets.
	Limit int
}

// ColumnView renders a column with at most height token rows. cursor is the
// highlighted row when active; the window scrolls to keep it visible.
func ColumnView(s Styles, c Column, active bool, cursor, width, height int) string {
	var sb strings.Builder

	title := c.Title
	if title == "" {
		title = string(c.Bucket)
	}
	count := fmt.Sprintf("%d", len(c.Tokens))
	if c.Limit > 0 {
		count = fmt.Sprintf("%d/%d", len(c.Tokens), c.Limit)
	}
	sb.WriteString(s.BucketTitle(c.Bucket, title))
	sb.WriteString(" ")
	sb.WriteString(s.Muted.Render(count))
	sb.WriteString("\n")
	if c.Description != "" {
		sb.WriteString(s.Subtitle.Render(c.Description))
		sb.WriteString("\n")
	}

	if height < 1 {
		height = 1
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(c.Tokens) {
		end = len(c.Tokens)
	}

	if len(c.Tokens) == 0 {
		sb.WriteString(s.Muted.Render("(empty)"))
	}
	for i := start; i < end; i++ {
		line := TokenLine(c.Tokens[i])
		if active && i == cursor {
			sb.WriteString(s.Selected.Render("> " + line))
		} else {
			sb.WriteString("  " + s.Body.Render(line))
		}
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	if end < len(c.Tokens) {
		sb.WriteString("\n")
		sb.WriteString(s.Muted.Render(fmt.Sprintf("  … %d more", len(c.Tokens)-end)))
	}

	style := s.Column
	if active {
		style = s.ActiveColumn
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(sb.String())
}

// BalanceView renders the coin counter, warning when it is low.
func BalanceView(s Styles, balance int) string {
	text := fmt.Sprintf("🪙 %d", balance)
	if balance < LowBalance {
		return s.Warning.Render(text + "  余额不足!")
	}
	return s.Coins.Render(text)
}

// UsageView renders collaborator usage totals per operation.
func UsageView(s Styles, stats usage.AggregatedStats) string {
	if stats.Calls == 0 {
		return ""
	}
	t := NewTable(fmt.Sprintf("API usage (%d calls)", stats.Calls), "operation", "input", "output", "total")
	for _, op := range []string{usage.OperationQuestions, usage.OperationReport, usage.OperationMatch} {
		tc, ok := stats.ByOperation[op]
		if !ok {
			continue
		}
		t.AddRow(op, fmt.Sprint(tc.Input), fmt.Sprint(tc.Output), fmt.Sprint(tc.Total))
	}
	t.AddRow("total", fmt.Sprint(stats.Total.Input), fmt.Sprint(stats.Total.Output), fmt.Sprint(stats.Total.Total))
	return t.View(s)
}
