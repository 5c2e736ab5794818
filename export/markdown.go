package export

import (
	"fmt"
	"strings"

	"github.com/skridlevsky/outliner/types"
)

// PageMarkdown renders a page as GitHub-flavored Markdown. The title becomes
// a level-one heading, so block headings shift down one level.
func PageMarkdown(page types.Page, resolve Resolver) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s", page.DisplayIcon(), page.DisplayTitle())

	prevList := false
	for i := range page.Blocks {
		blk := &page.Blocks[i]
		md := blockMarkdown(blk, resolve)
		list := isListItem(blk)
		if list && prevList {
			b.WriteString("\n")
		} else {
			b.WriteString("\n\n")
		}
		b.WriteString(md)
		prevList = list
	}
	b.WriteString("\n")
	return b.String()
}

func isListItem(b *types.Block) bool {
	return !b.Opaque() && (b.Type == types.TypeBullet || b.Type == types.TypeTodo)
}

func blockMarkdown(b *types.Block, resolve Resolver) string {
	if b.Opaque() {
		return "<!-- unsupported block -->"
	}
	switch b.Type {
	case types.TypeH1:
		return "## " + b.Content
	case types.TypeH2:
		return "### " + b.Content
	case types.TypeH3:
		return "#### " + b.Content
	case types.TypeTodo:
		mark := " "
		if b.Todo().Checked {
			mark = "x"
		}
		return fmt.Sprintf("- [%s] %s", mark, b.Content)
	case types.TypeBullet:
		return "- " + b.Content
	case types.TypeQuote:
		return quote(b.Content)
	case types.TypeCallout:
		return quote("💡 " + b.Content)
	case types.TypeCode:
		return codeFence(b.Code().Language, b.Content)
	case types.TypeDivider:
		return "---"
	case types.TypePage:
		return pageLink(b.PageRef(), resolve)
	case types.TypeTable:
		return table(b.Table().Rows)
	case types.TypeImage:
		m := b.Media()
		if m.URL == "" {
			return escapeInline(b.Content)
		}
		return fmt.Sprintf("![%s](%s)", escapeInline(m.Caption), m.URL)
	case types.TypeBookmark:
		m := b.Media()
		label := m.Caption
		if label == "" {
			label = m.URL
		}
		if m.URL == "" {
			return escapeInline(b.Content)
		}
		return fmt.Sprintf("[%s](%s)", escapeInline(label), m.URL)
	case types.TypeToggle:
		t := b.Toggle()
		var s strings.Builder
		s.WriteString("<details>")
		fmt.Fprintf(&s, "<summary>%s</summary>\n\n", b.Content)
		if t.Details != "" {
			s.WriteString(t.Details)
			s.WriteString("\n\n")
		}
		s.WriteString("</details>")
		return s.String()
	}
	return b.Content
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// codeFence wraps code in a backtick fence longer than any run inside it.
func codeFence(lang, code string) string {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	return fence + lang + "\n" + code + "\n" + fence
}

func pageLink(id string, resolve Resolver) string {
	if id == "" {
		return "📄 " + types.UntitledTitle
	}
	title, icon := types.UntitledTitle, types.DefaultIcon
	if resolve != nil {
		if p, ok := resolve(id); ok {
			title, icon = p.DisplayTitle(), p.DisplayIcon()
		}
	}
	return fmt.Sprintf("%s [%s](#%s)", icon, escapeInline(title), id)
}

// table renders a GFM table; row 0 is the header. Ragged rows are padded.
func table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return ""
	}
	line := func(r []string) string {
		cells := make([]string, cols)
		for i := range cells {
			if i < len(r) {
				cells[i] = strings.ReplaceAll(escapeInline(r[i]), "|", `\|`)
			}
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}

	var b strings.Builder
	b.WriteString(line(rows[0]))
	b.WriteString("\n|")
	b.WriteString(strings.Repeat(" --- |", cols))
	for _, r := range rows[1:] {
		b.WriteString("\n")
		b.WriteString(line(r))
	}
	return b.String()
}

// escapeInline flattens newlines so a value stays on one Markdown line.
func escapeInline(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
