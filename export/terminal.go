package export

import (
	"github.com/charmbracelet/glamour"

	"github.com/skridlevsky/outliner/types"
)

// PageTerminal renders the page's Markdown for a terminal.
func PageTerminal(page types.Page, opts Options) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	style := opts.Style
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(PageMarkdown(page, opts.Resolve))
}
