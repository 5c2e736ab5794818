// Package export renders a page as JSON, Markdown, HTML or styled terminal text.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/skridlevsky/outliner/types"
)

// Format names an export format.
type Format string

const (
	JSON     Format = "json"
	Markdown Format = "markdown"
	HTML     Format = "html"
	Terminal Format = "terminal"
)

// Formats lists every supported format.
var Formats = []Format{JSON, Markdown, HTML, Terminal}

// Extension returns the file extension conventionally used for f.
func (f Format) Extension() string {
	switch f {
	case JSON:
		return ".json"
	case Markdown:
		return ".md"
	case HTML:
		return ".html"
	}
	return ".txt"
}

// Resolver looks up the page a page block points at.
type Resolver func(id string) (types.Page, bool)

// Options controls rendering.
type Options struct {
	// Resolve names referenced pages; nil renders them as untitled.
	Resolve Resolver
	// Width is the terminal wrap width (default 80).
	Width int
	// Style is the terminal style name (default "dark").
	Style string
}

// Render exports page in format f.
func Render(page types.Page, f Format, opts Options) ([]byte, error) {
	switch f {
	case JSON, "":
		return PageJSON(page)
	case Markdown:
		return []byte(PageMarkdown(page, opts.Resolve)), nil
	case HTML:
		out, err := PageHTML(page, opts.Resolve)
		return []byte(out), err
	case Terminal:
		out, err := PageTerminal(page, opts)
		return []byte(out), err
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// PageJSON is the page record indented by two spaces.
func PageJSON(page types.Page) ([]byte, error) {
	return json.MarshalIndent(page, "", "  ")
}
