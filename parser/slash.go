// Package parser recognizes slash-command tokens typed into block content.
package parser

import (
	"regexp"
	"strings"

	"github.com/skridlevsky/outliner/types"
)

var (
	// "/" then letters, digits or hyphens, then at most one space.
	slashTokenPattern = regexp.MustCompile(`^/[a-zA-Z0-9-]*\s?`)

	// Everything outside a-z0-9, after lower-casing.
	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]`)
)

// StripSlashCommand removes a leading slash-command token from content.
// Content without a leading token is returned unchanged.
func StripSlashCommand(content string) string {
	return slashTokenPattern.ReplaceAllString(content, "")
}

// SlashQuery returns the lower-cased text after a leading "/", and whether
// content starts with one at all.
func SlashQuery(content string) (string, bool) {
	if !strings.HasPrefix(content, "/") {
		return "", false
	}
	return strings.ToLower(content[1:]), true
}

// Command is one entry of the slash menu.
type Command struct {
	Type  types.BlockType `json:"type"`
	Label string          `json:"label"`
}

// Commands lists the slash menu in display order, one entry per block type.
var Commands = []Command{
	{types.TypeText, "Text"},
	{types.TypeH1, "Heading 1"},
	{types.TypeH2, "Heading 2"},
	{types.TypeH3, "Heading 3"},
	{types.TypeTodo, "To-do list"},
	{types.TypeBullet, "Bulleted list"},
	{types.TypeQuote, "Quote"},
	{types.TypeCallout, "Callout"},
	{types.TypeCode, "Code"},
	{types.TypeDivider, "Divider"},
	{types.TypePage, "Page"},
	{types.TypeTable, "Table"},
	{types.TypeImage, "Image"},
	{types.TypeBookmark, "Web bookmark"},
	{types.TypeToggle, "Toggle list"},
}

// FilterCommands returns the commands whose label or type contains query,
// comparing either verbatim or with non-alphanumerics removed from both sides.
// An empty query returns every command.
func FilterCommands(query string) []Command {
	q := strings.ToLower(query)
	qClean := clean(q)

	var out []Command
	for _, c := range Commands {
		label := strings.ToLower(c.Label)
		typ := strings.ToLower(string(c.Type))
		if strings.Contains(label, q) || strings.Contains(typ, q) ||
			(qClean != "" && (strings.Contains(clean(label), qClean) || strings.Contains(clean(typ), qClean))) {
			out = append(out, c)
		}
	}
	return out
}

func clean(s string) string {
	return nonAlnumPattern.ReplaceAllString(s, "")
}
