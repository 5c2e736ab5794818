package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/types"
)

// textResult creates a successful text CallToolResult.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult creates an error CallToolResult (visible to the LLM for self-correction).
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// jsonTextResult marshals any value to indented JSON and wraps it as text content.
func jsonTextResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// refusal turns a store error into a tool error with a hint for the caller.
func refusal(what string, err error) *mcp.CallToolResult {
	hint := ""
	switch {
	case errors.Is(err, forest.ErrNotFound):
		hint = " (use list_pages or get_tree to find page ids)"
	case errors.Is(err, forest.ErrLocked):
		hint = " (unlock the page with toggle_lock first)"
	case errors.Is(err, forest.ErrCycle):
		hint = " (use move_candidates to list valid parents)"
	}
	return errorResult(fmt.Sprintf("%s: %v%s", what, err, hint))
}

// pageSummary is the short form of a page used in listings.
type pageSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Icon       string `json:"icon"`
	ParentID   string `json:"parentId,omitempty"`
	Favorite   bool   `json:"favorite,omitempty"`
	Locked     bool   `json:"locked,omitempty"`
	BlockCount int    `json:"blockCount"`
}

func summarize(p types.Page) pageSummary {
	return pageSummary{
		ID:         p.ID,
		Title:      p.DisplayTitle(),
		Icon:       p.DisplayIcon(),
		ParentID:   p.ParentID,
		Favorite:   p.Favorite,
		Locked:     p.Locked,
		BlockCount: len(p.Blocks),
	}
}

func summarizeAll(pages []types.Page) []pageSummary {
	out := make([]pageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, summarize(p))
	}
	return out
}
