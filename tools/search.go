package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skridlevsky/outliner/fuzzy"
	"github.com/skridlevsky/outliner/parser"
	"github.com/skridlevsky/outliner/store"
	"github.com/skridlevsky/outliner/types"
)

const snippetWidth = 120

// Search implements search MCP tools.
type Search struct {
	store *store.Store
}

// NewSearch creates a new Search tool handler.
func NewSearch(s *store.Store) *Search {
	return &Search{store: s}
}

type pageHit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
	Score *int   `json:"score,omitempty"`
}

// SearchPages ranks page titles against a fuzzy query, best match first.
func (s *Search) SearchPages(ctx context.Context, req *mcp.CallToolRequest, input types.SearchPagesInput) (*mcp.CallToolResult, any, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	results := s.store.NewSearch().Query(input.Query)
	if len(results) == 0 {
		return textResult(fmt.Sprintf("No pages match '%s'.", input.Query)), nil, nil
	}
	if len(results) > limit {
		results = results[:limit]
	}

	hits := make([]pageHit, 0, len(results))
	for _, r := range results {
		h := pageHit{
			ID:    r.Page.ID,
			Title: r.Page.DisplayTitle(),
			Icon:  r.Page.DisplayIcon(),
			Path:  strings.Join(s.store.Breadcrumbs(r.Page.ID), " / "),
		}
		if r.Score != fuzzy.Infinite {
			score := r.Score
			h.Score = &score
		}
		hits = append(hits, h)
	}

	res, err := jsonTextResult(map[string]any{
		"query":   input.Query,
		"count":   len(hits),
		"results": hits,
	})
	return res, nil, err
}

type blockHit struct {
	PageID    string `json:"pageId"`
	PageTitle string `json:"pageTitle"`
	BlockID   string `json:"blockId"`
	Snippet   string `json:"snippet"`
	Score     int    `json:"score"`
}

// SearchBlocks finds blocks by content, either fuzzily or by whole words.
func (s *Search) SearchBlocks(ctx context.Context, req *mcp.CallToolRequest, input types.SearchBlocksInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Query) == "" {
		return errorResult("query is required"), nil, nil
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	titles := map[string]string{}
	title := func(id string) string {
		if t, ok := titles[id]; ok {
			return t
		}
		p, _ := s.store.Page(id)
		titles[id] = p.DisplayTitle()
		return titles[id]
	}

	var hits []blockHit
	switch strings.ToLower(input.Mode) {
	case "", "fuzzy":
		for _, m := range s.store.SearchBlocks(input.Query, limit) {
			hits = append(hits, blockHit{
				PageID:    m.PageID,
				PageTitle: title(m.PageID),
				BlockID:   m.BlockID,
				Snippet:   fuzzy.Snippet(m.Content, m.MatchedIndexes, snippetWidth),
				Score:     m.Score,
			})
		}
	case "text":
		for _, h := range s.store.SearchText(input.Query, limit) {
			hits = append(hits, blockHit{
				PageID:    h.PageID,
				PageTitle: title(h.PageID),
				BlockID:   h.BlockID,
				Snippet:   fuzzy.Snippet(h.Text, nil, snippetWidth),
				Score:     h.Hits,
			})
		}
	default:
		return errorResult(fmt.Sprintf("unknown mode %q: use fuzzy or text", input.Mode)), nil, nil
	}

	if len(hits) == 0 {
		return textResult(fmt.Sprintf("No blocks match '%s'.", input.Query)), nil, nil
	}
	res, err := jsonTextResult(map[string]any{
		"query":   input.Query,
		"count":   len(hits),
		"results": hits,
	})
	return res, nil, err
}

// MoveCandidates lists the pages a page can be moved under.
func (s *Search) MoveCandidates(ctx context.Context, req *mcp.CallToolRequest, input types.MoveCandidatesInput) (*mcp.CallToolResult, any, error) {
	pages, topLevel := s.store.MoveCandidates(input.ID, input.Query)
	if _, ok := s.store.Page(input.ID); !ok {
		return errorResult(fmt.Sprintf("page not found: %s", input.ID)), nil, nil
	}
	res, err := jsonTextResult(map[string]any{
		"id":         input.ID,
		"topLevel":   topLevel,
		"candidates": summarizeAll(pages),
	})
	return res, nil, err
}

// SlashCommands lists the block types offered by the slash menu for a filter.
func (s *Search) SlashCommands(ctx context.Context, req *mcp.CallToolRequest, input types.SlashCommandsInput) (*mcp.CallToolResult, any, error) {
	cmds := parser.FilterCommands(strings.TrimPrefix(input.Query, "/"))
	if len(cmds) == 0 {
		return textResult(fmt.Sprintf("No block types match '%s'.", input.Query)), nil, nil
	}
	res, err := jsonTextResult(cmds)
	return res, nil, err
}
