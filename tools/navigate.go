package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skridlevsky/outliner/store"
	"github.com/skridlevsky/outliner/types"
)

// Navigate implements navigation MCP tools.
type Navigate struct {
	store *store.Store
}

// NewNavigate creates a new Navigate tool handler.
func NewNavigate(s *store.Store) *Navigate {
	return &Navigate{store: s}
}

// pageView is a page with its position in the forest.
type pageView struct {
	types.Page
	Active      bool          `json:"active"`
	Breadcrumbs []string      `json:"breadcrumbs"`
	Depth       int           `json:"depth"`
	Children    []pageSummary `json:"children"`
}

// GetPage returns a page with its blocks, breadcrumbs and direct children.
func (n *Navigate) GetPage(ctx context.Context, req *mcp.CallToolRequest, input types.GetPageInput) (*mcp.CallToolResult, any, error) {
	var (
		page types.Page
		ok   = true
	)
	if input.ID == "" {
		page = n.store.ActivePage()
	} else {
		page, ok = n.store.Page(input.ID)
	}
	if !ok {
		return errorResult(fmt.Sprintf("page not found: %s", input.ID)), nil, nil
	}

	view := pageView{
		Page:        page,
		Active:      page.ID == n.store.ActivePageID(),
		Breadcrumbs: n.store.Breadcrumbs(page.ID),
		Depth:       n.store.Depth(page.ID),
		Children:    summarizeAll(n.store.Children(page.ID)),
	}
	res, err := jsonTextResult(view)
	return res, nil, err
}

// ListPages lists the pages of a sidebar section in that section's sort order.
func (n *Navigate) ListPages(ctx context.Context, req *mcp.CallToolRequest, input types.ListPagesInput) (*mcp.CallToolResult, any, error) {
	section := strings.ToLower(input.Section)
	var pages []types.Page
	result := map[string]any{}

	switch section {
	case "", "all":
		pages = n.store.Pages()
		section = "all"
	case string(types.SectionFavorites):
		pages = n.store.Favorites()
		result["sort"] = n.store.SectionSort().Favorites
	case string(types.SectionPrivate):
		pages = n.store.TopLevel()
		result["sort"] = n.store.SectionSort().Private
	default:
		return errorResult(fmt.Sprintf("unknown section %q: use favorites, private or all", input.Section)), nil, nil
	}

	result["section"] = section
	result["count"] = len(pages)
	result["pages"] = summarizeAll(pages)
	res, err := jsonTextResult(result)
	return res, nil, err
}

// GetTree returns the sidebar tree of top-level pages.
func (n *Navigate) GetTree(ctx context.Context, req *mcp.CallToolRequest, input types.GetTreeInput) (*mcp.CallToolResult, any, error) {
	res, err := jsonTextResult(n.store.Tree(input.ExpandAll))
	return res, nil, err
}

// ListTrash lists trashed pages, oldest first.
func (n *Navigate) ListTrash(ctx context.Context, req *mcp.CallToolRequest, input types.ListTrashInput) (*mcp.CallToolResult, any, error) {
	trash := n.store.Trash()
	if len(trash) == 0 {
		return textResult("Trash is empty."), nil, nil
	}
	res, err := jsonTextResult(summarizeAll(trash))
	return res, nil, err
}

// Breadcrumbs returns the titles from the root page down to the page.
func (n *Navigate) Breadcrumbs(ctx context.Context, req *mcp.CallToolRequest, input types.BreadcrumbsInput) (*mcp.CallToolResult, any, error) {
	if _, ok := n.store.Page(input.ID); !ok {
		return errorResult(fmt.Sprintf("page not found: %s", input.ID)), nil, nil
	}
	crumbs := n.store.Breadcrumbs(input.ID)
	res, err := jsonTextResult(map[string]any{
		"id":          input.ID,
		"breadcrumbs": crumbs,
		"path":        strings.Join(crumbs, " / "),
	})
	return res, nil, err
}
