package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skridlevsky/outliner/backend"
	"github.com/skridlevsky/outliner/store"
	"github.com/skridlevsky/outliner/tools"
)

// newServer creates and configures the MCP server with all tools registered.
// If readOnly is true, write tools are not registered.
func newServer(st *store.Store, readOnly bool) *mcp.Server {
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "outliner",
			Version: version,
		},
		nil,
	)

	nav := tools.NewNavigate(st)
	search := tools.NewSearch(st)
	analyze := tools.NewAnalyze(st)
	exp := tools.NewExport(st)

	// --- Navigate tools ---
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_page",
		Description: "Get a page with its blocks, breadcrumb path, depth and direct sub-pages. Omit id to get the active page. Block ids from here are used by every block tool.",
	}, nav.GetPage)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_pages",
		Description: "List page summaries. section=favorites or private returns that sidebar section in its current sort order (manual or title); all returns every live page in document order.",
	}, nav.ListPages)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_tree",
		Description: "Get the sidebar tree of top-level pages and their sub-pages. Children of collapsed pages are hidden unless expandAll is set; childCount always counts them.",
	}, nav.GetTree)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_trash",
		Description: "List pages in the trash, oldest first. Trashed pages are kept but can no longer be edited.",
	}, nav.ListTrash)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "breadcrumbs",
		Description: "Get the titles from the top-level ancestor down to a page, plus the joined path.",
	}, nav.Breadcrumbs)

	// --- Search tools ---
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_pages",
		Description: "Fuzzy-search page titles. Query characters must appear in order; results are ranked best first with a lower score meaning a closer match. An empty query lists every page.",
	}, search.SearchPages)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_blocks",
		Description: "Search block content across all pages. mode=fuzzy matches characters in order and tolerates typos in spacing; mode=text requires every word and ranks by occurrences. Returns page, block id and a snippet.",
	}, search.SearchBlocks)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "move_candidates",
		Description: "List the pages a page may be moved under (never itself or its descendants), filtered by a title substring, and whether moving to the top level applies.",
	}, search.MoveCandidates)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "slash_commands",
		Description: "List block types offered by the slash menu, filtered by the text typed after '/'. Use the type values with insert_block and convert_block.",
	}, search.SlashCommands)

	// --- Analyze tools ---
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "outline_overview",
		Description: "Get outline statistics: page, block and reference counts, favorites, locked pages, maximum nesting depth, block type breakdown and the most connected pages.",
	}, analyze.OutlineOverview)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_orphans",
		Description: "List orphan pages (no parent, no sub-pages, no page blocks pointing in or out) and empty pages (no text in any block).",
	}, analyze.ListOrphans)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "find_connections",
		Description: "Discover how two pages are connected through nesting and page blocks. Returns whether they are directly linked, paths between them and shared neighbours.",
	}, analyze.FindConnections)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "page_clusters",
		Description: "Group pages into connected clusters through nesting and page blocks. Each cluster names its hub, the page with the most connections.",
	}, analyze.PageClusters)

	// --- Export ---
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_page",
		Description: "Export a page as json (the stored record), markdown (GitHub-flavored) or html (with highlighted code blocks).",
	}, exp.ExportPage)

	// --- Write tools (skipped in read-only mode) ---
	if !readOnly {
		registerWriteTools(srv, tools.NewWrite(st))
	}

	// --- Health tool ---
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "health",
		Description: "Check server status: version, storage backend, read-only mode, page count. Use to verify the server is alive and see its configuration.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
		b := st.Backend()
		status := "ok"
		if err := backend.Ping(ctx, b); err != nil {
			status = fmt.Sprintf("error: %v", err)
		}

		data, _ := json.MarshalIndent(map[string]any{
			"status":     status,
			"version":    version,
			"backend":    backend.Name(b),
			"codec":      st.Codec().Name(),
			"readOnly":   readOnly,
			"pageCount":  st.PageCount(),
			"trashCount": len(st.Trash()),
		}, "", "  ")

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil, nil
	})

	return srv
}

func registerWriteTools(srv *mcp.Server, write *tools.Write) {
	// Pages
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_page",
		Description: "Create a page at the top level or under parentId, with optional title, icon, favorite flag and initial text blocks. A sub-page also gets a page block at the end of its parent.",
	}, write.CreatePage)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "trash_page",
		Description: "Move a page and all its sub-pages to the trash. Page blocks pointing at them are removed everywhere. Refused when it would leave no pages.",
	}, write.TrashPage)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "move_page",
		Description: "Move a page under a new parent, or to the top level when parentId is empty. Refused when the new parent is the page itself or one of its descendants.",
	}, write.MovePage)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "duplicate_page",
		Description: "Copy a page's own blocks and settings into a new sibling page titled with a (Copy) suffix. Sub-pages are not copied.",
	}, write.DuplicatePage)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "rename_page",
		Description: "Set a page title, and optionally its icon.",
	}, write.RenamePage)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_page_style",
		Description: "Flip a page style flag (fullWidth, smallText, toc) and/or set its font (default, serif, mono).",
	}, write.SetPageStyle)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "toggle_favorite",
		Description: "Add a page to or remove it from the favorites section.",
	}, write.ToggleFavorite)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "toggle_lock",
		Description: "Lock or unlock a page. A locked page refuses every block edit until unlocked.",
	}, write.ToggleLock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_active_page",
		Description: "Make a page the active page. An unknown id selects the first page.",
	}, write.SetActivePage)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "toggle_section_sort",
		Description: "Flip a sidebar section (favorites or private) between manual and title ordering. Sort modes last for the session only.",
	}, write.ToggleSectionSort)

	// Blocks
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "insert_block",
		Description: "Insert a block after afterId (or first when empty) with an optional type and content. type=page creates a sub-page titled with the content.",
	}, write.InsertBlock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "update_block",
		Description: "Replace a block's text content. Use get_page first to find block ids.",
	}, write.UpdateBlock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_block",
		Description: "Delete a block. Deleting a page block also moves the page it points at, and its sub-pages, to the trash. A page left without blocks gets one empty text block.",
	}, write.DeleteBlock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "reorder_block",
		Description: "Move a block before or after another block on the same page.",
	}, write.ReorderBlock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "convert_block",
		Description: "Change a block's type, keeping its text. Converting to page creates a sub-page titled with the block's text; converting away from page leaves the sub-page in place.",
	}, write.ConvertBlock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "duplicate_block",
		Description: "Insert a copy of a block right after it, with a new id.",
	}, write.DuplicateBlock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "move_block_to_page",
		Description: "Move a block to the end of another page.",
	}, write.MoveBlockToPage)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "edit_block",
		Description: "Edit type-specific parts of a block: todo checked state, toggle collapse and details, code language, image or bookmark url and caption, table rows, columns and cells. Several fields may be set at once.",
	}, write.EditBlock)
}
