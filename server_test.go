package main

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skridlevsky/outliner/backend"
	"github.com/skridlevsky/outliner/store"
)

func connect(t *testing.T, readOnly bool) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, backend.NewMemory())
	require.NoError(t, err)

	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := newServer(st, readOnly).Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func toolNames(t *testing.T, cs *mcp.ClientSession) map[string]bool {
	t.Helper()
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	return names
}

func TestServerRegistersTools(t *testing.T) {
	names := toolNames(t, connect(t, false))
	for _, want := range []string{
		"get_page", "list_pages", "get_tree", "list_trash", "breadcrumbs",
		"search_pages", "search_blocks", "move_candidates", "slash_commands",
		"outline_overview", "list_orphans", "find_connections", "page_clusters",
		"export_page", "health",
		"create_page", "trash_page", "move_page", "duplicate_page", "rename_page",
		"set_page_style", "toggle_favorite", "toggle_lock", "set_active_page",
		"toggle_section_sort", "insert_block", "update_block", "delete_block",
		"reorder_block", "convert_block", "duplicate_block", "move_block_to_page",
		"edit_block",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestServerReadOnlySkipsWriteTools(t *testing.T) {
	names := toolNames(t, connect(t, true))
	assert.True(t, names["get_page"])
	assert.True(t, names["health"])
	for _, w := range []string{"create_page", "trash_page", "insert_block", "edit_block"} {
		assert.False(t, names[w], "write tool %s registered in read-only mode", w)
	}
}

func TestHealthTool(t *testing.T) {
	cs := connect(t, true)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "health", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)
	out := res.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, `"backend": "memory"`)
	assert.Contains(t, out, `"readOnly": true`)
	assert.Contains(t, out, `"pageCount": 1`)
}

func TestCreatePageOverMCP(t *testing.T) {
	cs := connect(t, false)
	ctx := context.Background()
	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "create_page",
		Arguments: map[string]any{"title": "Inbox", "blocks": []string{"first"}},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, `"created": true`)

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "list_pages", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, `"count": 2`)
}
