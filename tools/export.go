package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skridlevsky/outliner/export"
	"github.com/skridlevsky/outliner/store"
	"github.com/skridlevsky/outliner/types"
)

// Export implements the page export MCP tool.
type Export struct {
	store *store.Store
}

// NewExport creates a new Export tool handler.
func NewExport(s *store.Store) *Export {
	return &Export{store: s}
}

// ExportPage renders a page as JSON, Markdown or HTML.
func (e *Export) ExportPage(ctx context.Context, req *mcp.CallToolRequest, input types.ExportPageInput) (*mcp.CallToolResult, any, error) {
	page, ok := e.store.Page(input.ID)
	if !ok {
		return errorResult(fmt.Sprintf("page not found: %s", input.ID)), nil, nil
	}

	f := export.Format(strings.ToLower(input.Format))
	if f == export.Terminal {
		return errorResult("terminal format is only available from the command line"), nil, nil
	}
	out, err := export.Render(page, f, export.Options{Resolve: e.store.Page})
	if err != nil {
		return errorResult(fmt.Sprintf("export failed: %v", err)), nil, nil
	}
	return textResult(string(out)), nil, nil
}
