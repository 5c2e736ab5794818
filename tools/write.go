package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skridlevsky/outliner/blocks"
	"github.com/skridlevsky/outliner/store"
	"github.com/skridlevsky/outliner/types"
)

// Write implements page and block mutation MCP tools.
type Write struct {
	store *store.Store
}

// NewWrite creates a new Write tool handler.
func NewWrite(s *store.Store) *Write {
	return &Write{store: s}
}

// CreatePage creates a page with optional title, icon and initial text blocks.
func (w *Write) CreatePage(ctx context.Context, req *mcp.CallToolRequest, input types.CreatePageInput) (*mcp.CallToolResult, any, error) {
	page, err := w.store.AddPage(ctx, store.NewPage{
		ParentID: input.ParentID,
		Title:    input.Title,
		Icon:     input.Icon,
		Favorite: input.Favorite,
		Blocks:   input.Blocks,
	})
	if err != nil {
		return refusal("failed to create page", err), nil, nil
	}

	res, err := jsonTextResult(map[string]any{
		"created":  true,
		"id":       page.ID,
		"title":    page.DisplayTitle(),
		"parentId": page.ParentID,
		"blockIds": blockIDs(page.Blocks),
	})
	return res, nil, err
}

// TrashPage moves a page and its descendants to the trash.
func (w *Write) TrashPage(ctx context.Context, req *mcp.CallToolRequest, input types.TrashPageInput) (*mcp.CallToolResult, any, error) {
	if _, ok := w.store.Page(input.ID); !ok {
		return errorResult(fmt.Sprintf("page not found: %s", input.ID)), nil, nil
	}
	trashed, err := w.store.TrashPage(ctx, input.ID)
	if err != nil {
		return refusal("failed to trash page", err), nil, nil
	}
	res, err := jsonTextResult(map[string]any{
		"trashed":      trashed,
		"activePageId": w.store.ActivePageID(),
	})
	return res, nil, err
}

// MovePage reparents a page.
func (w *Write) MovePage(ctx context.Context, req *mcp.CallToolRequest, input types.MovePageInput) (*mcp.CallToolResult, any, error) {
	if err := w.store.MovePage(ctx, input.ID, input.ParentID); err != nil {
		return refusal("failed to move page", err), nil, nil
	}
	where := "the top level"
	if input.ParentID != "" {
		where = input.ParentID
	}
	return textResult(fmt.Sprintf("Moved %s to %s.", input.ID, where)), nil, nil
}

// DuplicatePage copies a page's content into a new sibling page.
func (w *Write) DuplicatePage(ctx context.Context, req *mcp.CallToolRequest, input types.DuplicatePageInput) (*mcp.CallToolResult, any, error) {
	page, err := w.store.DuplicatePage(ctx, input.ID)
	if err != nil {
		return refusal("failed to duplicate page", err), nil, nil
	}
	res, err := jsonTextResult(summarize(page))
	return res, nil, err
}

// RenamePage sets a page title and optionally its icon.
func (w *Write) RenamePage(ctx context.Context, req *mcp.CallToolRequest, input types.RenamePageInput) (*mcp.CallToolResult, any, error) {
	if err := w.store.Rename(ctx, input.ID, input.Title); err != nil {
		return refusal("failed to rename page", err), nil, nil
	}
	if input.Icon != "" {
		if err := w.store.SetIcon(ctx, input.ID, input.Icon); err != nil {
			return refusal("renamed but failed to set icon", err), nil, nil
		}
	}
	return textResult(fmt.Sprintf("Renamed %s to '%s'.", input.ID, input.Title)), nil, nil
}

// SetPageStyle flips a style flag and/or sets the font of a page.
func (w *Write) SetPageStyle(ctx context.Context, req *mcp.CallToolRequest, input types.SetPageStyleInput) (*mcp.CallToolResult, any, error) {
	if input.Toggle == "" && input.Font == "" {
		return errorResult("nothing to change: set toggle or font"), nil, nil
	}
	result := map[string]any{"id": input.ID}
	if input.Toggle != "" {
		on, err := w.store.ToggleStyle(ctx, input.ID, types.Style(input.Toggle))
		if err != nil {
			return refusal("failed to toggle style", err), nil, nil
		}
		result[input.Toggle] = on
	}
	if input.Font != "" {
		if err := w.store.SetFont(ctx, input.ID, types.Font(input.Font)); err != nil {
			return refusal("failed to set font", err), nil, nil
		}
		result["font"] = input.Font
	}
	res, err := jsonTextResult(result)
	return res, nil, err
}

// ToggleFavorite adds a page to or removes it from the favorites section.
func (w *Write) ToggleFavorite(ctx context.Context, req *mcp.CallToolRequest, input types.PageIDInput) (*mcp.CallToolResult, any, error) {
	on, err := w.store.ToggleFavorite(ctx, input.ID)
	if err != nil {
		return refusal("failed to toggle favorite", err), nil, nil
	}
	res, err := jsonTextResult(map[string]any{"id": input.ID, "favorite": on})
	return res, nil, err
}

// ToggleLock locks or unlocks a page's content.
func (w *Write) ToggleLock(ctx context.Context, req *mcp.CallToolRequest, input types.PageIDInput) (*mcp.CallToolResult, any, error) {
	on, err := w.store.ToggleLocked(ctx, input.ID)
	if err != nil {
		return refusal("failed to toggle lock", err), nil, nil
	}
	res, err := jsonTextResult(map[string]any{"id": input.ID, "locked": on})
	return res, nil, err
}

// SetActivePage switches the active page.
func (w *Write) SetActivePage(ctx context.Context, req *mcp.CallToolRequest, input types.PageIDInput) (*mcp.CallToolResult, any, error) {
	page, err := w.store.SetActivePage(ctx, input.ID)
	if err != nil {
		return refusal("failed to set active page", err), nil, nil
	}
	res, err := jsonTextResult(summarize(page))
	return res, nil, err
}

// ToggleSectionSort flips a sidebar section between manual and title order.
func (w *Write) ToggleSectionSort(ctx context.Context, req *mcp.CallToolRequest, input types.ToggleSectionSortInput) (*mcp.CallToolResult, any, error) {
	mode, err := w.store.ToggleSectionSort(types.Section(strings.ToLower(input.Section)))
	if err != nil {
		return refusal("failed to toggle sort", err), nil, nil
	}
	res, err := jsonTextResult(map[string]any{"section": input.Section, "sort": mode})
	return res, nil, err
}

// InsertBlock inserts a typed block after another block.
func (w *Write) InsertBlock(ctx context.Context, req *mcp.CallToolRequest, input types.InsertBlockInput) (*mcp.CallToolResult, any, error) {
	t := types.BlockType(input.Type)
	if t == "" {
		t = types.TypeText
	}
	if !t.Valid() {
		return errorResult(fmt.Sprintf("unknown block type %q (use slash_commands to list types)", input.Type)), nil, nil
	}
	b, err := w.store.InsertTypedBlock(ctx, input.PageID, input.AfterID, t, input.Content)
	if err != nil {
		return refusal("failed to insert block", err), nil, nil
	}
	res, err := jsonTextResult(b)
	return res, nil, err
}

// UpdateBlock replaces a block's content.
func (w *Write) UpdateBlock(ctx context.Context, req *mcp.CallToolRequest, input types.UpdateBlockInput) (*mcp.CallToolResult, any, error) {
	if err := w.store.UpdateBlock(ctx, input.PageID, input.BlockID, input.Content); err != nil {
		return refusal("failed to update block", err), nil, nil
	}
	return textResult(fmt.Sprintf("Updated block %s.", input.BlockID)), nil, nil
}

// DeleteBlock removes a block. A page block takes its sub-page to the trash.
func (w *Write) DeleteBlock(ctx context.Context, req *mcp.CallToolRequest, input types.BlockRefInput) (*mcp.CallToolResult, any, error) {
	r, err := w.store.DeleteBlock(ctx, input.PageID, input.BlockID)
	if err != nil {
		return refusal("failed to delete block", err), nil, nil
	}
	res, err := jsonTextResult(map[string]any{
		"deleted":      input.BlockID,
		"focusBlockId": r.FocusID,
		"trashedPages": r.Trashed,
	})
	return res, nil, err
}

// ReorderBlock moves a block before or after another block of the same page.
func (w *Write) ReorderBlock(ctx context.Context, req *mcp.CallToolRequest, input types.ReorderBlockInput) (*mcp.CallToolResult, any, error) {
	pos := blocks.Position(strings.ToLower(input.Position))
	if pos == "" {
		pos = blocks.After
	}
	if err := w.store.ReorderBlock(ctx, input.PageID, input.BlockID, input.TargetID, pos); err != nil {
		return refusal("failed to reorder block", err), nil, nil
	}
	return textResult(fmt.Sprintf("Moved block %s %s %s.", input.BlockID, pos, input.TargetID)), nil, nil
}

// ConvertBlock changes a block's type.
func (w *Write) ConvertBlock(ctx context.Context, req *mcp.CallToolRequest, input types.ConvertBlockInput) (*mcp.CallToolResult, any, error) {
	sub, err := w.store.ConvertBlock(ctx, input.PageID, input.BlockID, types.BlockType(input.Type))
	if err != nil {
		return refusal("failed to convert block", err), nil, nil
	}
	result := map[string]any{"blockId": input.BlockID, "type": input.Type}
	if sub != nil {
		result["subPage"] = summarize(*sub)
	}
	res, err := jsonTextResult(result)
	return res, nil, err
}

// DuplicateBlock inserts a copy of a block right after it.
func (w *Write) DuplicateBlock(ctx context.Context, req *mcp.CallToolRequest, input types.BlockRefInput) (*mcp.CallToolResult, any, error) {
	b, err := w.store.DuplicateBlock(ctx, input.PageID, input.BlockID)
	if err != nil {
		return refusal("failed to duplicate block", err), nil, nil
	}
	if b.ID == "" {
		return errorResult(fmt.Sprintf("block not found: %s", input.BlockID)), nil, nil
	}
	res, err := jsonTextResult(b)
	return res, nil, err
}

// MoveBlockToPage moves a block to the end of another page.
func (w *Write) MoveBlockToPage(ctx context.Context, req *mcp.CallToolRequest, input types.MoveBlockToPageInput) (*mcp.CallToolResult, any, error) {
	if err := w.store.MoveBlockToPage(ctx, input.PageID, input.BlockID, input.TargetID); err != nil {
		return refusal("failed to move block", err), nil, nil
	}
	return textResult(fmt.Sprintf("Moved block %s to page %s.", input.BlockID, input.TargetID)), nil, nil
}

// EditBlock applies type-specific edits to one block. Edits run in field
// order and the first failure stops the rest.
func (w *Write) EditBlock(ctx context.Context, req *mcp.CallToolRequest, input types.EditBlockInput) (*mcp.CallToolResult, any, error) {
	p, b := input.PageID, input.BlockID
	type edit struct {
		name string
		fn   func() error
	}
	var edits []edit

	if input.Checked != nil {
		edits = append(edits, edit{"checked", func() error { return w.store.SetChecked(ctx, p, b, *input.Checked) }})
	}
	if input.Collapse {
		edits = append(edits, edit{"toggleCollapsed", func() error {
			_, err := w.store.ToggleBlockCollapsed(ctx, p, b)
			return err
		}})
	}
	if input.Details != nil {
		edits = append(edits, edit{"details", func() error { return w.store.SetDetails(ctx, p, b, *input.Details) }})
	}
	if input.Language != nil {
		edits = append(edits, edit{"language", func() error { return w.store.SetLanguage(ctx, p, b, *input.Language) }})
	}
	if input.URL != nil {
		edits = append(edits, edit{"url", func() error { return w.store.SetURL(ctx, p, b, *input.URL) }})
	}
	if input.Caption != nil {
		edits = append(edits, edit{"caption", func() error { return w.store.SetCaption(ctx, p, b, *input.Caption) }})
	}
	if input.AddRow {
		edits = append(edits, edit{"addRow", func() error { return w.store.AddTableRow(ctx, p, b) }})
	}
	if input.AddColumn {
		edits = append(edits, edit{"addColumn", func() error { return w.store.AddTableColumn(ctx, p, b) }})
	}
	if input.Row != nil || input.Col != nil {
		if input.Row == nil || input.Col == nil {
			return errorResult("row and col must be given together"), nil, nil
		}
		edits = append(edits, edit{"cell", func() error {
			return w.store.SetTableCell(ctx, p, b, *input.Row, *input.Col, input.Cell)
		}})
	}

	if len(edits) == 0 {
		return errorResult("nothing to edit: set at least one field"), nil, nil
	}
	applied := []string{}
	for _, e := range edits {
		if err := e.fn(); err != nil {
			return refusal(fmt.Sprintf("failed to set %s (applied %v)", e.name, applied), err), nil, nil
		}
		applied = append(applied, e.name)
	}
	res, err := jsonTextResult(map[string]any{"blockId": b, "applied": applied})
	return res, nil, err
}

func blockIDs(bs []types.Block) []string {
	ids := make([]string, len(bs))
	for i := range bs {
		ids[i] = bs[i].ID
	}
	return ids
}
