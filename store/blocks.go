package store

import (
	"context"

	"github.com/skridlevsky/outliner/blocks"
	"github.com/skridlevsky/outliner/types"
)

// editBlocks runs fn against a live page under the store lock.
func (s *Store) editBlocks(ctx context.Context, op, pageID string, fn func(p *types.Page) error) error {
	return s.mutate(ctx, op, func() error {
		p, err := s.page(pageID)
		if err != nil {
			return err
		}
		return fn(p)
	})
}

// InsertBlock adds an empty text block after afterID, or first when afterID
// is empty or unknown.
func (s *Store) InsertBlock(ctx context.Context, pageID, afterID string) (types.Block, error) {
	var out types.Block
	err := s.editBlocks(ctx, "insert_block", pageID, func(p *types.Page) error {
		b, err := s.blocks.InsertAfter(p, afterID)
		out = b.Clone()
		return err
	})
	return out, err
}

// InsertTypedBlock inserts a block of type t holding content after afterID in
// one save. A page type creates a sub-page titled with content.
func (s *Store) InsertTypedBlock(ctx context.Context, pageID, afterID string, t types.BlockType, content string) (types.Block, error) {
	var out types.Block
	err := s.editBlocks(ctx, "insert_block", pageID, func(p *types.Page) error {
		b, err := s.blocks.InsertAfter(p, afterID)
		if err != nil {
			return err
		}
		if content != "" && t != types.TypeDivider {
			if err := s.blocks.UpdateContent(p, b.ID, content); err != nil {
				return err
			}
		}
		if t != "" && t != types.TypeText {
			if _, err := s.blocks.ConvertType(p, b.ID, t); err != nil {
				return err
			}
		}
		cur, _ := p.Block(b.ID)
		out = cur.Clone()
		return nil
	})
	return out, err
}

// AppendText adds a text block with content at the end of a page. An empty
// seed block left by page creation is reused.
func (s *Store) AppendText(ctx context.Context, pageID, content string) (types.Block, error) {
	var out types.Block
	err := s.editBlocks(ctx, "append_block", pageID, func(p *types.Page) error {
		if n := len(p.Blocks); n == 1 && p.Blocks[0].Type == types.TypeText && p.Blocks[0].Content == "" && !p.Blocks[0].Opaque() {
			if err := s.blocks.UpdateContent(p, p.Blocks[0].ID, content); err != nil {
				return err
			}
			out = p.Blocks[0].Clone()
			return nil
		}
		b := types.NewBlock(s.ids.NewID(), types.TypeText)
		b.Content = content
		if err := s.blocks.Append(p, b); err != nil {
			return err
		}
		out = b.Clone()
		return nil
	})
	return out, err
}

// UpdateBlock replaces a block's content.
func (s *Store) UpdateBlock(ctx context.Context, pageID, blockID, content string) error {
	return s.editBlocks(ctx, "update_block", pageID, func(p *types.Page) error {
		return s.blocks.UpdateContent(p, blockID, content)
	})
}

// DeleteBlock removes a block, trashing the page it references if any. The
// page is re-seeded with an empty text block if it ends up empty.
func (s *Store) DeleteBlock(ctx context.Context, pageID, blockID string) (blocks.DeleteResult, error) {
	var res blocks.DeleteResult
	err := s.editBlocks(ctx, "delete_block", pageID, func(p *types.Page) error {
		var err error
		res, err = s.blocks.Delete(p, blockID)
		if err != nil {
			return err
		}
		if s.forest.Page(pageID) != nil && s.blocks.EnsureNotEmpty(p) {
			res.FocusID = p.Blocks[0].ID
		}
		return nil
	})
	return res, err
}

// ReorderBlock moves a block before or after another one.
func (s *Store) ReorderBlock(ctx context.Context, pageID, movedID, targetID string, pos blocks.Position) error {
	return s.editBlocks(ctx, "reorder_block", pageID, func(p *types.Page) error {
		return s.blocks.Reorder(p, movedID, targetID, pos)
	})
}

// ConvertBlock changes a block's type. Converting to a page block returns the
// sub-page it created.
func (s *Store) ConvertBlock(ctx context.Context, pageID, blockID string, to types.BlockType) (*types.Page, error) {
	var sub *types.Page
	err := s.editBlocks(ctx, "convert_block", pageID, func(p *types.Page) error {
		created, err := s.blocks.ConvertType(p, blockID, to)
		if created != nil {
			sub = created.Clone()
		}
		return err
	})
	return sub, err
}

// DuplicateBlock inserts a copy of a block right after it.
func (s *Store) DuplicateBlock(ctx context.Context, pageID, blockID string) (types.Block, error) {
	var out types.Block
	err := s.editBlocks(ctx, "duplicate_block", pageID, func(p *types.Page) error {
		b, err := s.blocks.Duplicate(p, blockID)
		out = b.Clone()
		return err
	})
	return out, err
}

// MoveBlockToPage moves a block to the end of another page.
func (s *Store) MoveBlockToPage(ctx context.Context, pageID, blockID, targetPageID string) error {
	return s.editBlocks(ctx, "move_block", pageID, func(p *types.Page) error {
		dst, err := s.page(targetPageID)
		if err != nil {
			return err
		}
		if err := s.blocks.MoveToPage(p, dst, blockID); err != nil {
			return err
		}
		s.blocks.EnsureNotEmpty(p)
		return nil
	})
}

// SetChecked sets a todo block's checkbox.
func (s *Store) SetChecked(ctx context.Context, pageID, blockID string, checked bool) error {
	return s.editBlocks(ctx, "set_checked", pageID, func(p *types.Page) error {
		return s.blocks.SetChecked(p, blockID, checked)
	})
}

// ToggleBlockCollapsed opens or closes a toggle block.
func (s *Store) ToggleBlockCollapsed(ctx context.Context, pageID, blockID string) (bool, error) {
	var v bool
	err := s.editBlocks(ctx, "toggle_block", pageID, func(p *types.Page) error {
		var err error
		v, err = s.blocks.ToggleCollapsed(p, blockID)
		return err
	})
	return v, err
}

// SetDetails sets the hidden text of a toggle block.
func (s *Store) SetDetails(ctx context.Context, pageID, blockID, details string) error {
	return s.editBlocks(ctx, "set_details", pageID, func(p *types.Page) error {
		return s.blocks.SetDetails(p, blockID, details)
	})
}

// SetLanguage sets a code block's language.
func (s *Store) SetLanguage(ctx context.Context, pageID, blockID, lang string) error {
	return s.editBlocks(ctx, "set_language", pageID, func(p *types.Page) error {
		return s.blocks.SetLanguage(p, blockID, lang)
	})
}

// SetURL sets an image or bookmark URL.
func (s *Store) SetURL(ctx context.Context, pageID, blockID, url string) error {
	return s.editBlocks(ctx, "set_url", pageID, func(p *types.Page) error {
		return s.blocks.SetURL(p, blockID, url)
	})
}

// SetCaption sets an image or bookmark caption.
func (s *Store) SetCaption(ctx context.Context, pageID, blockID, caption string) error {
	return s.editBlocks(ctx, "set_caption", pageID, func(p *types.Page) error {
		return s.blocks.SetCaption(p, blockID, caption)
	})
}

// SetTableCell writes one table cell.
func (s *Store) SetTableCell(ctx context.Context, pageID, blockID string, row, col int, value string) error {
	return s.editBlocks(ctx, "set_cell", pageID, func(p *types.Page) error {
		return s.blocks.SetTableCell(p, blockID, row, col, value)
	})
}

// AddTableRow appends an empty row to a table block.
func (s *Store) AddTableRow(ctx context.Context, pageID, blockID string) error {
	return s.editBlocks(ctx, "add_row", pageID, func(p *types.Page) error {
		return s.blocks.AddTableRow(p, blockID)
	})
}

// AddTableColumn appends an empty column to a table block.
func (s *Store) AddTableColumn(ctx context.Context, pageID, blockID string) error {
	return s.editBlocks(ctx, "add_column", pageID, func(p *types.Page) error {
		return s.blocks.AddTableColumn(p, blockID)
	})
}
