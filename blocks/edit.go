package blocks

import (
	"fmt"

	"github.com/skridlevsky/outliner/types"
)

// find returns an editable, decoded block, or nil when the id is unknown.
func find(page *types.Page, blockID string) (*types.Block, error) {
	if err := editable(page); err != nil {
		return nil, err
	}
	b, _ := page.Block(blockID)
	if b == nil || b.Opaque() {
		return nil, nil
	}
	return b, nil
}

// UpdateContent replaces a block's text.
func (e *Engine) UpdateContent(page *types.Page, blockID, content string) error {
	b, err := find(page, blockID)
	if b == nil {
		return err
	}
	b.Content = content
	return nil
}

// Duplicate inserts a deep copy of a block, under a fresh id, right after it.
func (e *Engine) Duplicate(page *types.Page, blockID string) (types.Block, error) {
	b, err := find(page, blockID)
	if b == nil {
		return types.Block{}, err
	}
	cp := b.Clone()
	cp.ID = e.ids.NewID()
	if err := e.Insert(page, blockID, cp); err != nil {
		return types.Block{}, err
	}
	return cp, nil
}

// MoveToPage moves a block to the end of dst. Both pages must be editable.
func (e *Engine) MoveToPage(src, dst *types.Page, blockID string) error {
	if src.ID == dst.ID {
		return nil
	}
	if err := editable(dst); err != nil {
		return err
	}
	b, err := find(src, blockID)
	if b == nil {
		return err
	}
	moved := *b
	_, idx := src.Block(blockID)
	src.Blocks = append(src.Blocks[:idx], src.Blocks[idx+1:]...)
	dst.Blocks = append(dst.Blocks, moved)
	return nil
}

// SetChecked sets the state of a todo block.
func (e *Engine) SetChecked(page *types.Page, blockID string, checked bool) error {
	b, err := find(page, blockID)
	if b == nil {
		return err
	}
	todo := b.Todo()
	if todo == nil {
		return ErrWrongType
	}
	todo.Checked = checked
	return nil
}

// ToggleCollapsed flips a toggle block open or closed and returns the new state.
func (e *Engine) ToggleCollapsed(page *types.Page, blockID string) (bool, error) {
	b, err := find(page, blockID)
	if b == nil {
		return false, err
	}
	t := b.Toggle()
	if t == nil {
		return false, ErrWrongType
	}
	t.Collapsed = !t.Collapsed
	return t.Collapsed, nil
}

// SetDetails sets the hidden body of a toggle block.
func (e *Engine) SetDetails(page *types.Page, blockID, details string) error {
	b, err := find(page, blockID)
	if b == nil {
		return err
	}
	t := b.Toggle()
	if t == nil {
		return ErrWrongType
	}
	t.Details = details
	return nil
}

// SetLanguage sets the language of a code block.
func (e *Engine) SetLanguage(page *types.Page, blockID, lang string) error {
	b, err := find(page, blockID)
	if b == nil {
		return err
	}
	c := b.Code()
	if c == nil {
		return ErrWrongType
	}
	c.Language = lang
	return nil
}

// SetURL sets the url of an image or bookmark block.
func (e *Engine) SetURL(page *types.Page, blockID, url string) error {
	b, err := find(page, blockID)
	if b == nil {
		return err
	}
	m := b.Media()
	if m == nil {
		return ErrWrongType
	}
	m.URL = url
	return nil
}

// SetCaption sets the caption of an image or bookmark block.
func (e *Engine) SetCaption(page *types.Page, blockID, caption string) error {
	b, err := find(page, blockID)
	if b == nil {
		return err
	}
	m := b.Media()
	if m == nil {
		return ErrWrongType
	}
	m.Caption = caption
	return nil
}

func table(page *types.Page, blockID string) (*types.TableBody, error) {
	b, err := find(page, blockID)
	if b == nil {
		return nil, err
	}
	t := b.Table()
	if t == nil {
		return nil, ErrWrongType
	}
	return t, nil
}

// SetTableCell writes one cell. Row 0 is the header.
func (e *Engine) SetTableCell(page *types.Page, blockID string, row, col int, value string) error {
	t, err := table(page, blockID)
	if t == nil {
		return err
	}
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return fmt.Errorf("cell %d,%d: %w", row, col, ErrInvalid)
	}
	t.Rows[row][col] = value
	return nil
}

// AddTableRow appends an empty row as wide as the header.
func (e *Engine) AddTableRow(page *types.Page, blockID string) error {
	t, err := table(page, blockID)
	if t == nil {
		return err
	}
	width := 0
	if len(t.Rows) > 0 {
		width = len(t.Rows[0])
	}
	t.Rows = append(t.Rows, make([]string, width))
	return nil
}

// AddTableColumn appends an empty cell to every row.
func (e *Engine) AddTableColumn(page *types.Page, blockID string) error {
	t, err := table(page, blockID)
	if t == nil {
		return err
	}
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return nil
}

// EnsureNotEmpty seeds one empty text block into a page with no blocks and
// reports whether it did.
func (e *Engine) EnsureNotEmpty(page *types.Page) bool {
	if len(page.Blocks) > 0 {
		return false
	}
	page.Blocks = []types.Block{types.NewBlock(e.ids.NewID(), types.TypeText)}
	return true
}
