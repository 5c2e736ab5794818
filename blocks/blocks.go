// Package blocks edits the ordered block list of a single page.
package blocks

import (
	"fmt"

	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/ident"
	"github.com/skridlevsky/outliner/parser"
	"github.com/skridlevsky/outliner/types"
)

var (
	// ErrLocked is returned for content edits on a locked page.
	ErrLocked = forest.ErrLocked

	// ErrInvalid is returned for unknown block types and out-of-range table cells.
	ErrInvalid = forest.ErrInvalid

	// ErrWrongType is returned when an edit does not apply to the block's type.
	ErrWrongType = fmt.Errorf("edit does not apply to this block type: %w", forest.ErrInvalid)
)

// Forest is the part of the page forest the block engine depends on.
type Forest interface {
	CreatePage(parentID string) (*types.Page, error)
	MoveToTrash(id string) ([]string, error)
	Page(id string) *types.Page
}

// Position places a reordered block relative to its target.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
)

// Engine applies block list operations. Page blocks reach back into the
// forest to create and trash the pages they reference.
type Engine struct {
	forest Forest
	ids    ident.Generator
}

// New returns an Engine over f using ids for new block ids.
func New(f Forest, ids ident.Generator) *Engine {
	return &Engine{forest: f, ids: ids}
}

func editable(page *types.Page) error {
	if page.Locked {
		return ErrLocked
	}
	return nil
}

// InsertAfter inserts an empty text block directly after afterID. An empty or
// unknown afterID inserts at the start of the list.
func (e *Engine) InsertAfter(page *types.Page, afterID string) (types.Block, error) {
	b := types.NewBlock(e.ids.NewID(), types.TypeText)
	if err := e.Insert(page, afterID, b); err != nil {
		return types.Block{}, err
	}
	return b, nil
}

// Insert places b directly after afterID, or at the start when afterID is not found.
func (e *Engine) Insert(page *types.Page, afterID string, b types.Block) error {
	if err := editable(page); err != nil {
		return err
	}
	at := 0
	if afterID != "" {
		_, idx := page.Block(afterID)
		at = idx + 1
	}
	page.Blocks = append(page.Blocks, types.Block{})
	copy(page.Blocks[at+1:], page.Blocks[at:])
	page.Blocks[at] = b
	return nil
}

// Append adds b to the end of the page.
func (e *Engine) Append(page *types.Page, b types.Block) error {
	if err := editable(page); err != nil {
		return err
	}
	page.Blocks = append(page.Blocks, b)
	return nil
}

// DeleteResult describes the side effects of Delete.
type DeleteResult struct {
	// FocusID is the block that preceded the deleted one, if any.
	FocusID string
	// Trashed lists the pages moved to trash with the block.
	Trashed []string
}

// Delete removes a block. Deleting a bound page block first moves the
// referenced page and its descendants to trash; if that is refused the block
// stays. A missing block is a no-op.
func (e *Engine) Delete(page *types.Page, blockID string) (DeleteResult, error) {
	var res DeleteResult
	if err := editable(page); err != nil {
		return res, err
	}
	block, idx := page.Block(blockID)
	if block == nil {
		return res, nil
	}

	preceding := make([]string, idx)
	for i := 0; i < idx; i++ {
		preceding[i] = page.Blocks[i].ID
	}

	if ref := block.PageRef(); ref != "" {
		trashed, err := e.forest.MoveToTrash(ref)
		if err != nil {
			return res, fmt.Errorf("delete block %s: %w", blockID, err)
		}
		res.Trashed = trashed
	}

	// The cascade may have trashed this page too; trashed pages stay as they were.
	if e.forest.Page(page.ID) != page {
		return res, nil
	}
	// It may also have removed the block from this page.
	if _, idx = page.Block(blockID); idx >= 0 {
		page.Blocks = append(page.Blocks[:idx], page.Blocks[idx+1:]...)
	}

	for i := len(preceding) - 1; i >= 0; i-- {
		if b, _ := page.Block(preceding[i]); b != nil {
			res.FocusID = b.ID
			break
		}
	}
	return res, nil
}

// Reorder moves movedID next to targetID. The target index is resolved after
// the moved block is taken out of the list. Same or missing ids are a no-op.
func (e *Engine) Reorder(page *types.Page, movedID, targetID string, pos Position) error {
	if err := editable(page); err != nil {
		return err
	}
	if movedID == targetID {
		return nil
	}
	if pos != Before && pos != After {
		return fmt.Errorf("position %q: %w", pos, ErrInvalid)
	}
	_, from := page.Block(movedID)
	_, target := page.Block(targetID)
	if from < 0 || target < 0 {
		return nil
	}

	moved := page.Blocks[from]
	page.Blocks = append(page.Blocks[:from], page.Blocks[from+1:]...)

	_, at := page.Block(targetID)
	if pos == After {
		at++
	}
	page.Blocks = append(page.Blocks, types.Block{})
	copy(page.Blocks[at+1:], page.Blocks[at:])
	page.Blocks[at] = moved
	return nil
}

// ConvertType changes a block's type, stripping a leading slash-command token
// from its content. Converting to page creates a sub-page under page titled
// with the stripped content, binds the block to it and clears the content;
// the new page is returned. The parent then holds two references to it, the
// converted block and the one CreatePage appends. A block that already
// references a page keeps its binding.
func (e *Engine) ConvertType(page *types.Page, blockID string, to types.BlockType) (*types.Page, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("block type %q: %w", to, ErrInvalid)
	}
	if err := editable(page); err != nil {
		return nil, err
	}
	block, _ := page.Block(blockID)
	if block == nil || block.Opaque() {
		return nil, nil
	}

	content := parser.StripSlashCommand(block.Content)
	if to == types.TypePage && block.PageRef() != "" {
		block.Content = content
		return nil, nil
	}

	if to != types.TypePage {
		if block.Type != to {
			block.Body = convertBody(block.Body, to)
		}
		block.Type = to
		block.Content = content
		return nil, nil
	}

	sub, err := e.forest.CreatePage(page.ID)
	if err != nil {
		return nil, fmt.Errorf("convert block %s: %w", blockID, err)
	}
	// CreatePage appended its own reference and may have grown the slice.
	block, _ = page.Block(blockID)
	sub.Title = content
	block.Type = types.TypePage
	block.Content = ""
	block.Body = &types.PageRefBody{PageID: sub.ID}
	return sub, nil
}

// convertBody carries over the payload fields both types share and fills
// defaults for the rest.
func convertBody(old types.Body, to types.BlockType) types.Body {
	next := types.NewBody(to)
	switch n := next.(type) {
	case *types.MediaBody:
		if m, ok := old.(*types.MediaBody); ok {
			*n = *m
		}
	case *types.TodoBody:
		if t, ok := old.(*types.TodoBody); ok {
			*n = *t
		}
	}
	return next
}
