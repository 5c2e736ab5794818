// Package forest holds the live page collection, its parent relation and the trash.
//
// Pages are stored in an arena keyed by id with explicit parent pointers. The
// parent relation is kept acyclic by Reparent; page blocks that reference a
// trashed page are removed from every live page when the trash cascade runs.
package forest

import (
	"errors"
	"fmt"

	"github.com/skridlevsky/outliner/ident"
	"github.com/skridlevsky/outliner/types"
)

var (
	// ErrNotFound is returned when a page id does not name a live page.
	ErrNotFound = errors.New("page not found")

	// ErrCycle is returned when a move would make a page its own ancestor.
	ErrCycle = errors.New("page cannot be moved under itself or its descendants")

	// ErrLastPage is returned when a trash cascade would leave no live pages.
	ErrLastPage = errors.New("cannot delete the last page")

	// ErrLocked is returned for content edits on a locked page.
	ErrLocked = errors.New("page is locked")

	// ErrInvalid is returned for unknown style flags or fonts.
	ErrInvalid = errors.New("invalid value")
)

// CopySuffix is appended to the title of a duplicated page.
const CopySuffix = " (Copy)"

// Forest is the live page collection plus the trash.
// It is not safe for concurrent use; the document store serializes access.
type Forest struct {
	ids   ident.Generator
	pages map[string]*types.Page
	order []string // live ids in document order
	trash []*types.Page
}

// Option configures a Forest.
type Option func(*Forest)

// WithIDs sets the identifier generator (default: random UUIDs).
func WithIDs(g ident.Generator) Option {
	return func(f *Forest) { f.ids = g }
}

// New returns an empty forest.
func New(opts ...Option) *Forest {
	f := &Forest{
		ids:   ident.UUID(),
		pages: make(map[string]*types.Page),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IDs returns the generator used for new pages and blocks.
func (f *Forest) IDs() ident.Generator { return f.ids }

// Len returns the number of live pages.
func (f *Forest) Len() int { return len(f.order) }

// Page returns the live page with the given id, or nil.
// The returned pointer is owned by the forest.
func (f *Forest) Page(id string) *types.Page {
	if id == "" {
		return nil
	}
	return f.pages[id]
}

// Pages returns the live pages in document order.
func (f *Forest) Pages() []*types.Page {
	out := make([]*types.Page, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.pages[id])
	}
	return out
}

// Trash returns the trashed pages, oldest first.
func (f *Forest) Trash() []*types.Page {
	return append([]*types.Page(nil), f.trash...)
}

// Snapshot returns deep copies of the live pages and the trash.
func (f *Forest) Snapshot() (pages, trash []types.Page) {
	return types.ClonePages(f.Pages()), types.ClonePages(f.trash)
}

// CreatePage appends a new page with one empty text block. A non-empty
// parentID must name a live page; the parent gets a page block referencing the
// child and its sidebar entry is expanded.
func (f *Forest) CreatePage(parentID string) (*types.Page, error) {
	var parent *types.Page
	if parentID != "" {
		parent = f.pages[parentID]
		if parent == nil {
			return nil, fmt.Errorf("create under %s: %w", parentID, ErrNotFound)
		}
	}

	p := &types.Page{
		ID:       f.ids.NewID(),
		Icon:     types.DefaultIcon,
		ParentID: parentID,
		Blocks:   []types.Block{types.NewBlock(f.ids.NewID(), types.TypeText)},
	}
	f.insert(p)

	if parent != nil {
		parent.SidebarCollapsed = false
		parent.Blocks = append(parent.Blocks, types.NewPageRef(f.ids.NewID(), p.ID))
	}
	return p, nil
}

// MoveToTrash moves a page and all of its live descendants to the trash,
// descendants first. After each page leaves the forest, page blocks that
// reference it are removed from the remaining live pages. It returns the
// trashed ids in trash order. A missing page is a no-op. The cascade is
// refused with ErrLastPage when it would remove every live page.
func (f *Forest) MoveToTrash(id string) ([]string, error) {
	if f.pages[id] == nil {
		return nil, nil
	}
	if len(f.subtree(id)) >= len(f.order) {
		return nil, ErrLastPage
	}

	var trashed []string
	f.trashRecursive(id, &trashed)
	return trashed, nil
}

func (f *Forest) trashRecursive(id string, trashed *[]string) {
	page := f.pages[id]
	if page == nil {
		return
	}
	for _, child := range f.Children(id) {
		f.trashRecursive(child.ID, trashed)
	}
	f.trash = append(f.trash, page)
	f.remove(id)
	f.stripRefs(id)
	*trashed = append(*trashed, id)
}

// stripRefs removes page blocks referencing id from every live page.
func (f *Forest) stripRefs(id string) {
	for _, pid := range f.order {
		p := f.pages[pid]
		kept := p.Blocks[:0]
		for _, b := range p.Blocks {
			if b.Type == types.TypePage && b.PageRef() == id {
				continue
			}
			kept = append(kept, b)
		}
		p.Blocks = kept
	}
}

// Reparent moves a page under newParentID, or to the top level when it is
// empty. Moving a page under itself or one of its descendants returns ErrCycle.
func (f *Forest) Reparent(id, newParentID string) error {
	page := f.pages[id]
	if page == nil {
		return fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	if newParentID == "" {
		page.ParentID = ""
		return nil
	}
	target := f.pages[newParentID]
	if target == nil {
		return fmt.Errorf("move under %s: %w", newParentID, ErrNotFound)
	}
	if f.IsDescendant(id, newParentID) {
		return ErrCycle
	}
	page.ParentID = newParentID
	target.SidebarCollapsed = false
	return nil
}

// IsDescendant reports whether id is ancestorID itself or lies beneath it.
func (f *Forest) IsDescendant(ancestorID, id string) bool {
	// The walk is bounded so a corrupted parent chain cannot loop forever.
	for steps := 0; id != "" && steps <= len(f.order); steps++ {
		if id == ancestorID {
			return true
		}
		p := f.pages[id]
		if p == nil {
			return false
		}
		id = p.ParentID
	}
	return false
}

// Duplicate deep-copies one page's own content under a fresh id and appends
// it to the forest with newParentID as parent. Block ids are kept. The
// source's descendants are not copied and stay under the source.
func (f *Forest) Duplicate(id, newParentID string) (*types.Page, error) {
	src := f.pages[id]
	if src == nil {
		return nil, fmt.Errorf("duplicate %s: %w", id, ErrNotFound)
	}
	if newParentID != "" && f.pages[newParentID] == nil {
		return nil, fmt.Errorf("duplicate under %s: %w", newParentID, ErrNotFound)
	}
	cp := src.Clone()
	cp.ID = f.ids.NewID()
	cp.ParentID = newParentID
	cp.Title += CopySuffix
	f.insert(cp)
	return cp, nil
}

// Children returns the live pages whose parent is id, in document order.
func (f *Forest) Children(id string) []*types.Page {
	var out []*types.Page
	for _, pid := range f.order {
		if p := f.pages[pid]; p.ParentID == id {
			out = append(out, p)
		}
	}
	return out
}

// Ancestors returns the parent chain of a page, nearest first.
func (f *Forest) Ancestors(id string) []*types.Page {
	p := f.pages[id]
	if p == nil {
		return nil
	}
	var out []*types.Page
	seen := map[string]bool{id: true}
	for p.ParentID != "" && !seen[p.ParentID] {
		parent := f.pages[p.ParentID]
		if parent == nil {
			break
		}
		seen[parent.ID] = true
		out = append(out, parent)
		p = parent
	}
	return out
}

// Depth returns the number of ancestors of a page.
func (f *Forest) Depth(id string) int {
	return len(f.Ancestors(id))
}

// subtree returns id and every live descendant.
func (f *Forest) subtree(id string) []string {
	out := []string{id}
	for i := 0; i < len(out); i++ {
		for _, c := range f.Children(out[i]) {
			out = append(out, c.ID)
		}
	}
	return out
}

func (f *Forest) insert(p *types.Page) {
	f.pages[p.ID] = p
	f.order = append(f.order, p.ID)
}

func (f *Forest) remove(id string) {
	delete(f.pages, id)
	for i, pid := range f.order {
		if pid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			return
		}
	}
}
