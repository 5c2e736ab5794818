package store

import (
	"context"
	"fmt"

	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/search"
	"github.com/skridlevsky/outliner/types"
)

// CreatePage adds a page under parentID, or at the top level when it is
// empty. A new top-level page becomes the active page.
func (s *Store) CreatePage(ctx context.Context, parentID string) (types.Page, error) {
	var out types.Page
	err := s.mutate(ctx, "create_page", func() error {
		p, err := s.forest.CreatePage(parentID)
		if err != nil {
			return err
		}
		if parentID == "" {
			s.activeID = p.ID
		}
		out = *p.Clone()
		return nil
	})
	return out, err
}

// CreateFavoritePage adds a top-level favorite page and makes it active.
func (s *Store) CreateFavoritePage(ctx context.Context) (types.Page, error) {
	var out types.Page
	err := s.mutate(ctx, "create_favorite_page", func() error {
		p, err := s.forest.CreatePage("")
		if err != nil {
			return err
		}
		p.Favorite = true
		s.activeID = p.ID
		out = *p.Clone()
		return nil
	})
	return out, err
}

// NewPage describes a page to create in one step.
type NewPage struct {
	ParentID string
	Title    string
	Icon     string
	Favorite bool
	// Blocks become text blocks replacing the initial empty one.
	Blocks []string
}

// AddPage creates a page and fills in its title, icon and text content in a
// single save. It does not change the active page.
func (s *Store) AddPage(ctx context.Context, np NewPage) (types.Page, error) {
	var out types.Page
	err := s.mutate(ctx, "add_page", func() error {
		p, err := s.forest.CreatePage(np.ParentID)
		if err != nil {
			return err
		}
		p.Title = np.Title
		if np.Icon != "" {
			p.Icon = np.Icon
		}
		p.Favorite = np.Favorite
		if len(np.Blocks) > 0 {
			p.Blocks = p.Blocks[:0]
			for _, content := range np.Blocks {
				b := types.NewBlock(s.ids.NewID(), types.TypeText)
				b.Content = content
				p.Blocks = append(p.Blocks, b)
			}
		}
		out = *p.Clone()
		return nil
	})
	return out, err
}

// TrashPage moves a page and its descendants to the trash. When the active
// page is among them the first remaining page becomes active. It returns the
// trashed ids; a missing page trashes nothing.
func (s *Store) TrashPage(ctx context.Context, id string) ([]string, error) {
	var trashed []string
	err := s.mutate(ctx, "trash_page", func() error {
		var err error
		trashed, err = s.forest.MoveToTrash(id)
		return err
	})
	return trashed, err
}

// MovePage reparents a page; an empty newParentID moves it to the top level.
func (s *Store) MovePage(ctx context.Context, id, newParentID string) error {
	return s.mutate(ctx, "move_page", func() error {
		return s.forest.Reparent(id, newParentID)
	})
}

// DuplicatePage copies a page's content next to it, under the same parent.
func (s *Store) DuplicatePage(ctx context.Context, id string) (types.Page, error) {
	var out types.Page
	err := s.mutate(ctx, "duplicate_page", func() error {
		src, err := s.page(id)
		if err != nil {
			return err
		}
		cp, err := s.forest.Duplicate(id, src.ParentID)
		if err != nil {
			return err
		}
		out = *cp.Clone()
		return nil
	})
	return out, err
}

// Rename sets a page title.
func (s *Store) Rename(ctx context.Context, id, title string) error {
	return s.mutate(ctx, "rename_page", func() error {
		return s.forest.Rename(id, title)
	})
}

// SetIcon replaces a page icon.
func (s *Store) SetIcon(ctx context.Context, id, icon string) error {
	return s.mutate(ctx, "set_icon", func() error {
		return s.forest.SetIcon(id, icon)
	})
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var v bool
	err := s.mutate(ctx, "toggle_favorite", func() error {
		var err error
		v, err = s.forest.ToggleFavorite(id)
		return err
	})
	return v, err
}

// ToggleSidebarCollapsed flips whether the page's children are shown in the tree.
func (s *Store) ToggleSidebarCollapsed(ctx context.Context, id string) (bool, error) {
	var v bool
	err := s.mutate(ctx, "toggle_collapsed", func() error {
		var err error
		v, err = s.forest.ToggleSidebarCollapsed(id)
		return err
	})
	return v, err
}

// ToggleStyle flips fullWidth, smallText or toc.
func (s *Store) ToggleStyle(ctx context.Context, id string, style types.Style) (bool, error) {
	var v bool
	err := s.mutate(ctx, "toggle_style", func() error {
		var err error
		v, err = s.forest.ToggleStyle(id, style)
		return err
	})
	return v, err
}

// SetFont sets the page typeface.
func (s *Store) SetFont(ctx context.Context, id string, font types.Font) error {
	return s.mutate(ctx, "set_font", func() error {
		return s.forest.SetFont(id, font)
	})
}

// ToggleLocked flips the page lock and returns the new value.
func (s *Store) ToggleLocked(ctx context.Context, id string) (bool, error) {
	var v bool
	err := s.mutate(ctx, "toggle_lock", func() error {
		var err error
		v, err = s.forest.ToggleLocked(id)
		return err
	})
	return v, err
}

// SetActivePage switches the active page. An unknown id selects the first page.
func (s *Store) SetActivePage(ctx context.Context, id string) (types.Page, error) {
	var out types.Page
	err := s.mutate(ctx, "set_active_page", func() error {
		s.activeID = id
		s.repairActiveLocked()
		out = *s.forest.Page(s.activeID).Clone()
		return nil
	})
	return out, err
}

// ToggleSectionSort flips the sort mode of one sidebar section. Sort modes
// are not persisted.
func (s *Store) ToggleSectionSort(section types.Section) (types.SortMode, error) {
	if !section.Valid() {
		return "", fmt.Errorf("section %q: %w", section, forest.ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sectionSort.Toggle(section), nil
}

// SectionSort returns the sort mode of both sections.
func (s *Store) SectionSort() types.SectionSort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sectionSort
}

// NewSearch opens a search session over the current live pages. Observers
// hear about its result and cursor changes.
func (s *Store) NewSearch() *search.Session {
	s.mu.Lock()
	pages, _ := s.forest.Snapshot()
	observers := s.observers
	s.mu.Unlock()

	return search.NewSession(pages, search.WithNotify(func(results []search.Result, selected int) {
		for _, o := range observers {
			o.SearchResultsChanged(results, selected)
		}
	}))
}
