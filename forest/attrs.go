package forest

import (
	"fmt"

	"github.com/skridlevsky/outliner/types"
)

func (f *Forest) live(id string) (*types.Page, error) {
	p := f.pages[id]
	if p == nil {
		return nil, fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Rename sets a page title. Locked pages refuse with ErrLocked.
func (f *Forest) Rename(id, title string) error {
	p, err := f.live(id)
	if err != nil {
		return err
	}
	if p.Locked {
		return ErrLocked
	}
	p.Title = title
	return nil
}

// SetIcon replaces a page icon.
func (f *Forest) SetIcon(id, icon string) error {
	p, err := f.live(id)
	if err != nil {
		return err
	}
	p.Icon = icon
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (f *Forest) ToggleFavorite(id string) (bool, error) {
	p, err := f.live(id)
	if err != nil {
		return false, err
	}
	p.Favorite = !p.Favorite
	return p.Favorite, nil
}

// SetFavorite sets the favorite flag.
func (f *Forest) SetFavorite(id string, favorite bool) error {
	p, err := f.live(id)
	if err != nil {
		return err
	}
	p.Favorite = favorite
	return nil
}

// ToggleSidebarCollapsed flips whether a page's children are hidden in the sidebar.
func (f *Forest) ToggleSidebarCollapsed(id string) (bool, error) {
	p, err := f.live(id)
	if err != nil {
		return false, err
	}
	p.SidebarCollapsed = !p.SidebarCollapsed
	return p.SidebarCollapsed, nil
}

// ToggleStyle flips one of the fullWidth, smallText or toc flags.
func (f *Forest) ToggleStyle(id string, style types.Style) (bool, error) {
	p, err := f.live(id)
	if err != nil {
		return false, err
	}
	flag := p.StyleFlag(style)
	if flag == nil {
		return false, fmt.Errorf("style %q: %w", style, ErrInvalid)
	}
	*flag = !*flag
	return *flag, nil
}

// SetFont sets the page typeface.
func (f *Forest) SetFont(id string, font types.Font) error {
	p, err := f.live(id)
	if err != nil {
		return err
	}
	if !font.Valid() {
		return fmt.Errorf("font %q: %w", font, ErrInvalid)
	}
	p.Font = font
	return nil
}

// ToggleLocked flips the lock and returns the new value.
func (f *Forest) ToggleLocked(id string) (bool, error) {
	p, err := f.live(id)
	if err != nil {
		return false, err
	}
	p.Locked = !p.Locked
	return p.Locked, nil
}
