package types

import "strings"

// UntitledTitle is shown wherever a page has an empty title. It is never stored.
const UntitledTitle = "Untitled"

// DefaultIcon is assigned to newly created pages.
const DefaultIcon = "📄"

// Font selects the typeface a page is rendered with.
type Font string

const (
	FontDefault Font = "default"
	FontSerif   Font = "serif"
	FontMono    Font = "mono"
)

// Valid reports whether f is one of the known fonts. The empty value counts as default.
func (f Font) Valid() bool {
	switch f {
	case "", FontDefault, FontSerif, FontMono:
		return true
	}
	return false
}

// Style names a boolean presentation flag on a page.
type Style string

const (
	StyleFullWidth Style = "fullWidth"
	StyleSmallText Style = "smallText"
	StyleTOC       Style = "toc"
)

// Page is a node in the page forest. ParentID is empty for top-level pages.
type Page struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Icon             string  `json:"icon,omitempty"`
	ParentID         string  `json:"parentId,omitempty"`
	Blocks           []Block `json:"blocks"`
	Favorite         bool    `json:"favorite"`
	SidebarCollapsed bool    `json:"sidebarCollapsed"`
	Locked           bool    `json:"locked,omitempty"`
	FullWidth        bool    `json:"fullWidth"`
	SmallText        bool    `json:"smallText"`
	TOC              bool    `json:"toc"`
	Font             Font    `json:"font,omitempty"`
}

// DisplayTitle returns the title, or UntitledTitle when it is empty.
func (p *Page) DisplayTitle() string {
	if p.Title == "" {
		return UntitledTitle
	}
	return p.Title
}

// DisplayIcon returns the icon, or DefaultIcon when none is set.
func (p *Page) DisplayIcon() string {
	if p.Icon == "" {
		return DefaultIcon
	}
	return p.Icon
}

// SortKey is the lower-cased title used for alphabetical ordering.
func (p *Page) SortKey() string {
	return strings.ToLower(p.Title)
}

// Block returns the block with the given id and its index, or nil and -1.
func (p *Page) Block(id string) (*Block, int) {
	if id == "" {
		return nil, -1
	}
	for i := range p.Blocks {
		if p.Blocks[i].ID == id {
			return &p.Blocks[i], i
		}
	}
	return nil, -1
}

// StyleFlag returns a pointer to the flag behind s, or nil for an unknown style.
func (p *Page) StyleFlag(s Style) *bool {
	switch s {
	case StyleFullWidth:
		return &p.FullWidth
	case StyleSmallText:
		return &p.SmallText
	case StyleTOC:
		return &p.TOC
	}
	return nil
}

// Clone returns a deep copy of the page, including nested block payloads.
func (p *Page) Clone() *Page {
	cp := *p
	if p.Blocks != nil {
		cp.Blocks = make([]Block, len(p.Blocks))
		for i := range p.Blocks {
			cp.Blocks[i] = p.Blocks[i].Clone()
		}
	}
	return &cp
}

// ClonePages deep-copies a slice of pages into values.
func ClonePages(pages []*Page) []Page {
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, *p.Clone())
	}
	return out
}

// Section is one of the two sidebar sections that carry their own sort mode.
type Section string

const (
	SectionFavorites Section = "favorites"
	SectionPrivate   Section = "private"
)

// Valid reports whether s names a known section.
func (s Section) Valid() bool {
	return s == SectionFavorites || s == SectionPrivate
}

// SortMode orders the pages of a sidebar section.
type SortMode string

const (
	SortManual SortMode = "manual"
	SortTitle  SortMode = "title"
)

// Toggle flips between manual and title ordering.
func (m SortMode) Toggle() SortMode {
	if m == SortTitle {
		return SortManual
	}
	return SortTitle
}

// SectionSort holds the sort mode of each sidebar section.
type SectionSort struct {
	Favorites SortMode `json:"favorites"`
	Private   SortMode `json:"private"`
}

// DefaultSectionSort starts both sections in manual order.
func DefaultSectionSort() SectionSort {
	return SectionSort{Favorites: SortManual, Private: SortManual}
}

// Mode returns the sort mode of a section.
func (s SectionSort) Mode(section Section) SortMode {
	if section == SectionFavorites {
		return s.Favorites
	}
	return s.Private
}

// Toggle flips the sort mode of one section only.
func (s *SectionSort) Toggle(section Section) SortMode {
	switch section {
	case SectionFavorites:
		s.Favorites = s.Favorites.Toggle()
		return s.Favorites
	default:
		s.Private = s.Private.Toggle()
		return s.Private
	}
}
