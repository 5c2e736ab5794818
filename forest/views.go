package forest

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/skridlevsky/outliner/types"
)

// SortByTitle orders pages by lower-cased title with a locale-aware collator.
// Empty titles sort as the empty string. Equal keys keep their input order.
func SortByTitle(pages []*types.Page) {
	c := collate.New(language.Und)
	sort.SliceStable(pages, func(i, j int) bool {
		return c.CompareString(pages[i].SortKey(), pages[j].SortKey()) < 0
	})
}

func sorted(pages []*types.Page, mode types.SortMode) []*types.Page {
	if mode == types.SortTitle {
		SortByTitle(pages)
	}
	return pages
}

// Favorites returns the favorite pages, in document order or by title.
func (f *Forest) Favorites(mode types.SortMode) []*types.Page {
	var out []*types.Page
	for _, p := range f.Pages() {
		if p.Favorite {
			out = append(out, p)
		}
	}
	return sorted(out, mode)
}

// TopLevel returns the pages without a parent, in document order or by title.
func (f *Forest) TopLevel(mode types.SortMode) []*types.Page {
	return sorted(f.Children(""), mode)
}

// Node is one entry of the sidebar tree. ChildCount counts direct children,
// including those hidden by collapse.
type Node struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Icon       string  `json:"icon"`
	Favorite   bool    `json:"favorite,omitempty"`
	Collapsed  bool    `json:"collapsed,omitempty"`
	ChildCount int     `json:"childCount"`
	Children   []*Node `json:"children,omitempty"`
}

// Tree builds the sidebar tree of top-level pages ordered by mode. Children
// of a collapsed page are omitted unless expandAll is set.
func (f *Forest) Tree(mode types.SortMode, expandAll bool) []*Node {
	var out []*Node
	for _, p := range f.TopLevel(mode) {
		out = append(out, f.node(p, expandAll, map[string]bool{}))
	}
	return out
}

func (f *Forest) node(p *types.Page, expandAll bool, seen map[string]bool) *Node {
	seen[p.ID] = true
	children := f.Children(p.ID)
	n := &Node{
		ID:         p.ID,
		Title:      p.DisplayTitle(),
		Icon:       p.DisplayIcon(),
		Favorite:   p.Favorite,
		Collapsed:  p.SidebarCollapsed,
		ChildCount: len(children),
	}
	if p.SidebarCollapsed && !expandAll {
		return n
	}
	for _, c := range children {
		if seen[c.ID] {
			continue
		}
		n.Children = append(n.Children, f.node(c, expandAll, seen))
	}
	return n
}

// Breadcrumbs returns the display titles from the top-level ancestor down to the page.
func (f *Forest) Breadcrumbs(id string) []string {
	p := f.pages[id]
	if p == nil {
		return nil
	}
	anc := f.Ancestors(id)
	out := make([]string, 0, len(anc)+1)
	for i := len(anc) - 1; i >= 0; i-- {
		out = append(out, anc[i].DisplayTitle())
	}
	return append(out, p.DisplayTitle())
}

// BreadcrumbPath joins Breadcrumbs with " / ".
func (f *Forest) BreadcrumbPath(id string) string {
	return strings.Join(f.Breadcrumbs(id), " / ")
}
