package store

import (
	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/fuzzy"
	"github.com/skridlevsky/outliner/search"
	"github.com/skridlevsky/outliner/types"
)

// Pages returns copies of the live pages in document order.
func (s *Store) Pages() []types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages, _ := s.forest.Snapshot()
	return pages
}

// Trash returns copies of the trashed pages, oldest first.
func (s *Store) Trash() []types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, trash := s.forest.Snapshot()
	return trash
}

// Page returns a copy of a live page.
func (s *Store) Page(id string) (types.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.forest.Page(id)
	if p == nil {
		return types.Page{}, false
	}
	return *p.Clone(), true
}

// PageCount returns the number of live pages.
func (s *Store) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Len()
}

// ActivePage returns a copy of the active page.
func (s *Store) ActivePage() types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.forest.Page(s.activeID).Clone()
}

// ActivePageID returns the active page id.
func (s *Store) ActivePageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Children returns copies of a page's direct children.
func (s *Store) Children(id string) []types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.ClonePages(s.forest.Children(id))
}

// Favorites returns the favorites section in its current sort mode.
func (s *Store) Favorites() []types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.ClonePages(s.forest.Favorites(s.sectionSort.Favorites))
}

// TopLevel returns the private section in its current sort mode.
func (s *Store) TopLevel() []types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.ClonePages(s.forest.TopLevel(s.sectionSort.Private))
}

// Tree returns the sidebar tree in the private section's sort mode.
func (s *Store) Tree(expandAll bool) []*forest.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Tree(s.sectionSort.Private, expandAll)
}

// Breadcrumbs returns the display titles from the top-level ancestor to the page.
func (s *Store) Breadcrumbs(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Breadcrumbs(id)
}

// Depth returns how many ancestors a page has.
func (s *Store) Depth(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Depth(id)
}

// MoveCandidates lists the pages a page may be moved under whose titles
// contain query, and whether moving to the top level is offered.
func (s *Store) MoveCandidates(id, query string) ([]types.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages, topLevel := search.MoveCandidates(s.forest, id, query)
	return types.ClonePages(pages), topLevel
}

// SearchBlocks fuzzy-matches query against every block's searchable text.
func (s *Store) SearchBlocks(query string, limit int) []fuzzy.BlockMatch {
	s.mu.Lock()
	var candidates []fuzzy.Candidate
	for _, p := range s.forest.Pages() {
		for i := range p.Blocks {
			b := &p.Blocks[i]
			if b.Opaque() {
				continue
			}
			candidates = append(candidates, fuzzy.Candidate{PageID: p.ID, BlockID: b.ID, Content: search.BlockText(b)})
		}
	}
	s.mu.Unlock()

	matches := fuzzy.FindBlocks(query, candidates)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// SearchText finds blocks containing every word of query.
func (s *Store) SearchText(query string, limit int) []search.Hit {
	return s.text.Search(query, limit)
}
