package forest

import "github.com/skridlevsky/outliner/types"

// Repairs counts the fixes Load applied to a stored snapshot.
type Repairs struct {
	DuplicateIDs    int `json:"duplicateIds"`
	DanglingParents int `json:"danglingParents"`
	Cycles          int `json:"cycles"`
	DanglingRefs    int `json:"danglingRefs"`
}

// Any reports whether Load changed anything.
func (r Repairs) Any() bool {
	return r != Repairs{}
}

// Load builds a forest from stored pages and trash, restoring the forest
// invariants: ids are unique across pages and trash (later duplicates are
// dropped), live parents exist (dangling parents become top-level), the parent
// relation is acyclic (the page closing a cycle is detached), and page blocks
// only reference live pages.
func Load(pages, trash []types.Page, opts ...Option) (*Forest, Repairs) {
	f := New(opts...)
	var r Repairs

	seen := make(map[string]bool, len(pages)+len(trash))
	for i := range pages {
		p := pages[i].Clone()
		if p.ID == "" || seen[p.ID] {
			r.DuplicateIDs++
			continue
		}
		seen[p.ID] = true
		f.insert(p)
	}
	for i := range trash {
		p := trash[i].Clone()
		if p.ID == "" || seen[p.ID] {
			r.DuplicateIDs++
			continue
		}
		seen[p.ID] = true
		f.trash = append(f.trash, p)
	}

	for _, p := range f.Pages() {
		if p.ParentID != "" && f.pages[p.ParentID] == nil {
			p.ParentID = ""
			r.DanglingParents++
		}
	}

	for _, p := range f.Pages() {
		if f.inCycle(p.ID) {
			p.ParentID = ""
			r.Cycles++
		}
	}

	for _, p := range f.Pages() {
		kept := p.Blocks[:0]
		for _, b := range p.Blocks {
			if ref := b.PageRef(); ref != "" && f.pages[ref] == nil {
				r.DanglingRefs++
				continue
			}
			kept = append(kept, b)
		}
		p.Blocks = kept
	}
	return f, r
}

// inCycle reports whether walking up from id returns to id.
func (f *Forest) inCycle(id string) bool {
	cur := f.pages[id].ParentID
	for steps := 0; cur != "" && steps <= len(f.order); steps++ {
		if cur == id {
			return true
		}
		p := f.pages[cur]
		if p == nil {
			return false
		}
		cur = p.ParentID
	}
	return false
}
