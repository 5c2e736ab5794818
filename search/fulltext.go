package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/skridlevsky/outliner/parser"
	"github.com/skridlevsky/outliner/types"
)

// TextIndex is an inverted index from lower-cased terms to the blocks that
// contain them. It covers the text a block shows: content, toggle details,
// captions and table cells.
type TextIndex struct {
	mu sync.RWMutex
	// term → blocks containing it
	index map[string][]blockRef
	// page id → terms indexed for that page
	pageTerms map[string]map[string]bool
}

type blockRef struct {
	pageID  string
	blockID string
	text    string
}

// Hit is a block matching every term of a keyword query.
type Hit struct {
	PageID  string `json:"pageId"`
	BlockID string `json:"blockId"`
	Text    string `json:"text"`
	Hits    int    `json:"hits"`
}

// NewTextIndex returns an empty index.
func NewTextIndex() *TextIndex {
	return &TextIndex{
		index:     make(map[string][]blockRef),
		pageTerms: make(map[string]map[string]bool),
	}
}

// BuildFrom replaces the index with the blocks of pages.
func (ti *TextIndex) BuildFrom(pages []types.Page) {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	ti.index = make(map[string][]blockRef)
	ti.pageTerms = make(map[string]map[string]bool)
	for i := range pages {
		ti.indexPageLocked(&pages[i])
	}
}

// ReindexPage drops and re-adds one page.
func (ti *TextIndex) ReindexPage(page *types.Page) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.removePageLocked(page.ID)
	ti.indexPageLocked(page)
}

// RemovePage drops a page from the index.
func (ti *TextIndex) RemovePage(pageID string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.removePageLocked(pageID)
}

// Search returns blocks containing all query terms, most term occurrences
// first. A limit of zero or less means 20.
func (ti *TextIndex) Search(query string, limit int) []Hit {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 20
	}

	// Start from the rarest term.
	rarest := terms[0]
	for _, t := range terms[1:] {
		if len(ti.index[t]) < len(ti.index[rarest]) {
			rarest = t
		}
	}
	candidates := ti.index[rarest]
	if len(candidates) == 0 {
		return nil
	}

	others := make([]map[string]bool, 0, len(terms)-1)
	for _, t := range terms {
		if t == rarest {
			continue
		}
		set := make(map[string]bool, len(ti.index[t]))
		for _, ref := range ti.index[t] {
			set[ref.pageID+"/"+ref.blockID] = true
		}
		others = append(others, set)
	}

	var hits []Hit
	for _, ref := range candidates {
		key := ref.pageID + "/" + ref.blockID
		inAll := true
		for _, set := range others {
			if !set[key] {
				inAll = false
				break
			}
		}
		if inAll {
			hits = append(hits, Hit{
				PageID:  ref.pageID,
				BlockID: ref.blockID,
				Text:    ref.text,
				Hits:    countTermHits(ref.text, terms),
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Hits > hits[j].Hits })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func (ti *TextIndex) indexPageLocked(page *types.Page) {
	terms := make(map[string]bool)
	for i := range page.Blocks {
		b := &page.Blocks[i]
		if b.Opaque() {
			continue
		}
		text := BlockText(b)
		ref := blockRef{pageID: page.ID, blockID: b.ID, text: text}
		seen := make(map[string]bool)
		for _, term := range tokenize(text) {
			if seen[term] {
				continue
			}
			seen[term] = true
			terms[term] = true
			ti.index[term] = append(ti.index[term], ref)
		}
	}
	ti.pageTerms[page.ID] = terms
}

func (ti *TextIndex) removePageLocked(pageID string) {
	terms, ok := ti.pageTerms[pageID]
	if !ok {
		return
	}
	for term := range terms {
		refs := ti.index[term]
		filtered := refs[:0]
		for _, ref := range refs {
			if ref.pageID != pageID {
				filtered = append(filtered, ref)
			}
		}
		if len(filtered) == 0 {
			delete(ti.index, term)
		} else {
			ti.index[term] = filtered
		}
	}
	delete(ti.pageTerms, pageID)
}

// BlockText joins the searchable text of a block.
func BlockText(b *types.Block) string {
	parts := []string{b.Content}
	if t := b.Toggle(); t != nil && t.Details != "" {
		parts = append(parts, t.Details)
	}
	if m := b.Media(); m != nil && m.Caption != "" {
		parts = append(parts, m.Caption)
	}
	if t := b.Table(); t != nil {
		for _, row := range t.Rows {
			for _, cell := range row {
				if cell != "" {
					parts = append(parts, cell)
				}
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// tokenize lower-cases text, drops a leading slash command and splits on
// anything that is not a word character. Single-byte terms are skipped.
func tokenize(text string) []string {
	text = strings.ToLower(parser.StripSlashCommand(text))
	words := strings.FieldsFunc(text, func(r rune) bool { return !isWordChar(r) })
	var terms []string
	for _, w := range words {
		if len(w) >= 2 {
			terms = append(terms, w)
		}
	}
	return terms
}

func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r > 127
}

func countTermHits(text string, terms []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, t := range terms {
		n += strings.Count(lower, t)
	}
	return n
}
