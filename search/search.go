// Package search ranks a snapshot of pages against a fuzzy title query and
// keeps a circular selection cursor over the results.
package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/fuzzy"
	"github.com/skridlevsky/outliner/types"
)

// Result is one ranked page. Score is fuzzy.Infinite for unscored results.
type Result struct {
	Page  types.Page `json:"page"`
	Score int        `json:"score"`
}

// NotifyFunc receives the current results and selected index after each change.
type NotifyFunc func(results []Result, selected int)

// Session is a point-in-time view of the live pages. It does not see
// mutations made after it was created.
type Session struct {
	mu       sync.RWMutex
	snapshot []Result
	results  []Result
	selected int
	notify   NotifyFunc
}

// Option configures a Session.
type Option func(*Session)

// WithNotify registers a callback fired when results or the cursor change.
func WithNotify(fn NotifyFunc) Option {
	return func(s *Session) { s.notify = fn }
}

// NewSession snapshots pages sorted by lower-cased title. Pages with equal
// keys keep their input order. The initial results are the whole snapshot.
func NewSession(pages []types.Page, opts ...Option) *Session {
	ptrs := make([]*types.Page, len(pages))
	for i := range pages {
		ptrs[i] = pages[i].Clone()
	}
	forest.SortByTitle(ptrs)

	s := &Session{snapshot: make([]Result, len(ptrs))}
	for i, p := range ptrs {
		s.snapshot[i] = Result{Page: *p, Score: fuzzy.Infinite}
	}
	s.results = s.snapshot
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query re-ranks the snapshot. A blank query restores the full snapshot and
// leaves the cursor where it is. Otherwise titles scoring at or above
// fuzzy.Threshold are dropped, the rest are stable-sorted by score and the
// cursor returns to the first result.
func (s *Session) Query(q string) []Result {
	q = strings.ToLower(strings.TrimSpace(q))

	s.mu.Lock()
	if q == "" {
		s.results = s.snapshot
	} else {
		var ranked []Result
		for _, r := range s.snapshot {
			score := fuzzy.Score(r.Page.Title, q)
			if !fuzzy.Matches(score) {
				continue
			}
			r.Score = score
			ranked = append(ranked, r)
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score < ranked[j].Score })
		s.results = ranked
		s.selected = 0
	}
	results, selected := s.results, s.selected
	s.mu.Unlock()

	s.fire(results, selected)
	return results
}

// Results returns the current results.
func (s *Session) Results() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// SelectedIndex returns the cursor position.
func (s *Session) SelectedIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Selected returns the result under the cursor, if any.
func (s *Session) Selected() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected < 0 || s.selected >= len(s.results) {
		return Result{}, false
	}
	return s.results[s.selected], true
}

// Next advances the cursor, wrapping to the first result.
func (s *Session) Next() int { return s.move(1) }

// Prev moves the cursor back, wrapping to the last result.
func (s *Session) Prev() int { return s.move(-1) }

func (s *Session) move(delta int) int {
	s.mu.Lock()
	n := len(s.results)
	if n == 0 {
		sel := s.selected
		s.mu.Unlock()
		return sel
	}
	s.selected = ((s.selected+delta)%n + n) % n
	results, selected := s.results, s.selected
	s.mu.Unlock()

	s.fire(results, selected)
	return selected
}

func (s *Session) fire(results []Result, selected int) {
	if s.notify != nil {
		s.notify(results, selected)
	}
}

// MoveCandidates lists the pages id could be moved under: every live page
// except id and its descendants whose display title contains query,
// case-insensitively. topLevel reports whether "move to top level" applies,
// which is when the page currently has a parent.
func MoveCandidates(f *forest.Forest, id, query string) (candidates []*types.Page, topLevel bool) {
	page := f.Page(id)
	if page == nil {
		return nil, false
	}
	q := strings.ToLower(query)
	for _, p := range f.Pages() {
		if f.IsDescendant(id, p.ID) {
			continue
		}
		if strings.Contains(strings.ToLower(p.DisplayTitle()), q) {
			candidates = append(candidates, p)
		}
	}
	return candidates, page.ParentID != ""
}
