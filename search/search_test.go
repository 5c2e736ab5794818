package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/fuzzy"
	"github.com/skridlevsky/outliner/ident"
	"github.com/skridlevsky/outliner/types"
)

func pages(titles ...string) []types.Page {
	out := make([]types.Page, len(titles))
	for i, title := range titles {
		out[i] = types.Page{ID: title + "-id", Title: title}
	}
	return out
}

func titles(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Page.Title
	}
	return out
}

func TestNewSessionSortsSnapshot(t *testing.T) {
	s := NewSession(pages("Roadmap", "", "alpha", "Beta"))
	assert.Equal(t, []string{"", "alpha", "Beta", "Roadmap"}, titles(s.Results()))
	for _, r := range s.Results() {
		assert.Equal(t, fuzzy.Infinite, r.Score)
	}
}

func TestQuery(t *testing.T) {
	s := NewSession(pages("Project Plan", "Planning", "Groceries", "Plan"))

	got := s.Query("  PLAN ")
	require.NotEmpty(t, got)
	assert.Equal(t, "Plan", got[0].Page.Title)
	assert.Equal(t, 0, got[0].Score)
	assert.NotContains(t, titles(got), "Groceries")
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Equal(t, 0, s.SelectedIndex())
}

func TestQueryStableOnTies(t *testing.T) {
	s := NewSession(pages("abx", "aby", "abz"))
	got := s.Query("ab")
	assert.Equal(t, []string{"abx", "aby", "abz"}, titles(got))
}

func TestEmptyQueryReturnsEverything(t *testing.T) {
	s := NewSession(pages("b", "a", "c"))
	s.Query("a")
	s.Next()

	got := s.Query("   ")
	assert.Equal(t, []string{"a", "b", "c"}, titles(got))
}

func TestEmptyQueryKeepsCursor(t *testing.T) {
	s := NewSession(pages("a", "b", "c"))
	s.Next()
	s.Next()
	s.Query("")
	assert.Equal(t, 2, s.SelectedIndex())
}

func TestCursorWraps(t *testing.T) {
	s := NewSession(pages("a", "b", "c"))

	assert.Equal(t, 2, s.Prev())
	assert.Equal(t, 0, s.Next())
	assert.Equal(t, 1, s.Next())
	assert.Equal(t, 2, s.Next())
	assert.Equal(t, 0, s.Next())

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", sel.Page.Title)
}

func TestCursorOnEmptyResults(t *testing.T) {
	s := NewSession(pages("alpha"))
	s.Query("zzzzzz")
	require.Empty(t, s.Results())

	assert.Equal(t, 0, s.Next())
	assert.Equal(t, 0, s.Prev())
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestNotify(t *testing.T) {
	var calls int
	var last int
	s := NewSession(pages("a", "b"), WithNotify(func(results []Result, selected int) {
		calls++
		last = selected
	}))

	s.Query("a")
	s.Query("")
	s.Next()
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, last)
}

func TestSnapshotIsolation(t *testing.T) {
	in := pages("a")
	s := NewSession(in)
	in[0].Title = "changed"
	assert.Equal(t, "a", s.Results()[0].Page.Title)
}

func TestMoveCandidates(t *testing.T) {
	f := forest.New(forest.WithIDs(ident.NewSequence("p")))
	a, _ := f.CreatePage("")
	b, _ := f.CreatePage(a.ID)
	c, _ := f.CreatePage(b.ID)
	d, _ := f.CreatePage("")
	a.Title, b.Title, c.Title, d.Title = "Alpha", "Beta", "Gamma", ""

	got, top := MoveCandidates(f, b.ID, "")
	assert.True(t, top)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, d.ID, got[1].ID)

	got, top = MoveCandidates(f, a.ID, "untit")
	assert.False(t, top)
	require.Len(t, got, 1)
	assert.Equal(t, d.ID, got[0].ID)

	got, _ = MoveCandidates(f, "ghost", "")
	assert.Nil(t, got)
}
