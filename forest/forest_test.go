package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skridlevsky/outliner/ident"
	"github.com/skridlevsky/outliner/types"
)

func newForest(t *testing.T) *Forest {
	t.Helper()
	return New(WithIDs(ident.NewSequence("id")))
}

// abc builds A (top level), B under A, C under B.
func abc(t *testing.T) (*Forest, *types.Page, *types.Page, *types.Page) {
	t.Helper()
	f := newForest(t)
	a, err := f.CreatePage("")
	require.NoError(t, err)
	b, err := f.CreatePage(a.ID)
	require.NoError(t, err)
	c, err := f.CreatePage(b.ID)
	require.NoError(t, err)
	a.Title, b.Title, c.Title = "A", "B", "C"
	return f, a, b, c
}

func refs(p *types.Page) []string {
	var out []string
	for _, b := range p.Blocks {
		if ref := b.PageRef(); ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

func ids(pages []*types.Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.ID)
	}
	return out
}

func TestCreatePage(t *testing.T) {
	t.Run("top level", func(t *testing.T) {
		f := newForest(t)
		p, err := f.CreatePage("")
		require.NoError(t, err)

		assert.Equal(t, "", p.ParentID)
		assert.Equal(t, types.DefaultIcon, p.Icon)
		assert.Equal(t, "", p.Title)
		require.Len(t, p.Blocks, 1)
		assert.Equal(t, types.TypeText, p.Blocks[0].Type)
		assert.Equal(t, "", p.Blocks[0].Content)
		assert.Equal(t, 1, f.Len())
	})

	t.Run("child links into parent and expands it", func(t *testing.T) {
		f := newForest(t)
		parent, _ := f.CreatePage("")
		parent.SidebarCollapsed = true

		child, err := f.CreatePage(parent.ID)
		require.NoError(t, err)

		assert.Equal(t, parent.ID, child.ParentID)
		assert.False(t, parent.SidebarCollapsed)
		require.Len(t, parent.Blocks, 2)
		last := parent.Blocks[1]
		assert.Equal(t, types.TypePage, last.Type)
		assert.Equal(t, child.ID, last.PageRef())
	})

	t.Run("missing parent refused", func(t *testing.T) {
		f := newForest(t)
		_, err := f.CreatePage("ghost")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 0, f.Len())
	})
}

func TestMoveToTrash(t *testing.T) {
	t.Run("cascade is post-order and strips references", func(t *testing.T) {
		f, a, b, c := abc(t)
		other, _ := f.CreatePage("")
		other.Blocks = append(other.Blocks, types.NewPageRef("r1", c.ID), types.NewPageRef("r2", a.ID))

		trashed, err := f.MoveToTrash(a.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{c.ID, b.ID, a.ID}, trashed)
		assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids(f.Trash()))
		assert.Equal(t, []string{other.ID}, ids(f.Pages()))
		assert.Empty(t, refs(other))
		assert.Len(t, other.Blocks, 1)
	})

	t.Run("trashed parent keeps blocks but loses child refs", func(t *testing.T) {
		f, a, b, _ := abc(t)
		f.CreatePage("")

		_, err := f.MoveToTrash(a.ID)
		require.NoError(t, err)

		trash := f.Trash()
		gotA := trash[len(trash)-1]
		assert.Equal(t, a.ID, gotA.ID)
		assert.NotContains(t, refs(gotA), b.ID)
		assert.Equal(t, "", gotA.ParentID)
	})

	t.Run("subtree keeps ancestors alive", func(t *testing.T) {
		f, a, b, c := abc(t)

		trashed, err := f.MoveToTrash(b.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{c.ID, b.ID}, trashed)
		assert.Equal(t, []string{a.ID}, ids(f.Pages()))
		assert.Empty(t, refs(a))
	})

	t.Run("last page refused", func(t *testing.T) {
		f := newForest(t)
		root, _ := f.CreatePage("")

		_, err := f.MoveToTrash(root.ID)
		require.ErrorIs(t, err, ErrLastPage)
		assert.Equal(t, 1, f.Len())
		assert.Empty(t, f.Trash())
	})

	t.Run("cascade covering every page refused", func(t *testing.T) {
		f, a, _, _ := abc(t)

		_, err := f.MoveToTrash(a.ID)
		require.ErrorIs(t, err, ErrLastPage)
		assert.Equal(t, 3, f.Len())
	})

	t.Run("missing page is a no-op", func(t *testing.T) {
		f, _, _, _ := abc(t)
		trashed, err := f.MoveToTrash("ghost")
		require.NoError(t, err)
		assert.Nil(t, trashed)
		assert.Equal(t, 3, f.Len())
	})
}

func TestReparent(t *testing.T) {
	t.Run("cycle through grandchild refused", func(t *testing.T) {
		f, a, _, c := abc(t)
		err := f.Reparent(a.ID, c.ID)
		require.ErrorIs(t, err, ErrCycle)
		assert.Equal(t, "", a.ParentID)
	})

	t.Run("self refused", func(t *testing.T) {
		f, a, _, _ := abc(t)
		require.ErrorIs(t, f.Reparent(a.ID, a.ID), ErrCycle)
	})

	t.Run("to top level keeps grandchildren", func(t *testing.T) {
		f, _, b, c := abc(t)
		require.NoError(t, f.Reparent(b.ID, ""))
		assert.Equal(t, "", b.ParentID)
		assert.Equal(t, b.ID, c.ParentID)
	})

	t.Run("expands the new parent", func(t *testing.T) {
		f, a, _, c := abc(t)
		d, _ := f.CreatePage("")
		d.SidebarCollapsed = true
		require.NoError(t, f.Reparent(c.ID, d.ID))
		assert.Equal(t, d.ID, c.ParentID)
		assert.False(t, d.SidebarCollapsed)
		assert.False(t, f.IsDescendant(a.ID, c.ID))
	})

	t.Run("missing ids", func(t *testing.T) {
		f, a, _, _ := abc(t)
		require.ErrorIs(t, f.Reparent("ghost", a.ID), ErrNotFound)
		require.ErrorIs(t, f.Reparent(a.ID, "ghost"), ErrNotFound)
	})
}

func TestReparentKeepsForestAcyclic(t *testing.T) {
	f := newForest(t)
	var all []*types.Page
	for i := 0; i < 6; i++ {
		p, _ := f.CreatePage("")
		all = append(all, p)
	}
	// Try every ordered pair; whatever succeeds must leave no page its own ancestor.
	for _, p := range all {
		for _, q := range all {
			if err := f.Reparent(p.ID, q.ID); err == nil {
				assert.False(t, f.IsDescendant(p.ID, q.ID) && f.IsDescendant(q.ID, p.ID) && p.ID != q.ID)
			}
			for _, x := range all {
				assert.False(t, f.inCycle(x.ID), "cycle through %s", x.ID)
			}
		}
	}
}

func TestIsDescendant(t *testing.T) {
	f, a, b, c := abc(t)
	assert.True(t, f.IsDescendant(a.ID, a.ID))
	assert.True(t, f.IsDescendant(a.ID, c.ID))
	assert.True(t, f.IsDescendant(b.ID, c.ID))
	assert.False(t, f.IsDescendant(c.ID, a.ID))
	assert.False(t, f.IsDescendant(a.ID, "ghost"))
}

func TestDuplicate(t *testing.T) {
	f, a, b, c := abc(t)
	b.Blocks = append(b.Blocks, types.Block{ID: "tbl", Type: types.TypeTable, Body: &types.TableBody{Rows: types.DefaultTableRows()}})

	cp, err := f.Duplicate(b.ID, b.ParentID)
	require.NoError(t, err)

	assert.NotEqual(t, b.ID, cp.ID)
	assert.Equal(t, "B (Copy)", cp.Title)
	assert.Equal(t, a.ID, cp.ParentID)
	assert.Len(t, cp.Blocks, len(b.Blocks))

	cp.Blocks[len(cp.Blocks)-1].Table().Rows[0][0] = "changed"
	assert.Equal(t, "Name", b.Blocks[len(b.Blocks)-1].Table().Rows[0][0])

	// Descendants are not duplicated and stay under the original.
	assert.Equal(t, b.ID, c.ParentID)
	assert.Empty(t, f.Children(cp.ID))
	assert.Equal(t, 4, f.Len())

	_, err = f.Duplicate("ghost", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAncestorsAndBreadcrumbs(t *testing.T) {
	f, a, b, c := abc(t)
	b.Title = ""

	assert.Equal(t, []string{b.ID, a.ID}, ids(f.Ancestors(c.ID)))
	assert.Equal(t, []string{"A", types.UntitledTitle, "C"}, f.Breadcrumbs(c.ID))
	assert.Equal(t, "A / Untitled / C", f.BreadcrumbPath(c.ID))
	assert.Equal(t, 2, f.Depth(c.ID))
	assert.Nil(t, f.Breadcrumbs("ghost"))
}

func TestAttributes(t *testing.T) {
	f, a, _, _ := abc(t)

	fav, err := f.ToggleFavorite(a.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	on, err := f.ToggleStyle(a.ID, types.StyleFullWidth)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, a.FullWidth)

	_, err = f.ToggleStyle(a.ID, "wide")
	require.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, f.SetFont(a.ID, types.FontMono))
	assert.Equal(t, types.FontMono, a.Font)
	require.ErrorIs(t, f.SetFont(a.ID, "comic"), ErrInvalid)

	locked, err := f.ToggleLocked(a.ID)
	require.NoError(t, err)
	assert.True(t, locked)
	require.ErrorIs(t, f.Rename(a.ID, "new"), ErrLocked)
	assert.Equal(t, "A", a.Title)

	require.NoError(t, f.SetIcon(a.ID, "🚀"))
	assert.Equal(t, "🚀", a.Icon)

	require.ErrorIs(t, f.Rename("ghost", "x"), ErrNotFound)
}

func TestSectionViews(t *testing.T) {
	f := newForest(t)
	titles := []string{"banana", "", "Apple", "cherry"}
	for _, title := range titles {
		p, _ := f.CreatePage("")
		p.Title = title
		p.Favorite = title != "cherry"
	}

	manual := f.TopLevel(types.SortManual)
	assert.Equal(t, "banana", manual[0].Title)

	byTitle := f.TopLevel(types.SortTitle)
	var got []string
	for _, p := range byTitle {
		got = append(got, p.Title)
	}
	assert.Equal(t, []string{"", "Apple", "banana", "cherry"}, got)

	favs := f.Favorites(types.SortTitle)
	require.Len(t, favs, 3)
	assert.Equal(t, "", favs[0].Title)
	assert.Equal(t, "banana", favs[2].Title)
}

func TestTree(t *testing.T) {
	f, a, b, c := abc(t)
	b.SidebarCollapsed = true

	tree := f.Tree(types.SortManual, false)
	require.Len(t, tree, 1)
	assert.Equal(t, a.ID, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, 1, tree[0].Children[0].ChildCount)
	assert.Empty(t, tree[0].Children[0].Children)

	full := f.Tree(types.SortManual, true)
	assert.Equal(t, c.ID, full[0].Children[0].Children[0].ID)
}

func TestLoadRepairs(t *testing.T) {
	pages := []types.Page{
		{ID: "a", Title: "A", ParentID: "c", Blocks: []types.Block{types.NewPageRef("r1", "b"), types.NewPageRef("r2", "gone")}},
		{ID: "b", Title: "B", ParentID: "a"},
		{ID: "c", Title: "C", ParentID: "b"},
		{ID: "d", Title: "D", ParentID: "missing"},
		{ID: "a", Title: "dup"},
	}
	trash := []types.Page{{ID: "t1"}, {ID: "d"}}

	f, r := Load(pages, trash)

	assert.Equal(t, Repairs{DuplicateIDs: 2, DanglingParents: 1, Cycles: 1, DanglingRefs: 1}, r)
	assert.True(t, r.Any())
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(f.Pages()))
	assert.Equal(t, []string{"t1"}, ids(f.Trash()))
	assert.Equal(t, "", f.Page("a").ParentID)
	assert.Equal(t, "", f.Page("d").ParentID)
	assert.Equal(t, []string{"b"}, refs(f.Page("a")))
	for _, p := range f.Pages() {
		assert.False(t, f.inCycle(p.ID))
	}

	// Load copies its input.
	pages[1].Title = "mutated"
	assert.Equal(t, "B", f.Page("b").Title)
}

func TestLoadClean(t *testing.T) {
	_, r := Load([]types.Page{{ID: "x"}}, nil)
	assert.False(t, r.Any())
}
