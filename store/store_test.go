package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skridlevsky/outliner/backend"
	"github.com/skridlevsky/outliner/blocks"
	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/ident"
	"github.com/skridlevsky/outliner/search"
	"github.com/skridlevsky/outliner/types"
)

type recorder struct {
	mu       sync.Mutex
	pages    int
	trash    []types.Page
	active   []string
	searches [][]string
	refused  []string
}

func (r *recorder) PagesChanged(_, trash []types.Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages++
	r.trash = trash
}

func (r *recorder) ActivePageChanged(p types.Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = append(r.active, p.ID)
}

func (r *recorder) SearchResultsChanged(results []search.Result, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, res := range results {
		ids = append(ids, res.Page.ID)
	}
	r.searches = append(r.searches, ids)
}

func (r *recorder) Refused(op string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refused = append(r.refused, op)
}

func openTest(t *testing.T, b backend.Backend, opts ...Option) (*Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithIDs(ident.NewSequence("id")), WithObserver(rec)}, opts...)
	s, err := Open(context.Background(), b, opts...)
	require.NoError(t, err)
	return s, rec
}

func TestOpenSeedsDefaultPage(t *testing.T) {
	mem := backend.NewMemory()
	s, _ := openTest(t, mem)

	pages := s.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, DefaultTitle, pages[0].Title)
	assert.Equal(t, DefaultIcon, pages[0].Icon)
	require.Len(t, pages[0].Blocks, 1)
	assert.Equal(t, types.TypeH1, pages[0].Blocks[0].Type)
	assert.Equal(t, DefaultHeading, pages[0].Blocks[0].Content)
	assert.Equal(t, pages[0].ID, s.ActivePageID())

	assert.True(t, s.LoadReport().SeededDefault)
	assert.Equal(t, 1, mem.Saves(), "seeded state is persisted")
	assert.Equal(t, []string{backend.KeyActivePage, backend.KeyPages, backend.KeyTrash}, mem.StoredKeys())
}

func TestOpenMigratesLegacyBlocks(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	require.NoError(t, mem.Save(ctx, map[string][]byte{
		backend.KeyPages: []byte(`[
			{"id":"p1","title":"Legacy","blocks":["hello",{"type":"todo","content":"x","checked":true},{"id":"k","type":"kanban","lanes":3}]},
			{"id":"p2","title":"Child","parentId":"gone","blocks":[]}
		]`),
		backend.KeyActivePage: []byte(`p2`),
	}))

	s, _ := openTest(t, mem)
	report := s.LoadReport()
	assert.Equal(t, 2, report.MigratedBlocks)
	assert.Equal(t, 1, report.DanglingParents)
	assert.False(t, report.ActiveRepaired, "a raw id is accepted")
	assert.Equal(t, "p2", s.ActivePageID())

	p1, ok := s.Page("p1")
	require.True(t, ok)
	require.Len(t, p1.Blocks, 3)
	assert.Equal(t, types.TypeText, p1.Blocks[0].Type)
	assert.Equal(t, "hello", p1.Blocks[0].Content)
	assert.NotEmpty(t, p1.Blocks[0].ID)
	assert.True(t, p1.Blocks[1].Todo().Checked)
	assert.NotEmpty(t, p1.Blocks[1].ID)
	assert.True(t, p1.Blocks[2].Opaque())

	// The normalized form is stored, and loading it again changes nothing.
	stored, err := mem.Load(ctx, backend.KeyPages)
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"lanes":3`)

	saves := mem.Saves()
	again, _ := openTest(t, mem)
	assert.False(t, again.LoadReport().Changed())
	assert.Equal(t, saves, mem.Saves())
	assert.Equal(t, s.Pages(), again.Pages())
}

func TestSaveKeepsFieldsOutsideTheBlockType(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	require.NoError(t, mem.Save(ctx, map[string][]byte{
		backend.KeyPages: []byte(`[{"id":"p1","title":"Kept","blocks":[
			{"id":"b1","type":"text","content":"was todo","checked":true,"color":"red"},
			{"id":"b2","type":"text","content":"was table","data":[["a","b"]]},
			{"id":"b3","type":"todo","content":"now todo","checked":false,"url":"https://example.com"}
		]}]`),
	}))

	s, _ := openTest(t, mem)
	_, err := s.CreatePage(ctx, "")
	require.NoError(t, err)

	stored, err := mem.Load(ctx, backend.KeyPages)
	require.NoError(t, err)
	var pages []struct {
		ID     string                       `json:"id"`
		Blocks []map[string]json.RawMessage `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(stored, &pages))
	require.Equal(t, "p1", pages[0].ID)
	blocks := pages[0].Blocks
	require.Len(t, blocks, 3)

	assert.JSONEq(t, `true`, string(blocks[0]["checked"]))
	assert.JSONEq(t, `"red"`, string(blocks[0]["color"]))
	assert.JSONEq(t, `[["a","b"]]`, string(blocks[1]["data"]))
	assert.JSONEq(t, `"https://example.com"`, string(blocks[2]["url"]))
	// The todo's own flag still comes from its payload.
	_, ok := blocks[2]["checked"]
	assert.False(t, ok)

	// Kept fields survive a duplicate and another load.
	dup, err := s.DuplicateBlock(ctx, "p1", "b1")
	require.NoError(t, err)
	again, _ := openTest(t, mem)
	p1, ok := again.Page("p1")
	require.True(t, ok)
	got, _ := p1.Block(dup.ID)
	require.NotNil(t, got)
	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+dup.ID+`","type":"text","content":"was todo","checked":true,"color":"red"}`, string(out))
}

func TestBlockOpsIgnoreLegacyElementsWithoutID(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	require.NoError(t, mem.Save(ctx, map[string][]byte{
		backend.KeyPages: []byte(`[{"id":"p1","title":"Legacy","blocks":[42,null,{"id":"b1","type":"text","content":"x"}]}]`),
	}))
	s, _ := openTest(t, mem)

	_, err := s.DeleteBlock(ctx, "p1", "")
	require.NoError(t, err)
	require.NoError(t, s.UpdateBlock(ctx, "p1", "", "clobbered"))

	p1, ok := s.Page("p1")
	require.True(t, ok)
	require.Len(t, p1.Blocks, 3)
	out, err := json.Marshal(p1.Blocks)
	require.NoError(t, err)
	assert.JSONEq(t, `[42,null,{"id":"b1","type":"text","content":"x"}]`, string(out))
}

func TestOpenRepairsActivePage(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	require.NoError(t, mem.Save(ctx, map[string][]byte{
		backend.KeyPages:      []byte(`[{"id":"a","title":"A","blocks":[]},{"id":"b","title":"B","blocks":[]}]`),
		backend.KeyTrash:      []byte(`[{"id":"t","title":"T","blocks":[]}]`),
		backend.KeyActivePage: []byte(`"t"`),
	}))
	s, _ := openTest(t, mem)
	assert.Equal(t, "a", s.ActivePageID())
	assert.True(t, s.LoadReport().ActiveRepaired)
	require.Len(t, s.Trash(), 1)
}

func TestOpenRejectsCorruptData(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	require.NoError(t, mem.Save(ctx, map[string][]byte{backend.KeyPages: []byte(`{not json`)}))
	_, err := Open(ctx, mem)
	require.Error(t, err)
}

type failing struct{ *backend.Memory }

var errDisk = errors.New("disk full")

func (failing) Save(context.Context, map[string][]byte) error { return errDisk }

func TestOpenReportsBackendErrors(t *testing.T) {
	_, err := Open(context.Background(), failing{backend.NewMemory()})
	require.ErrorIs(t, err, errDisk)
}

func TestCreatePage(t *testing.T) {
	ctx := context.Background()
	s, rec := openTest(t, backend.NewMemory())
	root := s.ActivePageID()

	top, err := s.CreatePage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, top.ID, s.ActivePageID(), "a top-level page becomes active")
	assert.Equal(t, types.DefaultIcon, top.Icon)

	child, err := s.CreatePage(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, top.ID, s.ActivePageID(), "a sub-page does not change the active page")
	parent, _ := s.Page(root)
	assert.Equal(t, child.ID, parent.Blocks[len(parent.Blocks)-1].PageRef())

	_, err = s.CreatePage(ctx, "missing")
	require.ErrorIs(t, err, forest.ErrNotFound)

	assert.Equal(t, 2, rec.pages)
	assert.Equal(t, []string{top.ID}, rec.active)
	assert.Equal(t, []string{"create_page"}, rec.refused)
}

func TestCreateFavoriteAndAddPage(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())

	fav, err := s.CreateFavoritePage(ctx)
	require.NoError(t, err)
	assert.True(t, fav.Favorite)
	assert.Equal(t, fav.ID, s.ActivePageID())

	added, err := s.AddPage(ctx, NewPage{ParentID: fav.ID, Title: "Notes", Icon: "📝", Blocks: []string{"one", "two"}})
	require.NoError(t, err)
	assert.Equal(t, fav.ID, s.ActivePageID())
	assert.Equal(t, "Notes", added.Title)
	assert.Equal(t, "📝", added.Icon)
	require.Len(t, added.Blocks, 2)
	assert.Equal(t, "two", added.Blocks[1].Content)
	assert.Equal(t, []string{"Notes"}, s.Breadcrumbs(added.ID)[1:])
}

func TestTrashPage(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	s, rec := openTest(t, mem)
	root := s.ActivePageID()

	_, err := s.TrashPage(ctx, root)
	require.ErrorIs(t, err, forest.ErrLastPage)
	assert.Len(t, s.Pages(), 1)
	saves := mem.Saves()

	a, _ := s.CreatePage(ctx, "")
	b, _ := s.CreatePage(ctx, a.ID)
	require.Equal(t, a.ID, s.ActivePageID())

	trashed, err := s.TrashPage(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, trashed)
	assert.Equal(t, root, s.ActivePageID())
	assert.Len(t, rec.trash, 2)
	assert.Equal(t, saves+3, mem.Saves())

	none, err := s.TrashPage(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMovePage(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	s, _ := openTest(t, mem)
	a := s.ActivePageID()
	b, _ := s.CreatePage(ctx, a)
	c, _ := s.CreatePage(ctx, b.ID)

	saves := mem.Saves()
	require.ErrorIs(t, s.MovePage(ctx, a, c.ID), forest.ErrCycle)
	assert.Equal(t, saves, mem.Saves(), "refusals are not saved")

	require.NoError(t, s.MovePage(ctx, b.ID, ""))
	moved, _ := s.Page(b.ID)
	assert.Empty(t, moved.ParentID)
	stillChild, _ := s.Page(c.ID)
	assert.Equal(t, b.ID, stillChild.ParentID)
}

func TestDuplicatePageKeepsParent(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	a := s.ActivePageID()
	b, _ := s.CreatePage(ctx, a)
	require.NoError(t, s.Rename(ctx, b.ID, "Plan"))
	_, _ = s.CreatePage(ctx, b.ID)

	cp, err := s.DuplicatePage(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan (Copy)", cp.Title)
	assert.Equal(t, a, cp.ParentID)
	assert.Empty(t, s.Children(cp.ID), "descendants are not duplicated")
	assert.Len(t, s.Children(b.ID), 1)
}

func TestPageAttributes(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	id := s.ActivePageID()

	fav, err := s.ToggleFavorite(ctx, id)
	require.NoError(t, err)
	assert.True(t, fav)
	assert.Len(t, s.Favorites(), 1)

	full, err := s.ToggleStyle(ctx, id, types.StyleFullWidth)
	require.NoError(t, err)
	assert.True(t, full)
	_, err = s.ToggleStyle(ctx, id, "huge")
	require.ErrorIs(t, err, forest.ErrInvalid)

	require.NoError(t, s.SetFont(ctx, id, types.FontMono))
	require.NoError(t, s.SetIcon(ctx, id, "🚀"))
	collapsed, err := s.ToggleSidebarCollapsed(ctx, id)
	require.NoError(t, err)
	assert.True(t, collapsed)

	locked, err := s.ToggleLocked(ctx, id)
	require.NoError(t, err)
	assert.True(t, locked)
	require.ErrorIs(t, s.Rename(ctx, id, "new"), forest.ErrLocked)

	p := s.ActivePage()
	assert.Equal(t, types.FontMono, p.Font)
	assert.Equal(t, "🚀", p.Icon)
	assert.Equal(t, DefaultTitle, p.Title)
}

func TestSectionSortIsNotPersisted(t *testing.T) {
	mem := backend.NewMemory()
	s, _ := openTest(t, mem)
	saves := mem.Saves()

	mode, err := s.ToggleSectionSort(types.SectionFavorites)
	require.NoError(t, err)
	assert.Equal(t, types.SortTitle, mode)
	assert.Equal(t, types.SortManual, s.SectionSort().Private)

	_, err = s.ToggleSectionSort("archive")
	require.ErrorIs(t, err, forest.ErrInvalid)
	assert.Equal(t, saves, mem.Saves())
}

func TestSetActivePage(t *testing.T) {
	ctx := context.Background()
	s, rec := openTest(t, backend.NewMemory())
	root := s.ActivePageID()
	child, _ := s.CreatePage(ctx, root)

	p, err := s.SetActivePage(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, p.ID)

	p, err = s.SetActivePage(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, root, p.ID)
	assert.Equal(t, []string{child.ID, root}, rec.active)
}

func TestBlockOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	pid := s.ActivePageID()
	first := s.ActivePage().Blocks[0].ID

	b, err := s.InsertBlock(ctx, pid, first)
	require.NoError(t, err)
	require.NoError(t, s.UpdateBlock(ctx, pid, b.ID, "/todo buy milk"))
	_, err = s.ConvertBlock(ctx, pid, b.ID, types.TypeTodo)
	require.NoError(t, err)
	require.NoError(t, s.SetChecked(ctx, pid, b.ID, true))

	p := s.ActivePage()
	require.Len(t, p.Blocks, 2)
	assert.Equal(t, "buy milk", p.Blocks[1].Content)
	assert.True(t, p.Blocks[1].Todo().Checked)

	require.NoError(t, s.ReorderBlock(ctx, pid, b.ID, first, blocks.Before))
	assert.Equal(t, b.ID, s.ActivePage().Blocks[0].ID)

	dup, err := s.DuplicateBlock(ctx, pid, b.ID)
	require.NoError(t, err)
	assert.Equal(t, dup.ID, s.ActivePage().Blocks[1].ID)

	require.ErrorIs(t, s.SetLanguage(ctx, pid, b.ID, "go"), blocks.ErrWrongType)
	_, err = s.InsertBlock(ctx, "missing", "")
	require.ErrorIs(t, err, forest.ErrNotFound)
}

func TestConvertToPageAndDeleteCascade(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	pid := s.ActivePageID()
	other, _ := s.CreatePage(ctx, "")
	_, _ = s.SetActivePage(ctx, pid)

	b, err := s.AppendText(ctx, pid, "/page Meeting notes")
	require.NoError(t, err)
	sub, err := s.ConvertBlock(ctx, pid, b.ID, types.TypePage)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "Meeting notes", sub.Title)
	assert.Equal(t, pid, sub.ParentID)

	page := s.ActivePage()
	refs := 0
	for i := range page.Blocks {
		if page.Blocks[i].PageRef() == sub.ID {
			refs++
		}
	}
	assert.Equal(t, 2, refs, "converted block plus the reference CreatePage appends")

	res, err := s.DeleteBlock(ctx, pid, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{sub.ID}, res.Trashed)
	_, live := s.Page(sub.ID)
	assert.False(t, live)
	assert.Equal(t, page.Blocks[0].ID, res.FocusID)
	_, ok := s.Page(other.ID)
	assert.True(t, ok)
}

func TestDeleteLastBlockReseeds(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	pid := s.ActivePageID()
	only := s.ActivePage().Blocks[0].ID

	res, err := s.DeleteBlock(ctx, pid, only)
	require.NoError(t, err)
	p := s.ActivePage()
	require.Len(t, p.Blocks, 1)
	assert.Equal(t, types.TypeText, p.Blocks[0].Type)
	assert.Equal(t, p.Blocks[0].ID, res.FocusID)
}

func TestLockedPageRefusesEdits(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	s, rec := openTest(t, mem)
	pid := s.ActivePageID()
	_, _ = s.ToggleLocked(ctx, pid)
	saves := mem.Saves()

	_, err := s.InsertBlock(ctx, pid, "")
	require.ErrorIs(t, err, blocks.ErrLocked)
	require.ErrorIs(t, s.UpdateBlock(ctx, pid, s.ActivePage().Blocks[0].ID, "x"), blocks.ErrLocked)
	assert.Equal(t, saves, mem.Saves())
	assert.Equal(t, []string{"insert_block", "update_block"}, rec.refused)

	// Structural operations still work.
	_, err = s.ToggleFavorite(ctx, pid)
	require.NoError(t, err)
}

func TestMoveBlockToPage(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	src := s.ActivePageID()
	dst, _ := s.CreatePage(ctx, "")
	moved := s.Pages()[0].Blocks[0].ID

	require.NoError(t, s.MoveBlockToPage(ctx, src, moved, dst.ID))
	srcPage, _ := s.Page(src)
	dstPage, _ := s.Page(dst.ID)
	require.Len(t, srcPage.Blocks, 1, "the emptied page is re-seeded")
	assert.NotEqual(t, moved, srcPage.Blocks[0].ID)
	assert.Equal(t, moved, dstPage.Blocks[len(dstPage.Blocks)-1].ID)

	require.ErrorIs(t, s.MoveBlockToPage(ctx, src, srcPage.Blocks[0].ID, "missing"), forest.ErrNotFound)
}

func TestTableAndMediaEdits(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	pid := s.ActivePageID()

	tbl, _ := s.InsertBlock(ctx, pid, "")
	_, err := s.ConvertBlock(ctx, pid, tbl.ID, types.TypeTable)
	require.NoError(t, err)
	require.NoError(t, s.AddTableRow(ctx, pid, tbl.ID))
	require.NoError(t, s.AddTableColumn(ctx, pid, tbl.ID))
	require.NoError(t, s.SetTableCell(ctx, pid, tbl.ID, 3, 2, "z"))
	require.ErrorIs(t, s.SetTableCell(ctx, pid, tbl.ID, 9, 0, "z"), blocks.ErrInvalid)

	img, _ := s.InsertBlock(ctx, pid, tbl.ID)
	_, _ = s.ConvertBlock(ctx, pid, img.ID, types.TypeImage)
	require.NoError(t, s.SetURL(ctx, pid, img.ID, "https://example.com/a.png"))
	require.NoError(t, s.SetCaption(ctx, pid, img.ID, "diagram"))

	tog, _ := s.InsertBlock(ctx, pid, img.ID)
	_, _ = s.ConvertBlock(ctx, pid, tog.ID, types.TypeToggle)
	require.NoError(t, s.SetDetails(ctx, pid, tog.ID, "inside"))
	collapsed, err := s.ToggleBlockCollapsed(ctx, pid, tog.ID)
	require.NoError(t, err)
	assert.True(t, collapsed)

	p := s.ActivePage()
	rows := p.Blocks[0].Table().Rows
	require.Len(t, rows, 4)
	assert.Equal(t, "z", rows[3][2])
	assert.Equal(t, "diagram", p.Blocks[1].Media().Caption)
	assert.Equal(t, "inside", p.Blocks[2].Toggle().Details)
}

func TestPersistenceRoundTrip(t *testing.T) {
	for _, codec := range []backend.Codec{backend.JSON, backend.CBOR} {
		t.Run(codec.Name(), func(t *testing.T) {
			ctx := context.Background()
			mem := backend.NewMemory()
			s, _ := openTest(t, mem, WithCodec(codec))
			root := s.ActivePageID()
			child, _ := s.AddPage(ctx, NewPage{ParentID: root, Title: "Child", Blocks: []string{"héllo"}})
			gone, _ := s.CreatePage(ctx, "")
			_, err := s.TrashPage(ctx, gone.ID)
			require.NoError(t, err)
			_, _ = s.SetActivePage(ctx, child.ID)

			again, _ := openTest(t, mem, WithCodec(codec))
			assert.False(t, again.LoadReport().Changed())
			assert.Equal(t, s.Pages(), again.Pages())
			assert.Equal(t, s.Trash(), again.Trash())
			assert.Equal(t, child.ID, again.ActivePageID())
		})
	}
}

func TestActivePageStoredAsJSONString(t *testing.T) {
	mem := backend.NewMemory()
	s, _ := openTest(t, mem)
	raw, err := mem.Load(context.Background(), backend.KeyActivePage)
	require.NoError(t, err)
	var id string
	require.NoError(t, json.Unmarshal(raw, &id))
	assert.Equal(t, s.ActivePageID(), id)
}

func TestSearchSessionNotifies(t *testing.T) {
	ctx := context.Background()
	s, rec := openTest(t, backend.NewMemory())
	plan, _ := s.AddPage(ctx, NewPage{Title: "Project Plan"})
	_, _ = s.AddPage(ctx, NewPage{Title: "Groceries"})

	sess := s.NewSearch()
	results := sess.Query("pp")
	require.NotEmpty(t, results)
	assert.Equal(t, plan.ID, results[0].Page.ID)
	require.NotEmpty(t, rec.searches)
	assert.Equal(t, plan.ID, rec.searches[len(rec.searches)-1][0])

	// Sessions are snapshots.
	_, _ = s.AddPage(ctx, NewPage{Title: "Project Pipeline"})
	assert.Len(t, sess.Query(""), 3)
}

func TestSearchBlocksAndText(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	p, _ := s.AddPage(ctx, NewPage{Title: "Ideas", Blocks: []string{"write the quarterly report", "water plants"}})

	matches := s.SearchBlocks("qrtly", 5)
	require.NotEmpty(t, matches)
	assert.Equal(t, p.Blocks[0].ID, matches[0].BlockID)

	hits := s.SearchText("water", 0)
	require.Len(t, hits, 1)
	assert.Equal(t, p.Blocks[1].ID, hits[0].BlockID)
}

func TestMoveCandidates(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, backend.NewMemory())
	root := s.ActivePageID()
	child, _ := s.AddPage(ctx, NewPage{ParentID: root, Title: "Child"})
	other, _ := s.AddPage(ctx, NewPage{Title: "Other"})

	pages, topLevel := s.MoveCandidates(root, "")
	assert.False(t, topLevel)
	require.Len(t, pages, 1)
	assert.Equal(t, other.ID, pages[0].ID)

	pages, topLevel = s.MoveCandidates(child.ID, "oth")
	assert.True(t, topLevel)
	require.Len(t, pages, 1)
}
