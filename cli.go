package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/skridlevsky/outliner/config"
	"github.com/skridlevsky/outliner/export"
	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/fuzzy"
	"github.com/skridlevsky/outliner/search"
	"github.com/skridlevsky/outliner/store"
	"github.com/skridlevsky/outliner/types"
)

// command runs one CLI subcommand against an open store.
type command struct {
	write bool
	run   func(ctx context.Context, args []string, st *store.Store) error
}

var commands = map[string]command{
	"add":    {write: true, run: runAdd},
	"new":    {write: true, run: runNew},
	"ls":     {run: runList},
	"search": {run: runSearch},
	"show":   {run: runShow},
	"export": {run: runExport},
	"trash":  {write: true, run: runTrash},
}

// errUsage reports bad arguments after the command's usage has been printed.
var errUsage = errors.New("invalid arguments")

func runCommand(name string, args []string, cfg config.Config, log *zap.Logger) {
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "outliner: unknown command %q\n\n", name)
		usage()
		os.Exit(2)
	}
	if cmd.write && cfg.ReadOnly {
		fmt.Fprintf(os.Stderr, "outliner %s: disabled in read-only mode\n", name)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "outliner %s: %v\n", name, err)
		os.Exit(1)
	}
	err = cmd.run(ctx, args, st)
	st.Close()
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "outliner %s: %v\n", name, err)
		os.Exit(1)
	}
}

func newFlagSet(name, synopsis, about string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: outliner %s %s\n\n%s\n\n", name, synopsis, about)
		fs.PrintDefaults()
	}
	return fs
}

// runAdd appends a text block to a page, creating the page if needed.
func runAdd(ctx context.Context, args []string, st *store.Store) error {
	fs := newFlagSet("add", "--page PAGE CONTENT\n       echo CONTENT | outliner add -p PAGE",
		"Appends a text block to a page (creates a top-level page if none matches).\nPrints the created block id on success.")
	page := fs.String("page", "", "Page id or title (required)")
	fs.StringVar(page, "p", "", "Page id or title (required)")
	fs.Parse(args)

	if *page == "" {
		fmt.Fprintf(os.Stderr, "outliner add: --page is required\n\n")
		fs.Usage()
		return errUsage
	}
	content := readContent(fs, os.Stdin)
	if content == "" {
		fmt.Fprintf(os.Stderr, "outliner add: no content provided\n\n")
		fs.Usage()
		return errUsage
	}

	p, ok := lookupPage(st, *page)
	if !ok {
		created, err := st.AddPage(ctx, store.NewPage{Title: *page, Blocks: []string{content}})
		if err != nil {
			return err
		}
		fmt.Println(created.Blocks[0].ID)
		return nil
	}

	b, err := st.AppendText(ctx, p.ID, content)
	if err != nil {
		return err
	}
	fmt.Println(b.ID)
	return nil
}

// runNew creates a page and prints its id.
func runNew(ctx context.Context, args []string, st *store.Store) error {
	fs := newFlagSet("new", "[-parent PAGE] [-icon EMOJI] [-fav] TITLE", "Creates a page. Prints the page id on success.")
	parent := fs.String("parent", "", "Parent page id or title. Default: top level")
	icon := fs.String("icon", "", "Page icon")
	fav := fs.Bool("fav", false, "Add the page to favorites")
	fs.Parse(args)

	title := strings.Join(fs.Args(), " ")
	if title == "" {
		fs.Usage()
		return errUsage
	}

	np := store.NewPage{Title: title, Icon: *icon, Favorite: *fav}
	if *parent != "" {
		p, err := findPage(st, *parent)
		if err != nil {
			return err
		}
		np.ParentID = p.ID
	}
	p, err := st.AddPage(ctx, np)
	if err != nil {
		return err
	}
	fmt.Println(p.ID)
	return nil
}

// runList prints the sidebar tree.
func runList(ctx context.Context, args []string, st *store.Store) error {
	fs := newFlagSet("ls", "[-all] [-ids]", "Prints the page tree. Collapsed pages show a child count.")
	all := fs.Bool("all", false, "Expand collapsed pages")
	ids := fs.Bool("ids", false, "Print page ids")
	fs.Parse(args)

	printTree(os.Stdout, st.Tree(*all), st.ActivePageID(), *ids)
	return nil
}

// printTree writes one indented line per node; the active page is starred.
func printTree(w io.Writer, nodes []*forest.Node, activeID string, ids bool) {
	var walk func(nodes []*forest.Node, depth int)
	walk = func(nodes []*forest.Node, depth int) {
		for _, n := range nodes {
			marker := " "
			if n.ID == activeID {
				marker = "*"
			}
			line := fmt.Sprintf("%s%s%s %s", marker, strings.Repeat("  ", depth), n.Icon, n.Title)
			if n.Favorite {
				line += " ★"
			}
			if hidden := n.ChildCount - len(n.Children); hidden > 0 {
				line += fmt.Sprintf(" (+%d)", hidden)
			}
			if ids {
				line += "  " + n.ID
			}
			fmt.Fprintln(w, line)
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 0)
}

// runSearch searches page titles, or block content with -blocks.
func runSearch(ctx context.Context, args []string, st *store.Store) error {
	fs := newFlagSet("search", "[-blocks] [-text] [-limit N] QUERY",
		"Fuzzy-searches page titles. With -blocks, searches block content instead.")
	blocks := fs.Bool("blocks", false, "Search block content")
	text := fs.Bool("text", false, "With -blocks: require every word instead of fuzzy matching")
	limit := fs.Int("limit", 10, "Max results")
	fs.Parse(args)

	query := strings.Join(fs.Args(), " ")
	if query == "" {
		fs.Usage()
		return errUsage
	}

	found := 0
	switch {
	case !*blocks:
		for _, r := range st.NewSearch().Query(query) {
			if found >= *limit {
				break
			}
			fmt.Printf("%s %s | %s\n", r.Page.DisplayIcon(), strings.Join(st.Breadcrumbs(r.Page.ID), " / "), r.Page.ID)
			found++
		}
	case *text:
		for _, h := range st.SearchText(query, *limit) {
			printBlockHit(st, h.PageID, fuzzy.Snippet(h.Text, nil, 80))
			found++
		}
	default:
		for _, m := range st.SearchBlocks(query, *limit) {
			printBlockHit(st, m.PageID, fuzzy.Snippet(m.Content, m.MatchedIndexes, 80))
			found++
		}
	}

	if found == 0 {
		return fmt.Errorf("no results for %q", query)
	}
	return nil
}

func printBlockHit(st *store.Store, pageID, snippet string) {
	p, _ := st.Page(pageID)
	fmt.Printf("%s | %s\n", p.DisplayTitle(), strings.ReplaceAll(snippet, "\n", " "))
}

// runShow renders a page for the terminal.
func runShow(ctx context.Context, args []string, st *store.Store) error {
	fs := newFlagSet("show", "[-width N] [-style NAME] [PAGE]", "Renders a page (default: the active page) as styled terminal text.")
	width := fs.Int("width", 0, "Wrap width. Default: terminal width or 80")
	style := fs.String("style", "", "Glamour style: dark, light, notty, ... Default: dark on a terminal, notty otherwise")
	fs.Parse(args)

	page := st.ActivePage()
	if ref := strings.Join(fs.Args(), " "); ref != "" {
		p, err := findPage(st, ref)
		if err != nil {
			return err
		}
		page = p
	}

	opts := export.Options{Resolve: st.Page, Width: *width, Style: *style}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if opts.Width == 0 {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				opts.Width = w
			}
		}
	} else if opts.Style == "" {
		opts.Style = "notty"
	}

	out, err := export.PageTerminal(page, opts)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// runExport writes a page in an export format to stdout or a file.
func runExport(ctx context.Context, args []string, st *store.Store) error {
	fs := newFlagSet("export", "[-format json|markdown|html|terminal] [-o FILE] PAGE", "Exports a page.")
	format := fs.String("format", "markdown", "Export format")
	out := fs.String("o", "", "Output file. Default: stdout")
	fs.Parse(args)

	ref := strings.Join(fs.Args(), " ")
	if ref == "" {
		fs.Usage()
		return errUsage
	}
	page, err := findPage(st, ref)
	if err != nil {
		return err
	}

	data, err := export.Render(page, export.Format(*format), export.Options{Resolve: st.Page, Style: "notty"})
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(*out, data, 0o644)
}

// runTrash moves a page and its sub-pages to the trash.
func runTrash(ctx context.Context, args []string, st *store.Store) error {
	fs := newFlagSet("trash", "PAGE", "Moves a page and its sub-pages to the trash. Prints the trashed page ids.")
	fs.Parse(args)

	ref := strings.Join(fs.Args(), " ")
	if ref == "" {
		fs.Usage()
		return errUsage
	}
	page, err := findPage(st, ref)
	if err != nil {
		return err
	}
	ids, err := st.TrashPage(ctx, page.ID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

// --- Helpers ---

// lookupPage resolves a page by id, then by exact title (case-insensitive).
func lookupPage(st *store.Store, ref string) (types.Page, bool) {
	if p, ok := st.Page(ref); ok {
		return p, true
	}
	for _, p := range st.Pages() {
		if strings.EqualFold(p.Title, ref) {
			return p, true
		}
	}
	return types.Page{}, false
}

// findPage is lookupPage falling back to the best fuzzy title match.
func findPage(st *store.Store, ref string) (types.Page, error) {
	if p, ok := lookupPage(st, ref); ok {
		return p, nil
	}
	if results := search.NewSession(st.Pages()).Query(ref); len(results) > 0 {
		return results[0].Page, nil
	}
	return types.Page{}, fmt.Errorf("%q: %w", ref, forest.ErrNotFound)
}

// readContent gets content from positional args or stdin (if piped).
func readContent(fs *flag.FlagSet, stdin *os.File) string {
	if args := fs.Args(); len(args) > 0 {
		return strings.Join(args, " ")
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return ""
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
