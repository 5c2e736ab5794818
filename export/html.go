package export

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/skridlevsky/outliner/types"
)

// CodeStyle is the chroma style used for code blocks.
const CodeStyle = "github"

var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		// Block content is markup the editor itself renders as HTML, so
		// inline tags pass through unescaped. Export only trusted pages.
		html.WithUnsafe(),
		renderer.WithNodeRenderers(util.Prioritized(newCodeRenderer(CodeStyle), 100)),
	),
)

// PageHTML renders the page's Markdown to an HTML fragment. Fenced code is
// highlighted with inline styles. Raw HTML in block content is not sanitized.
func PageHTML(page types.Page, resolve Resolver) (string, error) {
	var b bytes.Buffer
	if err := mdRenderer.Convert([]byte(PageMarkdown(page, resolve)), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// codeRenderer replaces goldmark's fenced code output with chroma's.
type codeRenderer struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func newCodeRenderer(style string) *codeRenderer {
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	return &codeRenderer{style: s, formatter: chromahtml.New(chromahtml.WithClasses(false))}
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *codeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	lexer := lexers.Get(string(n.Language(source)))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code.String())
	if err != nil {
		return ast.WalkStop, err
	}
	if err := r.formatter.Format(w, r.style, it); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}
