package render

import (
	"fmt"
	stdhtml "html"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// BodyFormat selects how post bodies are turned into HTML.
type BodyFormat string

const (
	PlainBody    BodyFormat = "plain"
	MarkdownBody BodyFormat = "markdown"
)

func (f BodyFormat) formatter() (func(string) template.HTML, error) {
	switch f {
	case PlainBody, "":
		return PlainToHTML, nil
	case MarkdownBody:
		return MarkdownToHTML, nil
	default:
		return nil, fmt.Errorf("unknown body format %q", string(f))
	}
}

// PlainToHTML escapes the body and keeps its line breaks.
func PlainToHTML(input string) template.HTML {
	escaped := stdhtml.EscapeString(input)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// MarkdownToHTML renders the body as markdown. Raw HTML in the source is dropped.
func MarkdownToHTML(input string) template.HTML {
	if strings.TrimSpace(input) == "" {
		return template.HTML("")
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(input))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: renderNodeHook,
	})

	return template.HTML(md.Render(doc, renderer))
}

func renderNodeHook(writer io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	codeBlock, ok := node.(*ast.CodeBlock)
	if !ok {
		return ast.GoToNext, false
	}
	renderCodeBlock(writer, codeBlock)
	return ast.SkipChildren, true
}

func renderCodeBlock(writer io.Writer, block *ast.CodeBlock) {
	code := string(block.Literal)
	lexer := pickLexer(codeLanguage(block.Info), code)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderPlainCodeBlock(writer, code)
		return
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(writer, styles.Fallback, iterator); err != nil {
		renderPlainCodeBlock(writer, code)
	}
}

func renderPlainCodeBlock(writer io.Writer, code string) {
	_, _ = io.WriteString(writer, `<pre class="chroma"><code>`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(code))
	_, _ = io.WriteString(writer, `</code></pre>`)
}

func pickLexer(language string, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}
	return lexers.Fallback
}

func codeLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
