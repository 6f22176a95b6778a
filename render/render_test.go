package render

import (
	"bytes"
	"permablog/storage/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, r Renderer, name string, params Params) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, params))
	return buf.String()
}

func newRenderer(t *testing.T, format BodyFormat) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer(format)
	require.NoError(t, err)
	return r
}

func TestFrontPageListsPostsInGivenOrder(t *testing.T) {
	r := newRenderer(t, PlainBody)
	now := time.Now()
	posts := []models.Post{
		{Id: 2, Title: "Newer", Body: "second", CreatedAt: now},
		{Id: 1, Title: "Older", Body: "first", CreatedAt: now.Add(-time.Hour)},
	}

	html := renderString(t, r, FrontPage, Params{BlogTitle: "", BlogEntry: "", Posts: posts})

	assert.Contains(t, html, `href="/posts/2.html"`)
	assert.Contains(t, html, `href="/posts/1.html"`)
	assert.Less(t, strings.Index(html, "Newer"), strings.Index(html, "Older"))
	assert.Contains(t, html, `name="subject"`)
	assert.Contains(t, html, `name="content"`)
}

func TestFrontPageEmpty(t *testing.T) {
	r := newRenderer(t, PlainBody)
	html := renderString(t, r, FrontPage, Params{BlogTitle: "", BlogEntry: "", Posts: []models.Post{}})
	assert.Contains(t, html, "Nothing here yet.")
}

func TestNewPostEchoesInputAndError(t *testing.T) {
	r := newRenderer(t, PlainBody)
	html := renderString(t, r, NewPost, Params{
		BlogTitle: "",
		BlogEntry: "draft <b>text</b>",
		Error:     "We need a title and a blog entry.",
	})

	assert.Contains(t, html, "draft &lt;b&gt;text&lt;/b&gt;")
	assert.Contains(t, html, `<div class="error">We need a title and a blog entry.</div>`)
}

func TestNewPostWithoutError(t *testing.T) {
	r := newRenderer(t, PlainBody)
	html := renderString(t, r, NewPost, Params{BlogTitle: "", BlogEntry: "", Error: ""})
	assert.NotContains(t, html, `class="error"`)
}

func TestPermalinkEscapesPost(t *testing.T) {
	r := newRenderer(t, PlainBody)
	post := &models.Post{Id: 7, Title: "<script>alert(1)</script>", Body: "line one\nline two", CreatedAt: time.Now()}

	html := renderString(t, r, Permalink, Params{Post: post})

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "line one<br>line two")
}

func TestUnknownTemplate(t *testing.T) {
	r := newRenderer(t, PlainBody)
	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "missing", Params{}))
}

func TestUnknownBodyFormat(t *testing.T) {
	_, err := NewTemplateRenderer(BodyFormat("rst"))
	assert.Error(t, err)
}

func TestMarkdownBody(t *testing.T) {
	r := newRenderer(t, MarkdownBody)
	post := &models.Post{
		Id:        1,
		Title:     "Markdown",
		Body:      "# Heading\n\n**bold** <i>raw</i>\n\n```go\nfmt.Println(\"hello\")\n```",
		CreatedAt: time.Now(),
	}

	html := renderString(t, r, Permalink, Params{Post: post})

	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, `class="chroma"`)
	assert.Contains(t, html, "Println")
	assert.NotContains(t, html, "<i>raw</i>")
}

func TestPlainToHTML(t *testing.T) {
	assert.Equal(t, "a &amp; b<br>c<br>d", string(PlainToHTML("a & b\r\nc\nd")))
}

func TestMarkdownToHTMLBlank(t *testing.T) {
	assert.Equal(t, "", string(MarkdownToHTML("  \n ")))
}
