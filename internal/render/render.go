// Package render turns posts and the posts index into HTML documents.
//
// Titles and paragraphs are embedded verbatim without HTML escaping, so markup
// contained in a commit message ends up in the generated page.
package render

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/xperimental/commit-blog/internal/data"
)

const (
	// IndexTitle is the document and heading title of the index page.
	IndexTitle = "Posts Index"

	// IndexStylesheet is the stylesheet location relative to the index page.
	IndexStylesheet = "style.css"

	// PostStylesheet is the stylesheet location relative to a post page.
	PostStylesheet = "../style.css"

	postBackLink = "../index.html"
)

var (
	//go:embed _templates
	templateFs embed.FS

	templates  = template.Must(loadTemplates())
	stylesheet = mustReadFile("style.css")
)

type pageData struct {
	Title      string
	Stylesheet string
	Body       string
}

type postData struct {
	Back       string
	Title      string
	Paragraphs []string
}

func loadTemplates() (*template.Template, error) {
	subFs, err := fs.Sub(templateFs, "_templates")
	if err != nil {
		return nil, fmt.Errorf("can not load subdirectory: %w", err)
	}

	tpl, err := template.New("templates").ParseFS(subFs, "*.html")
	if err != nil {
		return nil, fmt.Errorf("can not load templates: %w", err)
	}

	return tpl, nil
}

func mustReadFile(name string) []byte {
	content, err := templateFs.ReadFile("_templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("can not read embedded %q: %s", name, err))
	}

	return content
}

// execute renders one of the embedded templates. The templates are fixed at
// build time and only receive strings, so execution can not fail at runtime.
func execute(name string, v interface{}) string {
	b := &strings.Builder{}
	if err := templates.ExecuteTemplate(b, name, v); err != nil {
		panic(fmt.Sprintf("error executing template %q: %s", name, err))
	}

	return b.String()
}

// Page wraps a body fragment in a complete HTML document.
func Page(title, stylesheetPath, body string) string {
	return execute("page.html", pageData{
		Title:      title,
		Stylesheet: stylesheetPath,
		Body:       body,
	})
}

// IndexBody renders the heading and list of posts for the index page.
func IndexBody(entries []data.IndexEntry) string {
	return execute("index.html", entries)
}

// PostBody renders the back link, heading and paragraphs of a single post.
func PostBody(title string, paragraphs []string) string {
	return execute("post.html", postData{
		Back:       postBackLink,
		Title:      title,
		Paragraphs: paragraphs,
	})
}

// IndexPage renders the complete index document.
func IndexPage(entries []data.IndexEntry) string {
	return Page(IndexTitle, IndexStylesheet, IndexBody(entries))
}

// PostPage renders the complete document of a post, located in the posts subdirectory.
func PostPage(post data.Post) string {
	return Page(post.Title, PostStylesheet, PostBody(post.Title, post.Paragraphs))
}

// Stylesheet returns the content of the shared stylesheet.
func Stylesheet() []byte {
	return append([]byte(nil), stylesheet...)
}
