package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

const pageSkeleton = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="generator" content="go-faker-file">
<title></title>
</head>
<body></body>
</html>`

// HTMLWriter builds the page from the Markdown rendition of the document.
type HTMLWriter struct {
	*MarkdownWriter
}

// NewHTMLWriter 创建 HTML 写入器
func NewHTMLWriter(opts WriterOptions) (Writer, error) {
	return &HTMLWriter{MarkdownWriter: NewMarkdown(opts)}, nil
}

func newMarkdown(xhtml bool) goldmark.Markdown {
	rendererOpts := []goldmark.Option{}
	if xhtml {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithXHTML()))
	}
	return goldmark.New(append(rendererOpts,
		goldmark.WithExtensions(
			extension.GFM,   // GitHub Flavored Markdown
			mathjax.MathJax, // 数学公式
			meta.Meta,       // 元数据
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)...)
}

// RenderMarkdown converts src to an HTML fragment and returns the front
// matter title, if any.
func RenderMarkdown(src string, xhtml bool) (body, title string, err error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := newMarkdown(xhtml).Convert([]byte(src), &buf, parser.WithContext(ctx)); err != nil {
		return "", "", fmt.Errorf("failed to render markdown: %w", err)
	}
	if v, ok := meta.Get(ctx)["title"]; ok {
		title = fmt.Sprint(v)
	}
	return buf.String(), title, nil
}

// Bytes 渲染完整的 HTML 页面
func (w *HTMLWriter) Bytes() ([]byte, error) {
	src, err := w.Source()
	if err != nil {
		return nil, err
	}
	body, title, err := RenderMarkdown(src, false)
	if err != nil {
		return nil, err
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(pageSkeleton))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page skeleton: %w", err)
	}
	page.Find("title").SetText(title)
	page.Find("body").SetHtml(body)

	var out bytes.Buffer
	for _, n := range page.Nodes {
		if err := html.Render(&out, n); err != nil {
			return nil, fmt.Errorf("failed to render html: %w", err)
		}
	}
	out.WriteString("\n")
	return out.Bytes(), nil
}

func (w *HTMLWriter) GetFormat() Format { return FormatHTML }
