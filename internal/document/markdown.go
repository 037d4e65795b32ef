package document

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nerdneilsfield/go-faker-file/internal/formatter"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// MarkdownWriter renders a document as GitHub flavoured Markdown. A level 0
// heading also becomes the front matter title.
type MarkdownWriter struct {
	// PictureSource 返回图片的引用地址；为空时以 data URI 内嵌
	PictureSource func(img []byte) (string, error)

	logger   *zap.Logger
	title    string
	blocks   []string
	pictures int
}

// NewMarkdownWriter 创建 Markdown 写入器
func NewMarkdownWriter(opts WriterOptions) (Writer, error) {
	return NewMarkdown(opts), nil
}

// NewMarkdown 返回具体类型的 Markdown 写入器
func NewMarkdown(opts WriterOptions) *MarkdownWriter {
	return &MarkdownWriter{
		logger: loggerFromOptions(opts),
		title:  opts.Title,
	}
}

func (w *MarkdownWriter) add(block string) (template.Position, error) {
	w.blocks = append(w.blocks, block)
	return template.Position{Y: float64(len(w.blocks))}, nil
}

func (w *MarkdownWriter) AddParagraph(text string, _ template.Position) (template.Position, error) {
	return w.add(escapeMarkdown(text))
}

func (w *MarkdownWriter) AddHeading(text string, level int, _ template.Position) (template.Position, error) {
	if level == 0 {
		if w.title == "" {
			w.title = text
		}
		level = 1
	}
	return w.add(strings.Repeat("#", level) + " " + escapeMarkdown(text))
}

func (w *MarkdownWriter) AddPicture(img []byte, _ template.Position) (template.Position, error) {
	src := ""
	if w.PictureSource != nil {
		var err error
		if src, err = w.PictureSource(img); err != nil {
			return template.Position{Y: float64(len(w.blocks))}, err
		}
	} else {
		src = DataURI(img)
	}
	w.pictures++
	return w.add(fmt.Sprintf("![picture %d](%s)", w.pictures, src))
}

// DataURI 以 base64 data URI 表示图片
func DataURI(img []byte) string {
	return "data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
}

// Len 返回已写入的块数
func (w *MarkdownWriter) Len() int { return len(w.blocks) }

// AddTable 第一行作为表头
func (w *MarkdownWriter) AddTable(rows [][]string, _ template.Position) (template.Position, error) {
	if len(rows) == 0 {
		return w.add("")
	}
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(escapeMarkdown(c), "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(rows[0])
	b.WriteString("|")
	for range rows[0] {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return w.add(strings.TrimRight(b.String(), "\n"))
}

// AddPageBreak Markdown 没有分页
func (w *MarkdownWriter) AddPageBreak(at template.Position) (template.Position, error) {
	return at, nil
}

// Title 返回文档标题
func (w *MarkdownWriter) Title() string { return w.title }

// Source 返回未经格式化的 Markdown 源文本
func (w *MarkdownWriter) Source() (string, error) {
	var b strings.Builder
	if w.title != "" {
		meta, err := yaml.Marshal(map[string]string{"title": w.title})
		if err != nil {
			return "", fmt.Errorf("failed to marshal front matter: %w", err)
		}
		b.WriteString("---\n")
		b.Write(meta)
		b.WriteString("---\n\n")
	}
	b.WriteString(strings.Join(w.blocks, "\n\n"))
	b.WriteString("\n")
	return b.String(), nil
}

func (w *MarkdownWriter) Bytes() ([]byte, error) {
	src, err := w.Source()
	if err != nil {
		return nil, err
	}
	out, err := formatter.NewMarkdownFormatter().Format([]byte(src), formatter.DefaultFormatOptions())
	if err != nil {
		// 格式化失败不影响文件生成
		w.logger.Warn("markdown formatting failed, using raw source", zap.Error(err))
		return []byte(src), nil
	}
	return out, nil
}

func (w *MarkdownWriter) GetFormat() Format { return FormatMarkdown }

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"$", `\$`,
)

// escapeMarkdown 转义生成文本中的 Markdown 控制字符；行首 # 也会被转义
func escapeMarkdown(s string) string {
	s = markdownEscaper.Replace(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "+") {
			lines[i] = `\` + line
		}
	}
	return strings.Join(lines, "\n")
}
