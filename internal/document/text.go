package document

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/internal/formatter"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// TextWriter renders a document as plain text blocks separated by blank
// lines. The cursor's Y is the number of lines written so far.
type TextWriter struct {
	logger *zap.Logger
	blocks []string
	lines  int
}

// NewTextWriter 创建纯文本写入器
func NewTextWriter(opts WriterOptions) (Writer, error) {
	return &TextWriter{logger: loggerFromOptions(opts)}, nil
}

func (w *TextWriter) add(block string, at template.Position) (template.Position, error) {
	w.blocks = append(w.blocks, block)
	w.lines += strings.Count(block, "\n") + 2
	return template.Position{X: 0, Y: float64(w.lines)}, nil
}

func (w *TextWriter) AddParagraph(text string, at template.Position) (template.Position, error) {
	return w.add(text, at)
}

// AddHeading 标题 0 和 1 使用下划线，其余使用 # 前缀
func (w *TextWriter) AddHeading(text string, level int, at template.Position) (template.Position, error) {
	width := max(runewidth.StringWidth(text), 1)
	switch level {
	case 0:
		return w.add(strings.ToUpper(text)+"\n"+strings.Repeat("=", width), at)
	case 1:
		return w.add(text+"\n"+strings.Repeat("-", width), at)
	default:
		return w.add(strings.Repeat("#", level)+" "+text, at)
	}
}

func (w *TextWriter) AddPicture(img []byte, at template.Position) (template.Position, error) {
	return w.add(fmt.Sprintf("[picture: %d bytes]", len(img)), at)
}

func (w *TextWriter) AddTable(rows [][]string, at template.Position) (template.Position, error) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return w.add(tw.Render(), at)
}

// AddPageBreak 纯文本没有分页
func (w *TextWriter) AddPageBreak(at template.Position) (template.Position, error) {
	return at, nil
}

// String 返回格式化后的全文
func (w *TextWriter) String() string {
	return formatter.NewTextFormatter().FormatString(
		strings.Join(w.blocks, "\n\n"), formatter.DefaultFormatOptions())
}

func (w *TextWriter) Bytes() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *TextWriter) GetFormat() Format { return FormatText }
