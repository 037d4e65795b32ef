package template

import (
	"errors"
	"fmt"

	"github.com/nerdneilsfield/go-faker-file/pkg/content"
)

// Modifier kinds, also the keys of Transcript.Modifiers.
const (
	KindParagraph = "add_paragraph"
	KindHeading   = "add_heading"
	KindPicture   = "add_picture"
	KindTable     = "add_table"
	KindPageBreak = "add_page_break"
)

// 默认参数
const (
	DefaultParagraphMaxNbChars = 5000
	DefaultHeadingMaxNbChars   = 30
	DefaultPictureSize         = 200
	DefaultTableRows           = 3
	DefaultTableCols           = 4
	DefaultTableCellMaxNbChars = 30
)

var (
	// ErrInvalidHeadingLevel 标题级别不在 0 到 6 之间
	ErrInvalidHeadingLevel = errors.New("template: heading level must be between 0 and 6")
	// ErrInvalidTableSize 表格行列数非法
	ErrInvalidTableSize = errors.New("template: table rows and cols must be positive")
)

// Paragraph adds a block of text. Text is used verbatim when set; otherwise
// the text is generated, from Content as a template if given.
type Paragraph struct {
	Text           string             `mapstructure:"text"`
	Content        string             `mapstructure:"content"`
	MaxNbChars     int                `mapstructure:"max_nb_chars"`
	WrapCharsAfter int                `mapstructure:"wrap_chars_after"`
	Format         content.FormatFunc `mapstructure:"-"`
}

func (Paragraph) Kind() string { return KindParagraph }

func (p Paragraph) Apply(g *Generation, doc Document, step int, at Position) (Position, error) {
	text := p.Text
	if text == "" {
		maxNbChars := p.MaxNbChars
		if maxNbChars == 0 {
			maxNbChars = DefaultParagraphMaxNbChars
		}
		var err error
		text, err = g.Faker.GenerateText(content.TextOptions{
			MaxNbChars:     maxNbChars,
			WrapCharsAfter: p.WrapCharsAfter,
			Content:        p.Content,
			Format:         p.Format,
		})
		if err != nil {
			return at, err
		}
	} else if p.WrapCharsAfter > 0 {
		text = content.Wrap(text, p.WrapCharsAfter)
	}

	next, err := doc.AddParagraph(text, at)
	if err != nil {
		return at, err
	}
	g.Transcript.Append(KindParagraph, step, text)
	return next, nil
}

// Heading adds a heading. Level 0 is the document title, 1..6 are section
// levels of decreasing emphasis. Content is rendered with Format, or
// content.ParseFormat when Format is nil.
type Heading struct {
	Level      int                `mapstructure:"level"`
	Content    string             `mapstructure:"content"`
	MaxNbChars int                `mapstructure:"max_nb_chars"`
	Format     content.FormatFunc `mapstructure:"-"`
}

func (Heading) Kind() string { return KindHeading }

func (h Heading) Apply(g *Generation, doc Document, step int, at Position) (Position, error) {
	if h.Level < 0 || h.Level > 6 {
		return at, fmt.Errorf("%w: got %d", ErrInvalidHeadingLevel, h.Level)
	}

	var (
		text string
		err  error
	)
	if h.Content != "" {
		format := h.Format
		if format == nil {
			format = content.ParseFormat
		}
		text, err = format(g.Faker, h.Content)
	} else {
		maxNbChars := h.MaxNbChars
		if maxNbChars == 0 {
			maxNbChars = DefaultHeadingMaxNbChars
		}
		text, err = g.Faker.Title(maxNbChars)
	}
	if err != nil {
		return at, err
	}

	next, err := doc.AddHeading(text, h.Level, at)
	if err != nil {
		return at, err
	}
	g.Transcript.Append(KindHeading, step, text)
	return next, nil
}

// Picture embeds an image. Image must be PNG, JPEG or GIF data; when empty a
// random picture of Width x Height is generated.
type Picture struct {
	Image  []byte `mapstructure:"-"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

func (Picture) Kind() string { return KindPicture }

func (p Picture) Apply(g *Generation, doc Document, step int, at Position) (Position, error) {
	img := p.Image
	if len(img) == 0 {
		w, h := p.Width, p.Height
		if w == 0 {
			w = DefaultPictureSize
		}
		if h == 0 {
			h = DefaultPictureSize
		}
		var err error
		img, err = g.Faker.Image(w, h)
		if err != nil {
			return at, err
		}
	}

	next, err := doc.AddPicture(img, at)
	if err != nil {
		return at, err
	}
	// 图片不贡献文本，只在分组记录中留痕
	g.Transcript.Note(KindPicture, step, "Image added")
	return next, nil
}

// Table adds a Rows x Cols grid of short generated texts.
type Table struct {
	Rows         int `mapstructure:"rows"`
	Cols         int `mapstructure:"cols"`
	MaxCellChars int `mapstructure:"max_cell_chars"`
}

func (Table) Kind() string { return KindTable }

func (t Table) Apply(g *Generation, doc Document, step int, at Position) (Position, error) {
	rows, cols := t.Rows, t.Cols
	if rows == 0 {
		rows = DefaultTableRows
	}
	if cols == 0 {
		cols = DefaultTableCols
	}
	if rows < 0 || cols < 0 {
		return at, fmt.Errorf("%w: %dx%d", ErrInvalidTableSize, rows, cols)
	}
	maxCellChars := t.MaxCellChars
	if maxCellChars == 0 {
		maxCellChars = DefaultTableCellMaxNbChars
	}

	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
		for c := range cells[r] {
			text, err := g.Faker.Text(maxCellChars)
			if err != nil {
				return at, err
			}
			cells[r][c] = text
		}
	}

	next, err := doc.AddTable(cells, at)
	if err != nil {
		return at, err
	}
	for _, row := range cells {
		for _, cell := range row {
			g.Transcript.Append(KindTable, step, cell)
		}
	}
	return next, nil
}

// PageBreak starts a new page where the format has pages.
type PageBreak struct{}

func (PageBreak) Kind() string { return KindPageBreak }

func (PageBreak) Apply(_ *Generation, doc Document, _ int, at Position) (Position, error) {
	return doc.AddPageBreak(at)
}
