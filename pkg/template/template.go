// Package template builds documents from an ordered list of content modifiers.
//
// A DynamicTemplate is executed against a Document, the format-specific
// rendering context. Every text-producing modifier also appends to the
// generation's Transcript, so the plain-text view of the document follows the
// modifier order whatever the rendering does (pagination included).
package template

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/content"
)

// Position is the cursor on a page. Flowing documents ignore it.
type Position struct {
	X float64
	Y float64
}

// Document is the format-specific context modifiers render into.
type Document interface {
	AddParagraph(text string, at Position) (Position, error)
	AddHeading(text string, level int, at Position) (Position, error)
	AddPicture(img []byte, at Position) (Position, error)
	AddTable(rows [][]string, at Position) (Position, error)
	AddPageBreak(at Position) (Position, error)
}

// Modifier is one step of a DynamicTemplate.
type Modifier interface {
	Kind() string
	Apply(g *Generation, doc Document, step int, at Position) (Position, error)
}

// ApplyFunc 是 Modifier.Apply 的函数形式
type ApplyFunc func(g *Generation, doc Document, step int, at Position) (Position, error)

type funcModifier struct {
	kind string
	fn   ApplyFunc
}

func (m funcModifier) Kind() string { return m.kind }

func (m funcModifier) Apply(g *Generation, doc Document, step int, at Position) (Position, error) {
	return m.fn(g, doc, step, at)
}

// Func adapts a function to a Modifier of the given kind.
func Func(kind string, fn ApplyFunc) Modifier {
	return funcModifier{kind: kind, fn: fn}
}

// Content is what providers and generator strategies accept: either Text or
// a *DynamicTemplate.
type Content interface {
	AsTemplate() *DynamicTemplate
}

// From returns the template of c; nil content yields a nil template, which
// Execute treats as empty.
func From(c Content) *DynamicTemplate {
	if c == nil {
		return nil
	}
	return c.AsTemplate()
}

// Text is plain content, rendered as a single paragraph.
type Text string

// AsTemplate 将纯文本视为单个段落
func (t Text) AsTemplate() *DynamicTemplate {
	return New(Paragraph{Text: string(t)})
}

// DynamicTemplate is an ordered list of modifiers. Execution never mutates it.
type DynamicTemplate struct {
	steps []Modifier
}

// New 创建模板
func New(steps ...Modifier) *DynamicTemplate {
	return &DynamicTemplate{steps: append([]Modifier(nil), steps...)}
}

// Add 追加步骤并返回模板本身，便于链式构建
func (t *DynamicTemplate) Add(steps ...Modifier) *DynamicTemplate {
	t.steps = append(t.steps, steps...)
	return t
}

// Steps 返回步骤的副本
func (t *DynamicTemplate) Steps() []Modifier {
	return append([]Modifier(nil), t.steps...)
}

// Len 返回步骤数
func (t *DynamicTemplate) Len() int {
	return len(t.steps)
}

func (t *DynamicTemplate) AsTemplate() *DynamicTemplate {
	return t
}

// Generation is the state of one generation call.
type Generation struct {
	Faker      *content.Faker
	Transcript *Transcript
	Logger     *zap.Logger
}

// NewGeneration 创建一次生成调用的状态
func NewGeneration(faker *content.Faker, logger *zap.Logger) *Generation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generation{
		Faker:      faker,
		Transcript: NewTranscript(),
		Logger:     logger,
	}
}

var errNilFaker = errors.New("template: generation has no faker")

// Execute runs every step of tpl against doc in order, threading the cursor
// from one step to the next. The first failing step aborts execution.
func Execute(tpl *DynamicTemplate, doc Document, g *Generation) (Position, error) {
	var at Position
	if g == nil || g.Faker == nil {
		return at, errNilFaker
	}
	if tpl == nil {
		return at, nil
	}

	for i, step := range tpl.steps {
		next, err := step.Apply(g, doc, i, at)
		if err != nil {
			return at, fmt.Errorf("step %d (%s): %w", i, step.Kind(), err)
		}
		g.Logger.Debug("modifier applied",
			zap.Int("step", i),
			zap.String("kind", step.Kind()),
			zap.Float64("x", next.X),
			zap.Float64("y", next.Y))
		at = next
	}
	return at, nil
}

// Render 执行内容并返回纯文本转写，供只需要文本的格式使用
func Render(c Content, g *Generation) (string, error) {
	if _, err := Execute(From(c), NopDocument{}, g); err != nil {
		return "", err
	}
	return g.Transcript.Content(), nil
}

// NopDocument renders nothing; only the transcript is produced.
type NopDocument struct{}

func (NopDocument) AddParagraph(string, Position) (Position, error) { return Position{}, nil }
func (NopDocument) AddHeading(string, int, Position) (Position, error) { return Position{}, nil }
func (NopDocument) AddPicture([]byte, Position) (Position, error) { return Position{}, nil }
func (NopDocument) AddTable([][]string, Position) (Position, error) { return Position{}, nil }
func (NopDocument) AddPageBreak(Position) (Position, error) { return Position{}, nil }
