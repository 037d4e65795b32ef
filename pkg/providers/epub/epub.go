// Package epub generates EPUB books. Every page break starts a new chapter.
package epub

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	goepub "github.com/go-shiori/go-epub"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/internal/document"
	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

const (
	Name      = "epub"
	Extension = "epub"

	DefaultMaxNbChars = 10000
)

// Options for EPUB files.
type Options struct {
	providers.FileOptions    `mapstructure:",squash"`
	providers.ContentOptions `mapstructure:",squash"`

	// Title 书名；为空时取第一章标题，再为空则随机生成
	Title  string `mapstructure:"title"`
	Author string `mapstructure:"author"`
}

// Provider generates EPUB files.
type Provider struct {
	env *providers.Env
}

// New 创建 EPUB 提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

// book is the document context: one Markdown writer per chapter.
type book struct {
	epub     *goepub.Epub
	logger   *zap.Logger
	chapters []*document.MarkdownWriter
	images   int
}

func newBook(logger *zap.Logger) (*book, error) {
	e, err := goepub.NewEpub("")
	if err != nil {
		return nil, fmt.Errorf("failed to create epub: %w", err)
	}
	b := &book{epub: e, logger: logger}
	b.newChapter()
	return b, nil
}

func (b *book) newChapter() {
	ch := document.NewMarkdown(document.WriterOptions{Logger: b.logger})
	ch.PictureSource = b.addImage
	b.chapters = append(b.chapters, ch)
}

func (b *book) current() *document.MarkdownWriter {
	return b.chapters[len(b.chapters)-1]
}

func (b *book) at(pos template.Position) template.Position {
	return template.Position{X: float64(len(b.chapters) - 1), Y: pos.Y}
}

// addImage 把图片加入书中并返回章节内的引用路径
func (b *book) addImage(img []byte) (string, error) {
	b.images++
	ext := ".png"
	switch http.DetectContentType(img) {
	case "image/jpeg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	}
	path, err := b.epub.AddImage(document.DataURI(img), fmt.Sprintf("image%d%s", b.images, ext))
	if err != nil {
		return "", fmt.Errorf("failed to add image: %w", err)
	}
	return path, nil
}

func (b *book) AddParagraph(text string, at template.Position) (template.Position, error) {
	pos, err := b.current().AddParagraph(text, at)
	return b.at(pos), err
}

func (b *book) AddHeading(text string, level int, at template.Position) (template.Position, error) {
	pos, err := b.current().AddHeading(text, level, at)
	return b.at(pos), err
}

func (b *book) AddPicture(img []byte, at template.Position) (template.Position, error) {
	pos, err := b.current().AddPicture(img, at)
	return b.at(pos), err
}

func (b *book) AddTable(rows [][]string, at template.Position) (template.Position, error) {
	pos, err := b.current().AddTable(rows, at)
	return b.at(pos), err
}

func (b *book) AddPageBreak(_ template.Position) (template.Position, error) {
	b.newChapter()
	return b.at(template.Position{}), nil
}

// finish 渲染各章节并打包，返回写入的章节数
func (b *book) finish(title, author, lang string) ([]byte, int, error) {
	written := 0
	for i, ch := range b.chapters {
		if ch.Len() == 0 {
			continue
		}
		src, err := ch.Source()
		if err != nil {
			return nil, 0, err
		}
		body, chTitle, err := document.RenderMarkdown(src, true)
		if err != nil {
			return nil, 0, err
		}
		if chTitle == "" {
			chTitle = fmt.Sprintf("Chapter %d", written+1)
		}
		if _, err := b.epub.AddSection(body, chTitle, fmt.Sprintf("chapter%03d.xhtml", i+1), ""); err != nil {
			return nil, 0, fmt.Errorf("failed to add chapter %d: %w", i+1, err)
		}
		written++
	}
	// 没有内容时仍需一个章节
	if written == 0 {
		if _, err := b.epub.AddSection("<p></p>", "Chapter 1", "chapter001.xhtml", ""); err != nil {
			return nil, 0, fmt.Errorf("failed to add chapter: %w", err)
		}
		written = 1
	}

	b.epub.SetTitle(title)
	b.epub.SetAuthor(author)
	b.epub.SetLang(lang)
	b.epub.SetIdentifier("urn:uuid:" + uuid.NewString())

	var buf bytes.Buffer
	if _, err := b.epub.WriteTo(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to write epub: %w", err)
	}
	b.logger.Debug("epub assembled",
		zap.Int("chapters", written),
		zap.Int("images", b.images))
	return buf.Bytes(), written, nil
}

func (p *Provider) build(opts Options) (providers.Output, error) {
	logger := p.env.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := newBook(logger)
	if err != nil {
		return providers.Output{}, err
	}
	g, err := p.env.Render(opts.Resolve(DefaultMaxNbChars), b)
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}

	title := opts.Title
	if title == "" {
		for _, ch := range b.chapters {
			if ch.Title() != "" {
				title = ch.Title()
				break
			}
		}
	}
	if title == "" {
		if title, err = g.Faker.Title(template.DefaultHeadingMaxNbChars); err != nil {
			return providers.Output{}, err
		}
	}
	author := opts.Author
	if author == "" {
		author = g.Faker.Name()
	}
	lang, _ := g.Faker.Locale().Base()

	payload, chapters, err := b.finish(title, author, strings.ToLower(lang.String()))
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}

	data := providers.DocumentData(g)
	data.SetExtra("title", title)
	data.SetExtra("author", author)
	data.SetExtra("chapters", chapters)
	return providers.Output{
		Provider:  Name,
		Extension: Extension,
		Payload:   payload,
		Data:      data,
	}, nil
}

// Generate writes an EPUB file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the EPUB bytes without writing them.
func (p *Provider) GenerateRaw(_ context.Context, opts Options) (*fakefile.RawFile, error) {
	out, err := p.build(opts)
	if err != nil {
		return nil, err
	}
	return p.env.Raw(out)
}

// Inner 返回容器中使用的内部文件函数
func Inner(opts Options) composer.Single {
	return providers.Inner(func(ctx context.Context, env *providers.Env) (*fakefile.File, error) {
		return New(env).Generate(ctx, opts)
	})
}
