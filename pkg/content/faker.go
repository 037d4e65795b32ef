// Package content produces fake text, values and images used to fill generated files.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/disintegration/imaging"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinTextChars 是 Text 可生成的最小长度
const MinTextChars = 5

var (
	// ErrTextTooShort max_nb_chars 小于 MinTextChars
	ErrTextTooShort = errors.New("content: max_nb_chars must be at least 5")
	// ErrUnknownToken 模板中出现未注册的占位符
	ErrUnknownToken = errors.New("content: unknown template token")
)

// Faker wraps a gofakeit source with the locale used for generated values.
// Names, places, words and phone numbers follow the locale.
// It is safe for concurrent use.
type Faker struct {
	fake   *gofakeit.Faker
	locale language.Tag
	data   *localeData
	tokens map[string]TokenFunc
}

// Option 配置 Faker
type Option func(*options)

type options struct {
	seed   uint64
	locale string
}

// WithSeed 固定随机种子，0 表示随机
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLocale 设置 BCP 47 语言标签，如 "en-US"、"zh-CN"
func WithLocale(locale string) Option {
	return func(o *options) { o.locale = locale }
}

// New creates a Faker.
func New(opts ...Option) (*Faker, error) {
	o := options{locale: "en-US"}
	for _, opt := range opts {
		opt(&o)
	}

	tag, err := language.Parse(o.locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", o.locale, err)
	}
	data, err := lookupLocale(tag)
	if err != nil {
		return nil, err
	}

	f := &Faker{
		fake:   gofakeit.New(o.seed),
		locale: tag,
		data:   data,
	}
	f.tokens = defaultTokens(f)
	return f, nil
}

// Locale 返回当前语言标签
func (f *Faker) Locale() language.Tag {
	return f.locale
}

// IntRange returns a random int in [min, max].
func (f *Faker) IntRange(min, max int) int {
	return f.fake.IntRange(min, max)
}

// Word 返回当前语言的一个小写单词
func (f *Faker) Word() string {
	if f.data == nil {
		return strings.ToLower(f.fake.Word())
	}
	return f.pick(f.data.words)
}

// Sentence 返回首字母大写、以句号结尾的句子
func (f *Faker) Sentence() string {
	return f.sentence(f.fake.IntRange(4, 12))
}

func (f *Faker) sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = f.Word()
	}
	wordSep, _, stop := f.separators()
	return capitalize(strings.Join(parts, wordSep)) + stop
}

// Paragraph 返回 3 到 6 个句子组成的段落
func (f *Faker) Paragraph() string {
	n := f.fake.IntRange(3, 6)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = f.Sentence()
	}
	_, sentenceSep, _ := f.separators()
	return strings.Join(parts, sentenceSep)
}

// Text returns lorem-style text of at most maxNbChars characters.
// Short limits yield a word sequence, longer ones whole sentences split into
// paragraphs by newlines.
func (f *Faker) Text(maxNbChars int) (string, error) {
	if maxNbChars < MinTextChars {
		return "", fmt.Errorf("%w: got %d", ErrTextTooShort, maxNbChars)
	}

	if maxNbChars < 25 {
		return f.words(maxNbChars), nil
	}

	_, sentenceSep, _ := f.separators()
	var (
		b         strings.Builder
		size      int
		inPara    int
		paraLimit = f.fake.IntRange(3, 5)
	)
	for {
		s := f.Sentence()
		sep := ""
		if size > 0 {
			sep = sentenceSep
			if maxNbChars >= 200 && inPara >= paraLimit {
				sep = "\n"
				inPara = 0
				paraLimit = f.fake.IntRange(3, 5)
			}
		}
		n := len([]rune(s)) + len([]rune(sep))
		if size+n > maxNbChars {
			break
		}
		b.WriteString(sep)
		b.WriteString(s)
		size += n
		inPara++
	}
	if size == 0 {
		return f.words(maxNbChars), nil
	}
	return b.String(), nil
}

// words 生成不超过 limit 个字符、以句号结尾的单词序列
func (f *Faker) words(limit int) string {
	wordSep, _, stop := f.separators()
	budget := limit - len([]rune(stop))
	var parts []string
	size := 0
	for {
		w := f.Word()
		n := len([]rune(w))
		if len(parts) > 0 {
			n += len([]rune(wordSep))
		}
		if size+n > budget {
			break
		}
		parts = append(parts, w)
		size += n
	}
	if len(parts) == 0 {
		w := []rune(f.Word())
		if len(w) > budget {
			w = w[:budget]
		}
		parts = append(parts, string(w))
	}
	return capitalize(strings.Join(parts, wordSep)) + stop
}

// Title 生成按语言规则首字母大写的短标题
func (f *Faker) Title(maxNbChars int) (string, error) {
	text, err := f.Text(maxNbChars)
	if err != nil {
		return "", err
	}
	_, _, stop := f.separators()
	return f.TitleCase(strings.TrimSuffix(text, stop)), nil
}

// TitleCase 按当前语言规则转换为标题格式
func (f *Faker) TitleCase(s string) string {
	// Caser 有内部状态，不能跨 goroutine 共享
	return cases.Title(f.locale).String(s)
}

// Email 返回随机邮箱地址
func (f *Faker) Email() string { return f.fake.Email() }

// Image returns a PNG image of random colored blocks.
func (f *Faker) Image(width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	img := imaging.New(width, height, f.color())
	blocks := f.fake.IntRange(2, 6)
	for i := 0; i < blocks; i++ {
		w := f.fake.IntRange(1, width)
		h := f.fake.IntRange(1, height)
		block := imaging.New(w, h, f.color())
		pos := image.Pt(f.fake.IntRange(0, width-w), f.fake.IntRange(0, height-h))
		img = imaging.Paste(img, block, pos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Faker) color() color.NRGBA {
	return color.NRGBA{
		R: uint8(f.fake.IntRange(0, 255)),
		G: uint8(f.fake.IntRange(0, 255)),
		B: uint8(f.fake.IntRange(0, 255)),
		A: 255,
	}
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
