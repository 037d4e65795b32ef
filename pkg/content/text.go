package content

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultTextMaxNbChars 文本类文件的默认最大字符数
const DefaultTextMaxNbChars = 10000

// TextOptions controls GenerateText.
type TextOptions struct {
	MaxNbChars     int
	WrapCharsAfter int
	// Content 为模板字符串；为空时生成随机文本
	Content string
	// Format 为空时使用 ParseFormat
	Format FormatFunc
}

// GenerateText generates text of at most MaxNbChars characters, or renders
// Content as a template when it is set, then wraps the result.
func (f *Faker) GenerateText(opts TextOptions) (string, error) {
	var (
		text string
		err  error
	)
	if opts.Content == "" {
		maxNbChars := opts.MaxNbChars
		if maxNbChars == 0 {
			maxNbChars = DefaultTextMaxNbChars
		}
		text, err = f.Text(maxNbChars)
	} else {
		format := opts.Format
		if format == nil {
			format = ParseFormat
		}
		text, err = format(f, opts.Content)
	}
	if err != nil {
		return "", err
	}

	if opts.WrapCharsAfter > 0 {
		text = Wrap(text, opts.WrapCharsAfter)
	}
	return text, nil
}

// Wrap re-flows text so no line is wider than width display cells.
// Whitespace, newlines included, is collapsed; words wider than width are split.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var (
		lines []string
		line  strings.Builder
		w     int
	)
	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
			w = 0
		}
	}

	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)
		if w > 0 && w+1+ww <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			w += 1 + ww
			continue
		}
		flush()
		for ww > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// 单个字符宽于 width
				head = string([]rune(word)[:1])
			}
			lines = append(lines, head)
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		if word != "" {
			line.WriteString(word)
			w = ww
		}
	}
	flush()
	return strings.Join(lines, "\n")
}

const randomChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomChars 生成 n 个随机字母数字字符
func (f *Faker) RandomChars(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randomChars[f.fake.IntRange(0, len(randomChars)-1)]
	}
	return string(b)
}

// RandomBytes 生成 n 个随机字节
func (f *Faker) RandomBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(f.fake.IntRange(0, 255))
	}
	return b
}
