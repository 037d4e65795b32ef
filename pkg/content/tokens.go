package content

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
)

// TokenFunc 生成一个占位符的替换值
type TokenFunc func() string

// placeholderRe 匹配 {{ token }}，前面带反斜杠的视为转义
var placeholderRe = regexp2.MustCompile(`(?<!\\)\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`, regexp2.None)

var tokensMu sync.RWMutex

func defaultTokens(f *Faker) map[string]TokenFunc {
	g := f.fake
	return map[string]TokenFunc{
		"name":          f.Name,
		"first_name":    f.FirstName,
		"last_name":     f.LastName,
		"email":         g.Email,
		"user_name":     g.Username,
		"address":       f.Address,
		"street":        f.Street,
		"city":          f.City,
		"country":       f.Country,
		"company":       f.Company,
		"job":           f.Job,
		"phone_number":  f.Phone,
		"url":           g.URL,
		"color_name":    g.Color,
		"uuid4":         g.UUID,
		"date":          func() string { return g.Date().Format("2006-01-02") },
		"date_time":     func() string { return g.Date().Format("2006-01-02 15:04:05") },
		"random_int":    func() string { return strconv.Itoa(g.IntRange(0, 9999)) },
		"random_digit":  g.Digit,
		"random_letter": g.Letter,
		"random_string": func() string { return f.RandomChars(20) },
		"word":          f.Word,
		"sentence":      f.Sentence,
		"paragraph":     f.Paragraph,
		"text": func() string {
			s, _ := f.Text(200)
			return s
		},
	}
}

// RegisterToken 注册或覆盖一个占位符
func (f *Faker) RegisterToken(name string, fn TokenFunc) {
	tokensMu.Lock()
	defer tokensMu.Unlock()
	f.tokens[name] = fn
}

// Tokens 返回已注册的占位符名称（已排序）
func (f *Faker) Tokens() []string {
	tokensMu.RLock()
	defer tokensMu.RUnlock()
	names := make([]string, 0, len(f.tokens))
	for name := range f.tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Faker) token(name string) (TokenFunc, bool) {
	tokensMu.RLock()
	defer tokensMu.RUnlock()
	fn, ok := f.tokens[name]
	return fn, ok
}

// FormatFunc renders a template string into fake text.
type FormatFunc func(f *Faker, template string) (string, error)

// ParseFormat substitutes every {{token}} with a generated value.
// A placeholder written as \{{token}} is kept literally without the backslash.
func ParseFormat(f *Faker, template string) (string, error) {
	runes := []rune(template)
	var b strings.Builder
	last := 0

	m, err := placeholderRe.FindRunesMatch(runes)
	for m != nil && err == nil {
		name := m.GroupByNumber(1).String()
		fn, ok := f.token(name)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownToken, name)
		}
		b.WriteString(string(runes[last:m.Index]))
		b.WriteString(fn())
		last = m.Index + m.Length
		m, err = placeholderRe.FindNextMatch(m)
	}
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	b.WriteString(string(runes[last:]))

	return strings.ReplaceAll(b.String(), `\{{`, "{{"), nil
}

// PystrFormat is ParseFormat followed by replacing each '#' with a random
// digit and each '?' with a random letter.
func PystrFormat(f *Faker, template string) (string, error) {
	s, err := ParseFormat(f, template)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '#':
			b.WriteString(f.fake.Digit())
		case '?':
			b.WriteString(f.fake.Letter())
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
