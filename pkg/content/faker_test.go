package content

import (
	"bytes"
	"image/png"
	"strings"
	"sync"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFaker(t *testing.T) *Faker {
	t.Helper()
	f, err := New(WithSeed(42))
	require.NoError(t, err)
	return f
}

func TestTextRespectsLimit(t *testing.T) {
	f := newTestFaker(t)
	for _, limit := range []int{5, 10, 24, 25, 50, 99, 200, 1000} {
		for i := 0; i < 20; i++ {
			text, err := f.Text(limit)
			require.NoError(t, err)
			assert.NotEmpty(t, text)
			assert.LessOrEqual(t, utf8.RuneCountInString(text), limit, "limit %d: %q", limit, text)
		}
	}
}

func TestTextTooShort(t *testing.T) {
	f := newTestFaker(t)
	_, err := f.Text(4)
	assert.ErrorIs(t, err, ErrTextTooShort)
}

func TestInvalidLocale(t *testing.T) {
	_, err := New(WithLocale("not a locale!"))
	assert.Error(t, err)

	f, err := New(WithLocale("de-DE"))
	require.NoError(t, err)
	assert.Equal(t, "de-DE", f.Locale().String())

	_, err = New(WithLocale("ja-JP"))
	assert.ErrorIs(t, err, ErrUnsupportedLocale)

	f, err = New(WithLocale("fr_FR"))
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", f.Locale().String())
}

func TestLocaleValues(t *testing.T) {
	render := func(locale string) string {
		f, err := New(WithSeed(42), WithLocale(locale))
		require.NoError(t, err)
		out, err := ParseFormat(f, "{{name}} | {{address}} | {{city}}")
		require.NoError(t, err)
		return out
	}

	en, de, zh := render("en-US"), render("de-DE"), render("zh-CN")
	assert.NotEqual(t, en, de)
	assert.NotEqual(t, de, zh)
	assert.NotEqual(t, en, zh)

	// 相同种子和语言得到相同结果
	assert.Equal(t, de, render("de-DE"))

	f, err := New(WithSeed(1), WithLocale("de-DE"))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		assert.Contains(t, deData.cities, f.City())
		assert.Contains(t, deData.words, f.Word())
	}

	f, err = New(WithSeed(1), WithLocale("zh-CN"))
	require.NoError(t, err)
	name := f.Name()
	for _, r := range name {
		assert.True(t, unicode.Is(unicode.Han, r), name)
	}
	sentence := f.Sentence()
	assert.True(t, strings.HasSuffix(sentence, "。"), sentence)
	assert.NotContains(t, sentence, " ")
}

func TestLocaleTextRespectsLimit(t *testing.T) {
	for _, locale := range []string{"de-DE", "fr-FR", "ru-RU", "zh-CN"} {
		f, err := New(WithSeed(7), WithLocale(locale))
		require.NoError(t, err)
		for _, limit := range []int{5, 12, 40, 300} {
			text, err := f.Text(limit)
			require.NoError(t, err)
			assert.NotEmpty(t, text)
			assert.LessOrEqual(t, utf8.RuneCountInString(text), limit, "%s %d: %q", locale, limit, text)
		}
		title, err := f.Title(30)
		require.NoError(t, err)
		assert.NotEmpty(t, title)
	}
}

func TestParseFormat(t *testing.T) {
	f := newTestFaker(t)
	f.RegisterToken("fixed", func() string { return "VALUE" })

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"plain", "no tokens here", "no tokens here"},
		{"single", "a {{fixed}} b", "a VALUE b"},
		{"spaces", "{{ fixed }}", "VALUE"},
		{"repeated", "{{fixed}}-{{fixed}}", "VALUE-VALUE"},
		{"escaped", `\{{fixed}} {{fixed}}`, "{{fixed}} VALUE"},
		{"unicode prefix", "日本 {{fixed}}", "日本 VALUE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(f, tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat(f, "{{no_such_token}}")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestBuiltinTokens(t *testing.T) {
	f := newTestFaker(t)
	for _, name := range f.Tokens() {
		got, err := ParseFormat(f, "{{"+name+"}}")
		require.NoError(t, err, name)
		assert.NotContains(t, got, "{{", name)
	}
}

func TestPystrFormat(t *testing.T) {
	f := newTestFaker(t)
	f.RegisterToken("fixed", func() string { return "X" })

	got, err := PystrFormat(f, "{{fixed}}-###-???")
	require.NoError(t, err)
	require.Len(t, got, 9)
	assert.Equal(t, "X-", got[:2])
	for _, r := range got[2:5] {
		assert.True(t, r >= '0' && r <= '9', got)
	}
	assert.Equal(t, byte('-'), got[5])
	for _, r := range got[6:] {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'), got)
	}
}

func TestGenerateText(t *testing.T) {
	f := newTestFaker(t)

	t.Run("generated", func(t *testing.T) {
		text, err := f.GenerateText(TextOptions{MaxNbChars: 50})
		require.NoError(t, err)
		assert.LessOrEqual(t, utf8.RuneCountInString(text), 50)
	})

	t.Run("template", func(t *testing.T) {
		f.RegisterToken("fixed", func() string { return "ok" })
		text, err := f.GenerateText(TextOptions{Content: "value: {{fixed}}"})
		require.NoError(t, err)
		assert.Equal(t, "value: ok", text)
	})

	t.Run("wrapped", func(t *testing.T) {
		text, err := f.GenerateText(TextOptions{MaxNbChars: 500, WrapCharsAfter: 20})
		require.NoError(t, err)
		for _, line := range strings.Split(text, "\n") {
			assert.LessOrEqual(t, len(line), 20, line)
		}
	})
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "aaa bbb\nccc", Wrap("aaa bbb ccc", 7))
	assert.Equal(t, "abcd\nefgh\nij", Wrap("abcdefghij", 4))
	assert.Equal(t, "a b", Wrap("a\n\nb", 10))
	assert.Equal(t, "", Wrap("   ", 10))
	// 全角字符按两个显示宽度计算
	assert.Equal(t, "日本\n語", Wrap("日本語", 4))
}

func TestImage(t *testing.T) {
	f := newTestFaker(t)
	data, err := f.Image(40, 30)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	_, err = f.Image(0, 10)
	assert.Error(t, err)
}

func TestRandomCharsAndBytes(t *testing.T) {
	f := newTestFaker(t)
	s := f.RandomChars(64)
	assert.Len(t, s, 64)
	for _, r := range s {
		assert.Contains(t, randomChars, string(r))
	}
	assert.Len(t, f.RandomBytes(16), 16)
}

func TestConcurrentUse(t *testing.T) {
	f := newTestFaker(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := f.Text(100)
				assert.NoError(t, err)
				_, err = f.Title(30)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
