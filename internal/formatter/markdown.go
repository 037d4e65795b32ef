package formatter

import (
	"regexp"
	"strings"

	"github.com/Kunde21/markdownfmt/v3"
	"github.com/Kunde21/markdownfmt/v3/markdown"
)

// frontMatter 匹配文件开头的 YAML front matter
var frontMatter = regexp.MustCompile(`\A---\n[\s\S]*?\n---\n`)

// MarkdownFormatter Markdown 格式化器
type MarkdownFormatter struct {
	name string
}

// NewMarkdownFormatter 创建 Markdown 格式化器
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{name: "markdown-formatter"}
}

// Format 用 markdownfmt 规范化内容，front matter 原样保留
func (f *MarkdownFormatter) Format(content []byte, opts FormatOptions) ([]byte, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	// markdownfmt 会把 front matter 当作分隔线和标题
	header := frontMatter.FindString(text)
	body := text[len(header):]

	formatted, err := markdownfmt.Process("", []byte(body),
		markdown.WithCodeFormatters(markdown.GoCodeFormatter))
	if err != nil {
		return nil, &FormatError{
			Formatter: f.name,
			Reason:    "markdown formatting failed",
			Err:       err,
		}
	}

	result := cleanExtraEmptyLines(string(formatted))
	if header != "" {
		result = header + "\n" + result
	}
	if opts.LineEnding != "" && opts.LineEnding != "\n" {
		result = strings.ReplaceAll(result, "\n", opts.LineEnding)
	}
	return []byte(result), nil
}

// cleanExtraEmptyLines 清理多余的空行
func cleanExtraEmptyLines(text string) string {
	// 将连续的多个空行替换为一个空行
	re := regexp.MustCompile(`\n{3,}`)
	text = re.ReplaceAllString(text, "\n\n")

	text = strings.TrimLeft(text, "\n")

	// 确保文件结尾只有一个换行符
	return strings.TrimRight(text, "\n") + "\n"
}
