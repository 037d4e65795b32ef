package formatter

import (
	"strings"
)

// TextFormatter 文本格式化器
type TextFormatter struct{}

// NewTextFormatter 创建文本格式化器
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format 格式化字节内容
func (f *TextFormatter) Format(content []byte, opts FormatOptions) ([]byte, error) {
	return []byte(f.FormatString(string(content), opts)), nil
}

// FormatString 格式化文本
func (f *TextFormatter) FormatString(text string, opts FormatOptions) string {
	// 标准化换行符
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if !opts.PreserveWhitespace {
		// 移除每行末尾的空白
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		text = strings.Join(lines, "\n")

		// Tab 转换为空格
		if opts.TabSize > 0 {
			text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", opts.TabSize))
		}
	}

	// 移除文件开头和结尾的空行
	text = strings.Trim(text, "\n")
	if text != "" {
		text += "\n"
	}

	if opts.LineEnding != "" && opts.LineEnding != "\n" {
		text = strings.ReplaceAll(text, "\n", opts.LineEnding)
	}
	return text
}
