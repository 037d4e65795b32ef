// Package formatter 对生成的文本类文件做最后的格式整理
package formatter

// FormatOptions 格式化选项
type FormatOptions struct {
	PreserveWhitespace bool   // 保留行尾空白与 Tab
	TabSize            int    // Tab 转换为空格数
	LineEnding         string // 行结束符（\n, \r\n）
}

// FormatError 格式化错误
type FormatError struct {
	Formatter string
	Reason    string
	Err       error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return e.Formatter + ": " + e.Reason + ": " + e.Err.Error()
	}
	return e.Formatter + ": " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// DefaultFormatOptions 返回默认格式化选项
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		TabSize:    4,
		LineEnding: "\n",
	}
}
