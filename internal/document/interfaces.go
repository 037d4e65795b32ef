// Package document 提供把模板步骤渲染为具体文件格式的文档写入器
package document

import (
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// Format 文档格式
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatDocx     Format = "docx"
)

// Writer is a document context the template engine writes into.
type Writer interface {
	template.Document

	// Bytes 返回渲染完成的文件内容
	Bytes() ([]byte, error)

	// GetFormat 返回写入器的格式
	GetFormat() Format
}

// WriterOptions 写入器选项
type WriterOptions struct {
	// Title 文档标题，部分格式写入元数据
	Title string

	// Logger 为空时使用 nop logger
	Logger *zap.Logger
}

// WriterFactory 写入器工厂函数
type WriterFactory func(opts WriterOptions) (Writer, error)

func loggerFromOptions(opts WriterOptions) *zap.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return zap.NewNop()
}
