// Package eml generates e-mail messages. Inner files become attachments.
package eml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/nerdneilsfield/go-faker-file/internal/document"
	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers/txt"
)

const (
	Name      = "eml"
	Extension = "eml"

	// DefaultCount 指定了 Create 但没有 Count 时的附件数
	DefaultCount = 5
	// SubjectMaxNbChars 随机主题的最大长度
	SubjectMaxNbChars = 20

	attachmentType = "application/octet-stream"
)

// Options for e-mail messages. Without Create the message has no attachments
// unless Count asks for some.
type Options struct {
	providers.FileOptions      `mapstructure:",squash"`
	providers.ContentOptions   `mapstructure:",squash"`
	providers.ContainerOptions `mapstructure:",squash"`

	// Subject 主题模板，可包含 {{token}}
	Subject string `mapstructure:"subject"`
}

// Provider generates EML files.
type Provider struct {
	env *providers.Env
}

// New 创建邮件提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

type packer struct {
	mw *mail.Writer
}

func (p *packer) Pack(name string, data []byte) error {
	var h mail.AttachmentHeader
	h.SetContentType(attachmentType, nil)
	h.SetFilename(path.Base(name))
	w, err := p.mw.CreateAttachment(h)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Close()
}

func (p *Provider) subject(opts Options, f *content.Faker) (string, error) {
	if opts.Subject == "" {
		return f.Text(SubjectMaxNbChars)
	}
	format := opts.Format
	if format == nil {
		format = content.ParseFormat
	}
	return format(f, opts.Subject)
}

func writeBody(mw *mail.Writer, body string) error {
	tw, err := mw.CreateInline()
	if err != nil {
		return err
	}
	var h mail.InlineHeader
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	w, err := tw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, body); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return tw.Close()
}

func (p *Provider) build(ctx context.Context, opts Options) (providers.Output, error) {
	body, g, err := p.env.RenderDocument(document.FormatText, "", opts.Resolve(content.DefaultTextMaxNbChars))
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	subject, err := p.subject(opts, g.Faker)
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: subject: %w", Name, err)
	}
	from, to := g.Faker.Email(), g.Faker.Email()

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	h.SetMessageID(uuid.NewString() + "@go-faker-file")

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: failed to create message: %w", Name, err)
	}
	if err := writeBody(mw, string(body)); err != nil {
		return providers.Output{}, fmt.Errorf("%s: failed to write body: %w", Name, err)
	}

	// 只有显式给出内部文件函数时才使用默认附件数
	defaultCount := 0
	if opts.Create != nil {
		defaultCount = DefaultCount
	}
	packed, err := p.env.Compose(ctx, &packer{mw: mw}, opts.ContainerOptions, defaultCount, txt.Inner(txt.Options{}))
	if err != nil {
		return providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	if err := mw.Close(); err != nil {
		return providers.Output{}, fmt.Errorf("%s: failed to finish message: %w", Name, err)
	}

	data := providers.DocumentData(g)
	data.Content = subject + "\n" + data.Content
	data.Files = packed.Files
	data.Inner = packed.Inner
	data.SetExtra("to", to)
	data.SetExtra("from", from)
	data.SetExtra("subject", subject)
	data.SetExtra("body", string(body))

	return providers.Output{
		Provider:  Name,
		Extension: Extension,
		Payload:   buf.Bytes(),
		Data:      data,
	}, nil
}

// Generate writes an EML file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	out, err := p.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the message bytes without writing them.
func (p *Provider) GenerateRaw(ctx context.Context, opts Options) (*fakefile.RawFile, error) {
	out, err := p.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.env.Raw(out)
}

// Inner 返回容器中使用的内部文件函数，邮件可作为其他邮件的附件
func Inner(opts Options) composer.Single {
	return providers.Inner(func(ctx context.Context, env *providers.Env) (*fakefile.File, error) {
		return New(env).Generate(ctx, opts)
	})
}
