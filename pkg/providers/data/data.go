// Package data generates structured data files (JSON, YAML, TOML, CSV, XML)
// made of rows whose columns are rendered from {{token}} templates.
package data

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/content"
	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/providers"
)

const (
	Name = "data"

	DefaultFormat = "json"
	DefaultRows   = 10
)

// Formats 支持的输出格式（即扩展名）
var Formats = []string{"json", "yaml", "toml", "csv", "xml"}

// Column is one field of every row.
type Column struct {
	Name     string `mapstructure:"name" json:"name" yaml:"name"`
	Template string `mapstructure:"template" json:"template" yaml:"template"`
}

// DefaultColumns 未指定列时使用
var DefaultColumns = []Column{
	{Name: "name", Template: "{{name}}"},
	{Name: "residency", Template: "{{address}}"},
}

// Options for data files.
type Options struct {
	providers.FileOptions `mapstructure:",squash"`

	Format  string   `mapstructure:"format"`
	Rows    int      `mapstructure:"rows"`
	Columns []Column `mapstructure:"columns"`
	// Indent JSON/XML 缩进空格数，0 表示紧凑输出
	Indent int `mapstructure:"indent"`

	FormatFunc content.FormatFunc `mapstructure:"-"`
}

func (o Options) normalize() (Options, error) {
	f := strings.ToLower(strings.TrimPrefix(o.Format, "."))
	switch f {
	case "":
		f = DefaultFormat
	case "yml":
		f = "yaml"
	}
	known := false
	for _, k := range Formats {
		known = known || k == f
	}
	if !known {
		return o, fmt.Errorf("%s: unsupported format %q", Name, o.Format)
	}
	o.Format = f

	if o.Rows < 0 {
		return o, fmt.Errorf("%s: rows must not be negative", Name)
	}
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if len(o.Columns) == 0 {
		o.Columns = DefaultColumns
	}
	for i, c := range o.Columns {
		if c.Name == "" {
			return o, fmt.Errorf("%s: column %d has no name", Name, i)
		}
	}
	if o.FormatFunc == nil {
		o.FormatFunc = content.ParseFormat
	}
	return o, nil
}

// Provider generates data files.
type Provider struct {
	env *providers.Env
}

// New 创建结构化数据提供者
func New(env *providers.Env) *Provider {
	return &Provider{env: env}
}

// table 按列顺序保存的行数据
type table struct {
	columns []string
	rows    [][]string
}

func (t table) maps() []map[string]string {
	out := make([]map[string]string, len(t.rows))
	for i, row := range t.rows {
		m := make(map[string]string, len(t.columns))
		for j, c := range t.columns {
			m[c] = row[j]
		}
		out[i] = m
	}
	return out
}

func (p *Provider) rows(opts Options) (table, error) {
	if p.env.Faker == nil {
		return table{}, providers.ErrNoFaker
	}
	t := table{columns: make([]string, len(opts.Columns))}
	for i, c := range opts.Columns {
		t.columns[i] = c.Name
	}
	for r := 0; r < opts.Rows; r++ {
		row := make([]string, len(opts.Columns))
		for i, c := range opts.Columns {
			v, err := opts.FormatFunc(p.env.Faker, c.Template)
			if err != nil {
				return table{}, fmt.Errorf("row %d column %s: %w", r, c.Name, err)
			}
			row[i] = v
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func encode(format string, t table, indent int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "json":
		enc := json.NewEncoder(&buf)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}
		if err := enc.Encode(t.maps()); err != nil {
			return nil, err
		}
	case "yaml":
		// 用 yaml.Node 保持列顺序
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, row := range t.rows {
			m := &yaml.Node{Kind: yaml.MappingNode}
			for i, c := range t.columns {
				m.Content = append(m.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c},
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: row[i]})
			}
			seq.Content = append(seq.Content, m)
		}
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(seq); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(map[string]any{"rows": t.maps()}); err != nil {
			return nil, err
		}
	case "csv":
		w := csv.NewWriter(&buf)
		if err := w.Write(t.columns); err != nil {
			return nil, err
		}
		if err := w.WriteAll(t.rows); err != nil {
			return nil, err
		}
	case "xml":
		if err := encodeXML(&buf, t, indent); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return buf.Bytes(), nil
}

func encodeXML(buf *bytes.Buffer, t table, indent int) error {
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(buf)
	if indent > 0 {
		enc.Indent("", strings.Repeat(" ", indent))
	}
	root := xml.StartElement{Name: xml.Name{Local: "rows"}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, row := range t.rows {
		item := xml.StartElement{Name: xml.Name{Local: "row"}}
		if err := enc.EncodeToken(item); err != nil {
			return err
		}
		for i, c := range t.columns {
			if err := enc.EncodeElement(row[i], xml.StartElement{Name: xml.Name{Local: xmlName(c)}}); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(item.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	buf.WriteString("\n")
	return nil
}

// xmlName 把列名转为合法的 XML 元素名
func xmlName(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (p *Provider) build(opts Options) (Options, providers.Output, error) {
	opts, err := opts.normalize()
	if err != nil {
		return opts, providers.Output{}, err
	}
	t, err := p.rows(opts)
	if err != nil {
		return opts, providers.Output{}, fmt.Errorf("%s: %w", Name, err)
	}
	payload, err := encode(opts.Format, t, opts.Indent)
	if err != nil {
		return opts, providers.Output{}, fmt.Errorf("%s: failed to encode %s: %w", Name, opts.Format, err)
	}

	data := &fakefile.Data{Content: string(payload)}
	data.SetExtra("format", opts.Format)
	data.SetExtra("rows", len(t.rows))
	data.SetExtra("columns", t.columns)
	return opts, providers.Output{
		Provider:  Name,
		Extension: opts.Format,
		Payload:   payload,
		Data:      data,
	}, nil
}

// Generate writes a data file and registers it.
func (p *Provider) Generate(ctx context.Context, opts Options) (*fakefile.File, error) {
	opts, out, err := p.build(opts)
	if err != nil {
		return nil, err
	}
	return p.env.Save(ctx, opts.FileOptions, out)
}

// GenerateRaw returns the encoded rows without writing them.
func (p *Provider) GenerateRaw(_ context.Context, opts Options) (*fakefile.RawFile, error) {
	_, out, err := p.build(opts)
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
