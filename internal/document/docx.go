package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// 尺寸单位：twip（1/20 磅）与 EMU
const (
	a4WidthTwips   = 11906
	a4HeightTwips  = 16838
	marginTwips    = 1440
	emuPerPixel    = 9525
	maxPictureEMU  = 5486400 // 6 英寸
	tableWidthPct  = 5000    // 100%，单位为 1/50 百分比
	headingMinSize = 22
)

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="` + PackageRelsNamespace + `"><Relationship Id="rId1" Type="` + officeDocumentRelType + `" Target="word/document.xml"/></Relationships>`

const inlinePicture = `<wp:inline distT="0" distB="0" distL="0" distR="0">` +
	`<wp:extent cx="%[1]d" cy="%[2]d"/><wp:docPr id="%[3]d" name="Picture %[3]d"/>` +
	`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
	`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:nvPicPr><pic:cNvPr id="%[3]d" name="image%[3]d.png"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip r:embed="%[4]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm>` +
	`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
	`</pic:pic></a:graphicData></a:graphic></wp:inline>`

// DocxWriter builds a WordprocessingML package in memory. The cursor's Y is
// the number of body blocks, X the current page index.
type DocxWriter struct {
	logger *zap.Logger
	body   []any
	media  [][]byte
	page   int
}

// NewDocxWriter 创建 DOCX 写入器
func NewDocxWriter(opts WriterOptions) (Writer, error) {
	return &DocxWriter{logger: loggerFromOptions(opts)}, nil
}

func (w *DocxWriter) add(block any) (template.Position, error) {
	w.body = append(w.body, block)
	return template.Position{X: float64(w.page), Y: float64(len(w.body))}, nil
}

func textRun(s string, props *RunProps) Run {
	return Run{Properties: props, Text: &Text{Space: "preserve", Text: s}}
}

// textRuns 把换行拆成 w:br
func textRuns(s string, props *RunProps) []Run {
	lines := strings.Split(s, "\n")
	runs := make([]Run, 0, len(lines)*2)
	for i, line := range lines {
		if i > 0 {
			runs = append(runs, Run{Properties: props, Break: &Break{}})
		}
		runs = append(runs, textRun(line, props))
	}
	return runs
}

func (w *DocxWriter) AddParagraph(text string, _ template.Position) (template.Position, error) {
	return w.add(&Paragraph{Runs: textRuns(text, nil)})
}

func (w *DocxWriter) AddHeading(text string, level int, _ template.Position) (template.Position, error) {
	style, size := "Title", 56
	if level > 0 {
		style = fmt.Sprintf("Heading%d", level)
		size = max(36-4*level, headingMinSize)
	}
	return w.add(&Paragraph{
		Properties: &ParagraphProps{
			Style:   &ParagraphStyle{Val: style},
			Spacing: &ParagraphSpacing{Before: "240", After: "120"},
		},
		Runs: textRuns(text, &RunProps{Bold: &Bold{}, Size: &FontSize{Val: size}}),
	})
}

// AddPicture 图片统一转为 PNG 存入 word/media
func (w *DocxWriter) AddPicture(img []byte, _ template.Position) (template.Position, error) {
	decoded, err := imaging.Decode(bytes.NewReader(img))
	if err != nil {
		return template.Position{}, fmt.Errorf("failed to decode picture: %w", err)
	}
	var png bytes.Buffer
	if err := imaging.Encode(&png, decoded, imaging.PNG); err != nil {
		return template.Position{}, fmt.Errorf("failed to encode picture: %w", err)
	}
	w.media = append(w.media, png.Bytes())
	id := len(w.media)

	b := decoded.Bounds()
	cx, cy := b.Dx()*emuPerPixel, b.Dy()*emuPerPixel
	if cx > maxPictureEMU {
		cy = cy * maxPictureEMU / cx
		cx = maxPictureEMU
	}
	return w.add(&Paragraph{
		Properties: &ParagraphProps{Align: &ParagraphAlign{Val: "center"}},
		Runs: []Run{{Drawing: &Drawing{
			Inline: fmt.Sprintf(inlinePicture, cx, cy, id, mediaRelID(id)),
		}}},
	})
}

func (w *DocxWriter) AddTable(rows [][]string, _ template.Position) (template.Position, error) {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return template.Position{X: float64(w.page), Y: float64(len(w.body))}, nil
	}
	colWidth := (a4WidthTwips - 2*marginTwips) / cols

	border := &Border{Val: "single", Sz: "4", Space: "0", Color: "auto"}
	tbl := &Table{
		Properties: &TableProps{
			Width: &TableWidth{Type: "pct", W: tableWidthPct},
			Borders: &TableBorders{
				Top: border, Left: border, Bottom: border, Right: border,
				InsideH: border, InsideV: border,
			},
		},
		Grid: &TableGrid{},
	}
	for i := 0; i < cols; i++ {
		tbl.Grid.GridCols = append(tbl.Grid.GridCols, GridCol{W: colWidth})
	}
	for _, row := range rows {
		tr := TableRow{}
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			tr.Cells = append(tr.Cells, TableCell{
				Properties: &TableCellProps{Width: &TableWidth{Type: "dxa", W: colWidth}},
				Paragraphs: []Paragraph{{Runs: textRuns(cell, nil)}},
			})
		}
		tbl.Rows = append(tbl.Rows, tr)
	}
	return w.add(tbl)
}

func (w *DocxWriter) AddPageBreak(_ template.Position) (template.Position, error) {
	w.page++
	return w.add(&Paragraph{Runs: []Run{{Break: &Break{Type: "page"}}}})
}

// Pages 返回页数（按显式分页计）
func (w *DocxWriter) Pages() int { return w.page + 1 }

func mediaRelID(id int) string { return fmt.Sprintf("rIdImage%d", id) }

func marshalPart(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Bytes 打包为 .docx
func (w *DocxWriter) Bytes() ([]byte, error) {
	doc := WordDocument{
		W:  WordprocessingMLNamespace,
		R:  RelationshipsNamespace,
		WP: WordDrawingNamespace,
		Body: Body{
			Content: w.body,
			Section: &SectionProps{
				PageSize: &PageSize{W: a4WidthTwips, H: a4HeightTwips},
				PageMargin: &PageMargin{
					Top: marginTwips, Right: marginTwips, Bottom: marginTwips, Left: marginTwips,
				},
			},
		},
	}
	// 空正文至少需要一个段落
	if len(doc.Body.Content) == 0 {
		doc.Body.Content = []any{&Paragraph{}}
	}

	types := ContentTypes{
		Namespace: ContentTypesNamespace,
		Defaults: []Default{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
			{Extension: "png", ContentType: "image/png"},
		},
		Overrides: []Override{{
			PartName:    "/word/document.xml",
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml",
		}},
	}
	rels := Relationships{Namespace: PackageRelsNamespace}
	for i := range w.media {
		rels.Relationships = append(rels.Relationships, Relationship{
			ID:     mediaRelID(i + 1),
			Type:   imageRelType,
			Target: fmt.Sprintf("media/image%d.png", i+1),
		})
	}

	parts := []struct {
		name string
		v    any
	}{
		{"[Content_Types].xml", types},
		{"word/document.xml", doc},
		{"word/_rels/document.xml.rels", rels},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		data, err := marshalPart(p.v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", p.name, err)
		}
		if err := writeZipEntry(zw, p.name, data); err != nil {
			return nil, err
		}
	}
	if err := writeZipEntry(zw, "_rels/.rels", []byte(packageRels)); err != nil {
		return nil, err
	}
	for i, m := range w.media {
		if err := writeZipEntry(zw, fmt.Sprintf("word/media/image%d.png", i+1), m); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx: %w", err)
	}
	w.logger.Debug("docx assembled",
		zap.Int("blocks", len(w.body)),
		zap.Int("media", len(w.media)),
		zap.Int("pages", w.Pages()))
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (w *DocxWriter) GetFormat() Format { return FormatDocx }
