package document

import (
	"encoding/xml"
)

// DOCX XML Namespaces
const (
	WordprocessingMLNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	RelationshipsNamespace    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	PackageRelsNamespace      = "http://schemas.openxmlformats.org/package/2006/relationships"
	ContentTypesNamespace     = "http://schemas.openxmlformats.org/package/2006/content-types"
	WordDrawingNamespace      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"

	officeDocumentRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	imageRelType          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// WordDocument represents the main document.xml structure
type WordDocument struct {
	XMLName xml.Name `xml:"w:document"`
	W       string   `xml:"xmlns:w,attr"`
	R       string   `xml:"xmlns:r,attr"`
	WP      string   `xml:"xmlns:wp,attr"`
	Body    Body     `xml:"w:body"`
}

// Body holds paragraphs and tables in document order.
type Body struct {
	Content []any
	Section *SectionProps `xml:"w:sectPr"`
}

// Paragraph represents a paragraph element
type Paragraph struct {
	XMLName    xml.Name        `xml:"w:p"`
	Properties *ParagraphProps `xml:"w:pPr"`
	Runs       []Run           `xml:"w:r"`
}

// ParagraphProps represents paragraph properties
type ParagraphProps struct {
	Style   *ParagraphStyle   `xml:"w:pStyle"`
	Spacing *ParagraphSpacing `xml:"w:spacing"`
	Align   *ParagraphAlign   `xml:"w:jc"`
}

// ParagraphStyle represents paragraph style
type ParagraphStyle struct {
	Val string `xml:"w:val,attr"`
}

// ParagraphSpacing represents paragraph spacing
type ParagraphSpacing struct {
	After  string `xml:"w:after,attr,omitempty"`
	Before string `xml:"w:before,attr,omitempty"`
}

// ParagraphAlign represents paragraph alignment
type ParagraphAlign struct {
	Val string `xml:"w:val,attr"`
}

// Run represents a text run
type Run struct {
	Properties *RunProps `xml:"w:rPr"`
	Break      *Break    `xml:"w:br"`
	Text       *Text     `xml:"w:t"`
	Drawing    *Drawing  `xml:"w:drawing"`
}

// RunProps represents run properties
type RunProps struct {
	Bold *Bold     `xml:"w:b"`
	Size *FontSize `xml:"w:sz"`
}

// Text represents actual text content
type Text struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// Break represents a line or page break
type Break struct {
	Type string `xml:"w:type,attr,omitempty"`
}

// Bold represents bold formatting
type Bold struct{}

// FontSize represents font size in half-points
type FontSize struct {
	Val int `xml:"w:val,attr"`
}

// Table represents a table element
type Table struct {
	XMLName    xml.Name    `xml:"w:tbl"`
	Properties *TableProps `xml:"w:tblPr"`
	Grid       *TableGrid  `xml:"w:tblGrid"`
	Rows       []TableRow  `xml:"w:tr"`
}

// TableProps represents table properties
type TableProps struct {
	Width   *TableWidth   `xml:"w:tblW"`
	Borders *TableBorders `xml:"w:tblBorders"`
}

// TableWidth represents table width
type TableWidth struct {
	Type string `xml:"w:type,attr"`
	W    int    `xml:"w:w,attr"`
}

// TableBorders represents table borders
type TableBorders struct {
	Top     *Border `xml:"w:top"`
	Left    *Border `xml:"w:left"`
	Bottom  *Border `xml:"w:bottom"`
	Right   *Border `xml:"w:right"`
	InsideH *Border `xml:"w:insideH"`
	InsideV *Border `xml:"w:insideV"`
}

// Border represents a border
type Border struct {
	Val   string `xml:"w:val,attr"`
	Sz    string `xml:"w:sz,attr,omitempty"`
	Space string `xml:"w:space,attr,omitempty"`
	Color string `xml:"w:color,attr,omitempty"`
}

// TableGrid represents table grid
type TableGrid struct {
	GridCols []GridCol `xml:"w:gridCol"`
}

// GridCol represents a grid column
type GridCol struct {
	W int `xml:"w:w,attr"`
}

// TableRow represents a table row
type TableRow struct {
	Cells []TableCell `xml:"w:tc"`
}

// TableCell represents a table cell
type TableCell struct {
	Properties *TableCellProps `xml:"w:tcPr"`
	Paragraphs []Paragraph     `xml:"w:p"`
}

// TableCellProps represents table cell properties
type TableCellProps struct {
	Width *TableWidth `xml:"w:tcW"`
}

// Drawing carries a pre-rendered wp:inline element.
type Drawing struct {
	Inline string `xml:",innerxml"`
}

// SectionProps represents the final section properties
type SectionProps struct {
	PageSize   *PageSize   `xml:"w:pgSz"`
	PageMargin *PageMargin `xml:"w:pgMar"`
}

// PageSize in twentieths of a point
type PageSize struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

// PageMargin in twentieths of a point
type PageMargin struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
}

// ContentTypes represents [Content_Types].xml
type ContentTypes struct {
	XMLName   xml.Name   `xml:"Types"`
	Namespace string     `xml:"xmlns,attr"`
	Defaults  []Default  `xml:"Default"`
	Overrides []Override `xml:"Override"`
}

// Default represents a default content type
type Default struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Override represents an override content type
type Override struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Relationships represents relationships
type Relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Namespace     string         `xml:"xmlns,attr"`
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship represents a relationship
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
