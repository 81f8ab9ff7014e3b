// Package pptx は OOXML PresentationML (.pptx) を直接書き出す最小のライタです。
// 依存ライブラリなしで、16:9 のスライドと単純なテキストボックスだけを扱います。
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// EMU 換算の定数。OOXML の座標系は English Metric Unit で表現されます。
const (
	emuPerInch  = 914400
	emuPerPoint = 12700

	// 16:9 スライド（10 × 5.625 インチ）
	slideWidthEMU  = 10 * emuPerInch
	slideHeightEMU = 5143500
)

// Presentation は生成対象のプレゼンテーション全体です。
type Presentation struct {
	Title  string
	Author string
	slides []*Slide
}

// New は空のプレゼンテーションを作成します。
func New() *Presentation {
	return &Presentation{}
}

// AddSlide は末尾に新しいスライドを追加して返します。
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{}
	p.slides = append(p.slides, s)
	return s
}

// SlideCount は現在のスライド枚数を返します。
func (p *Presentation) SlideCount() int {
	return len(p.slides)
}

// Slide は1枚のスライドです。
type Slide struct {
	background string // '#' なしの16進。空なら塗りなし
	shapes     []textShape
}

// SetBackground はスライド全面の背景色を設定します。
func (s *Slide) SetBackground(hex string) {
	s.background = strings.TrimPrefix(hex, "#")
}

// TextOptions はテキストボックスの位置と装飾です。座標はインチ単位です。
type TextOptions struct {
	X, Y, W, H  float64
	FontSize    float64 // ポイント
	Color       string  // '#' なしの16進。空なら既定色
	Bold        bool
	Italic      bool
	Align       string  // "ctr" / "l" / "r"。空は "l"
	Anchor      string  // 垂直アンカー "ctr" / "t"。空は "t"
	LineSpacing float64 // ポイント。0 は指定なし
}

// TextRun は段落内の1行分です。BreakAfter で明示的な改行を入れます。
type TextRun struct {
	Text       string
	BreakAfter bool
}

type textShape struct {
	runs []TextRun
	opt  TextOptions
}

// AddText は単一行のテキストボックスを追加します。
func (s *Slide) AddText(text string, opt TextOptions) {
	s.shapes = append(s.shapes, textShape{runs: []TextRun{{Text: text}}, opt: opt})
}

// AddRuns は改行区切りの複数行を1つのテキストボックスとして追加します。
func (s *Slide) AddRuns(runs []TextRun, opt TextOptions) {
	if len(runs) == 0 {
		return
	}
	s.shapes = append(s.shapes, textShape{runs: runs, opt: opt})
}

// Bytes は .pptx のバイナリを生成して返します。
func (p *Presentation) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write は .pptx の ZIP パッケージを w へ書き出します。
func (p *Presentation) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", p.contentTypesXML()},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", p.coreXML()},
		{"docProps/app.xml", appXML},
		{"ppt/presentation.xml", p.presentationXML()},
		{"ppt/_rels/presentation.xml.rels", p.presentationRelsXML()},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for i, s := range p.slides {
		parts = append(parts,
			struct{ name, content string }{
				fmt.Sprintf("ppt/slides/slide%d.xml", i+1), s.xml(),
			},
			struct{ name, content string }{
				fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), slideRelsXML,
			},
		)
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("zipエントリ %s の作成に失敗しました: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return fmt.Errorf("zipエントリ %s の書き込みに失敗しました: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("zipの終端処理に失敗しました: %w", err)
	}
	return nil
}

func (p *Presentation) contentTypesXML() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	sb.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := range p.slides {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	sb.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	sb.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	sb.WriteString(`</Types>`)
	return sb.String()
}

func (p *Presentation) coreXML() string {
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<dc:title>` + escape(p.Title) + `</dc:title>` +
		`<dc:creator>` + escape(p.Author) + `</dc:creator>` +
		`</cp:coreProperties>`
}

func (p *Presentation) presentationXML() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	sb.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	sb.WriteString(`<p:sldIdLst>`)
	for i := range p.slides {
		fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, 2+i)
	}
	sb.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&sb, `<p:sldSz cx="%d" cy="%d"/>`, slideWidthEMU, slideHeightEMU)
	sb.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	sb.WriteString(`</p:presentation>`)
	return sb.String()
}

func (p *Presentation) presentationRelsXML() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range p.slides {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, 2+i, i+1)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func (s *Slide) xml() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	sb.WriteString(`<p:cSld>`)
	if s.background != "" {
		fmt.Fprintf(&sb, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, escape(s.background))
	}
	sb.WriteString(`<p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	for i, shape := range s.shapes {
		shape.write(&sb, i+2)
	}
	sb.WriteString(`</p:spTree>`)
	sb.WriteString(`</p:cSld>`)
	sb.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	sb.WriteString(`</p:sld>`)
	return sb.String()
}

func (t textShape) write(sb *strings.Builder, id int) {
	o := t.opt

	sb.WriteString(`<p:sp>`)
	fmt.Fprintf(sb, `<p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id)
	fmt.Fprintf(sb, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`,
		inchesToEMU(o.X), inchesToEMU(o.Y), inchesToEMU(o.W), inchesToEMU(o.H))

	anchor := o.Anchor
	if anchor == "" {
		anchor = "t"
	}
	fmt.Fprintf(sb, `<p:txBody><a:bodyPr wrap="square" anchor="%s"/>`, anchor)

	sb.WriteString(`<a:p><a:pPr`)
	if o.Align != "" {
		fmt.Fprintf(sb, ` algn="%s"`, o.Align)
	}
	sb.WriteString(`>`)
	if o.LineSpacing > 0 {
		fmt.Fprintf(sb, `<a:lnSpc><a:spcPts val="%d"/></a:lnSpc>`, int(o.LineSpacing*100))
	}
	sb.WriteString(`</a:pPr>`)

	for _, run := range t.runs {
		fmt.Fprintf(sb, `<a:r><a:rPr lang="en-US" sz="%d"`, int(o.FontSize*100))
		if o.Bold {
			sb.WriteString(` b="1"`)
		}
		if o.Italic {
			sb.WriteString(` i="1"`)
		}
		sb.WriteString(` dirty="0"`)
		if o.Color != "" {
			fmt.Fprintf(sb, `><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr>`, escape(o.Color))
		} else {
			sb.WriteString(`/>`)
		}
		fmt.Fprintf(sb, `<a:t>%s</a:t></a:r>`, escape(run.Text))
		if run.BreakAfter {
			sb.WriteString(`<a:br/>`)
		}
	}

	sb.WriteString(`</a:p></p:txBody></p:sp>`)
}

func inchesToEMU(in float64) int {
	return int(in * emuPerInch)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return xmlReplacer.Replace(s)
}
