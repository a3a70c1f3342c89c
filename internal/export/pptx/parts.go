package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/pitchdeck-server/internal/model"
)

const (
	emuPerInch = 914400

	slideWidth  = 10 * emuPerInch
	slideHeight = 5625 * emuPerInch / 1000

	titleSize = 2400
	bodySize  = 1400
	notesSize = 1200

	bullet = "• "

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	nsA   = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR   = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP   = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	nsAll = nsA + " " + nsR + " " + nsP

	relNS = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDoc  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps  = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relSlideMastr = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLyt   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relNotesMastr = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"
	relNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTheme      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relPresProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relViewProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTableStyle = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relImage      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctPrefix = "application/vnd.openxmlformats-officedocument."
)

type rect struct {
	x, y, cx, cy int64
}

func inches(v float64) int64 {
	return int64(v * emuPerInch)
}

var (
	titleBox      = rect{x: inches(0.5), y: inches(0.3), cx: inches(9.0), cy: inches(0.7)}
	bodyBox       = rect{x: inches(0.5), y: inches(1.2), cx: inches(9.0), cy: inches(4.0)}
	bodyBoxNarrow = rect{x: inches(0.5), y: inches(1.2), cx: inches(5.5), cy: inches(4.0)}
	imageBox      = rect{x: inches(6.2), y: inches(1.2), cx: inches(3.0), cy: inches(1.7)}
)

// esc returns s escaped for use as XML character data or attribute value.
func esc(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

type relationship struct {
	id, typ, target string
}

func relsXML(rels []relationship) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, relNS)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, esc(r.target))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func contentTypesXML(slides int, notes []int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	b.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	b.WriteString(`<Default Extension="gif" ContentType="image/gif"/>`)

	override := func(part, ct string) {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, part, ct)
	}
	override("/ppt/presentation.xml", ctPrefix+"presentationml.presentation.main+xml")
	override("/ppt/slideMasters/slideMaster1.xml", ctPrefix+"presentationml.slideMaster+xml")
	override("/ppt/slideLayouts/slideLayout1.xml", ctPrefix+"presentationml.slideLayout+xml")
	override("/ppt/notesMasters/notesMaster1.xml", ctPrefix+"presentationml.notesMaster+xml")
	override("/ppt/theme/theme1.xml", ctPrefix+"theme+xml")
	override("/ppt/theme/theme2.xml", ctPrefix+"theme+xml")
	override("/ppt/presProps.xml", ctPrefix+"presentationml.presProps+xml")
	override("/ppt/viewProps.xml", ctPrefix+"presentationml.viewProps+xml")
	override("/ppt/tableStyles.xml", ctPrefix+"presentationml.tableStyles+xml")
	for i := 1; i <= slides; i++ {
		override(fmt.Sprintf("/ppt/slides/slide%d.xml", i), ctPrefix+"presentationml.slide+xml")
	}
	for _, n := range notes {
		override(fmt.Sprintf("/ppt/notesSlides/notesSlide%d.xml", n), ctPrefix+"presentationml.notesSlide+xml")
	}
	override("/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml")
	override("/docProps/app.xml", ctPrefix+"extended-properties+xml")
	b.WriteString(`</Types>`)
	return b.String()
}

func rootRelsXML() string {
	return relsXML([]relationship{
		{"rId1", relOfficeDoc, "ppt/presentation.xml"},
		{"rId2", relCoreProps, "docProps/core.xml"},
		{"rId3", relExtProps, "docProps/app.xml"},
	})
}

func coreXML(deck model.Deck, now time.Time) string {
	created := now.UTC()
	if deck.CreatedAt > 0 {
		created = deck.Created().UTC()
	}
	title := deck.Objective
	if title == "" {
		title = deck.ID
	}
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + esc(title) + `</dc:title>` +
		`<dc:subject>` + esc(deck.Summary) + `</dc:subject>` +
		`<dc:creator>pitchdeck</dc:creator>` +
		`<cp:keywords>` + esc(deck.Tone) + `</cp:keywords>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + created.Format(time.RFC3339) + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + now.UTC().Format(time.RFC3339) + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

func appXML(slides, notes int) string {
	return xmlHeader +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"` +
		` xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
		`<Application>pitchdeck</Application>` +
		`<PresentationFormat>On-screen Show (16:9)</PresentationFormat>` +
		fmt.Sprintf(`<Slides>%d</Slides><Notes>%d</Notes>`, slides, notes) +
		`</Properties>`
}

// Fixed relationship ids of presentation.xml; slides start at slideRelBase.
const slideRelBase = 10

func presentationXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + nsAll + ` saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:notesMasterIdLst><p:notesMasterId r:id="rId2"/></p:notesMasterIdLst>`)
	// an empty sldIdLst is not schema-valid
	if slides > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 0; i < slides; i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, slideRelBase+i)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, slideWidth, slideHeight)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slides int) string {
	rels := []relationship{
		{"rId1", relSlideMastr, "slideMasters/slideMaster1.xml"},
		{"rId2", relNotesMastr, "notesMasters/notesMaster1.xml"},
		{"rId3", relPresProps, "presProps.xml"},
		{"rId4", relViewProps, "viewProps.xml"},
		{"rId5", relTheme, "theme/theme1.xml"},
		{"rId6", relTableStyle, "tableStyles.xml"},
	}
	for i := 0; i < slides; i++ {
		rels = append(rels, relationship{
			id:     fmt.Sprintf("rId%d", slideRelBase+i),
			typ:    relSlide,
			target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}
	return relsXML(rels)
}

const emptyGroup = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const clrMap = `<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2"` +
	` accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`

func slideMasterXML() string {
	return xmlHeader +
		`<p:sldMaster ` + nsAll + `>` +
		`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>` +
		`<p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
		clrMap +
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
		`<p:txStyles>` +
		fmt.Sprintf(`<p:titleStyle><a:lvl1pPr><a:defRPr sz="%d" b="1"/></a:lvl1pPr></p:titleStyle>`, titleSize) +
		fmt.Sprintf(`<p:bodyStyle><a:lvl1pPr><a:defRPr sz="%d"/></a:lvl1pPr></p:bodyStyle>`, bodySize) +
		fmt.Sprintf(`<p:otherStyle><a:lvl1pPr><a:defRPr sz="%d"/></a:lvl1pPr></p:otherStyle>`, bodySize) +
		`</p:txStyles>` +
		`</p:sldMaster>`
}

func slideMasterRelsXML() string {
	return relsXML([]relationship{
		{"rId1", relSlideLyt, "../slideLayouts/slideLayout1.xml"},
		{"rId2", relTheme, "../theme/theme1.xml"},
	})
}

func slideLayoutXML() string {
	return xmlHeader +
		`<p:sldLayout ` + nsAll + ` type="blank" preserve="1">` +
		`<p:cSld name="Blank"><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sldLayout>`
}

func slideLayoutRelsXML() string {
	return relsXML([]relationship{
		{"rId1", relSlideMastr, "../slideMasters/slideMaster1.xml"},
	})
}

func notesMasterXML() string {
	return xmlHeader +
		`<p:notesMaster ` + nsAll + `>` +
		`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + emptyGroup +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/>` +
		`<p:cNvSpPr><a:spLocks noGrp="1" noRot="1" noChangeAspect="1"/></p:cNvSpPr>` +
		`<p:nvPr><p:ph type="sldImg" idx="2"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr><a:xfrm><a:off x="381000" y="685800"/><a:ext cx="6096000" cy="3429000"/></a:xfrm>` +
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/>` +
		`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>` +
		`<p:nvPr><p:ph type="body" sz="quarter" idx="3"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr><a:xfrm><a:off x="685800" y="4343400"/><a:ext cx="5486400" cy="4114800"/></a:xfrm>` +
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld>` +
		clrMap +
		fmt.Sprintf(`<p:notesStyle><a:lvl1pPr><a:defRPr sz="%d"/></a:lvl1pPr></p:notesStyle>`, notesSize) +
		`</p:notesMaster>`
}

func notesMasterRelsXML() string {
	return relsXML([]relationship{
		{"rId1", relTheme, "../theme/theme2.xml"},
	})
}

func presPropsXML() string {
	return xmlHeader + `<p:presentationPr ` + nsAll + `/>`
}

func viewPropsXML() string {
	return xmlHeader + `<p:viewPr ` + nsAll + `><p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`
}

func tableStylesXML() string {
	return xmlHeader + `<a:tblStyleLst ` + nsA + ` def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`
}

// themeXML builds a complete DrawingML theme whose dark and light colors follow t.
func themeXML(name string, t model.Theme) string {
	srgb := func(tag, hex string) string {
		return fmt.Sprintf(`<a:%s><a:srgbClr val="%s"/></a:%s>`, tag, hex, tag)
	}
	fill := `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`
	line := func(w int) string {
		return fmt.Sprintf(`<a:ln w="%d" cap="flat" cmpd="sng" algn="ctr">%s<a:prstDash val="solid"/></a:ln>`, w, fill)
	}
	font := func(tag, face string) string {
		return fmt.Sprintf(`<a:%s><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:%s>`, tag, face, tag)
	}

	return xmlHeader +
		`<a:theme ` + nsA + ` name="` + esc(name) + `"><a:themeElements>` +
		`<a:clrScheme name="` + esc(t.Name) + `">` +
		srgb("dk1", t.TitleColor) + srgb("lt1", t.Background) +
		srgb("dk2", t.BodyColor) + srgb("lt2", "E7E6E6") +
		srgb("accent1", "4F46E5") + srgb("accent2", "F97316") + srgb("accent3", "10B981") +
		srgb("accent4", "EAB308") + srgb("accent5", "0EA5E9") + srgb("accent6", "EC4899") +
		srgb("hlink", "2563EB") + srgb("folHlink", "7C3AED") +
		`</a:clrScheme>` +
		`<a:fontScheme name="Pitchdeck">` + font("majorFont", "Calibri Light") + font("minorFont", "Calibri") + `</a:fontScheme>` +
		`<a:fmtScheme name="Pitchdeck">` +
		`<a:fillStyleLst>` + fill + fill + fill + `</a:fillStyleLst>` +
		`<a:lnStyleLst>` + line(6350) + line(12700) + line(19050) + `</a:lnStyleLst>` +
		`<a:effectStyleLst>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`</a:effectStyleLst>` +
		`<a:bgFillStyleLst>` + fill + fill + fill + `</a:bgFillStyleLst>` +
		`</a:fmtScheme>` +
		`</a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`
}

// runs writes text as runs, turning embedded newlines into line breaks.
func runs(b *strings.Builder, text, rPr string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString(`<a:br>` + rPr + `</a:br>`)
		}
		b.WriteString(`<a:r>` + rPr + `<a:t>` + esc(line) + `</a:t></a:r>`)
	}
}

func runProps(size int, bold bool, color string) string {
	b := ""
	if bold {
		b = ` b="1"`
	}
	if color == "" {
		return fmt.Sprintf(`<a:rPr lang="en-US" sz="%d"%s dirty="0"/>`, size, b)
	}
	return fmt.Sprintf(`<a:rPr lang="en-US" sz="%d"%s dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr>`,
		size, b, color)
}

func xfrm(r rect) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, r.x, r.y, r.cx, r.cy)
}

// textBox renders a shape holding one paragraph per entry of paras.
func textBox(b *strings.Builder, id int, name string, box rect, paras []string, rPr string, size int) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, name)
	b.WriteString(`<p:spPr>` + xfrm(box) + `<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square" rtlCol="0" anchor="t"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	if len(paras) == 0 {
		fmt.Fprintf(b, `<a:p><a:endParaRPr lang="en-US" sz="%d" dirty="0"/></a:p>`, size)
	}
	for _, p := range paras {
		b.WriteString(`<a:p>`)
		runs(b, p, rPr)
		b.WriteString(`</a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

// placedImage is an image embedded in a slide under relationship id rel.
type placedImage struct {
	rel string
	box rect
}

func slideXML(s model.Slide, t model.Theme, img *placedImage) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + nsAll + `><p:cSld>`)
	fmt.Fprintf(&b, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, t.Background)
	b.WriteString(`<p:spTree>` + emptyGroup)

	textBox(&b, 2, "Title 1", titleBox, []string{s.Title}, runProps(titleSize, true, t.TitleColor), titleSize)

	bullets := make([]string, 0, len(s.Bullets))
	for _, text := range s.Bullets {
		bullets = append(bullets, bullet+text)
	}
	box := bodyBox
	if img != nil {
		box = bodyBoxNarrow
	}
	textBox(&b, 3, "Body 2", box, bullets, runProps(bodySize, false, t.BodyColor), bodySize)

	if img != nil {
		b.WriteString(`<p:pic><p:nvPicPr><p:cNvPr id="4" name="Image 3"/>`)
		b.WriteString(`<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
		fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, img.rel)
		b.WriteString(`<p:spPr>` + xfrm(img.box) + `<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
	}

	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func notesSlideXML(notes string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:notes ` + nsAll + `><p:cSld><p:spTree>` + emptyGroup)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/>`)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1" noRot="1" noChangeAspect="1"/></p:cNvSpPr>`)
	b.WriteString(`<p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>`)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/>`)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`)
	b.WriteString(`<p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p>`)
	runs(&b, notes, runProps(notesSize, false, ""))
	b.WriteString(`</a:p></p:txBody></p:sp>`)
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`)
	return b.String()
}

func notesSlideRelsXML(slide int) string {
	return relsXML([]relationship{
		{"rId1", relNotesMastr, "../notesMasters/notesMaster1.xml"},
		{"rId2", relSlide, fmt.Sprintf("../slides/slide%d.xml", slide)},
	})
}
