package docx

const (
	// parts holding paragraphs with placeholders.
	partRegexp = `^word/(document|header[0-9]*|footer[0-9]*|footnotes|endnotes)\.xml$`
	// paragraph start, paragraph end and text nodes.
	nodeRegexp = `<w:p(?:\s[^>]*)?/?>|</w:p>|<w:t(?:\s[^>]*)?>([^<]*)</w:t>`

	documentPart     = "word/document.xml"
	contentTypesPart = "[Content_Types].xml"
	mediaDir         = "word/media/"

	textOpen  = `<w:t xml:space="preserve">`
	textClose = `</w:t>`
	lineBreak = textClose + `<w:br/>` + textOpen
	tab       = textClose + `<w:tab/>` + textOpen

	// marks a drawing inside replacement text; NUL cannot occur in XML text.
	drawingMark = "\x00"

	imageRelType  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	emptyRels     = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	emptyTypes    = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`
	pngDefault    = `<Default Extension="png" ContentType="image/png"/>`
	relsClose     = `</Relationships>`
	typesClose    = `</Types>`
	relIDPrefix   = "rIdBinderQR"
	mediaPrefix   = "binder_qr"
	drawingBaseID = 7000

	// English Metric Units per pixel at 96 dpi.
	emuPerPixel = 9525

	drawingTemplate = `<w:drawing>` +
		`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
		`<wp:extent cx="%[1]d" cy="%[1]d"/>` +
		`<wp:docPr id="%[2]d" name="%[3]s"/>` +
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:nvPicPr><pic:cNvPr id="0" name="%[3]s"/><pic:cNvPicPr/></pic:nvPicPr>` +
		`<pic:blipFill><a:blip r:embed="%[4]s" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[1]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`

	relationshipTemplate = `<Relationship Id="%s" Type="` + imageRelType + `" Target="%s"/>`
)
