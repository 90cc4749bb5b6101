package docx

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/geoirb/proposal-binder/internal/binding"
	"github.com/geoirb/proposal-binder/internal/format"
)

// renderer computes the changed entries of one document package.
type renderer struct {
	d        *document
	set      *binding.Set
	fallback string
	finder   tokenFinder
	qrcode   qrcode

	stats   Stats
	changed map[string][]byte
	// media file by placeholder name.
	media     map[string]string
	drawingID int
}

func newRenderer(
	d *document,
	set *binding.Set,
	fallback string,
	finder tokenFinder,
	qrcode qrcode,
) *renderer {
	return &renderer{
		d:        d,
		set:      set,
		fallback: strings.ReplaceAll(fallback, drawingMark, ""),
		finder:   finder,
		qrcode:   qrcode,
		changed:  make(map[string][]byte),
		media:    make(map[string]string),
	}
}

// render returns new content of changed and added entries by name.
func (r *renderer) render() (map[string][]byte, error) {
	for _, part := range r.d.parts {
		data, err := r.d.read(part)
		if err != nil {
			return nil, err
		}
		rels := newRelationships(relsPath(part.Name))
		out, err := r.renderPart(data, rels)
		if err != nil {
			return nil, &Error{Kind: ErrOutputWrite, Path: r.d.path, Part: part.Name, Err: err}
		}
		if out != nil {
			r.changed[part.Name] = out
		}
		if len(rels.added) > 0 {
			if err = r.writeRelationships(rels); err != nil {
				return nil, err
			}
		}
	}
	if len(r.media) > 0 {
		if err := r.writeContentTypes(); err != nil {
			return nil, err
		}
	}
	return r.changed, nil
}

type edit struct {
	start, end int
	text       string
}

// renderPart returns new part content, or nil when nothing is replaced.
func (r *renderer) renderPart(data []byte, rels *relationships) ([]byte, error) {
	var edits []edit
	for _, p := range paragraphs(data) {
		tokens := r.finder.Find(p.text())
		if len(tokens) == 0 {
			continue
		}

		var (
			replacements []replacement
			drawings     []string
		)
		for _, token := range tokens {
			e, isExist := r.set.Get(token.Name)
			switch {
			case isExist && e.HasValue() && e.Rule.Kind == format.QRCodeKind && e.Text != "":
				drawing, err := r.drawing(e, rels)
				if err != nil {
					return nil, err
				}
				mark := drawingMark + strconv.Itoa(len(drawings)) + drawingMark
				drawings = append(drawings, drawing)
				replacements = append(replacements, replacement{start: token.Start, end: token.End, text: mark})
				r.stats.Images++
			case isExist && e.HasValue():
				text := strings.ReplaceAll(e.Text, drawingMark, "")
				replacements = append(replacements, replacement{start: token.Start, end: token.End, text: text})
				r.stats.Replaced++
			case r.fallback != "":
				replacements = append(replacements, replacement{start: token.Start, end: token.End, text: r.fallback})
				r.stats.Fallbacks++
			}
		}

		for idx, text := range p.replace(replacements) {
			node := p.nodes[idx]
			edits = append(edits, edit{start: node.start, end: node.end, text: encodeText(text, drawings)})
		}
	}
	if len(edits) == 0 {
		return nil, nil
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var (
		b    strings.Builder
		last int
	)
	b.Grow(len(data))
	for _, e := range edits {
		b.Write(data[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.Write(data[last:])
	return []byte(b.String()), nil
}

// drawing returns inline drawing of the QR code of e, adding the image
// to the package and a relationship to the part.
func (r *renderer) drawing(e binding.Entry, rels *relationships) (string, error) {
	media, isExist := r.media[e.Placeholder]
	if !isExist {
		png, err := r.qrcode.Create(e.Text, e.Rule.Pixels())
		if err != nil {
			return "", fmt.Errorf("qrcode %s: %w", e.Placeholder, err)
		}
		for n := len(r.media) + 1; ; n++ {
			media = mediaDir + mediaPrefix + strconv.Itoa(n) + ".png"
			if _, isExist = r.d.files[media]; !isExist {
				break
			}
		}
		r.media[e.Placeholder] = media
		r.changed[media] = png
	}

	id, err := r.relationship(rels, media)
	if err != nil {
		return "", err
	}
	r.drawingID++
	emu := e.Rule.Pixels() * emuPerPixel
	return fmt.Sprintf(drawingTemplate, emu, drawingBaseID+r.drawingID, "QR "+e.Placeholder, id), nil
}

// relationship returns id of the image relationship of the part to media.
func (r *renderer) relationship(rels *relationships, media string) (string, error) {
	if id, isExist := rels.byTarget[media]; isExist {
		return id, nil
	}
	if err := r.loadRelationships(rels); err != nil {
		return "", err
	}
	for n := len(rels.added) + 1; ; n++ {
		id := relIDPrefix + strconv.Itoa(n)
		if strings.Contains(rels.data, `Id="`+id+`"`) {
			continue
		}
		target, err := relTarget(rels.path, media)
		if err != nil {
			return "", err
		}
		rels.byTarget[media] = id
		rels.added = append(rels.added, fmt.Sprintf(relationshipTemplate, id, target))
		return id, nil
	}
}

func (r *renderer) loadRelationships(rels *relationships) error {
	if rels.loaded {
		return nil
	}
	rels.loaded = true
	rels.data = emptyRels
	if f, isExist := r.d.files[rels.path]; isExist {
		data, err := r.d.read(f)
		if err != nil {
			return err
		}
		rels.data = string(data)
	}
	return nil
}

func (r *renderer) writeRelationships(rels *relationships) error {
	data, err := insertBefore(rels.data, relsClose, strings.Join(rels.added, ""))
	if err != nil {
		return &Error{Kind: ErrTemplateFormat, Path: r.d.path, Part: rels.path, Err: err}
	}
	r.changed[rels.path] = []byte(data)
	return nil
}

func (r *renderer) writeContentTypes() error {
	types := emptyTypes
	if f, isExist := r.d.files[contentTypesPart]; isExist {
		data, err := r.d.read(f)
		if err != nil {
			return err
		}
		types = string(data)
	}
	if strings.Contains(strings.ToLower(types), `extension="png"`) {
		return nil
	}
	data, err := insertBefore(types, typesClose, pngDefault)
	if err != nil {
		return &Error{Kind: ErrTemplateFormat, Path: r.d.path, Part: contentTypesPart, Err: err}
	}
	r.changed[contentTypesPart] = []byte(data)
	return nil
}

// relationships of one part.
type relationships struct {
	path     string
	loaded   bool
	data     string
	byTarget map[string]string
	added    []string
}

func newRelationships(path string) *relationships {
	return &relationships{
		path:     path,
		byTarget: make(map[string]string),
	}
}

// relsPath returns the relationships part of part, e.g. word/_rels/document.xml.rels.
func relsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// relTarget returns media relative to the directory of the part owning rels.
func relTarget(rels, media string) (string, error) {
	dir := path.Dir(path.Dir(rels))
	if !strings.HasPrefix(media, dir+"/") {
		return "", fmt.Errorf("media %s is outside of %s", media, dir)
	}
	return strings.TrimPrefix(media, dir+"/"), nil
}

func insertBefore(data, closeTag, insert string) (string, error) {
	idx := strings.LastIndex(data, closeTag)
	if idx < 0 {
		return "", fmt.Errorf("closing tag %s not found", closeTag)
	}
	return data[:idx] + insert + data[idx:], nil
}
