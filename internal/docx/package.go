package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/geoirb/proposal-binder/internal/parser"
)

var partReg = regexp.MustCompile(partRegexp)

type fileParser interface {
	Is(filename, family string) bool
}

// document is an opened template package.
type document struct {
	path   string
	reader *zip.ReadCloser
	files  map[string]*zip.File
	// text parts, word/document.xml first.
	parts []*zip.File
}

// openDocument opens the template read-only.
func openDocument(path string, p fileParser) (d *document, err error) {
	if _, err = os.Stat(path); err != nil {
		err = &Error{Kind: ErrTemplateNotFound, Path: path, Err: err}
		return
	}
	if !p.Is(path, parser.Document) {
		err = &Error{Kind: ErrTemplateFormat, Path: path, Err: errUnsupportedType}
		return
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		kind := ErrTemplateFormat
		if errors.Is(err, os.ErrPermission) {
			kind = ErrTemplateNotFound
		}
		err = &Error{Kind: kind, Path: path, Err: err}
		return
	}

	d = &document{
		path:   path,
		reader: reader,
		files:  make(map[string]*zip.File, len(reader.File)),
	}
	for _, f := range reader.File {
		d.files[f.Name] = f
		if partReg.MatchString(f.Name) {
			d.parts = append(d.parts, f)
		}
	}
	if _, isExist := d.files[documentPart]; !isExist {
		reader.Close()
		d, err = nil, &Error{Kind: ErrTemplateFormat, Path: path, Err: errNoDocument}
		return
	}
	sort.SliceStable(d.parts, func(i, j int) bool {
		if d.parts[i].Name == documentPart || d.parts[j].Name == documentPart {
			return d.parts[i].Name == documentPart
		}
		return d.parts[i].Name < d.parts[j].Name
	})
	return
}

// read returns content of the file. Parts of the template must be well-formed XML.
func (d *document) read(f *zip.File) (data []byte, err error) {
	rc, err := f.Open()
	if err != nil {
		err = &Error{Kind: ErrTemplateFormat, Path: d.path, Part: f.Name, Err: err}
		return
	}
	defer rc.Close()

	if data, err = io.ReadAll(rc); err != nil {
		err = &Error{Kind: ErrTemplateFormat, Path: d.path, Part: f.Name, Err: err}
		return
	}
	if err = wellFormed(data); err != nil {
		err = &Error{Kind: ErrTemplateFormat, Path: d.path, Part: f.Name, Err: err}
	}
	return
}

func (d *document) Close() error {
	return d.reader.Close()
}

func wellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		if _, err := decoder.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
