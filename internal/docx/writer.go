package docx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/geoirb/proposal-binder/internal/binding"
	"github.com/geoirb/proposal-binder/internal/parser"
)

type pathBuilder interface {
	TmpFile(output string) string
}

type qrcode interface {
	Create(payload string, size int) ([]byte, error)
}

// Stats of one written document.
type Stats struct {
	// Replaced occurrences with their resolved text.
	Replaced int
	// Fallbacks are unresolved occurrences replaced with the fallback text.
	Fallbacks int
	// Images are occurrences rendered as QR codes.
	Images int
}

// Writer fills templates with binding sets.
type Writer struct {
	fallback string

	parser fileParser
	finder tokenFinder
	path   pathBuilder
	qrcode qrcode
	logger log.Logger
}

// NewWriter returns writer. Unresolved placeholders are replaced with
// fallback, or kept as they are when fallback is empty.
func NewWriter(
	fallback string,
	parser fileParser,
	finder tokenFinder,
	path pathBuilder,
	qrcode qrcode,
	logger log.Logger,
) *Writer {
	return &Writer{
		fallback: fallback,
		parser:   parser,
		finder:   finder,
		path:     path,
		qrcode:   qrcode,
		logger:   logger,
	}
}

// Write fills template with set and saves the result to output.
// The output appears completely or not at all.
func (w *Writer) Write(template, output string, set *binding.Set) (stats Stats, err error) {
	logger := log.WithPrefix(w.logger, "method", "Write", "template", template, "output", output)

	if err = w.checkPaths(template, output); err != nil {
		level.Error(logger).Log("msg", "check paths", "err", err)
		return
	}

	d, err := openDocument(template, w.parser)
	if err != nil {
		level.Error(logger).Log("msg", "open template", "err", err)
		return
	}
	defer d.Close()

	r := newRenderer(d, set, w.fallback, w.finder, w.qrcode)
	changed, err := r.render()
	if err != nil {
		level.Error(logger).Log("msg", "render", "err", err)
		return
	}

	if err = w.save(d, output, changed); err != nil {
		level.Error(logger).Log("msg", "save", "err", err)
		err = &Error{Kind: ErrOutputWrite, Path: output, Err: err}
		return
	}

	stats = r.stats
	level.Info(logger).Log("msg", "written", "replaced", stats.Replaced, "fallbacks", stats.Fallbacks, "images", stats.Images)
	return
}

func (w *Writer) checkPaths(template, output string) error {
	if !w.parser.Is(output, parser.Document) {
		return &Error{Kind: ErrOutputWrite, Path: output, Err: errUnsupportedType}
	}

	absTemplate, err := filepath.Abs(template)
	if err != nil {
		return &Error{Kind: ErrTemplateNotFound, Path: template, Err: err}
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return &Error{Kind: ErrOutputWrite, Path: output, Err: err}
	}
	if filepath.Clean(absTemplate) == filepath.Clean(absOutput) {
		return &Error{Kind: ErrOutputPathConflict, Path: output}
	}

	templateInfo, templateErr := os.Stat(absTemplate)
	outputInfo, outputErr := os.Stat(absOutput)
	if templateErr == nil && outputErr == nil && os.SameFile(templateInfo, outputInfo) {
		return &Error{Kind: ErrOutputPathConflict, Path: output}
	}
	return nil
}

// save writes the package to a temp file next to output and renames it into place.
func (w *Writer) save(d *document, output string, changed map[string][]byte) (err error) {
	if err = os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return
	}

	tmp := w.path.TmpFile(output)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	zw := zip.NewWriter(f)
	for _, file := range d.reader.File {
		data, isChanged := changed[file.Name]
		if !isChanged {
			if err = zw.Copy(file); err != nil {
				return
			}
			continue
		}
		if err = writeEntry(zw, file.Name, file.Modified, data); err != nil {
			return
		}
	}

	added := make([]string, 0, len(changed))
	for name := range changed {
		if _, isExist := d.files[name]; !isExist {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	modified := d.files[documentPart].Modified
	for _, name := range added {
		if err = writeEntry(zw, name, modified, changed[name]); err != nil {
			return
		}
	}

	if err = zw.Close(); err != nil {
		return
	}
	if err = f.Sync(); err != nil {
		return
	}
	if err = f.Close(); err != nil {
		return
	}
	return os.Rename(tmp, output)
}

func writeEntry(zw *zip.Writer, name string, modified time.Time, data []byte) error {
	method := zip.Deflate
	if strings.HasPrefix(name, mediaDir) {
		method = zip.Store
	}
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: modified,
	})
	if err != nil {
		return err
	}
	_, err = fw.Write(data)
	return err
}
