package xlsx

import (
	"errors"
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/xuri/excelize/v2"

	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/parser"
)

type fileParser interface {
	Is(filename, family string) bool
}

// Extractor reads cell values from spreadsheets.
type Extractor struct {
	defaultSheet string

	parser fileParser
	logger log.Logger
}

// NewExtractor returns extractor. Bare coordinates address defaultSheet,
// or the first sheet of the workbook when defaultSheet is empty.
func NewExtractor(
	defaultSheet string,
	parser fileParser,
	logger log.Logger,
) *Extractor {
	return &Extractor{
		defaultSheet: defaultSheet,
		parser:       parser,
		logger:       logger,
	}
}

// Extract returns values of specs in the spreadsheet by path.
// The result is keyed by specifier as given.
func (e *Extractor) Extract(path string, specs []string) (values map[string]cell.Value, err error) {
	logger := log.WithPrefix(e.logger, "method", "Extract", "path", path)

	if _, err = os.Stat(path); err != nil {
		level.Error(logger).Log("msg", "stat spreadsheet", "err", err)
		err = &Error{Kind: ErrSourceNotFound, Path: path, Err: err}
		return
	}
	if !e.parser.Is(path, parser.Spreadsheet) {
		level.Error(logger).Log("msg", "spreadsheet type", "err", errUnsupportedType)
		err = &Error{Kind: ErrSourceFormat, Path: path, Err: errUnsupportedType}
		return
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		level.Error(logger).Log("msg", "open spreadsheet", "err", err)
		kind := ErrSourceFormat
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			kind = ErrSourceNotFound
		}
		err = &Error{Kind: kind, Path: path, Err: err}
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		level.Error(logger).Log("msg", "sheets", "err", errNoSheets)
		err = &Error{Kind: ErrSourceFormat, Path: path, Err: errNoSheets}
		return
	}
	sheet := e.defaultSheet
	if sheet == "" {
		sheet = sheets[0]
	}

	var (
		reader = newSheetReader(f)
		names  = f.GetDefinedName()
	)
	values = make(map[string]cell.Value, len(specs))
	for _, spec := range specs {
		if _, isExist := values[spec]; isExist {
			continue
		}
		var v cell.Value
		if v, err = e.extract(f, reader, names, sheet, spec); err != nil {
			level.Error(logger).Log("msg", "extract", "spec", spec, "err", err)
			values = nil
			err = &Error{Kind: ErrCellReference, Path: path, Spec: spec, Err: err}
			return
		}
		values[spec] = v
	}
	level.Debug(logger).Log("msg", "extracted", "values", len(values))
	return
}

func (e *Extractor) extract(
	f *excelize.File,
	reader *sheetReader,
	names []excelize.DefinedName,
	defaultSheet string,
	spec string,
) (v cell.Value, err error) {
	ref, ok := parseReference(spec)
	if !ok {
		if ref, err = definedName(names, spec, defaultSheet); err != nil {
			return
		}
	}
	if ref.sheet == "" {
		ref.sheet = defaultSheet
	}
	if idx, sheetErr := f.GetSheetIndex(ref.sheet); sheetErr != nil || idx < 0 {
		err = errSheetNotFound
		return
	}

	cells, err := ref.cells()
	if err != nil {
		err = errors.Join(errBadReference, err)
		return
	}
	if !ref.isRange() {
		return reader.value(ref.sheet, cells[0])
	}

	// cells of a range beyond the used range are empty,
	// unless the whole range lies outside of it.
	var (
		items   = make([]cell.Value, 0, len(cells))
		outside int
	)
	for _, name := range cells {
		item, valueErr := reader.value(ref.sheet, name)
		if errors.Is(valueErr, errOutOfRange) {
			outside++
			item, valueErr = cell.NewEmpty(ref.sheet+"!"+name), nil
		}
		if valueErr != nil {
			err = valueErr
			return
		}
		items = append(items, item)
	}
	if outside == len(cells) {
		err = errOutOfRange
		return
	}
	return cell.NewList(ref.String(), items), nil
}
