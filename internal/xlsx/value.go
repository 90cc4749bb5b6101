package xlsx

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/geoirb/proposal-binder/internal/cell"
)

var (
	// built-in number formats that render as dates or times.
	dateNumFmts = map[int]bool{
		14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
		27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
		45: true, 46: true, 47: true,
		50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
	}

	isoLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// sheetReader reads typed values of one workbook.
type sheetReader struct {
	file     *excelize.File
	date1904 bool

	// used range per sheet: rows and max columns.
	used map[string][2]int
	// date style cache by style index.
	dateStyle map[int]bool
}

func newSheetReader(file *excelize.File) *sheetReader {
	r := &sheetReader{
		file:      file,
		used:      make(map[string][2]int),
		dateStyle: make(map[int]bool),
	}
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

// usedRange returns the number of rows and columns holding data on sheet.
func (r *sheetReader) usedRange(sheet string) (rows, cols int, err error) {
	if size, ok := r.used[sheet]; ok {
		return size[0], size[1], nil
	}
	data, err := r.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return
	}
	rows = len(data)
	for _, row := range data {
		if len(row) > cols {
			cols = len(row)
		}
	}
	r.used[sheet] = [2]int{rows, cols}
	return
}

// value reads the cell name on sheet. The cell must be inside the used range.
func (r *sheetReader) value(sheet, name string) (v cell.Value, err error) {
	ref := sheet + "!" + name

	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return
	}
	rows, cols, err := r.usedRange(sheet)
	if err != nil {
		return
	}
	if row > rows || col > cols {
		err = errOutOfRange
		return
	}

	raw, err := r.file.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return
	}
	if raw == "" {
		return cell.NewEmpty(ref), nil
	}

	cellType, err := r.file.GetCellType(sheet, name)
	if err != nil {
		return
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return cell.NewText(ref, raw), nil
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return cell.NewText(ref, "TRUE"), nil
		}
		return cell.NewText(ref, "FALSE"), nil
	case excelize.CellTypeDate:
		for _, layout := range isoLayouts {
			if t, e := time.Parse(layout, raw); e == nil {
				return cell.NewDate(ref, raw, t), nil
			}
		}
		return cell.NewText(ref, raw), nil
	}

	num, e := strconv.ParseFloat(raw, 64)
	if e != nil {
		return cell.NewText(ref, raw), nil
	}
	if r.isDate(sheet, name) {
		if t, e := excelize.ExcelDateToTime(num, r.date1904); e == nil {
			return cell.NewDate(ref, raw, t), nil
		}
	}
	return cell.NewNumber(ref, raw, num), nil
}

func (r *sheetReader) isDate(sheet, name string) bool {
	idx, err := r.file.GetCellStyle(sheet, name)
	if err != nil || idx == 0 {
		return false
	}
	if isDate, ok := r.dateStyle[idx]; ok {
		return isDate
	}

	var isDate bool
	if style, err := r.file.GetStyle(idx); err == nil && style != nil {
		isDate = dateNumFmts[style.NumFmt]
		if style.CustomNumFmt != nil {
			isDate = isDateFormat(*style.CustomNumFmt)
		}
	}
	r.dateStyle[idx] = isDate
	return isDate
}

// isDateFormat reports whether a custom number format renders a date or time.
// Only the first section is inspected; quoted text, bracketed codes and
// escaped characters are ignored.
func isDateFormat(format string) bool {
	if i := strings.IndexByte(format, ';'); i >= 0 {
		format = format[:i]
	}

	var (
		b       strings.Builder
		quoted  bool
		bracket bool
	)
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case quoted:
			quoted = c != '"'
		case bracket:
			bracket = c != ']'
		case c == '"':
			quoted = true
		case c == '[':
			bracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			b.WriteByte(c)
		}
	}

	tokens := strings.ToLower(b.String())
	if strings.ContainsAny(tokens, "ydh") {
		return true
	}
	return strings.Contains(tokens, "m") && strings.Contains(tokens, "s")
}
