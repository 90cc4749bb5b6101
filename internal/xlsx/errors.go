package xlsx

import (
	"errors"
)

var (
	// ErrSourceNotFound is returned when the spreadsheet does not exist or is unreadable.
	ErrSourceNotFound = errors.New("spreadsheet not found")
	// ErrSourceFormat is returned when the file is not a valid spreadsheet.
	ErrSourceFormat = errors.New("invalid spreadsheet format")
	// ErrCellReference is returned when a specifier does not address existing cells.
	ErrCellReference = errors.New("invalid cell reference")

	errUnsupportedType = errors.New("unsupported file type")
	errNoSheets        = errors.New("workbook has no sheets")
	errSheetNotFound   = errors.New("sheet not found")
	errNameNotFound    = errors.New("defined name not found")
	errOutOfRange      = errors.New("cell is outside of the used range")
	errBadReference    = errors.New("malformed reference")
)

// Error of extraction. It matches its Kind and cause with errors.Is.
type Error struct {
	Kind error
	Path string
	Spec string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error() + ": " + e.Path
	if e.Spec != "" {
		msg += ": " + e.Spec
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
