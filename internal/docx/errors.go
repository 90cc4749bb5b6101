package docx

import (
	"errors"
)

var (
	// ErrTemplateNotFound is returned when the template does not exist or is unreadable.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateFormat is returned when the template is not a valid document.
	ErrTemplateFormat = errors.New("invalid template format")
	// ErrOutputPathConflict is returned when the output would overwrite the template.
	ErrOutputPathConflict = errors.New("output path is the template path")
	// ErrOutputWrite is returned when the output document cannot be written.
	ErrOutputWrite = errors.New("write output document")

	errUnsupportedType = errors.New("unsupported file type")
	errNoDocument      = errors.New("word/document.xml is missing")
)

// Error of a document operation. It matches its Kind and cause with errors.Is.
type Error struct {
	Kind error
	Path string
	Part string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error() + ": " + e.Path
	if e.Part != "" {
		msg += ": " + e.Part
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
