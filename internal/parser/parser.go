package parser

import (
	"errors"
	"regexp"
	"strings"
)

const typeRegexp = `\.([a-zA-Z0-9]+)$`

// Document families.
const (
	Spreadsheet = "spreadsheet"
	Document    = "document"
)

var (
	errTypeNotDefined = errors.New("file type is not defined")

	families = map[string]string{
		"xlsx": Spreadsheet,
		"xlsm": Spreadsheet,
		"xltx": Spreadsheet,
		"xltm": Spreadsheet,
		"docx": Document,
		"docm": Document,
		"dotx": Document,
		"dotm": Document,
	}
)

// Parser of file names.
type Parser struct {
	typeRegexp *regexp.Regexp
}

// New ...
func New() (p *Parser, err error) {
	p = &Parser{}
	p.typeRegexp, err = regexp.Compile(typeRegexp)
	return
}

// Type returns lower-cased type of file by filename.
func (p *Parser) Type(filename string) (string, error) {
	if submatchList := p.typeRegexp.FindAllStringSubmatch(filename, -1); len(submatchList) == 1 && len(submatchList[0]) == 2 {
		return strings.ToLower(submatchList[0][1]), nil
	}
	return "", errTypeNotDefined
}

// Is reports whether filename belongs to family.
func (p *Parser) Is(filename, family string) bool {
	t, err := p.Type(filename)
	if err != nil {
		return false
	}
	return families[t] == family
}
