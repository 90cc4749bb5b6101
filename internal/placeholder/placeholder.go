package placeholder

import (
	"regexp"
	"strings"
)

// Location of one placeholder occurrence.
type Location struct {
	// Part is the package part name, e.g. word/document.xml.
	Part string
	// Paragraph index inside the part.
	Paragraph int
	// Offset in characters inside the paragraph text.
	Offset int
}

// Placeholder found in a template.
type Placeholder struct {
	Name      string
	Hint      string
	Locations []Location
}

// Token returns the canonical token of the placeholder.
func (p Placeholder) Token() string {
	return openDelim + p.Name + closeDelim
}

// Token is one placeholder occurrence inside a text.
// Start and End are byte offsets, Raw is text[Start:End].
type Token struct {
	Name  string
	Hint  string
	Raw   string
	Start int
	End   int
}

// Parser of placeholder tokens.
type Parser struct {
	innerReg *regexp.Regexp
	nameReg  *regexp.Regexp
}

// New ...
func New() (p *Parser, err error) {
	p = &Parser{}
	if p.innerReg, err = regexp.Compile(innerRegexp); err != nil {
		return
	}
	p.nameReg, err = regexp.Compile(nameRegexp)
	return
}

// Is returns true if str is exactly one placeholder.
func (p *Parser) Is(str string) bool {
	str = strings.TrimSpace(str)
	tokens := p.Find(str)
	return len(tokens) == 1 && tokens[0].Start == 0 && tokens[0].End == len(str)
}

// ValidName reports whether name can appear inside the delimiters.
func (p *Parser) ValidName(name string) bool {
	return p.nameReg.MatchString(name)
}

// Find returns placeholder tokens of text in order.
// Escaped (\{{NAME}}) and partial ({{{NAME}}}) occurrences are skipped.
func (p *Parser) Find(text string) (tokens []Token) {
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], openDelim)
		if idx < 0 {
			break
		}
		start := i + idx

		if start > 0 && (text[start-1] == escape || text[start-1] == '{') {
			i = start + 1
			continue
		}
		if start+len(openDelim) < len(text) && text[start+len(openDelim)] == '{' {
			i = start + 1
			continue
		}

		idx = strings.Index(text[start+len(openDelim):], closeDelim)
		if idx < 0 {
			break
		}
		innerEnd := start + len(openDelim) + idx
		end := innerEnd + len(closeDelim)
		if end < len(text) && text[end] == '}' {
			i = end
			continue
		}

		m := p.innerReg.FindStringSubmatch(text[start+len(openDelim) : innerEnd])
		if m == nil {
			i = start + 1
			continue
		}
		tokens = append(tokens, Token{
			Name:  m[1],
			Hint:  m[2],
			Raw:   text[start:end],
			Start: start,
			End:   end,
		})
		i = end
	}
	return
}
