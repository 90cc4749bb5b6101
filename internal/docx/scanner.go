package docx

import (
	"unicode/utf8"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/geoirb/proposal-binder/internal/placeholder"
)

type tokenFinder interface {
	Find(text string) []placeholder.Token
}

// Scanner finds placeholders in templates.
type Scanner struct {
	parser fileParser
	finder tokenFinder
	logger log.Logger
}

// NewScanner ...
func NewScanner(
	parser fileParser,
	finder tokenFinder,
	logger log.Logger,
) *Scanner {
	return &Scanner{
		parser: parser,
		finder: finder,
		logger: logger,
	}
}

// Scan returns distinct placeholders of the template in order of first
// occurrence, each with all its locations.
func (s *Scanner) Scan(path string) (placeholders []placeholder.Placeholder, err error) {
	logger := log.WithPrefix(s.logger, "method", "Scan", "path", path)

	d, err := openDocument(path, s.parser)
	if err != nil {
		level.Error(logger).Log("msg", "open template", "err", err)
		return
	}
	defer d.Close()

	index := make(map[string]int)
	for _, part := range d.parts {
		var data []byte
		if data, err = d.read(part); err != nil {
			level.Error(logger).Log("msg", "read part", "part", part.Name, "err", err)
			placeholders = nil
			return
		}

		for pIdx, p := range paragraphs(data) {
			text := p.text()
			for _, token := range s.finder.Find(text) {
				location := placeholder.Location{
					Part:      part.Name,
					Paragraph: pIdx,
					Offset:    utf8.RuneCountInString(text[:token.Start]),
				}
				i, isExist := index[token.Name]
				if !isExist {
					index[token.Name] = len(placeholders)
					placeholders = append(placeholders, placeholder.Placeholder{
						Name:      token.Name,
						Hint:      token.Hint,
						Locations: []placeholder.Location{location},
					})
					continue
				}
				if placeholders[i].Hint == "" {
					placeholders[i].Hint = token.Hint
				}
				placeholders[i].Locations = append(placeholders[i].Locations, location)
			}
		}
	}
	level.Debug(logger).Log("msg", "scanned", "placeholders", len(placeholders))
	return
}
