package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type dateField int

const (
	literal dateField = iota
	year4
	year2
	month2
	month1
	day2
	day1
	hour2
	minute2
	second2
)

type dateToken struct {
	field dateField
	text  string
}

// longest tokens first.
var dateFields = []struct {
	token string
	field dateField
}{
	{"yyyy", year4},
	{"yy", year2},
	{"MM", month2},
	{"M", month1},
	{"dd", day2},
	{"d", day1},
	{"HH", hour2},
	{"mm", minute2},
	{"ss", second2},
}

// compileDate splits pattern into fields and literals.
// Text inside single quotes is literal, '' is a quote.
func compileDate(pattern string) (tokens []dateToken, err error) {
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, dateToken{field: literal, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote in date pattern %q", pattern)
			}
			if end == 0 {
				lit.WriteByte('\'')
			} else {
				lit.WriteString(pattern[i+1 : i+1+end])
			}
			i += end + 2
			continue
		}

		matched := false
		for _, f := range dateFields {
			if strings.HasPrefix(pattern[i:], f.token) {
				flush()
				tokens = append(tokens, dateToken{field: f.field})
				i += len(f.token)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(pattern[i])
			i++
		}
	}
	flush()
	return
}

func formatDate(tokens []dateToken, t time.Time) string {
	var b strings.Builder
	for _, token := range tokens {
		switch token.field {
		case literal:
			b.WriteString(token.text)
		case year4:
			b.WriteString(pad(t.Year(), 4))
		case year2:
			b.WriteString(pad(t.Year()%100, 2))
		case month2:
			b.WriteString(pad(int(t.Month()), 2))
		case month1:
			b.WriteString(strconv.Itoa(int(t.Month())))
		case day2:
			b.WriteString(pad(t.Day(), 2))
		case day1:
			b.WriteString(strconv.Itoa(t.Day()))
		case hour2:
			b.WriteString(pad(t.Hour(), 2))
		case minute2:
			b.WriteString(pad(t.Minute(), 2))
		case second2:
			b.WriteString(pad(t.Second(), 2))
		}
	}
	return b.String()
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
