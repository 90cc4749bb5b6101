package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind of formatting rule.
type Kind string

const (
	TextKind     Kind = "text"
	NumberKind   Kind = "number"
	DateKind     Kind = "date"
	CurrencyKind Kind = "currency"
	QRCodeKind   Kind = "qrcode"
)

const (
	defaultCurrencyDecimals = 2
	defaultQRCodePixels     = 128
	maxDecimals             = 12
)

var (
	// ErrInvalidRule is returned for rules that cannot be parsed.
	ErrInvalidRule = errors.New("invalid format rule")

	numberPatternReg = regexp.MustCompile(numberPatternRegexp)
)

// Rule of formatting a cell value into placeholder text.
// The zero Rule is the pass-through text rule.
type Rule struct {
	Kind    Kind
	Pattern string

	minDecimals int
	maxDecimals int
	grouping    bool
	percent     bool
	symbol      string
	pixels      int
	date        []dateToken
}

// Text is the pass-through rule.
var Text = Rule{Kind: TextKind}

// Parse rule in form kind[:pattern].
func Parse(s string) (r Rule, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Text, nil
	}
	kind, pattern := s, ""
	if i := strings.Index(s, ":"); i >= 0 {
		kind, pattern = strings.TrimSpace(s[:i]), s[i+1:]
	}

	r = Rule{Kind: Kind(strings.ToLower(kind)), Pattern: pattern}
	switch r.Kind {
	case TextKind:
		if pattern != "" {
			err = fmt.Errorf("%w: %q: text takes no pattern", ErrInvalidRule, s)
		}
	case NumberKind:
		err = r.parseNumber(strings.TrimSpace(pattern))
	case DateKind:
		if strings.TrimSpace(pattern) == "" {
			err = fmt.Errorf("%w: %q: date pattern is empty", ErrInvalidRule, s)
			break
		}
		r.date, err = compileDate(pattern)
	case CurrencyKind:
		err = r.parseCurrency(pattern)
	case QRCodeKind:
		err = r.parseQRCode(strings.TrimSpace(pattern))
	default:
		err = fmt.Errorf("%w: %q: unknown kind %q", ErrInvalidRule, s, kind)
	}
	if err != nil && !errors.Is(err, ErrInvalidRule) {
		err = fmt.Errorf("%w: %q: %s", ErrInvalidRule, s, err)
	}
	return
}

// MustParse is Parse for rules known at compile time.
func MustParse(s string) Rule {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rule) String() string {
	if r.Pattern == "" {
		return string(r.Kind)
	}
	return string(r.Kind) + ":" + r.Pattern
}

// IsText reports whether r passes values through.
func (r Rule) IsText() bool {
	return r.Kind == "" || r.Kind == TextKind
}

// Pixels returns image size of a qrcode rule.
func (r Rule) Pixels() int {
	return r.pixels
}

func (r *Rule) parseNumber(pattern string) error {
	if pattern == "" {
		pattern = "0"
	}
	m := numberPatternReg.FindStringSubmatch(pattern)
	if m == nil {
		return fmt.Errorf("pattern %q does not look like #,##0.00", pattern)
	}
	r.grouping = strings.Contains(m[1], ",")
	r.maxDecimals = len(m[2])
	r.minDecimals = strings.Count(m[2], "0")
	r.percent = m[3] == "%"
	if r.maxDecimals > maxDecimals {
		return fmt.Errorf("too many decimals in %q", pattern)
	}
	return nil
}

func (r *Rule) parseCurrency(pattern string) error {
	symbol, decimals := pattern, defaultCurrencyDecimals
	if i := strings.LastIndex(pattern, ","); i >= 0 {
		d, err := strconv.Atoi(strings.TrimSpace(pattern[i+1:]))
		if err != nil || d < 0 || d > maxDecimals {
			return fmt.Errorf("decimals %q must be a number in 0..%d", pattern[i+1:], maxDecimals)
		}
		symbol, decimals = pattern[:i], d
	}
	r.symbol = strings.TrimSpace(symbol)
	r.minDecimals, r.maxDecimals = decimals, decimals
	r.grouping = true
	return nil
}

func (r *Rule) parseQRCode(pattern string) error {
	r.pixels = defaultQRCodePixels
	if pattern == "" {
		return nil
	}
	pixels, err := strconv.Atoi(pattern)
	if err != nil || pixels < 21 {
		return fmt.Errorf("size %q must be a number of pixels >= 21", pattern)
	}
	r.pixels = pixels
	return nil
}
