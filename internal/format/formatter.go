package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/geoirb/proposal-binder/internal/cell"
)

// DefaultLocale of number and currency separators.
const DefaultLocale = "pt-BR"

// ErrTypeMismatch is returned when a value cannot be coerced to the rule type.
var ErrTypeMismatch = errors.New("type mismatch")

// Formatter applies rules using locale separators.
type Formatter struct {
	locale  language.Tag
	printer *message.Printer
}

// NewFormatter ...
func NewFormatter(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	return &Formatter{
		locale:  tag,
		printer: message.NewPrinter(tag),
	}, nil
}

// Locale ...
func (f *Formatter) Locale() language.Tag {
	return f.locale
}

// Format v by rule. Empty values format to empty text with any rule.
func (f *Formatter) Format(rule Rule, v cell.Value) (string, error) {
	if v.IsEmpty() {
		return "", nil
	}

	switch rule.Kind {
	case "", TextKind:
		return v.String(), nil

	case NumberKind:
		num, err := toNumber(v)
		if err != nil {
			return "", err
		}
		if rule.percent {
			num *= 100
		}
		s := f.decimal(num, rule)
		if rule.percent {
			s += "%"
		}
		return s, nil

	case CurrencyKind:
		num, err := toNumber(v)
		if err != nil {
			return "", err
		}
		sign := ""
		if num < 0 && round(num, rule.maxDecimals) != 0 {
			sign = "-"
		}
		s := f.decimal(math.Abs(num), rule)
		if rule.symbol == "" {
			return sign + s, nil
		}
		return sign + rule.symbol + " " + s, nil

	case DateKind:
		t, err := toDate(v)
		if err != nil {
			return "", err
		}
		return formatDate(rule.date, t), nil

	case QRCodeKind:
		if v.Kind() == cell.List {
			return "", fmt.Errorf("%w: qrcode needs a single value, got %s", ErrTypeMismatch, v.Kind())
		}
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidRule, rule)
}

func (f *Formatter) decimal(num float64, rule Rule) string {
	num = round(num, rule.maxDecimals)
	opts := []number.Option{
		number.MinFractionDigits(rule.minDecimals),
		number.MaxFractionDigits(rule.maxDecimals),
	}
	if !rule.grouping {
		opts = append(opts, number.NoSeparator())
	}
	return f.printer.Sprint(number.Decimal(num, opts...))
}

// round half away from zero, like spreadsheet applications do.
func round(num float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(num*p) / p
}

func toNumber(v cell.Value) (float64, error) {
	if num, ok := v.Number(); ok {
		return num, nil
	}
	if text, ok := v.Text(); ok {
		num, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err == nil {
			return num, nil
		}
		return 0, fmt.Errorf("%w: text %q is not a number", ErrTypeMismatch, text)
	}
	return 0, fmt.Errorf("%w: %s value is not a number", ErrTypeMismatch, v.Kind())
}

func toDate(v cell.Value) (time.Time, error) {
	if t, ok := v.Date(); ok {
		return t, nil
	}
	if num, ok := v.Number(); ok {
		t, err := excelize.ExcelDateToTime(num, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrTypeMismatch, err)
		}
		return t, nil
	}
	if text, ok := v.Text(); ok {
		text = strings.TrimSpace(text)
		for _, layout := range textDateLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: text %q is not a date", ErrTypeMismatch, text)
	}
	return time.Time{}, fmt.Errorf("%w: %s value is not a date", ErrTypeMismatch, v.Kind())
}
