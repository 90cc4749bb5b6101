package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoirb/proposal-binder/internal/cell"
)

const testRef = "Sheet1!B7"

func TestParse(t *testing.T) {
	t.Run("valid rules", func(t *testing.T) {
		for _, s := range []string{
			"",
			"text",
			"number:#,##0.00",
			"number:0",
			"number:0.0%",
			"date:dd/MM/yyyy",
			"date:d 'de' M 'de' yyyy",
			"currency:R$,2",
			"currency:US$",
			"qrcode",
			"qrcode:200",
		} {
			_, err := Parse(s)
			assert.NoError(t, err, s)
		}
	})

	t.Run("invalid rules", func(t *testing.T) {
		for _, s := range []string{
			"text:upper",
			"number:abc",
			"date:",
			"date:'dd",
			"currency:R$,x",
			"currency:R$,-1",
			"qrcode:10",
			"money:R$",
		} {
			_, err := Parse(s)
			assert.ErrorIs(t, err, ErrInvalidRule, s)
		}
	})

	t.Run("string round trip", func(t *testing.T) {
		r := MustParse("currency:R$,2")
		assert.Equal(t, CurrencyKind, r.Kind)
		assert.Equal(t, "currency:R$,2", r.String())
		assert.True(t, MustParse("").IsText())
		assert.Equal(t, 128, MustParse("qrcode").Pixels())
	})
}

func TestFormat(t *testing.T) {
	f, err := NewFormatter("pt-BR")
	require.NoError(t, err)

	date := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		name     string
		rule     string
		value    cell.Value
		expected string
	}{
		{"currency", "currency:R$,2", cell.NewNumber(testRef, "1234.5", 1234.5), "R$ 1.234,50"},
		{"currency negative", "currency:R$,2", cell.NewNumber(testRef, "-1234.5", -1234.5), "-R$ 1.234,50"},
		{"currency default decimals", "currency:R$", cell.NewNumber(testRef, "50000", 50000), "R$ 50.000,00"},
		{"currency rounds half up", "currency:R$,2", cell.NewNumber(testRef, "0.125", 0.125), "R$ 0,13"},
		{"currency from numeric text", "currency:R$,2", cell.NewText(testRef, " 1234.5 "), "R$ 1.234,50"},
		{"number grouping", "number:#,##0.00", cell.NewNumber(testRef, "1234567.891", 1234567.891), "1.234.567,89"},
		{"number without grouping", "number:0.0", cell.NewNumber(testRef, "1234.56", 1234.56), "1234,6"},
		{"number integer", "number:0", cell.NewNumber(testRef, "41.6", 41.6), "42"},
		{"number percent", "number:0%", cell.NewNumber(testRef, "0.256", 0.256), "26%"},
		{"date", "date:dd/MM/yyyy", cell.NewDate(testRef, "", date), "05/03/2024"},
		{"date with time", "date:yyyy-MM-dd HH:mm:ss", cell.NewDate(testRef, "", date), "2024-03-05 14:07:09"},
		{"date with literals", "date:d 'de' M 'de' yy", cell.NewDate(testRef, "", date), "5 de 3 de 24"},
		{"date from serial", "date:dd/MM/yyyy", cell.NewNumber(testRef, "45000", 45000), "15/03/2023"},
		{"date from text", "date:dd/MM/yyyy", cell.NewText(testRef, "2024-03-05"), "05/03/2024"},
		{"text number", "text", cell.NewNumber(testRef, "1234.5", 1234.5), "1234.5"},
		{"empty with currency", "currency:R$,2", cell.NewEmpty(testRef), ""},
		{"qrcode payload", "qrcode:64", cell.NewText(testRef, "https://example.com/p/1"), "https://example.com/p/1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := f.Format(MustParse(test.rule), test.value)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, actual)
		})
	}
}

func TestFormatLocale(t *testing.T) {
	f, err := NewFormatter("en-US")
	require.NoError(t, err)

	actual, err := f.Format(MustParse("currency:US$,2"), cell.NewNumber(testRef, "1234.5", 1234.5))
	assert.NoError(t, err)
	assert.Equal(t, "US$ 1,234.50", actual)

	_, err = NewFormatter("not a locale!")
	assert.Error(t, err)
}

func TestFormatTypeMismatch(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)

	list := cell.NewList("Sheet1!A1:A2", []cell.Value{cell.NewText("Sheet1!A1", "a"), cell.NewText("Sheet1!A2", "b")})
	tests := []struct {
		name  string
		rule  string
		value cell.Value
	}{
		{"text as currency", "currency:R$,2", cell.NewText(testRef, "a combinar")},
		{"date as number", "number:0", cell.NewDate(testRef, "", time.Now())},
		{"text as date", "date:dd/MM/yyyy", cell.NewText(testRef, "amanhã")},
		{"list as number", "number:0", list},
		{"list as qrcode", "qrcode", list},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := f.Format(MustParse(test.rule), test.value)
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}
