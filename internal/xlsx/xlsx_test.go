package xlsx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/parser"
)

const (
	testSheet  = "Sheet1"
	testOther  = "Dados Gerais"
	testSerial = 45000.0
)

func newTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue(testSheet, "A2", "Construtora Alfa"))
	require.NoError(t, f.SetCellValue(testSheet, "A3", "Cimento"))
	require.NoError(t, f.SetCellValue(testSheet, "A4", "Areia"))
	require.NoError(t, f.SetCellValue(testSheet, "A5", "Brita"))
	require.NoError(t, f.SetCellValue(testSheet, "B7", 1234.5))
	require.NoError(t, f.SetCellBool(testSheet, "C3", true))
	require.NoError(t, f.SetCellFloat(testSheet, "C2", testSerial, -1, 64))

	style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(testSheet, "C2", "C2", style))

	_, err = f.NewSheet(testOther)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(testOther, "A1", "30 dias"))

	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
		Name:     "Total",
		RefersTo: "Sheet1!$B$7",
	}))
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
		Name:     "Itens",
		RefersTo: "Sheet1!$A$3:$A$5",
	}))

	path := filepath.Join(t.TempDir(), "orçamento.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestExtractor(t *testing.T, sheet string) *Extractor {
	t.Helper()
	p, err := parser.New()
	require.NoError(t, err)
	return NewExtractor(sheet, p, log.NewNopLogger())
}

func TestExtract(t *testing.T) {
	path := newTestWorkbook(t)
	e := newTestExtractor(t, "")

	values, err := e.Extract(path, []string{"B7", "$A$2", "A1", "C3", "C2", "'Dados Gerais'!A1", "total", "Itens", "B7"})
	require.NoError(t, err)
	require.Len(t, values, 8)

	num, ok := values["B7"].Number()
	assert.True(t, ok)
	assert.Equal(t, 1234.5, num)
	assert.Equal(t, "Sheet1!B7", values["B7"].Ref())

	text, ok := values["$A$2"].Text()
	assert.True(t, ok)
	assert.Equal(t, "Construtora Alfa", text)

	assert.True(t, values["A1"].IsEmpty())

	text, _ = values["C3"].Text()
	assert.Equal(t, "TRUE", text)

	date, ok := values["C2"].Date()
	assert.True(t, ok)
	assert.Equal(t, "2023-03-15", date.Format(time.DateOnly))

	text, _ = values["'Dados Gerais'!A1"].Text()
	assert.Equal(t, "30 dias", text)

	num, _ = values["total"].Number()
	assert.Equal(t, 1234.5, num)

	assert.Equal(t, cell.List, values["Itens"].Kind())
	assert.Equal(t, "• Cimento\n• Areia\n• Brita", values["Itens"].String())
}

func TestExtractDefaultSheet(t *testing.T) {
	path := newTestWorkbook(t)
	e := newTestExtractor(t, testOther)

	values, err := e.Extract(path, []string{"A1", "Sheet1!B7"})
	require.NoError(t, err)

	text, _ := values["A1"].Text()
	assert.Equal(t, "30 dias", text)
	num, _ := values["Sheet1!B7"].Number()
	assert.Equal(t, 1234.5, num)
}

func TestExtractRangePartiallyOutside(t *testing.T) {
	path := newTestWorkbook(t)
	e := newTestExtractor(t, "")

	values, err := e.Extract(path, []string{"A4:A9"})
	require.NoError(t, err)

	items := values["A4:A9"].Items()
	require.Len(t, items, 6)
	assert.False(t, items[0].IsEmpty())
	assert.True(t, items[5].IsEmpty())
	assert.Equal(t, "• Areia\n• Brita", values["A4:A9"].String())
}

func TestExtractCellReference(t *testing.T) {
	path := newTestWorkbook(t)
	e := newTestExtractor(t, "")

	for _, spec := range []string{"C9", "Z1", "Missing!A1", "UNKNOWN_NAME", "A1:", "A20:B30"} {
		t.Run(spec, func(t *testing.T) {
			values, err := e.Extract(path, []string{"B7", spec})
			assert.Nil(t, values)
			assert.ErrorIs(t, err, ErrCellReference)

			var extractErr *Error
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, spec, extractErr.Spec)
			assert.Equal(t, path, extractErr.Path)
		})
	}
}

func TestExtractSource(t *testing.T) {
	e := newTestExtractor(t, "")
	dir := t.TempDir()

	_, err := e.Extract(filepath.Join(dir, "missing.xlsx"), []string{"A1"})
	assert.ErrorIs(t, err, ErrSourceNotFound)

	broken := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(broken, []byte("not a workbook"), 0o600))
	_, err = e.Extract(broken, []string{"A1"})
	assert.ErrorIs(t, err, ErrSourceFormat)

	text := filepath.Join(dir, "budget.csv")
	require.NoError(t, os.WriteFile(text, []byte("a,b"), 0o600))
	_, err = e.Extract(text, []string{"A1"})
	assert.ErrorIs(t, err, ErrSourceFormat)
}

func TestParseReference(t *testing.T) {
	ref, ok := parseReference("'It''s here'!$b$2:C4")
	require.True(t, ok)
	assert.Equal(t, reference{sheet: "It's here", from: "B2", to: "C4"}, ref)

	cells, err := ref.cells()
	require.NoError(t, err)
	assert.Equal(t, []string{"B2", "C2", "B3", "C3", "B4", "C4"}, cells)

	_, ok = parseReference("TOTAL")
	assert.False(t, ok)
}

func TestIsDateFormat(t *testing.T) {
	assert.True(t, isDateFormat("dd/mm/yyyy"))
	assert.True(t, isDateFormat("[$-416]d-mmm;@"))
	assert.True(t, isDateFormat("mm:ss"))
	assert.False(t, isDateFormat(`#,##0.00 "days"`))
	assert.False(t, isDateFormat("0.00%"))
	assert.False(t, isDateFormat(`[Red]\d0`))
}
