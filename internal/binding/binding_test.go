package binding

import (
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/format"
	"github.com/geoirb/proposal-binder/internal/placeholder"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	f, err := format.NewFormatter(format.DefaultLocale)
	require.NoError(t, err)
	return NewResolver(f, log.NewNopLogger())
}

func testPlaceholders(names ...string) []placeholder.Placeholder {
	placeholders := make([]placeholder.Placeholder, 0, len(names))
	for i, name := range names {
		placeholders = append(placeholders, placeholder.Placeholder{
			Name:      name,
			Locations: []placeholder.Location{{Part: "word/document.xml", Paragraph: i}},
		})
	}
	return placeholders
}

func TestResolveComplete(t *testing.T) {
	r := newTestResolver(t)

	values := map[string]cell.Value{
		"B7":          cell.NewNumber("Sheet1!B7", "1234.5", 1234.5),
		"Proposta!C2": cell.NewText("Proposta!C2", "Construtora Alfa"),
	}
	table := Table{
		"TOTAL":    {Spec: "B7", Rule: format.MustParse("currency:R$,2")},
		"CLIENTE":  {Spec: "Proposta!C2"},
		"VALIDADE": {Literal: "30 dias"},
	}

	set, diags := r.Resolve(values, testPlaceholders("CLIENTE", "TOTAL", "VALIDADE"), table)
	assert.Empty(t, diags)
	assert.False(t, diags.Blocking())
	assert.True(t, set.Complete())
	assert.Equal(t, []string{"CLIENTE", "TOTAL", "VALIDADE"}, set.Keys())

	total, isExist := set.Get("TOTAL")
	require.True(t, isExist)
	assert.Equal(t, Resolved, total.Status)
	assert.Equal(t, "R$ 1.234,50", total.Text)
	assert.Equal(t, "B7", total.Spec)

	validade, _ := set.Get("VALIDADE")
	assert.Equal(t, "30 dias", validade.Text)
}

func TestResolveUnresolved(t *testing.T) {
	r := newTestResolver(t)

	values := map[string]cell.Value{
		"B7": cell.NewNumber("Sheet1!B7", "1234.5", 1234.5),
	}
	table := Table{
		"TOTAL": {Spec: "B7"},
		"PRAZO": {Spec: "C9"},
	}

	set, diags := r.Resolve(values, testPlaceholders("CLIENTE", "TOTAL", "PRAZO", "CLIENTE"), table)
	require.Len(t, diags, 2)
	assert.True(t, diags.Blocking())
	assert.Equal(t, Diagnostic{
		Kind:        UnresolvedPlaceholder,
		Placeholder: "CLIENTE",
		Message:     "no mapping for placeholder",
	}, diags[0])
	assert.Equal(t, UnresolvedPlaceholder, diags[1].Kind)
	assert.Equal(t, "C9", diags[1].Spec)

	assert.Equal(t, 3, set.Len())
	cliente, _ := set.Get("CLIENTE")
	assert.Equal(t, Unresolved, cliente.Status)
	assert.False(t, cliente.HasValue())
	assert.False(t, set.Complete())

	total, _ := set.Get("TOTAL")
	assert.Equal(t, "1234.5", total.Text)
}

func TestResolveTypeMismatch(t *testing.T) {
	r := newTestResolver(t)

	values := map[string]cell.Value{
		"A1": cell.NewText("Sheet1!A1", "a combinar"),
	}
	placeholders := []placeholder.Placeholder{
		{Name: "TOTAL", Hint: "number:#,##0.00"},
		{Name: "DATA", Hint: "bogus:rule"},
	}
	table := Table{
		"TOTAL": {Spec: "A1"},
		"DATA":  {Spec: "A1"},
	}

	set, diags := r.Resolve(values, placeholders, table)
	require.Len(t, diags, 2)
	assert.Equal(t, TypeMismatch, diags[0].Kind)
	assert.Equal(t, TypeMismatch, diags[1].Kind)
	assert.True(t, diags.Blocking())

	total, _ := set.Get("TOTAL")
	assert.Equal(t, TypeError, total.Status)
	assert.Empty(t, total.Text)
}

func TestResolveRulePrecedence(t *testing.T) {
	r := newTestResolver(t)

	values := map[string]cell.Value{
		"B7": cell.NewNumber("Sheet1!B7", "0.256", 0.256),
	}
	placeholders := []placeholder.Placeholder{
		{Name: "A", Hint: "number:0%"},
		{Name: "B", Hint: "number:0%"},
		{Name: "C"},
	}
	table := Table{
		"A": {Spec: "B7", Rule: format.MustParse("number:0.00")},
		"B": {Spec: "B7"},
		"C": {Spec: "B7"},
	}

	set, diags := r.Resolve(values, placeholders, table)
	assert.Empty(t, diags)

	a, _ := set.Get("A")
	assert.Equal(t, "0,26", a.Text)
	b, _ := set.Get("B")
	assert.Equal(t, "26%", b.Text)
	c, _ := set.Get("C")
	assert.Equal(t, "0.256", c.Text)
}

func TestResolveEmptyAndUnused(t *testing.T) {
	r := newTestResolver(t)

	values := map[string]cell.Value{
		"A1": cell.NewEmpty("Sheet1!A1"),
		"A2": cell.NewEmpty("Sheet1!A2"),
		"Z9": cell.NewText("Sheet1!Z9", "x"),
		"B1": cell.NewText("Sheet1!B1", "y"),
	}
	table := Table{
		"OBS":   {Spec: "A1", Default: "a definir"},
		"NOTA":  {Spec: "A2", Rule: format.MustParse("currency:R$,2")},
		"EXTRA": {Spec: "Z9"},
	}

	set, diags := r.Resolve(values, testPlaceholders("OBS", "NOTA"), table)
	require.Len(t, diags, 2)
	assert.False(t, diags.Blocking())
	assert.Equal(t, Diagnostics{
		{Kind: UnusedValue, Spec: "B1", Message: "value is not used by the template"},
		{Kind: UnusedValue, Spec: "Z9", Message: "value is not used by the template"},
	}, diags.Filter(UnusedValue))

	obs, _ := set.Get("OBS")
	assert.Equal(t, "a definir", obs.Text)
	nota, _ := set.Get("NOTA")
	assert.Equal(t, Resolved, nota.Status)
	assert.Equal(t, "", nota.Text)
}

func TestSetOverride(t *testing.T) {
	set := NewSet(testPlaceholders("TOTAL"))

	assert.ErrorIs(t, set.Override("OUTRO", "x"), ErrUnknownPlaceholder)
	assert.Equal(t, []string{"TOTAL"}, set.Keys())

	require.NoError(t, set.Override("TOTAL", "R$ 10,00"))
	e, _ := set.Get("TOTAL")
	assert.Equal(t, Overridden, e.Status)
	assert.Equal(t, "R$ 10,00", e.Text)
	assert.True(t, set.Complete())
}

func TestTableSpecifiers(t *testing.T) {
	table := Table{
		"TOTAL":    {Spec: "B7"},
		"VALOR":    {Spec: "B7"},
		"CLIENTE":  {Spec: "Proposta!C2"},
		"VALIDADE": {Literal: "30 dias"},
	}
	assert.Equal(t, []string{"B7", "Proposta!C2"}, table.Specifiers())
}
