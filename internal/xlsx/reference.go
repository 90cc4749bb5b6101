package xlsx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// optional sheet (quoted or bare), first cell, optional last cell.
	referenceRegexp = `^(?:(?:'((?:[^']|'')+)'|([^!':]+))!)?(\$?[A-Za-z]{1,3}\$?[0-9]+)(?::(\$?[A-Za-z]{1,3}\$?[0-9]+))?$`
	workbookScope   = "Workbook"
)

var referenceReg = regexp.MustCompile(referenceRegexp)

type reference struct {
	sheet string
	from  string
	to    string
}

// parseReference parses A1, $A$1, Sheet!A1, 'My sheet'!A1:B2.
func parseReference(s string) (ref reference, ok bool) {
	m := referenceReg.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return
	}
	ref.sheet = m[2]
	if m[1] != "" {
		ref.sheet = strings.ReplaceAll(m[1], "''", "'")
	}
	ref.from = strings.ToUpper(strings.ReplaceAll(m[3], "$", ""))
	ref.to = ref.from
	if m[4] != "" {
		ref.to = strings.ToUpper(strings.ReplaceAll(m[4], "$", ""))
	}
	return ref, true
}

func (r reference) isRange() bool {
	return r.from != r.to
}

func (r reference) String() string {
	if r.isRange() {
		return r.sheet + "!" + r.from + ":" + r.to
	}
	return r.sheet + "!" + r.from
}

// cells returns cell names of the reference in row-major order.
func (r reference) cells() ([]string, error) {
	c1, r1, err := excelize.CellNameToCoordinates(r.from)
	if err != nil {
		return nil, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(r.to)
	if err != nil {
		return nil, err
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}

	names := make([]string, 0, (c2-c1+1)*(r2-r1+1))
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			name, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
	}
	return names, nil
}

// definedName resolves a named range, preferring workbook scope,
// then the scope of sheet.
func definedName(names []excelize.DefinedName, name, sheet string) (ref reference, err error) {
	var found *excelize.DefinedName
	for i := range names {
		if !strings.EqualFold(names[i].Name, name) {
			continue
		}
		if names[i].Scope == workbookScope || names[i].Scope == "" {
			found = &names[i]
			break
		}
		if found == nil || names[i].Scope == sheet {
			found = &names[i]
		}
	}
	if found == nil {
		err = errNameNotFound
		return
	}

	refersTo := strings.TrimPrefix(strings.TrimSpace(found.RefersTo), "=")
	ref, ok := parseReference(refersTo)
	if !ok || ref.sheet == "" {
		err = fmt.Errorf("%w: %s refers to %q", errBadReference, found.Name, found.RefersTo)
	}
	return
}
