package cell

import (
	"strconv"
	"strings"
	"time"
)

// Kind of extracted value.
type Kind int

const (
	Empty Kind = iota
	Text
	Number
	Date
	List
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Text:
		return "text"
	case Number:
		return "number"
	case Date:
		return "date"
	case List:
		return "list"
	}
	return "unknown"
}

const (
	isoDateLayout = "2006-01-02"
	bullet        = "• "
)

// Value extracted from one spreadsheet location.
// The zero Value is an empty value without a source.
type Value struct {
	ref   string
	raw   string
	kind  Kind
	text  string
	num   float64
	date  time.Time
	items []Value
}

// NewEmpty ...
func NewEmpty(ref string) Value {
	return Value{ref: ref, kind: Empty}
}

// NewText ...
func NewText(ref, raw string) Value {
	return Value{ref: ref, raw: raw, kind: Text, text: raw}
}

// NewNumber ...
func NewNumber(ref, raw string, num float64) Value {
	return Value{ref: ref, raw: raw, kind: Number, num: num}
}

// NewDate ...
func NewDate(ref, raw string, date time.Time) Value {
	return Value{ref: ref, raw: raw, kind: Date, date: date}
}

// NewList builds a value from the cells of a multi-cell range.
func NewList(ref string, items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	raws := make([]string, 0, len(items))
	for _, item := range items {
		raws = append(raws, item.raw)
	}
	return Value{ref: ref, raw: strings.Join(raws, ";"), kind: List, items: cp}
}

// Ref returns source coordinate, e.g. Sheet1!B7.
func (v Value) Ref() string { return v.ref }

// Raw returns the value as stored in the workbook.
func (v Value) Raw() string { return v.raw }

// Kind ...
func (v Value) Kind() Kind { return v.kind }

// IsEmpty ...
func (v Value) IsEmpty() bool { return v.kind == Empty }

// Text returns text of a Text value.
func (v Value) Text() (string, bool) { return v.text, v.kind == Text }

// Number returns number of a Number value.
func (v Value) Number() (float64, bool) { return v.num, v.kind == Number }

// Date returns time of a Date value.
func (v Value) Date() (time.Time, bool) { return v.date, v.kind == Date }

// Items returns a copy of List items.
func (v Value) Items() []Value {
	if v.kind != List {
		return nil
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp
}

// String is the pass-through text representation.
// Lists are rendered as bullet lines.
func (v Value) String() string {
	switch v.kind {
	case Text:
		return v.text
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Date:
		if v.date.Hour() == 0 && v.date.Minute() == 0 && v.date.Second() == 0 {
			return v.date.Format(isoDateLayout)
		}
		return v.date.Format("2006-01-02 15:04:05")
	case List:
		lines := make([]string, 0, len(v.items))
		for _, item := range v.items {
			if item.IsEmpty() {
				continue
			}
			lines = append(lines, bullet+item.String())
		}
		return strings.Join(lines, "\n")
	}
	return ""
}
