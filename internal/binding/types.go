package binding

import (
	"errors"
	"sort"

	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/format"
	"github.com/geoirb/proposal-binder/internal/placeholder"
)

// ErrUnknownPlaceholder is returned when a name is not a key of the set.
var ErrUnknownPlaceholder = errors.New("unknown placeholder")

// Status of a binding entry.
type Status int

const (
	Unresolved Status = iota
	Resolved
	TypeError
	Overridden
)

func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case TypeError:
		return "type-error"
	case Overridden:
		return "overridden"
	}
	return "unknown"
}

// Entry binds one placeholder to its value.
type Entry struct {
	Placeholder string
	// Spec is the specifier of the value; empty for literal mappings.
	Spec  string
	Value cell.Value
	Rule  format.Rule
	// Text is the formatted replacement. Meaningful only when HasValue.
	Text   string
	Status Status
}

// HasValue reports whether the entry carries replacement text.
func (e Entry) HasValue() bool {
	return e.Status == Resolved || e.Status == Overridden
}

// Set of entries keyed by placeholder name in template order.
type Set struct {
	keys    []string
	entries map[string]Entry
}

// NewSet returns a set with one unresolved entry per distinct placeholder.
func NewSet(placeholders []placeholder.Placeholder) *Set {
	s := &Set{
		keys:    make([]string, 0, len(placeholders)),
		entries: make(map[string]Entry, len(placeholders)),
	}
	for _, p := range placeholders {
		if _, isExist := s.entries[p.Name]; isExist {
			continue
		}
		s.keys = append(s.keys, p.Name)
		s.entries[p.Name] = Entry{Placeholder: p.Name, Status: Unresolved}
	}
	return s
}

// Keys returns placeholder names in template order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Len ...
func (s *Set) Len() int {
	return len(s.keys)
}

// Get entry by placeholder name.
func (s *Set) Get(name string) (e Entry, isExist bool) {
	e, isExist = s.entries[name]
	return
}

// Entries returns entries in template order.
func (s *Set) Entries() []Entry {
	entries := make([]Entry, 0, len(s.keys))
	for _, key := range s.keys {
		entries = append(entries, s.entries[key])
	}
	return entries
}

// Complete reports whether every entry carries a value.
func (s *Set) Complete() bool {
	for _, e := range s.entries {
		if !e.HasValue() {
			return false
		}
	}
	return true
}

// Override sets text of a placeholder manually.
func (s *Set) Override(name, text string) error {
	e, isExist := s.entries[name]
	if !isExist {
		return ErrUnknownPlaceholder
	}
	e.Text = text
	e.Status = Overridden
	s.entries[name] = e
	return nil
}

func (s *Set) set(e Entry) {
	if !e.HasValue() {
		e.Text = ""
	}
	s.entries[e.Placeholder] = e
}

// DiagnosticKind ...
type DiagnosticKind int

const (
	UnresolvedPlaceholder DiagnosticKind = iota
	UnusedValue
	TypeMismatch
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnresolvedPlaceholder:
		return "unresolved"
	case UnusedValue:
		return "unused"
	case TypeMismatch:
		return "type-mismatch"
	}
	return "unknown"
}

// Diagnostic is one problem found during resolution.
type Diagnostic struct {
	Kind        DiagnosticKind
	Placeholder string
	Spec        string
	Message     string
}

func (d Diagnostic) String() string {
	switch {
	case d.Placeholder != "" && d.Spec != "":
		return d.Kind.String() + " " + d.Placeholder + " (" + d.Spec + "): " + d.Message
	case d.Placeholder != "":
		return d.Kind.String() + " " + d.Placeholder + ": " + d.Message
	}
	return d.Kind.String() + " " + d.Spec + ": " + d.Message
}

// Diagnostics in order of detection.
type Diagnostics []Diagnostic

// Blocking reports whether unresolved placeholders or type mismatches exist.
func (d Diagnostics) Blocking() bool {
	for _, item := range d {
		if item.Kind != UnusedValue {
			return true
		}
	}
	return false
}

// Filter returns diagnostics of kind.
func (d Diagnostics) Filter(kind DiagnosticKind) (filtered Diagnostics) {
	for _, item := range d {
		if item.Kind == kind {
			filtered = append(filtered, item)
		}
	}
	return
}

// Mapping of one placeholder.
type Mapping struct {
	// Spec is a cell coordinate, range or defined name.
	Spec string
	// Literal is used when Spec is empty.
	Literal string
	Rule    format.Rule
	// Default replaces empty cells.
	Default string
}

// IsLiteral ...
func (m Mapping) IsLiteral() bool {
	return m.Spec == ""
}

// Table maps placeholder names to mappings.
type Table map[string]Mapping

// Specifiers returns the distinct specifiers of the table, sorted.
func (t Table) Specifiers() []string {
	seen := make(map[string]struct{}, len(t))
	specs := make([]string, 0, len(t))
	for _, m := range t {
		if m.IsLiteral() {
			continue
		}
		if _, isExist := seen[m.Spec]; isExist {
			continue
		}
		seen[m.Spec] = struct{}{}
		specs = append(specs, m.Spec)
	}
	sort.Strings(specs)
	return specs
}
