package templater

import (
	"github.com/geoirb/proposal-binder/internal/binding"
	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/docx"
	"github.com/geoirb/proposal-binder/internal/placeholder"
)

// Request of one generation run.
type Request struct {
	ID          string
	Spreadsheet string
	// Template name or path.
	Template string
	// Output path; empty means next to the spreadsheet.
	Output string
	// Overrides set placeholder texts manually.
	Overrides map[string]string
	// AllowPartial writes the output even with unresolved placeholders.
	AllowPartial bool
}

// Response of one generation run.
type Response struct {
	ID           string
	Template     string
	Output       string
	Values       map[string]cell.Value
	Placeholders []placeholder.Placeholder
	Set          *binding.Set
	Diagnostics  binding.Diagnostics
	Stats        docx.Stats
	Written      bool
}
