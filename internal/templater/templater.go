package templater

import (
	"context"
	"errors"

	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/placeholder"
)

// ErrIncomplete is returned when placeholders stay unresolved and
// partial output is not allowed.
var ErrIncomplete = errors.New("placeholders are not resolved")

// Service of templater.
type Service interface {
	// FillIn extracts, scans, resolves and writes the proposal.
	FillIn(ctx context.Context, req Request) (res Response, err error)
	// Preview runs FillIn without writing the output.
	Preview(ctx context.Context, req Request) (res Response, err error)
	// Scan returns placeholders of the template.
	Scan(ctx context.Context, template string) ([]placeholder.Placeholder, error)
	// Extract returns values of the mapped cells.
	Extract(ctx context.Context, spreadsheet string) (map[string]cell.Value, error)
}
