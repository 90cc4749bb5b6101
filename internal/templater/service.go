package templater

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/geoirb/proposal-binder/internal/binding"
	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/docx"
	"github.com/geoirb/proposal-binder/internal/placeholder"
	"github.com/geoirb/proposal-binder/internal/recent"
)

type extractor interface {
	Extract(path string, specs []string) (map[string]cell.Value, error)
}

type scanner interface {
	Scan(path string) ([]placeholder.Placeholder, error)
}

type resolver interface {
	Resolve(values map[string]cell.Value, placeholders []placeholder.Placeholder, table binding.Table) (*binding.Set, binding.Diagnostics)
}

type writer interface {
	Write(template, output string, set *binding.Set) (docx.Stats, error)
}

type path interface {
	Template(name string) string
	Output(spreadsheet string) string
}

type history interface {
	Add(kind, file string) error
}

type service struct {
	table binding.Table

	extractor extractor
	scanner   scanner
	resolver  resolver
	writer    writer
	path      path
	history   history

	logger log.Logger
}

// NewService returns templater service binding table mappings.
// history may be nil.
func NewService(
	table binding.Table,

	extractor extractor,
	scanner scanner,
	resolver resolver,
	writer writer,
	path path,
	history history,

	logger log.Logger,
) Service {
	return &service{
		table:     table,
		extractor: extractor,
		scanner:   scanner,
		resolver:  resolver,
		writer:    writer,
		path:      path,
		history:   history,
		logger:    logger,
	}
}

// FillIn fills template by req.
func (s *service) FillIn(ctx context.Context, req Request) (res Response, err error) {
	logger := log.WithPrefix(s.logger, "method", "FillIn", "id", req.ID)

	if res, err = s.resolve(ctx, logger, req); err != nil {
		return
	}
	if !req.AllowPartial && !res.Set.Complete() {
		level.Error(logger).Log("msg", "incomplete", "diagnostics", len(res.Diagnostics))
		err = ErrIncomplete
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}

	if res.Stats, err = s.writer.Write(res.Template, res.Output, res.Set); err != nil {
		level.Error(logger).Log("msg", "write", "output", res.Output, "err", err)
		return
	}
	res.Written = true
	s.remember(logger, req.Spreadsheet, res.Template)

	level.Info(logger).Log("msg", "filled in", "output", res.Output, "replaced", res.Stats.Replaced, "fallbacks", res.Stats.Fallbacks)
	return
}

// Preview resolves bindings of req without writing.
func (s *service) Preview(ctx context.Context, req Request) (res Response, err error) {
	logger := log.WithPrefix(s.logger, "method", "Preview", "id", req.ID)
	return s.resolve(ctx, logger, req)
}

// Scan returns placeholders of the template.
func (s *service) Scan(ctx context.Context, template string) (placeholders []placeholder.Placeholder, err error) {
	logger := log.WithPrefix(s.logger, "method", "Scan")

	if err = ctx.Err(); err != nil {
		return
	}
	template = s.path.Template(template)
	if placeholders, err = s.scanner.Scan(template); err != nil {
		level.Error(logger).Log("msg", "scan", "template", template, "err", err)
	}
	return
}

// Extract returns values of the table specifiers.
func (s *service) Extract(ctx context.Context, spreadsheet string) (values map[string]cell.Value, err error) {
	logger := log.WithPrefix(s.logger, "method", "Extract")

	if err = ctx.Err(); err != nil {
		return
	}
	if values, err = s.extractor.Extract(spreadsheet, s.table.Specifiers()); err != nil {
		level.Error(logger).Log("msg", "extract", "spreadsheet", spreadsheet, "err", err)
	}
	return
}

// resolve runs extraction, scanning, resolution and overrides.
// The context is checked between stages.
func (s *service) resolve(ctx context.Context, logger log.Logger, req Request) (res Response, err error) {
	res = Response{
		ID:       req.ID,
		Template: s.path.Template(req.Template),
		Output:   req.Output,
	}
	if res.Output == "" {
		res.Output = s.path.Output(req.Spreadsheet)
	}

	if err = ctx.Err(); err != nil {
		return
	}
	if res.Values, err = s.extractor.Extract(req.Spreadsheet, s.table.Specifiers()); err != nil {
		level.Error(logger).Log("msg", "extract", "spreadsheet", req.Spreadsheet, "err", err)
		return
	}

	if err = ctx.Err(); err != nil {
		return
	}
	if res.Placeholders, err = s.scanner.Scan(res.Template); err != nil {
		level.Error(logger).Log("msg", "scan", "template", res.Template, "err", err)
		return
	}

	if err = ctx.Err(); err != nil {
		return
	}
	res.Set, res.Diagnostics = s.resolver.Resolve(res.Values, res.Placeholders, s.table)
	for _, d := range res.Diagnostics {
		level.Warn(logger).Log("msg", "diagnostic", "kind", d.Kind, "placeholder", d.Placeholder, "spec", d.Spec, "detail", d.Message)
	}

	names := make([]string, 0, len(req.Overrides))
	for name := range req.Overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err = res.Set.Override(name, req.Overrides[name]); err != nil {
			level.Error(logger).Log("msg", "override", "placeholder", name, "err", err)
			err = fmt.Errorf("override %s: %w", name, err)
			return
		}
	}
	return
}

func (s *service) remember(logger log.Logger, spreadsheet, template string) {
	if s.history == nil {
		return
	}
	if err := s.history.Add(recent.Spreadsheet, spreadsheet); err != nil {
		level.Warn(logger).Log("msg", "recent spreadsheet", "err", err)
	}
	if err := s.history.Add(recent.Template, template); err != nil {
		level.Warn(logger).Log("msg", "recent template", "err", err)
	}
}
