package binding

import (
	"sort"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/format"
	"github.com/geoirb/proposal-binder/internal/placeholder"
)

type formatter interface {
	Format(rule format.Rule, v cell.Value) (string, error)
}

// Resolver matches placeholders with extracted values.
type Resolver struct {
	formatter formatter
	logger    log.Logger
}

// NewResolver ...
func NewResolver(
	formatter formatter,
	logger log.Logger,
) *Resolver {
	return &Resolver{
		formatter: formatter,
		logger:    logger,
	}
}

// Resolve builds the binding set of placeholders. Problems are reported as
// diagnostics; the set always holds one entry per distinct placeholder.
func (r *Resolver) Resolve(
	values map[string]cell.Value,
	placeholders []placeholder.Placeholder,
	table Table,
) (*Set, Diagnostics) {
	logger := log.WithPrefix(r.logger, "method", "Resolve")

	var (
		set   = NewSet(placeholders)
		diags Diagnostics
		used  = make(map[string]struct{}, len(values))
		hints = make(map[string]string, len(placeholders))
	)
	for _, p := range placeholders {
		if _, isExist := hints[p.Name]; !isExist {
			hints[p.Name] = p.Hint
		}
	}

	for _, name := range set.Keys() {
		entry := Entry{Placeholder: name, Status: Unresolved}

		m, isExist := table[name]
		if !isExist {
			diags = append(diags, Diagnostic{
				Kind:        UnresolvedPlaceholder,
				Placeholder: name,
				Message:     "no mapping for placeholder",
			})
			set.set(entry)
			continue
		}
		entry.Spec = m.Spec

		rule, err := r.rule(m, hints[name])
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:        TypeMismatch,
				Placeholder: name,
				Spec:        m.Spec,
				Message:     err.Error(),
			})
			entry.Status = TypeError
			set.set(entry)
			continue
		}
		entry.Rule = rule

		var v cell.Value
		if m.IsLiteral() {
			v = cell.NewText("", m.Literal)
		} else {
			used[m.Spec] = struct{}{}
			if v, isExist = values[m.Spec]; !isExist {
				diags = append(diags, Diagnostic{
					Kind:        UnresolvedPlaceholder,
					Placeholder: name,
					Spec:        m.Spec,
					Message:     "no value extracted for specifier",
				})
				set.set(entry)
				continue
			}
		}
		entry.Value = v

		if v.IsEmpty() && m.Default != "" {
			entry.Text, entry.Status = m.Default, Resolved
			set.set(entry)
			continue
		}

		if entry.Text, err = r.formatter.Format(rule, v); err != nil {
			level.Debug(logger).Log("msg", "format", "placeholder", name, "rule", rule, "err", err)
			diags = append(diags, Diagnostic{
				Kind:        TypeMismatch,
				Placeholder: name,
				Spec:        m.Spec,
				Message:     err.Error(),
			})
			entry.Status = TypeError
			set.set(entry)
			continue
		}
		entry.Status = Resolved
		set.set(entry)
	}

	unused := make([]string, 0, len(values))
	for spec := range values {
		if _, isExist := used[spec]; !isExist {
			unused = append(unused, spec)
		}
	}
	sort.Strings(unused)
	for _, spec := range unused {
		diags = append(diags, Diagnostic{
			Kind:    UnusedValue,
			Spec:    spec,
			Message: "value is not used by the template",
		})
	}

	level.Debug(logger).Log("msg", "resolved", "placeholders", set.Len(), "diagnostics", len(diags))
	return set, diags
}

// rule of the mapping, else of the placeholder hint, else text.
func (r *Resolver) rule(m Mapping, hint string) (format.Rule, error) {
	if m.Rule.Kind != "" {
		return m.Rule, nil
	}
	if hint == "" {
		return format.Text, nil
	}
	return format.Parse(hint)
}
