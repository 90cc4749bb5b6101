package transport

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/geoirb/proposal-binder/internal/cell"
	ph "github.com/geoirb/proposal-binder/internal/placeholder"
	"github.com/geoirb/proposal-binder/internal/templater"
)

type builder func(payload interface{}, err error) ([]byte, error)

// Transport of templater requests and reports.
type Transport struct {
	builder builder
}

// NewTransport ...
func NewTransport(
	builder builder,
) *Transport {
	return &Transport{
		builder: builder,
	}
}

// DecodeRequest decodes a JSON or YAML request file.
func (t *Transport) DecodeRequest(message []byte) (templater.Request, error) {
	var req request
	if err := yaml.Unmarshal(message, &req); err != nil {
		return templater.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return templater.Request(req), nil
}

// EncodeResponse ...
func (t *Transport) EncodeResponse(res templater.Response, err error) (message []byte) {
	payload := response{
		ID:       res.ID,
		Template: res.Template,
		Output:   res.Output,
		Written:  res.Written,
		Stats: stats{
			Replaced:  res.Stats.Replaced,
			Fallbacks: res.Stats.Fallbacks,
			Images:    res.Stats.Images,
		},
		Bindings:    []entry{},
		Diagnostics: []diagnostic{},
	}
	if res.Set != nil {
		for _, e := range res.Set.Entries() {
			payload.Bindings = append(payload.Bindings, entry{
				Placeholder: e.Placeholder,
				Spec:        e.Spec,
				Status:      e.Status.String(),
				Text:        e.Text,
			})
		}
	}
	for _, d := range res.Diagnostics {
		payload.Diagnostics = append(payload.Diagnostics, diagnostic{
			Kind:        d.Kind.String(),
			Placeholder: d.Placeholder,
			Spec:        d.Spec,
			Message:     d.Message,
		})
	}
	message, _ = t.builder(payload, err)
	return
}

// EncodePlaceholders ...
func (t *Transport) EncodePlaceholders(placeholders []ph.Placeholder, err error) (message []byte) {
	payload := make([]placeholder, 0, len(placeholders))
	for _, p := range placeholders {
		item := placeholder{
			Name:      p.Name,
			Hint:      p.Hint,
			Locations: make([]location, 0, len(p.Locations)),
		}
		for _, l := range p.Locations {
			item.Locations = append(item.Locations, location(l))
		}
		payload = append(payload, item)
	}
	message, _ = t.builder(payload, err)
	return
}

// EncodeValues encodes values sorted by specifier.
func (t *Transport) EncodeValues(values map[string]cell.Value, err error) (message []byte) {
	specs := make([]string, 0, len(values))
	for spec := range values {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	payload := make([]value, 0, len(values))
	for _, spec := range specs {
		v := values[spec]
		payload = append(payload, value{
			Spec: spec,
			Ref:  v.Ref(),
			Kind: v.Kind().String(),
			Raw:  v.Raw(),
			Text: v.String(),
		})
	}
	message, _ = t.builder(payload, err)
	return
}

// EncodeRecent ...
func (t *Transport) EncodeRecent(spreadsheets, templates []string, err error) (message []byte) {
	payload := struct {
		Spreadsheets []string `json:"spreadsheets"`
		Templates    []string `json:"templates"`
	}{
		Spreadsheets: spreadsheets,
		Templates:    templates,
	}
	message, _ = t.builder(payload, err)
	return
}
