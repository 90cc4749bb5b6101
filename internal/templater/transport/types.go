package transport

type request struct {
	ID           string            `json:"id" yaml:"id"`
	Spreadsheet  string            `json:"spreadsheet" yaml:"spreadsheet"`
	Template     string            `json:"template" yaml:"template"`
	Output       string            `json:"output,omitempty" yaml:"output,omitempty"`
	Overrides    map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	AllowPartial bool              `json:"allow_partial,omitempty" yaml:"allow_partial,omitempty"`
}

type stats struct {
	Replaced  int `json:"replaced"`
	Fallbacks int `json:"fallbacks"`
	Images    int `json:"images"`
}

type entry struct {
	Placeholder string `json:"placeholder"`
	Spec        string `json:"spec,omitempty"`
	Status      string `json:"status"`
	Text        string `json:"text,omitempty"`
}

type diagnostic struct {
	Kind        string `json:"kind"`
	Placeholder string `json:"placeholder,omitempty"`
	Spec        string `json:"spec,omitempty"`
	Message     string `json:"message"`
}

type response struct {
	ID          string       `json:"id,omitempty"`
	Template    string       `json:"template"`
	Output      string       `json:"output"`
	Written     bool         `json:"written"`
	Stats       stats        `json:"stats"`
	Bindings    []entry      `json:"bindings"`
	Diagnostics []diagnostic `json:"diagnostics"`
}

type location struct {
	Part      string `json:"part"`
	Paragraph int    `json:"paragraph"`
	Offset    int    `json:"offset"`
}

type placeholder struct {
	Name      string     `json:"name"`
	Hint      string     `json:"hint,omitempty"`
	Locations []location `json:"locations"`
}

type value struct {
	Spec string `json:"spec"`
	Ref  string `json:"ref"`
	Kind string `json:"kind"`
	Raw  string `json:"raw,omitempty"`
	Text string `json:"text"`
}
