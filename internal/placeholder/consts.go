package placeholder

const (
	openDelim  = "{{"
	closeDelim = "}}"
	escape     = '\\'

	// name and optional format hint inside the delimiters.
	innerRegexp = `^\s*([\p{L}\p{N}_.\-]+)\s*(?:\|\s*([^{}|]*?)\s*)?$`
	nameRegexp  = `^[\p{L}\p{N}_.\-]+$`
)
