package response

import (
	"encoding/json"
)

type response struct {
	IsOk    bool        `json:"is_ok"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Build response to payload and error.
// The payload is kept on error.
func Build(payload interface{}, err error) ([]byte, error) {
	response := response{
		IsOk:    err == nil,
		Payload: payload,
	}

	if !response.IsOk {
		response.Error = err.Error()
	}
	return json.MarshalIndent(response, "", "  ")
}
