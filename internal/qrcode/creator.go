package qrcode

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

var errEmptyPayload = errors.New("qr code payload is empty")

// Creator qr codes.
type Creator struct {
	level qrcode.RecoveryLevel
}

// NewCreator returns creator with medium error recovery.
func NewCreator() *Creator {
	return &Creator{
		level: qrcode.Medium,
	}
}

// Create returns PNG of payload size x size pixels.
func (c *Creator) Create(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, errEmptyPayload
	}
	return qrcode.Encode(payload, c.level, size)
}
