// Package qr renders verification links as QR code images suitable for
// embedding directly in API responses.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultSize = 256

	// data URL prefix for inline PNG images
	pngDataURLPrefix = "data:image/png;base64,"
)

// Encoder renders text as a PNG QR code wrapped in a data URL.
//
// Codes are generated at the highest error correction level so printed
// certificates stay scannable when partially damaged or obscured.
type Encoder struct {
	size int
}

// NewEncoder creates an Encoder producing square PNGs of the given pixel
// size. A non-positive size falls back to the default.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = defaultSize
	}
	return &Encoder{size: size}
}

// DataURL encodes text into a PNG QR code and returns it as a
// base64 data URL.
func (e *Encoder) DataURL(text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("qr: text is empty")
	}

	png, err := qrcode.Encode(text, qrcode.Highest, e.size)
	if err != nil {
		return "", fmt.Errorf("qr: could not encode text: %w", err)
	}

	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
