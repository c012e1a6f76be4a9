package qr

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestDataURL(t *testing.T) {
	encoder := NewEncoder(256)

	dataURL, err := encoder.DataURL("https://verify.certs365.io/?q=abc&iv=def")
	if err != nil {
		t.Fatalf("DataURL() error = %v", err)
	}

	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Fatalf("DataURL() = %q, want a PNG data URL", dataURL)
	}

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("DataURL() payload is not valid base64: %v", err)
	}

	// PNG magic bytes
	if !bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("DataURL() payload is not a PNG image")
	}
}

func TestDataURLRejectsEmptyText(t *testing.T) {
	encoder := NewEncoder(0)

	if _, err := encoder.DataURL(""); err == nil {
		t.Fatal("DataURL() expected error for empty text, got nil")
	}
}
