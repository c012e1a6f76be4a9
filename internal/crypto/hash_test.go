package crypto

import "testing"

var testValue = "hello world"
var expectedDigest = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestHashString(t *testing.T) {
	result := HashString(testValue)
	if result != expectedDigest {
		t.Errorf("HashString() = %v, want %v", result, expectedDigest)
	}

	// determinism: repeated calls with identical input yield identical output
	if HashString(testValue) != result {
		t.Error("HashString() is not deterministic for identical input")
	}

	// avalanche: changing a single character changes the digest
	if HashString("hello worle") == result {
		t.Error("HashString() produced the same digest for different input")
	}
}

func TestHashJSON(t *testing.T) {
	type fields struct {
		Number string `json:"Certificate_Number"`
		Name   string `json:"name"`
	}

	a, err := HashJSON(fields{Number: "C-1", Name: "Alice"})
	if err != nil {
		t.Fatalf("HashJSON() error = %v", err)
	}

	// determinism across calls
	b, err := HashJSON(fields{Number: "C-1", Name: "Alice"})
	if err != nil {
		t.Fatalf("HashJSON() error = %v", err)
	}
	if a != b {
		t.Errorf("HashJSON() not deterministic: %v != %v", a, b)
	}

	// canonicalization makes key order irrelevant: a map with the same
	// entries hashes to the same digest as the struct
	c, err := HashJSON(map[string]string{"name": "Alice", "Certificate_Number": "C-1"})
	if err != nil {
		t.Fatalf("HashJSON() error = %v", err)
	}
	if a != c {
		t.Errorf("HashJSON() digest depends on key order: %v != %v", a, c)
	}

	// any field change changes the digest
	d, err := HashJSON(fields{Number: "C-2", Name: "Alice"})
	if err != nil {
		t.Fatalf("HashJSON() error = %v", err)
	}
	if a == d {
		t.Error("HashJSON() produced the same digest for different field values")
	}
}

func TestCanonicalizeJSON(t *testing.T) {
	// invalid json
	jsonData := []byte(`{"test": "value"`)
	_, err := CanonicalizeJSON(jsonData)
	if err == nil {
		t.Fatalf("CanonicalizeJSON() expected error, got nil")
	}
	t.Logf("CanonicalizeJSON() correctly rejected invalid JSON: %v", err)
}

func TestValidateHashHex(t *testing.T) {
	tests := []struct {
		name    string
		hash    string
		wantErr bool
	}{
		{"valid digest", expectedDigest, false},
		{"too short", "abc123", true},
		{"not hex", "zz4d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHashHex(tt.hash)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHashHex(%q) error = %v, wantErr %v", tt.hash, err, tt.wantErr)
			}
		})
	}
}
