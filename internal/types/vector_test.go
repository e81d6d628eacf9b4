package types

import (
	"testing"
)

func TestVectorValueScanRoundtrip(t *testing.T) {
	in := Vector{0.25, -1, 3.5}
	val, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if val.(string) != "[0.25,-1,3.5]" {
		t.Fatalf("unexpected literal %q", val)
	}
	var out Vector
	if err := out.Scan(val); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("roundtrip length %d != %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("roundtrip element %d: %v != %v", i, in[i], out[i])
		}
	}
}

func TestVectorNullHandling(t *testing.T) {
	var v Vector
	val, err := v.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if val != nil {
		t.Fatalf("nil vector must map to SQL NULL, got %v", val)
	}
	var out Vector
	if err := out.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if out != nil {
		t.Fatalf("scanning NULL must yield nil vector, got %v", out)
	}
}

func TestVectorScanMalformed(t *testing.T) {
	var v Vector
	if err := v.Scan("[1,notanumber]"); err == nil {
		t.Fatal("expected error for malformed vector literal")
	}
}
