package main

import "testing"

func TestParseSeedWords(t *testing.T) {
	seed, err := parseSeed("1, 2,3")
	if err != nil {
		t.Fatalf("parseSeed: %v", err)
	}
	if !seed.Explicit() {
		t.Fatalf("expected explicit seed")
	}
}

func TestParseSeedEmpty(t *testing.T) {
	seed, err := parseSeed("  ")
	if err != nil {
		t.Fatalf("parseSeed: %v", err)
	}
	if seed.Explicit() {
		t.Fatalf("blank spec should fall back to OS entropy")
	}
}

func TestParseSeedBadWord(t *testing.T) {
	if _, err := parseSeed("1,banana"); err == nil {
		t.Fatalf("expected error for non-numeric seed word")
	}
}

func TestParseFloatDtype(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"f32", false},
		{"float64", false},
		{"u32", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := parseFloatDtype(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFloatDtype(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
