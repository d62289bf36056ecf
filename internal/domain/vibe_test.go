package domain

import "testing"

func TestParseVibe(t *testing.T) {
	tests := []struct {
		input   string
		want    Vibe
		wantErr bool
	}{
		{input: "comfort", want: VibeComfort},
		{input: "  Indulgent ", want: VibeIndulgent},
		{input: "ADVENTURE", want: VibeAdventure},
		{input: "hangry", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseVibe(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseVibe(%q) error = nil, want error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseVibe(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseVibe(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParsePreference(t *testing.T) {
	if _, err := ParsePreference("gluten_free"); err != nil {
		t.Fatalf("ParsePreference(gluten_free) error = %v", err)
	}
	if _, err := ParsePreference("Vegan"); err != nil {
		t.Fatalf("ParsePreference(Vegan) error = %v", err)
	}
	if _, err := ParsePreference("paleo"); err == nil {
		t.Fatalf("ParsePreference(paleo) error = nil, want error")
	}
}
