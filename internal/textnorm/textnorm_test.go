package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What did I SPEND on dining?", "what did i spend on dining"},
		{"  over-budget!!  ", "over budget"},
		{"", ""},
		{"   \t\n ", ""},
		{"ＢＵＤＧＥＴ", "budget"}, // full-width letters fold via NFKC
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestText_Has(t *testing.T) {
	text := New("Am I over budget on dining this month?")

	for _, phrase := range []string{"over budget", "dining", "this month", "Over-Budget"} {
		if !text.Has(phrase) {
			t.Errorf("expected %q to match", phrase)
		}
	}
	// Whole words only.
	for _, phrase := range []string{"din", "budge", "month this", ""} {
		if text.Has(phrase) {
			t.Errorf("did not expect %q to match", phrase)
		}
	}

	if p, ok := text.First("goal", "dining", "budget"); !ok || p != "dining" {
		t.Errorf("First returned %q, %v", p, ok)
	}
	if !New(" ?! ").Empty() {
		t.Error("punctuation-only text should be empty")
	}
}
