package textutil

import "testing"

func TestFilterText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"leading colon", ": Vážené paní poslankyně", "Vážené paní poslankyně"},
		{"nbsp runs", "schůze  Poslanecké sněmovny", "schůze Poslanecké sněmovny"},
		{"whitespace collapse", "  a \n\t b  ", "a b"},
		{"colon then nbsp", ": text", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterText(tt.in); got != tt.want {
				t.Errorf("FilterText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSpeakerLabel(t *testing.T) {
	got := SpeakerLabel("Poslanec Jan Novák: ")
	if got != "Poslanec Jan Novák" {
		t.Errorf("SpeakerLabel() = %q, want %q", got, "Poslanec Jan Novák")
	}
}

func TestSpeakerKey(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"plain", "Poslanec Jan Novák", "Poslanec_Jan_Novák"},
		{"comma", "Novák, Jan", "Novák_Jan"},
		{"double space", "Poslanec  Jan", "Poslanec_Jan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpeakerKey(tt.label); got != tt.want {
				t.Errorf("SpeakerKey(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestSpeakerLabelThenKey(t *testing.T) {
	if got := SpeakerKey(SpeakerLabel("Poslanec Jan Novák:")); got != "Poslanec_Jan_Novák" {
		t.Errorf("key = %q, want Poslanec_Jan_Novák", got)
	}
}
