package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "fix kitchen sink", "fix kitchen sink"},
		{"strips tags", "<b>bold</b> hello", "bold hello"},
		{"strips encoded tags", "&lt;img src=x&gt;hi", "hi"},
		{"trims whitespace", "  hello  ", "hello"},
		{"keeps unicode", "تعمیر یخچال", "تعمیر یخچال"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextPtr(t *testing.T) {
	if got := TextPtr(nil); got != nil {
		t.Errorf("TextPtr(nil) = %v, want nil", got)
	}

	input := " <b>note</b> "
	got := TextPtr(&input)
	if got == nil || *got != "note" {
		t.Errorf("TextPtr(%q) = %v, want %q", input, got, "note")
	}
}
