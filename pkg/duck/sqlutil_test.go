package duck

import "testing"

func TestEscapeString(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"O'Brien", "O''Brien"},
		{"''", "''''"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := EscapeString(tc.input); got != tc.want {
			t.Errorf("EscapeString(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"konto", `"konto"`},
		{"VAT%", `"VAT%"`},
		{`evil"name`, `"evil""name"`},
	}
	for _, tc := range cases {
		if got := QuoteIdent(tc.input); got != tc.want {
			t.Errorf("QuoteIdent(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	if got := StringLiteral("it's"); got != "'it''s'" {
		t.Errorf("StringLiteral = %q", got)
	}
}
