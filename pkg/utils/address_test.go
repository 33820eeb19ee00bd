package utils

import "testing"

func TestExtractTokenAddress(t *testing.T) {
	const sol = "So11111111111111111111111111111111111111112"
	const pump = "A8LCx85weSxU4ubQS16twdSdYphbAEDdMd9GkZq5pump"

	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"plain", sol, sol, true},
		{"embedded", "what do you think about " + pump + " ?", pump, true},
		{"first wins", "compare " + pump + " and " + sol, pump, true},
		{"no address", "hello, how are you today?", "", false},
		{"too short", "abc123", "", false},
		{"contains zero", "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTokenAddress(tt.text)
			if ok != tt.found || got != tt.want {
				t.Errorf("ExtractTokenAddress(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestTokenReportKey(t *testing.T) {
	if got := TokenReportKey("abc"); got != "token_report:report:abc" {
		t.Errorf("TokenReportKey = %q", got)
	}
}
