package utils

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"googl", "GOOGL"},
		{" MSFT ", "MSFT"},
		{"$AAPL", "AAPL"},
		{"NVDA.US", "NVDA"},
		{"$brk-b", "BRK-B"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTicker(tt.in); got != tt.want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssetSymbolRoundTrip(t *testing.T) {
	if got := ToAssetSymbol("googl"); got != "GOOGL.US" {
		t.Errorf("ToAssetSymbol = %q, want GOOGL.US", got)
	}
	if got := ToAssetSymbol(""); got != "" {
		t.Errorf("ToAssetSymbol(\"\") = %q, want empty", got)
	}
	if got := FromAssetSymbol("GOOGL.US"); got != "GOOGL" {
		t.Errorf("FromAssetSymbol = %q, want GOOGL", got)
	}
	if got := FromAssetSymbol(ToAssetSymbol("msft")); got != "MSFT" {
		t.Errorf("round trip = %q, want MSFT", got)
	}
}
