package main

import "testing"

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short title untouched", "editor", 10, "editor"},
		{"exact width untouched", "0123456789", 10, "0123456789"},
		{"long title cut", "a very long window title", 10, "a very lo…"},
		{"multibyte kept whole", "日本語のウィンドウタイトル", 10, "日本語のウィンドウ…"},
		{"accents kept whole", "fenêtre principale étendue", 10, "fenêtre p…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateTitle(tt.in, tt.width); got != tt.want {
				t.Errorf("truncateTitle(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}
