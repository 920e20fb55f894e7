package logger

import (
	"context"
	"log/slog"
	"testing"
	"unicode/utf8"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     string
		debugView bool
		warnView  bool
	}{
		{name: "Debug level shows everything", level: "debug", debugView: true, warnView: true},
		{name: "Warn level hides debug", level: "warn", debugView: false, warnView: true},
		{name: "Error level hides warn", level: "error", debugView: false, warnView: false},
		{name: "Unknown level falls back to info", level: "verbose", debugView: false, warnView: true},
	}

	ctx := context.Background()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			log := New(tc.level, false)
			if got := log.Enabled(ctx, slog.LevelDebug); got != tc.debugView {
				t.Errorf("Enabled(debug) = %v, want %v", got, tc.debugView)
			}
			if got := log.Enabled(ctx, slog.LevelWarn); got != tc.warnView {
				t.Errorf("Enabled(warn) = %v, want %v", got, tc.warnView)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{in: "short", maxLen: 50, want: "short"},
		{in: "exactly ten", maxLen: 11, want: "exactly ten"},
		{in: "this one is definitely too long", maxLen: 10, want: "this on..."},
		{in: "abc", maxLen: 2, want: "..."},
		// The cut must land on a rune boundary, not mid-character.
		{in: "Новосибирск", maxLen: 10, want: "Нов..."},
		{in: "東京タワーの近く", maxLen: 8, want: "東..."},
	}

	for _, tc := range tests {
		if got := truncate(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
		if !utf8.ValidString(truncate(tc.in, tc.maxLen)) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tc.in, tc.maxLen)
		}
	}
}
