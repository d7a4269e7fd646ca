package ui

import (
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	cases := map[int]string{
		-3:     "00:00:00",
		0:      "00:00:00",
		5:      "00:00:05",
		65:     "00:01:05",
		3723:   "01:02:03",
		360000: "100:00:00",
	}
	for seconds, want := range cases {
		if got := FormatElapsed(seconds); got != want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", seconds, got, want)
		}
	}
}

func TestFormatDurationShort(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{name: "seconds", duration: 45 * time.Second, want: "45s"},
		{name: "minutes", duration: 2*time.Minute + 10*time.Second, want: "2m"},
		{name: "hours", duration: 3*time.Hour + 5*time.Minute, want: "3h"},
		{name: "days", duration: 48 * time.Hour, want: "2d"},
		{name: "negative", duration: -time.Minute, want: "0s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatDurationShort(tc.duration)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if got := FormatTimeAgo(now.Add(-2*time.Minute), now); got != "2m ago" {
		t.Fatalf("expected 2m ago, got %s", got)
	}
	if got := FormatTimeAgo(time.Time{}, now); got != "-" {
		t.Fatalf("expected - for zero time, got %s", got)
	}
}
