package timecode

import (
	"testing"
	"time"
)

func TestDisplay(t *testing.T) {
	cases := []struct {
		d      time.Duration
		places int
		want   string
	}{
		{0, 1, "00"},
		{0, 3, "00:00:00"},
		{5 * time.Second, 1, "05"},
		{65 * time.Second, 1, "01:05"},
		{3723 * time.Second, 1, "01:02:03"},
		{3723 * time.Second, 4, "00:01:02:03"},
		{90061 * time.Second, 1, "01:01:01:01"},
		{65*time.Second + 900*time.Millisecond, 1, "01:05"},
		{-65 * time.Second, 2, "-01:05"},
	}
	for _, tc := range cases {
		if got := Display(tc.d, tc.places); got != tc.want {
			t.Errorf("Display(%v, %d) = %q, want %q", tc.d, tc.places, got, tc.want)
		}
	}
}

func TestDisplay_KeepsInnerZeros(t *testing.T) {
	if got := Display(3603*time.Second, 1); got != "01:00:03" {
		t.Errorf("got %q", got)
	}
}

func TestCompact(t *testing.T) {
	cases := []struct {
		d      time.Duration
		places int
		want   string
	}{
		{3723 * time.Second, 1, "01h02m03s"},
		{5 * time.Second, 1, "05s"},
		{5 * time.Second, 3, "00h00m05s"},
		{65 * time.Second, 1, "01m05s"},
		{90061 * time.Second, 1, "01d01h01m01s"},
	}
	for _, tc := range cases {
		if got := Compact(tc.d, tc.places); got != tc.want {
			t.Errorf("Compact(%v, %d) = %q, want %q", tc.d, tc.places, got, tc.want)
		}
	}
}

func TestPlaces(t *testing.T) {
	if got := Places(0); got != 1 {
		t.Errorf("Places(0) = %d", got)
	}
	if got := Places(3723 * time.Second); got != 3 {
		t.Errorf("Places(3723s) = %d", got)
	}
	if got := Places(-61 * time.Second); got != 2 {
		t.Errorf("Places(-61s) = %d", got)
	}
}
