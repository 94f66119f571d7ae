package board

import (
	"testing"
	"time"
)

func TestElapsedMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start string
		now   time.Time
		want  int
		ok    bool
	}{
		{"same hour", "14:30", time.Date(2024, 1, 1, 14, 45, 0, 0, time.UTC), 15, true},
		{"across midnight", "23:55", time.Date(2024, 1, 2, 0, 10, 0, 0, time.UTC), 15, true},
		{"just started", "09:00", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 0, true},
		{"garbage", "soon", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ElapsedMinutes(tt.start, tt.now)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ElapsedMinutes(%q) = %d, %v; want %d, %v", tt.start, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAddMinutes(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 1, 23, 45, 0, 0, time.UTC)
	if got := AddMinutes(at, 30); got != "00:15" {
		t.Errorf("AddMinutes = %s, want 00:15", got)
	}
	if got := AddMinutes(at, 0); got != "23:45" {
		t.Errorf("AddMinutes = %s, want 23:45", got)
	}
}

func TestParseHHMM(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]int{"00:00": 0, "9:05": 545, " 23:59 ": 1439} {
		if got, ok := ParseHHMM(in); !ok || got != want {
			t.Errorf("ParseHHMM(%q) = %d, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "24:00", "12:60", "12-30"} {
		if _, ok := ParseHHMM(in); ok {
			t.Errorf("ParseHHMM(%q) accepted", in)
		}
	}
}
