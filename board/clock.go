package board

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// HHMM formats the wall-clock part of t.
func HHMM(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ParseHHMM returns minutes since midnight for an "HH:MM" string.
func ParseHHMM(s string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// AddMinutes shifts an HH:MM wall-clock time, rolling over midnight.
func AddMinutes(t time.Time, minutes int) string {
	total := (t.Hour()*60 + t.Minute() + minutes) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ElapsedMinutes reports how long ago start was. A start later than now
// happened the previous day, so the result is never negative.
func ElapsedMinutes(start string, now time.Time) (int, bool) {
	startMin, ok := ParseHHMM(start)
	if !ok {
		return 0, false
	}
	nowMin := now.Hour()*60 + now.Minute()
	if startMin > nowMin {
		return nowMin + minutesPerDay - startMin, true
	}
	return nowMin - startMin, true
}

// plannedMinutes is the length of the window start..end, across midnight when needed.
func plannedMinutes(start, end string) (int, bool) {
	s, ok := ParseHHMM(start)
	if !ok {
		return 0, false
	}
	e, ok := ParseHHMM(end)
	if !ok {
		return 0, false
	}
	return ((e-s)%minutesPerDay + minutesPerDay) % minutesPerDay, true
}
