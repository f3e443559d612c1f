package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidClock is returned for a time of day not in "HH:MM" form.
var ErrInvalidClock = errors.New("invalid time of day, expected HH:MM")

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock parses a zero-padded 24h "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(h*60 + m), nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On places the clock on the calendar day of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, int(c)/60, int(c)%60, 0, 0, day.Location())
}

// SortBySchedule orders tasks by scheduled time, earliest first.
// Unscheduled or unparsable times go last; ties keep their order.
func SortBySchedule(tasks []*Task) {
	key := func(t *Task) int {
		c, err := ParseClock(t.ScheduledTime)
		if err != nil {
			return 24 * 60
		}
		return int(c)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return key(tasks[i]) < key(tasks[j])
	})
}
