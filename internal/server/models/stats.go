package models

import "time"

// UserStats is the login analytics of one user. WeeklyLogins counts logins
// since WeekStart, the most recent Sunday midnight UTC.
type UserStats struct {
	UserID       string
	TotalLogins  int64
	WeeklyLogins int64
	WeekStart    time.Time
	LastLogin    time.Time
}

// WeekStart returns Sunday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// RecordLogin counts a login at now, starting a new week when needed.
func (s *UserStats) RecordLogin(now time.Time) {
	week := WeekStart(now)
	if !week.Equal(s.WeekStart) {
		s.WeekStart = week
		s.WeeklyLogins = 0
	}
	s.TotalLogins++
	s.WeeklyLogins++
	s.LastLogin = now.UTC()
}
