package calendar

import (
	"errors"
	"net/url"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/models"
)

// EventDuration is the length of the event created for a task.
const EventDuration = 15 * time.Minute

const (
	templateBaseURL = "https://calendar.google.com/calendar/render"
	templateLayout  = "20060102T150405Z"
)

// ErrNoSchedule is returned for a task without a valid time of day.
var ErrNoSchedule = errors.New("task has no valid scheduled time")

// window returns the event interval of t on the calendar day of day.
func window(t *models.Task, day time.Time) (time.Time, time.Time, error) {
	if t == nil || !t.HasSchedule() {
		return time.Time{}, time.Time{}, ErrNoSchedule
	}
	c, err := models.ParseClock(t.ScheduledTime)
	if err != nil {
		return time.Time{}, time.Time{}, ErrNoSchedule
	}
	start := c.On(day)
	return start, start.Add(EventDuration), nil
}

func details(t *models.Task) string {
	return "Task: " + t.Title
}

// TemplateURL builds the Google Calendar link that opens a prefilled event
// for t at its scheduled time on day.
func TemplateURL(t *models.Task, day time.Time) (string, error) {
	start, end, err := window(t, day)
	if err != nil {
		return "", err
	}

	dates := start.UTC().Format(templateLayout) + "/" + end.UTC().Format(templateLayout)

	return templateBaseURL +
		"?action=TEMPLATE" +
		"&text=" + url.QueryEscape(t.Title) +
		"&dates=" + dates +
		"&details=" + url.QueryEscape(details(t)), nil
}
