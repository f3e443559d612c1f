// Package calendar puts scheduled tasks on a Google calendar, either as a
// prefilled "add event" link or, with OAuth credentials, by writing the
// event through the Calendar API.
package calendar
