// Package services contains the application services of the TaskKeeper
// client: authentication, task operations with their validation rules, and
// the server-side reports.
package services
