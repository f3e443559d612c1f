// Package tasks is the client's durable task store. Records are keyed by
// task id and every call is committed by the time it returns.
package tasks
