// Package client contains the client-side transport and local database
// bootstrap for TaskKeeper.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the
//     TaskKeeper backend: Register/GetSalt/Login, Ping, the task calls
//     CreateTask/UpdateTask/DeleteTask/ListTasks, GetStats and ExportTasks.
//  2. A gRPC implementation (see GRPCClient) that injects the access token
//     through an interceptor, refreshes it once when the server reports it
//     expired, and maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database with embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrLocalDataNotAvailable.
//
// The remote calls never retry. Callers pass deadlines through the context.
package client
