// Package cli provides the interactive TaskKeeper command-line client.
//
// It wires configuration, the local task store, the gRPC client and an
// interactive REPL that keeps working while the server is unreachable.
// Typical flow: prompt for credentials, start the connectivity prober and
// execute user commands. Pending changes are replayed as soon as the server
// comes back.
//
// Key features:
//   - Register / Login / Logout (online with offline fallback)
//   - Add, edit, complete and delete tasks
//   - List tasks sorted by time, with a pending badge in the prompt
//   - Manual sync, stats, export and Google Calendar links
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
