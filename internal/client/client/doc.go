// Package client talks to the notekeeper server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Register,
//     Login, Ping, and the three note-table calls the note store consumes
//     (ListNotesForUser, DeleteAllNotesForUser, InsertNotes).
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token via an interceptor and maps gRPC
//     status codes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrPermissionDenied,
// ErrAlreadyExists, ErrInvalidArgument, ErrNotAuthenticated.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use; the online-status watcher pings
// while the REPL issues calls. All operations accept context.Context and
// honor cancellation/timeouts.
package client
