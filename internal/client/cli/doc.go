// Package cli is the interactive notekeeper client.
//
// It wires configuration, the local SQLite store, the gRPC note server
// client and the export sink, then runs a REPL over one notes.Store per
// session. A session is either a signed-in user (online, or offline with
// cached credentials) or the local-only guest namespace.
//
// A background watcher pings the server every OnlineCheckInterval and
// switches the prompt between online and offline mode.
//
// Start it with App.Run(ctx), which blocks until the user exits.
package cli
