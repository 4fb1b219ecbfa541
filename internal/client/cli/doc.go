// Package cli provides the interactive school dashboard command-line client.
//
// It drives an AuthService and a request performer (the session coordinator)
// from a small REPL. Typical flow: prompt for credentials, start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Login / Logout
//   - get / post against any dashboard path through the coordinator
//   - Session status (expiry, refresh count)
//   - Terminal screens for expired sessions and unreachable servers
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
