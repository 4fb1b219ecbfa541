// Package session coordinates authenticated requests for the dashboard
// client.
//
// A Coordinator owns the session state: the CredentialStore, the refresh
// state machine (idle or refreshing with an ordered queue of parked
// callers), the Detector that counts consecutive server-down outcomes and
// the manual sign-out flag. Consumers only call Coordinator.Perform; expired
// access tokens are refreshed transparently, at most once at a time, and
// every request is replayed at most once.
//
// Irrecoverable conditions funnel into a Terminator, which clears the
// store, broadcasts a SignOutEvent and sends the user to the terminal view
// for the reason (session expired, server down or manual logout).
package session
