// Package session owns the login/logout state machine and the startup
// reconciliation of persisted credentials.
package session
