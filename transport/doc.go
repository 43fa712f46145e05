// Package transport executes single HTTP requests against the backend with a
// deadline, classifies their outcome, and applies the bounded retry policy
// for authenticated calls.
package transport
