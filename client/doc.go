// Package client performs the authenticated domain calls (weather,
// locations, alerts, IoT data) against the active endpoint, decoding the
// backend's response envelope and degrading to clearly-flagged fallback
// data when the backend is unreachable.
package client
