// Package endpoint maintains the ordered candidate list of backend base
// URLs, probes them for reachability, and owns the single persisted active
// selection. The active URL invariant (always a member of the candidate
// list) is enforced here, not by callers.
package endpoint
