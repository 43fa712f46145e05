// Package core contains the canonical client domain contracts, entities, and
// configuration. Transport, storage, and scheduling adapters must depend on
// this package; core must not depend on any adapter.
package core
