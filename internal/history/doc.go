// Package history persists a ledger of completed cleaning runs in SQLite.
// Each run records the outcome counters plus one row per removed entry, so
// quarantine recoveries and support requests can reconstruct what a past run
// did. Recording is best effort: the hook logs and continues when the ledger
// is unavailable.
package history
