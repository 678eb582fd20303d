// Package sweep walks a download tree, applies the classification engine to
// every entry, and performs the configured action: delete, quarantine-move,
// or dry-run report. Classification and acting are two explicit phases so
// test mode and the gate check branch on the same candidate list the live
// run uses. Directory candidates are processed deepest first so removing an
// outer sample directory never invalidates a pending inner path.
package sweep
