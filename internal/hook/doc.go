// Package hook orchestrates one post-processing invocation: parse the host
// environment, gate on download status, take the per-directory run lock,
// execute the sweep, and report the outcome through the exit-code contract.
// History recording and notifications are best effort and never change the
// reported signal.
package hook
