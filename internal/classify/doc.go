// Package classify decides whether a filesystem entry is a sample artifact.
// It composes the name-pattern matcher, the absolute and relative size rules,
// the image/junk heuristics, and the protection/deny filter into one verdict
// per entry. All rules contribute independent reasons; any single reason
// makes the entry a candidate.
package classify
