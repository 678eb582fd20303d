// Package nzbget captures the contract between the extension and the NZBGet
// host process: the fixed post-processing exit codes, the status gating rule,
// and the error type that carries a signal out of the command layer.
package nzbget
