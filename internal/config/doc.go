// Package config loads the two configuration surfaces of the extension: the
// host-supplied run inputs (NZBPP_*/NZBPO_* variables parsed into an immutable
// Options snapshot plus a Job describing the download) and the tool's own
// ambient settings from an optional TOML file (state directory, log file,
// history retention, notifications). Ambient settings never influence
// classification semantics.
package config
