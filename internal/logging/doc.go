// Package logging builds the extension's slog logger. Console output is
// line-oriented with NZBGet severity tags ([INFO], [DEBUG], [ERROR],
// [WARNING], [DETAIL]) because the host scrapes stdout; a rotating JSON file
// handler can be fanned in for persistent structured logs.
package logging
