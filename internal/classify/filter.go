package classify

import (
	"path"
	"path/filepath"

	"github.com/IGLOU-EU/go-wildcard"
)

// matchesAnyGlob checks glob patterns against both the bare name and the
// forward-slash relative path, so operators can write either "*.nfo" or
// "extras/*.mkv".
func matchesAnyGlob(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	slashed := filepath.ToSlash(relPath)
	name := path.Base(slashed)
	for _, pattern := range patterns {
		if wildcard.Match(pattern, name) || wildcard.Match(pattern, slashed) {
			return true
		}
	}
	return false
}
