package classify

import "regexp"

// Sample name rules. Word-boundary matching avoids false positives on
// substrings like "resample" or "samplesize" while catching the common
// release-naming conventions (Movie.sample.mkv, movie-sample.mkv,
// directories named Sample/Samples).
var (
	filePatterns = compilePatterns([]string{
		`\bsample\b`,
		`\.sample\.`,
		`^sample\.`,
		`_sample\.`,
		`-sample\.`,
		`sample[_-]`,
	})
	dirPatterns = compilePatterns([]string{
		`\bsamples?\b`,
		`^samples?$`,
	})
)

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+pattern))
	}
	return compiled
}

// MatchesFileName reports whether a bare filename looks like a sample.
// Pure predicate; first match wins and order does not affect the result.
func MatchesFileName(name string) bool {
	return matchesAnyPattern(name, filePatterns)
}

// MatchesDirName reports whether a bare directory name looks like a sample
// directory.
func MatchesDirName(name string) bool {
	return matchesAnyPattern(name, dirPatterns)
}

func matchesAnyPattern(name string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}
