package classify

import (
	"math"
	"path"
	"path/filepath"
	"strings"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
)

// Reason identifies a rule that contributed to a sample verdict.
type Reason string

const (
	ReasonName         Reason = "name"
	ReasonVideoSize    Reason = "video-size"
	ReasonAudioSize    Reason = "audio-size"
	ReasonRelativeSize Reason = "relative-size"
	ReasonImage        Reason = "image"
	ReasonJunk         Reason = "junk"
	ReasonDeny         Reason = "deny"
)

// ReasonsString renders reasons for logs and reports.
func ReasonsString(reasons []Reason) string {
	parts := make([]string, len(reasons))
	for i, reason := range reasons {
		parts[i] = string(reason)
	}
	return strings.Join(parts, ",")
}

// Verdict is the classification result for one filesystem entry. Reasons are
// retained for diagnostic reporting, never re-evaluated.
type Verdict struct {
	Sample    bool
	Protected bool
	Reasons   []Reason
}

// MB converts a byte count to megabytes (1 MB = 1,048,576 bytes).
func MB(bytes int64) float64 {
	return float64(bytes) / (1 << 20)
}

// Engine composes the classification rules for one run. Construct once per
// run; the configuration snapshot never changes afterward.
type Engine struct {
	opts config.Options

	relativePercent    int
	relativeOverridden bool
	largestVideoBytes  int64
}

// NewEngine builds an engine for the given options and download category.
// A category with a configured threshold override replaces the global
// relative-size percent for this run only.
func NewEngine(opts config.Options, category string) *Engine {
	percent, overridden := opts.EffectiveRelativePercent(category)
	return &Engine{
		opts:               opts,
		relativePercent:    percent,
		relativeOverridden: overridden,
	}
}

// SetLargestVideo records the largest video byte size found in the scanned
// tree, enabling the relative-size rule.
func (e *Engine) SetLargestVideo(bytes int64) {
	e.largestVideoBytes = bytes
}

// RelativePercent returns the effective relative-size threshold; negative
// means disabled.
func (e *Engine) RelativePercent() int { return e.relativePercent }

// RelativeOverridden reports whether a category override is in effect.
func (e *Engine) RelativeOverridden() bool { return e.relativeOverridden }

// Dir classifies a directory by bare name. Protected paths short-circuit all
// other rules.
func (e *Engine) Dir(relPath string) Verdict {
	if matchesAnyGlob(relPath, e.opts.ProtectedPaths) {
		return Verdict{Protected: true}
	}
	name := path.Base(filepath.ToSlash(relPath))
	if MatchesDirName(name) {
		return Verdict{Sample: true, Reasons: []Reason{ReasonName}}
	}
	return Verdict{}
}

// File classifies a file. All applicable rules are recorded as reasons even
// though one suffices for a positive verdict. sizeKnown=false disables the
// size-based rules for this file (fail open).
func (e *Engine) File(relPath string, size int64, sizeKnown bool) Verdict {
	if matchesAnyGlob(relPath, e.opts.ProtectedPaths) {
		return Verdict{Protected: true}
	}

	name := path.Base(filepath.ToSlash(relPath))
	ext := Ext(name)
	kind := Kind(ext, e.opts.VideoExtensions, e.opts.AudioExtensions)
	sizeMB := MB(size)

	var reasons []Reason

	if MatchesFileName(name) {
		reasons = append(reasons, ReasonName)
	}
	if sizeKnown && kind == KindVideo && e.opts.VideoSizeLimitMB > 0 && sizeMB <= float64(e.opts.VideoSizeLimitMB) {
		reasons = append(reasons, ReasonVideoSize)
	}
	if sizeKnown && kind == KindAudio && e.opts.AudioSizeLimitMB > 0 && sizeMB <= float64(e.opts.AudioSizeLimitMB) {
		reasons = append(reasons, ReasonAudioSize)
	}
	if sizeKnown && kind == KindVideo && e.relativePercent >= 0 && e.largestVideoBytes > 0 {
		percent := int(math.Round(float64(size) / float64(e.largestVideoBytes) * 100))
		if percent <= e.relativePercent {
			reasons = append(reasons, ReasonRelativeSize)
		}
	}

	deny := matchesAnyGlob(relPath, e.opts.DenyPatterns)

	if e.opts.ImageSamples && IsImage(ext) {
		if deny || strings.Contains(strings.ToLower(name), "sample") {
			reasons = append(reasons, ReasonImage)
		}
	}
	if e.opts.JunkExtras {
		if deny || IsJunkExt(ext) || strings.HasSuffix(strings.ToLower(name), "readme.txt") {
			reasons = append(reasons, ReasonJunk)
		}
	}
	if deny {
		reasons = append(reasons, ReasonDeny)
	}

	return Verdict{Sample: len(reasons) > 0, Reasons: reasons}
}
