package classify

import (
	"path/filepath"
	"strings"
)

// MediaKind labels a file by its extension class.
type MediaKind int

const (
	KindOther MediaKind = iota
	KindVideo
	KindAudio
)

// imageExtensions is the fixed built-in set used by the image-samples rule.
var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".bmp": {}, ".gif": {}, ".webp": {},
}

// junkExtensions is the fixed set used by the junk-extras rule.
var junkExtensions = map[string]struct{}{
	".url": {}, ".webloc": {},
}

// Ext returns the lower-cased extension of a filename, including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Kind classifies an extension against the configured video and audio sets.
// The sets are normalized at configuration time; no re-normalization here.
func Kind(ext string, video, audio map[string]struct{}) MediaKind {
	if _, ok := video[ext]; ok {
		return KindVideo
	}
	if _, ok := audio[ext]; ok {
		return KindAudio
	}
	return KindOther
}

// IsImage reports whether the extension is in the built-in image set.
func IsImage(ext string) bool {
	_, ok := imageExtensions[ext]
	return ok
}

// IsJunkExt reports whether the extension is in the built-in junk set.
func IsJunkExt(ext string) bool {
	_, ok := junkExtensions[ext]
	return ok
}
