package classify_test

import (
	"slices"
	"testing"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/classify"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
)

const mb = 1 << 20

func baseOptions() config.Options {
	return config.Options{
		RemoveFiles:       true,
		RemoveDirectories: true,
		VideoSizeLimitMB:  150,
		AudioSizeLimitMB:  2,
		RelativePercent:   -1,
		VideoExtensions:   config.ParseExtensions(".mkv,.mp4"),
		AudioExtensions:   config.ParseExtensions(".mp3,.flac"),
	}
}

func hasReason(v classify.Verdict, reason classify.Reason) bool {
	return slices.Contains(v.Reasons, reason)
}

func TestFileSizeThreshold(t *testing.T) {
	engine := classify.NewEngine(baseOptions(), "")

	v := engine.File("movie.mkv", 1024, true)
	if !v.Sample || !hasReason(v, classify.ReasonVideoSize) {
		t.Fatalf("1KB video should match by size: %+v", v)
	}

	// Boundary: at the limit still counts.
	v = engine.File("movie.mkv", 150*mb, true)
	if !v.Sample {
		t.Fatalf("video at exactly the limit should match: %+v", v)
	}

	v = engine.File("movie.mkv", 200*mb, true)
	if v.Sample {
		t.Fatalf("200MB video above 150MB limit should not match: %+v", v)
	}

	v = engine.File("song.mp3", 1*mb, true)
	if !v.Sample || !hasReason(v, classify.ReasonAudioSize) {
		t.Fatalf("small audio should match: %+v", v)
	}

	// Unknown extension never matches by size.
	v = engine.File("notes.txt", 10, true)
	if v.Sample {
		t.Fatalf("non-media file should not match by size: %+v", v)
	}
}

func TestFileSizeThresholdDisabledByZeroLimit(t *testing.T) {
	opts := baseOptions()
	opts.VideoSizeLimitMB = 0
	engine := classify.NewEngine(opts, "")

	if v := engine.File("movie.mkv", 1024, true); v.Sample {
		t.Fatalf("zero limit should disable size classification: %+v", v)
	}
}

func TestFileUnreadableSizeFailsOpen(t *testing.T) {
	engine := classify.NewEngine(baseOptions(), "")

	if v := engine.File("movie.mkv", 0, false); v.Sample {
		t.Fatalf("unknown size must never classify by size: %+v", v)
	}
	// A name match still applies.
	if v := engine.File("movie.sample.mkv", 0, false); !v.Sample || !hasReason(v, classify.ReasonName) {
		t.Fatalf("name rule should be unaffected: %+v", v)
	}
}

func TestRelativeSizeRule(t *testing.T) {
	opts := baseOptions()
	opts.VideoSizeLimitMB = 0
	opts.RelativePercent = 5
	engine := classify.NewEngine(opts, "")
	engine.SetLargestVideo(20000 * mb)

	// 200MB next to a 20GB feature is 1% — a sample.
	v := engine.File("clip.mkv", 200*mb, true)
	if !v.Sample || !hasReason(v, classify.ReasonRelativeSize) {
		t.Fatalf("small relative video should match: %+v", v)
	}

	// 2GB is 10% — kept.
	if v := engine.File("episode.mkv", 2000*mb, true); v.Sample {
		t.Fatalf("10%% of largest should not match at threshold 5: %+v", v)
	}

	// Audio files are outside the relative rule.
	if v := engine.File("big.mp3", 10*mb, true); hasReason(v, classify.ReasonRelativeSize) {
		t.Fatalf("relative rule must only apply to video: %+v", v)
	}
}

func TestRelativeSizeDisabledWithoutLargestVideo(t *testing.T) {
	opts := baseOptions()
	opts.VideoSizeLimitMB = 0
	opts.RelativePercent = 50
	engine := classify.NewEngine(opts, "")

	if v := engine.File("clip.mkv", 1*mb, true); v.Sample {
		t.Fatalf("no largest video means no relative classification: %+v", v)
	}
}

func TestCategoryOverride(t *testing.T) {
	opts := baseOptions()
	opts.RelativePercent = 50
	opts.CategoryThresholds = map[string]int{"movies": 2}

	engine := classify.NewEngine(opts, "Movies")
	if engine.RelativePercent() != 2 || !engine.RelativeOverridden() {
		t.Fatalf("expected override 2, got %d", engine.RelativePercent())
	}

	engine = classify.NewEngine(opts, "tv")
	if engine.RelativePercent() != 50 || engine.RelativeOverridden() {
		t.Fatalf("expected global 50, got %d", engine.RelativePercent())
	}
}

func TestProtectedPathsShortCircuit(t *testing.T) {
	opts := baseOptions()
	opts.ProtectedPaths = []string{"keep/*", "*.srt"}
	engine := classify.NewEngine(opts, "")

	v := engine.File("keep/sample.mkv", 1024, true)
	if v.Sample || !v.Protected {
		t.Fatalf("protected file must be exempt: %+v", v)
	}
	if v := engine.File("movie.sample.srt", 10, true); v.Sample || !v.Protected {
		t.Fatalf("protected by name glob: %+v", v)
	}
	if v := engine.Dir("keep/Sample"); v.Sample || !v.Protected {
		t.Fatalf("protected directory must be exempt: %+v", v)
	}
}

func TestDenyPatternsForceClassification(t *testing.T) {
	opts := baseOptions()
	opts.DenyPatterns = []string{"*.lnk", "junk/*"}
	engine := classify.NewEngine(opts, "")

	v := engine.File("shortcut.lnk", 10, true)
	if !v.Sample || !hasReason(v, classify.ReasonDeny) {
		t.Fatalf("deny pattern should force a sample verdict: %+v", v)
	}
	v = engine.File("junk/huge.mkv", 9000*mb, true)
	if !v.Sample || !hasReason(v, classify.ReasonDeny) {
		t.Fatalf("deny by relative path should match: %+v", v)
	}
}

func TestImageSamplesRule(t *testing.T) {
	opts := baseOptions()
	opts.ImageSamples = true
	opts.DenyPatterns = []string{"screens/*"}
	engine := classify.NewEngine(opts, "")

	v := engine.File("sample-poster.jpg", 100, true)
	if !v.Sample || !hasReason(v, classify.ReasonImage) {
		t.Fatalf("image with sample in the name should match: %+v", v)
	}
	if v := engine.File("poster.jpg", 100, true); v.Sample {
		t.Fatalf("plain image should not match: %+v", v)
	}
	// Deny pattern gates the image rule on.
	v = engine.File("screens/poster.png", 100, true)
	if !hasReason(v, classify.ReasonImage) || !hasReason(v, classify.ReasonDeny) {
		t.Fatalf("denied image should record both reasons: %+v", v)
	}
}

func TestImageSamplesDisabledByDefault(t *testing.T) {
	engine := classify.NewEngine(baseOptions(), "")
	if v := engine.File("sample.jpg", 100, true); hasReason(v, classify.ReasonImage) {
		t.Fatalf("image rule must be opt-in: %+v", v)
	}
}

func TestJunkExtrasRule(t *testing.T) {
	opts := baseOptions()
	opts.JunkExtras = true
	engine := classify.NewEngine(opts, "")

	for _, name := range []string{"website.url", "link.webloc", "ReadMe.txt", "release-readme.txt"} {
		v := engine.File(name, 100, true)
		if !v.Sample || !hasReason(v, classify.ReasonJunk) {
			t.Errorf("%s should match junk rule: %+v", name, v)
		}
	}
	if v := engine.File("notes.txt", 100, true); v.Sample {
		t.Fatalf("ordinary text file is not junk: %+v", v)
	}
}

func TestDirClassification(t *testing.T) {
	engine := classify.NewEngine(baseOptions(), "")

	if v := engine.Dir("Sample"); !v.Sample {
		t.Fatalf("Sample dir should match: %+v", v)
	}
	if v := engine.Dir("Movie/Samples"); !v.Sample {
		t.Fatalf("nested Samples dir should match: %+v", v)
	}
	if v := engine.Dir("Movie.1080p"); v.Sample {
		t.Fatalf("ordinary dir should not match: %+v", v)
	}
}

func TestAllReasonsRecorded(t *testing.T) {
	opts := baseOptions()
	opts.RelativePercent = 50
	opts.DenyPatterns = []string{"*.mkv"}
	engine := classify.NewEngine(opts, "")
	engine.SetLargestVideo(1000 * mb)

	v := engine.File("movie.sample.mkv", 10*mb, true)
	for _, want := range []classify.Reason{
		classify.ReasonName,
		classify.ReasonVideoSize,
		classify.ReasonRelativeSize,
		classify.ReasonDeny,
	} {
		if !hasReason(v, want) {
			t.Errorf("missing reason %s in %v", want, v.Reasons)
		}
	}
}
