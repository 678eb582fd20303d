package config_test

import (
	"errors"
	"testing"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
)

func requiredEnv() map[string]string {
	return map[string]string{
		config.OptRemoveDirectories: "yes",
		config.OptRemoveFiles:       "yes",
		config.OptDebug:             "no",
		config.OptVideoSizeLimitMB:  "150",
		config.OptVideoExtensions:   ".mkv,.mp4",
		config.OptAudioSizeLimitMB:  "2",
		config.OptAudioExtensions:   ".mp3,.flac",
	}
}

func TestParseOptionsMissingRequired(t *testing.T) {
	env := requiredEnv()
	delete(env, config.OptVideoExtensions)

	_, err := config.ParseOptions(config.MapLookup(env))
	if !errors.Is(err, config.ErrMissingOption) {
		t.Fatalf("expected ErrMissingOption, got %v", err)
	}
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := config.ParseOptions(config.MapLookup(requiredEnv()))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if !opts.RemoveFiles || !opts.RemoveDirectories {
		t.Fatal("expected removal toggles on")
	}
	if opts.TestMode || opts.QuarantineMode || opts.ImageSamples || opts.JunkExtras {
		t.Fatal("optional toggles should default off")
	}
	if opts.RelativePercent != -1 {
		t.Fatalf("relative percent should default disabled, got %d", opts.RelativePercent)
	}
	if opts.VideoSizeLimitMB != 150 || opts.AudioSizeLimitMB != 2 {
		t.Fatalf("unexpected size limits: %d / %d", opts.VideoSizeLimitMB, opts.AudioSizeLimitMB)
	}
	if _, ok := opts.VideoExtensions[".mkv"]; !ok {
		t.Fatal("expected .mkv in video set")
	}
}

func TestParseOptionsBooleanForms(t *testing.T) {
	for _, value := range []string{"1", "true", "Yes", "ON", "y", "T", "enabled", "Enable"} {
		env := requiredEnv()
		env[config.OptTestMode] = value
		opts, err := config.ParseOptions(config.MapLookup(env))
		if err != nil {
			t.Fatalf("ParseOptions(%q): %v", value, err)
		}
		if !opts.TestMode {
			t.Errorf("value %q should enable test mode", value)
		}
	}

	env := requiredEnv()
	env[config.OptTestMode] = "definitely"
	opts, err := config.ParseOptions(config.MapLookup(env))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if opts.TestMode {
		t.Error("unrecognized value should read as false")
	}
}

func TestParseOptionsLenientIntegerFallback(t *testing.T) {
	env := requiredEnv()
	env[config.OptVideoSizeLimitMB] = "not-a-number"
	opts, err := config.ParseOptions(config.MapLookup(env))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if opts.VideoSizeLimitMB != 150 {
		t.Fatalf("expected default 150, got %d", opts.VideoSizeLimitMB)
	}
}

func TestParseExtensionsNormalization(t *testing.T) {
	exts := config.ParseExtensions("MKV, .Mp4;avi  webm,")
	for _, want := range []string{".mkv", ".mp4", ".avi", ".webm"} {
		if _, ok := exts[want]; !ok {
			t.Errorf("missing %s in %v", want, exts)
		}
	}
	if len(exts) != 4 {
		t.Fatalf("unexpected set size: %v", exts)
	}
}

func TestParseOptionsPatternsAndThresholds(t *testing.T) {
	env := requiredEnv()
	env[config.OptProtectedPaths] = "keep/*, *.nfo\nextras/*"
	env[config.OptDenyPatterns] = "*.lnk;*trailer*"
	env[config.OptCategoryThresholds] = "tv=5, Movies=10, broken, bad=x"

	opts, err := config.ParseOptions(config.MapLookup(env))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if len(opts.ProtectedPaths) != 3 {
		t.Fatalf("unexpected protected paths: %v", opts.ProtectedPaths)
	}
	if len(opts.DenyPatterns) != 2 {
		t.Fatalf("unexpected deny patterns: %v", opts.DenyPatterns)
	}
	if got := opts.CategoryThresholds["movies"]; got != 10 {
		t.Fatalf("expected movies=10, got %d", got)
	}
	if _, ok := opts.CategoryThresholds["broken"]; ok {
		t.Fatal("malformed entry should be dropped")
	}
}

func TestEffectiveRelativePercent(t *testing.T) {
	opts := config.Options{
		RelativePercent:    20,
		CategoryThresholds: map[string]int{"tv": 5},
	}
	if got, overridden := opts.EffectiveRelativePercent("TV"); got != 5 || !overridden {
		t.Fatalf("expected override 5, got %d (%v)", got, overridden)
	}
	if got, overridden := opts.EffectiveRelativePercent("movies"); got != 20 || overridden {
		t.Fatalf("expected global 20, got %d (%v)", got, overridden)
	}
	if got, _ := opts.EffectiveRelativePercent(""); got != 20 {
		t.Fatalf("expected global for empty category, got %d", got)
	}
}

func TestParseJobStatusFallback(t *testing.T) {
	job := config.ParseJob(config.MapLookup(map[string]string{
		config.EnvDirectory:   "/downloads/show",
		config.EnvTotalStatus: "SUCCESS",
		config.EnvName:        "Show.S01E01",
	}))
	if job.Status != "SUCCESS" {
		t.Fatalf("expected TOTALSTATUS fallback, got %q", job.Status)
	}
	if job.Directory != "/downloads/show" {
		t.Fatalf("unexpected directory: %q", job.Directory)
	}

	job = config.ParseJob(config.MapLookup(map[string]string{
		config.EnvStatus:      "FAILURE/PAR",
		config.EnvTotalStatus: "SUCCESS",
	}))
	if job.Status != "FAILURE/PAR" {
		t.Fatalf("STATUS should win over TOTALSTATUS, got %q", job.Status)
	}
}
