package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// NZBGet variable names consumed by the extension. NZBPP_* describe the
// finished download, NZBPO_* carry the operator-configured options.
const (
	EnvDirectory   = "NZBPP_DIRECTORY"
	EnvStatus      = "NZBPP_STATUS"
	EnvTotalStatus = "NZBPP_TOTALSTATUS"
	EnvName        = "NZBPP_NZBNAME"
	EnvCategory    = "NZBPP_CATEGORY"

	OptRemoveDirectories     = "NZBPO_REMOVEDIRECTORIES"
	OptRemoveFiles           = "NZBPO_REMOVEFILES"
	OptDebug                 = "NZBPO_DEBUG"
	OptVideoSizeLimitMB      = "NZBPO_VIDEOSIZETHRESHOLDMB"
	OptVideoExtensions       = "NZBPO_VIDEOEXTS"
	OptAudioSizeLimitMB      = "NZBPO_AUDIOSIZETHRESHOLDMB"
	OptAudioExtensions       = "NZBPO_AUDIOEXTS"
	OptTestMode              = "NZBPO_TESTMODE"
	OptBlockImportDuringTest = "NZBPO_BLOCKIMPORTDURINGTEST"
	OptRelativePercent       = "NZBPO_RELATIVEPERCENT"
	OptProtectedPaths        = "NZBPO_PROTECTEDPATHS"
	OptDenyPatterns          = "NZBPO_DENYPATTERNS"
	OptImageSamples          = "NZBPO_IMAGESAMPLES"
	OptJunkExtras            = "NZBPO_JUNKEXTRAS"
	OptCategoryThresholds    = "NZBPO_CATEGORYTHRESHOLDS"
	OptQuarantineMode        = "NZBPO_QUARANTINEMODE"
	OptQuarantineMaxAgeDays  = "NZBPO_QUARANTINEMAXAGEDAYS"
)

// requiredOptions must all be present in the environment before a run starts.
var requiredOptions = []string{
	OptRemoveDirectories,
	OptRemoveFiles,
	OptDebug,
	OptVideoSizeLimitMB,
	OptVideoExtensions,
	OptAudioSizeLimitMB,
	OptAudioExtensions,
}

// ErrMissingOption indicates a required extension option is absent from the
// host environment.
var ErrMissingOption = errors.New("required option missing")

// Lookup resolves a variable from the host environment. It mirrors
// os.LookupEnv so tests can substitute a map.
type Lookup func(key string) (string, bool)

// EnvLookup reads from the process environment.
func EnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapLookup builds a Lookup backed by a map, for tests and manual invocation.
func MapLookup(values map[string]string) Lookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

// Options is the immutable snapshot of cleaning parameters for one run.
type Options struct {
	RemoveFiles           bool
	RemoveDirectories     bool
	Debug                 bool
	TestMode              bool
	BlockImportDuringTest bool
	QuarantineMode        bool
	ImageSamples          bool
	JunkExtras            bool

	VideoSizeLimitMB     int
	AudioSizeLimitMB     int
	RelativePercent      int // negative disables the relative-size rule
	QuarantineMaxAgeDays int

	VideoExtensions map[string]struct{}
	AudioExtensions map[string]struct{}

	ProtectedPaths []string
	DenyPatterns   []string

	CategoryThresholds map[string]int
}

// Job describes the finished download the hook was invoked for.
type Job struct {
	Directory string
	Status    string
	Name      string
	Category  string
}

// ParseOptions builds the Options snapshot from the host environment. All
// required options must be present; value-parse failures on present options
// fall back to defaults rather than aborting.
func ParseOptions(lookup Lookup) (Options, error) {
	for _, name := range requiredOptions {
		if _, ok := lookup(name); !ok {
			return Options{}, fmt.Errorf("%w: %s", ErrMissingOption, strings.TrimPrefix(name, "NZBPO_"))
		}
	}

	opts := Options{
		RemoveDirectories:     lookupBool(lookup, OptRemoveDirectories, false),
		RemoveFiles:           lookupBool(lookup, OptRemoveFiles, false),
		Debug:                 lookupBool(lookup, OptDebug, false),
		TestMode:              lookupBool(lookup, OptTestMode, false),
		BlockImportDuringTest: lookupBool(lookup, OptBlockImportDuringTest, false),
		QuarantineMode:        lookupBool(lookup, OptQuarantineMode, false),
		ImageSamples:          lookupBool(lookup, OptImageSamples, false),
		JunkExtras:            lookupBool(lookup, OptJunkExtras, false),
		VideoSizeLimitMB:      lookupInt(lookup, OptVideoSizeLimitMB, defaultVideoSizeLimitMB),
		AudioSizeLimitMB:      lookupInt(lookup, OptAudioSizeLimitMB, defaultAudioSizeLimitMB),
		RelativePercent:       lookupInt(lookup, OptRelativePercent, -1),
		QuarantineMaxAgeDays:  lookupInt(lookup, OptQuarantineMaxAgeDays, 0),
		VideoExtensions:       ParseExtensions(lookupString(lookup, OptVideoExtensions, defaultVideoExtensions)),
		AudioExtensions:       ParseExtensions(lookupString(lookup, OptAudioExtensions, defaultAudioExtensions)),
		ProtectedPaths:        parsePatternList(lookupString(lookup, OptProtectedPaths, "")),
		DenyPatterns:          parsePatternList(lookupString(lookup, OptDenyPatterns, "")),
		CategoryThresholds:    parseCategoryThresholds(lookupString(lookup, OptCategoryThresholds, "")),
	}
	return opts, nil
}

// ParseJob reads the download outcome variables. NZBPP_TOTALSTATUS backfills
// an empty NZBPP_STATUS on older host versions.
func ParseJob(lookup Lookup) Job {
	status := lookupString(lookup, EnvStatus, "")
	if status == "" {
		status = lookupString(lookup, EnvTotalStatus, "")
	}
	return Job{
		Directory: lookupString(lookup, EnvDirectory, ""),
		Status:    status,
		Name:      lookupString(lookup, EnvName, ""),
		Category:  lookupString(lookup, EnvCategory, ""),
	}
}

// DefaultOptions returns the option snapshot used by standalone dry runs when
// no host environment is present. Both removal toggles are on so every
// candidate shows up in the report.
func DefaultOptions() Options {
	return Options{
		RemoveDirectories: true,
		RemoveFiles:       true,
		RelativePercent:   -1,
		VideoSizeLimitMB:  defaultVideoSizeLimitMB,
		AudioSizeLimitMB:  defaultAudioSizeLimitMB,
		VideoExtensions:   ParseExtensions(defaultVideoExtensions),
		AudioExtensions:   ParseExtensions(defaultAudioExtensions),
	}
}

// EffectiveRelativePercent resolves the relative-size threshold for a run,
// applying the category override when one is configured. The second return
// reports whether an override replaced the global value.
func (o Options) EffectiveRelativePercent(category string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" || len(o.CategoryThresholds) == 0 {
		return o.RelativePercent, false
	}
	if value, ok := o.CategoryThresholds[key]; ok {
		return value, true
	}
	return o.RelativePercent, false
}

var extensionSplit = regexp.MustCompile(`[,\s;]+`)

// ParseExtensions normalizes a delimited extension list: whitespace stripped,
// case folded, leading dot enforced. Matching never re-normalizes.
func ParseExtensions(value string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, token := range extensionSplit.Split(value, -1) {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if !strings.HasPrefix(token, ".") {
			token = "." + token
		}
		out[token] = struct{}{}
	}
	return out
}

var patternSplit = regexp.MustCompile(`[,\n;]+`)

func parsePatternList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, token := range patternSplit.Split(value, -1) {
		if token = strings.TrimSpace(token); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// parseCategoryThresholds parses "tv=5, movies=10" into a lower-cased map.
// Malformed entries are dropped.
func parseCategoryThresholds(value string) map[string]int {
	out := make(map[string]int)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, raw, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		percent, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if key = strings.ToLower(strings.TrimSpace(key)); key != "" {
			out[key] = percent
		}
	}
	return out
}

var truthyValues = map[string]struct{}{
	"1": {}, "true": {}, "yes": {}, "on": {}, "y": {}, "t": {}, "enabled": {}, "enable": {},
}

// Truthy reports whether a host option value counts as enabled. NZBGet ships
// yes/no selects but operators also hand-edit these.
func Truthy(value string) bool {
	_, ok := truthyValues[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

func lookupBool(lookup Lookup, key string, fallback bool) bool {
	value, ok := lookup(key)
	if !ok {
		return fallback
	}
	return Truthy(value)
}

func lookupInt(lookup Lookup, key string, fallback int) int {
	value, ok := lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func lookupString(lookup Lookup, key, fallback string) string {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
