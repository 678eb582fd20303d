package testsupport

import (
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
)

// Options returns a cleaning configuration with both removal toggles on, the
// conventional size limits, and every optional feature off. Tests mutate the
// returned value as needed.
func Options() config.Options {
	return config.Options{
		RemoveFiles:       true,
		RemoveDirectories: true,
		VideoSizeLimitMB:  150,
		AudioSizeLimitMB:  2,
		RelativePercent:   -1,
		VideoExtensions:   config.ParseExtensions(".mkv,.mp4,.avi"),
		AudioExtensions:   config.ParseExtensions(".mp3,.flac"),
	}
}

// HostEnv returns a host environment with all required options present,
// pointed at dir. Tests add or override entries before wrapping it in
// config.MapLookup.
func HostEnv(dir string) map[string]string {
	return map[string]string{
		config.EnvDirectory:         dir,
		config.EnvStatus:            "SUCCESS/ALL",
		config.EnvName:              "Test.Download",
		config.OptRemoveDirectories: "yes",
		config.OptRemoveFiles:       "yes",
		config.OptDebug:             "no",
		config.OptVideoSizeLimitMB:  "150",
		config.OptVideoExtensions:   ".mkv,.mp4,.avi",
		config.OptAudioSizeLimitMB:  "2",
		config.OptAudioExtensions:   ".mp3,.flac",
	}
}
