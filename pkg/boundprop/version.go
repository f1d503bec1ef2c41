package boundprop

import (
	"runtime"

	"github.com/blang/semver/v4"
)

// Version is the current version of the boundprop module.
const Version = "0.3.0"

// VersionInfo provides detailed version information.
type VersionInfo struct {
	Version   semver.Version `json:"version" yaml:"version"`
	GoVersion string         `json:"go_version" yaml:"go_version"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   semver.MustParse(Version),
		GoVersion: runtime.Version(),
	}
}

// Compatible reports whether a consumer built against version want can use
// this module: same major version and want not newer than Version.
func Compatible(want string) (bool, error) {
	w, err := semver.ParseTolerant(want)
	if err != nil {
		return false, err
	}
	cur := semver.MustParse(Version)
	return w.Major == cur.Major && w.LTE(cur), nil
}
