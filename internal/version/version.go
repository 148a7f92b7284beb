// Package version reports the build of the asd2csv tools
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build-time variables that can be set via ldflags. When left empty the
// commit and date are taken from the VCS stamp of the Go build.
var (
	Version   = "0.1.0"
	GitCommit = ""
	BuildDate = ""
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
	Modified  bool
	GoVersion string
	Platform  string
}

// GetBuildInfo merges the ldflags values with the embedded VCS stamp
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns the first seven characters of the commit, or "" if unknown
func (b BuildInfo) ShortCommit() string {
	if len(b.GitCommit) > 7 {
		return b.GitCommit[:7]
	}
	return b.GitCommit
}

// GetFullVersion returns the version with the short commit appended
func GetFullVersion() string {
	info := GetBuildInfo()
	v := info.Version
	if c := info.ShortCommit(); c != "" {
		v += "-" + c
	}
	if info.Modified {
		v += "-dirty"
	}
	return v
}

// GetVersionInfo returns the multi-line text printed by --version
func GetVersionInfo(appName string) string {
	info := GetBuildInfo()
	result := fmt.Sprintf("%s version %s", appName, info.Version)
	if c := info.ShortCommit(); c != "" {
		result += fmt.Sprintf(" (commit %s)", c)
	}
	if info.BuildDate != "" {
		result += fmt.Sprintf("\nBuilt: %s", info.BuildDate)
	}
	result += fmt.Sprintf("\nGo: %s", info.GoVersion)
	result += fmt.Sprintf("\nPlatform: %s", info.Platform)
	return result
}

// Apply enables cobra's --version flag on cmd with the build details
func Apply(cmd *cobra.Command, appName string) {
	cmd.Version = GetFullVersion()
	cmd.SetVersionTemplate(GetVersionInfo(appName) + "\n")
}
