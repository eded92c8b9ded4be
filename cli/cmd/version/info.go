package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Info is the build version of opc-diag split into its semantic version components.
type Info struct {
	Major      string `json:"major"`
	Minor      string `json:"minor"`
	Patch      string `json:"patch"`
	PreRelease string `json:"prerelease,omitempty"`
	Meta       string `json:"meta,omitempty"`
	Version    string `json:"version"`
	Commit     string `json:"commit,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
}

// GetInfo derives Info from the module version in bi.
// Versions that are not valid semantic versions are reported verbatim with a 0.0.0 core.
// For go pseudo versions (v0.0.0-20251010080918-cf762d5f2c83) the build date and
// commit are taken from the prerelease.
func GetInfo(bi *debug.BuildInfo) Info {
	info := Info{
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Major:     "0",
		Minor:     "0",
		Patch:     "0",
		Version:   bi.Main.Version,
	}

	v, err := semver.NewVersion(bi.Main.Version)
	if err != nil {
		return info
	}

	info.Version = v.String()
	info.Meta = strings.TrimPrefix(v.Metadata(), "+")
	if pre := v.Prerelease(); pre != "" {
		info.PreRelease = pre
		info.BuildDate, info.Commit, _ = strings.Cut(pre, "-")
	}
	info.Major = strconv.FormatUint(v.Major(), 10)
	info.Minor = strconv.FormatUint(v.Minor(), 10)
	info.Patch = strconv.FormatUint(v.Patch(), 10)
	return info
}
