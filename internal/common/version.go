package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Version information (set via -ldflags during build)
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the JSON shape served by /api/version
type VersionInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"git_commit"`
}

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetVersionInfo returns all version fields
func GetVersionInfo() VersionInfo {
	return VersionInfo{Version: Version, Build: Build, GitCommit: GitCommit}
}

// GetFullVersion returns version with build info
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// LoadVersionFromFile reads version from a .version file next to the executable, if present
func LoadVersionFromFile() string {
	exePath, err := os.Executable()
	if err != nil {
		return Version
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(exePath), ".version"))
	if err != nil {
		return Version
	}

	if version := strings.TrimSpace(string(data)); version != "" {
		Version = version
	}

	return Version
}
