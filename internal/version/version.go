// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string `json:"version"`   // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"gitCommit"` // Short git commit hash (e.g., "abc1234")
	BuildTime string `json:"buildTime"` // Build timestamp in RFC3339 format
}

// New returns Info with empty fields replaced by placeholders.
func New(version, commit, buildTime string) Info {
	return Info{
		Version:   orDefault(version, "dev"),
		GitCommit: orDefault(commit, "unknown"),
		BuildTime: orDefault(buildTime, "unknown"),
	}
}

// String formats the info for the -version flag.
func (i Info) String() string {
	return fmt.Sprintf("folio %s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
