package analysis

import "strings"

// Policy captures the product configuration behind scoring and hotspot
// derivation: which paths count as critical, which are noise, and how
// display names are shortened. It is data, not algorithm; override it
// through configuration when the defaults don't fit a codebase.
type Policy struct {
	// CriticalPatterns are matched case-insensitively as substrings of a
	// changed path. Any hit marks the file critical.
	CriticalPatterns []string

	// ExcludedPaths are substrings that disqualify a path from hotspot
	// statistics (lock files, build output, generated code).
	ExcludedPaths []string

	// SourcePrefixes are stripped once from the front of a hotspot path
	// for display.
	SourcePrefixes []string

	// HotspotLimit caps how many hotspots are reported per author.
	HotspotLimit int
}

// DefaultPolicy returns the stock policy applied when nothing is configured
func DefaultPolicy() Policy {
	return Policy{
		CriticalPatterns: []string{
			"config",
			"package.json",
			"dockerfile",
			".env",
			"migration",
			"schema",
		},
		ExcludedPaths: []string{
			"package-lock.json",
			"yarn.lock",
			"pnpm-lock.yaml",
			"go.sum",
			"node_modules/",
			"vendor/",
			".git/",
			".env",
			"dist/",
			"build/",
			".next/",
			"next.config",
			"pages/api/",
			"app/api/",
			".min.js",
			".min.css",
			".map",
		},
		SourcePrefixes: []string{"src/", "lib/"},
		HotspotLimit:   3,
	}
}

// IsCritical reports whether the path matches any critical pattern
func (p Policy) IsCritical(path string) bool {
	lower := strings.ToLower(path)
	for _, pattern := range p.CriticalPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether the path is disqualified from hotspot stats
func (p Policy) IsExcluded(path string) bool {
	for _, excluded := range p.ExcludedPaths {
		if strings.Contains(path, excluded) {
			return true
		}
	}
	return false
}

// DisplayPath strips one leading source prefix for presentation
func (p Policy) DisplayPath(path string) string {
	for _, prefix := range p.SourcePrefixes {
		if strings.HasPrefix(path, prefix) {
			return strings.TrimPrefix(path, prefix)
		}
	}
	return path
}
