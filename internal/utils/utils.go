// Package utils provides small shared helpers for project naming
package utils

import (
	"strings"
	"time"

	"github.com/goombaio/namegenerator"
)

// GenerateProjectName creates a random, memorable project name
// like "wispy-dust"
func GenerateProjectName() string {
	seed := time.Now().UTC().UnixNano()
	name := namegenerator.NewNameGenerator(seed).Generate()

	// Some generated names carry underscores; normalize to hyphens.
	return strings.ReplaceAll(name, "_", "-")
}

// SanitizeDirectoryName cleans up a directory name so it can be used
// as a project name
func SanitizeDirectoryName(dirName string) string {
	name := strings.ToLower(strings.ReplaceAll(dirName, " ", "-"))

	replacer := strings.NewReplacer(
		"_", "-",
		".", "-",
		",", "-",
		";", "-",
		":", "-",
		"/", "-",
		"\\", "-",
	)
	name = replacer.Replace(name)

	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	return strings.Trim(name, "-")
}
