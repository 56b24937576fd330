// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import "strings"

// userConfigDirName marks the per-user config directory among searched paths.
const userConfigDirName = "go-textile"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the per-user location that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, userConfigDirName) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the styles that can be used instead.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + "; or add <name>.css under --asset-path/styles")
}

// ForSanitizeWithoutRestricted explains why sanitizing had no effect.
func ForSanitizeWithoutRestricted() string {
	return format("--sanitize only filters output in --restricted mode")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
