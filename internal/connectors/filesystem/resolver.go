package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ to the user's home directory and
// returns an absolute path.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// SourceIDFor returns the canonical source identifier for an absolute
// file path.
func SourceIDFor(absPath string) string {
	return "file://" + absPath
}

// PathFromSourceID converts a file:// source identifier back to a local
// path. Bare paths pass through unchanged.
func PathFromSourceID(sourceID string) string {
	return strings.TrimPrefix(sourceID, "file://")
}
