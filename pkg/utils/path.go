// Package utils provides utility functions for PropertyDesk.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// AppDirName is the directory under the XDG config home.
const AppDirName = "propertydesk"

// ConfigDir returns the configuration directory, honoring XDG_CONFIG_HOME
// and defaulting to ~/.config.
func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDirName), nil
}

// expandHome expands a leading ~ to the home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// ExpandPath expands ~ and normalizes the path.
func ExpandPath(path string) string {
	expanded := expandHome(path)
	return filepath.Clean(expanded)
}
