package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// appDirName is the directory created under the OS config root.
const appDirName = "xTerm"

// ConfigDir returns the application configuration directory, creating it if
// needed. Overridden by base when non-empty (used for tests and custom setups).
func ConfigDir(base string) (string, error) {
	dir := base
	if dir == "" {
		root, err := os.UserConfigDir()
		if err != nil {
			root = "."
		}
		dir = filepath.Join(root, appDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", dir, err)
	}
	return dir, nil
}

// HostsDB returns the path of the hosts database inside dir.
func HostsDB(dir string) string { return filepath.Join(dir, "hosts.db") }

// HostsJSON returns the path of the legacy hosts JSON file inside dir.
func HostsJSON(dir string) string { return filepath.Join(dir, "hosts.json") }

// SettingsJSON returns the path of the settings file inside dir.
func SettingsJSON(dir string) string { return filepath.Join(dir, "settings.json") }

// SSHConfig returns the path of the generated ssh_config inside dir.
func SSHConfig(dir string) string { return filepath.Join(dir, "ssh_config") }
