package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmluang/xTerm/internal/shared/paths"
)

// DefaultFolder is the WebDAV folder used when none is configured.
const DefaultFolder = "xTerm"

// Settings holds the user's sync configuration. Field names are the
// frontend's wire contract.
type Settings struct {
	WebdavURL      *string `json:"webdav_url" yaml:"webdav_url" toml:"webdav_url"`
	WebdavFolder   *string `json:"webdav_folder" yaml:"webdav_folder" toml:"webdav_folder"`
	WebdavUsername *string `json:"webdav_username" yaml:"webdav_username" toml:"webdav_username"`
	WebdavPassword *string `json:"webdav_password" yaml:"webdav_password" toml:"webdav_password"`
}

// Folder returns the configured WebDAV folder or the default.
func (s Settings) Folder() string {
	if s.WebdavFolder != nil && *s.WebdavFolder != "" {
		return *s.WebdavFolder
	}
	return DefaultFolder
}

// Store persists settings as pretty-printed JSON in the config
// directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads settings, returning defaults when no file exists yet.
func (s *Store) Load() (Settings, error) {
	content, err := os.ReadFile(paths.SettingsJSON(s.dir))
	if os.IsNotExist(err) {
		folder := DefaultFolder
		return Settings{WebdavFolder: &folder}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(content, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if settings.WebdavFolder == nil {
		folder := DefaultFolder
		settings.WebdavFolder = &folder
	}
	return settings, nil
}

// Save writes settings to disk.
func (s *Store) Save(settings Settings) error {
	content, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(paths.SettingsJSON(s.dir), content, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Export serializes settings in the requested format: json, yaml or
// toml.
func Export(settings Settings, format string) (string, error) {
	switch format {
	case "json", "":
		out, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return "", fmt.Errorf("export settings as json: %w", err)
		}
		return string(out), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(settings)
		if err != nil {
			return "", fmt.Errorf("export settings as yaml: %w", err)
		}
		return string(out), nil
	case "toml":
		out, err := toml.Marshal(settings)
		if err != nil {
			return "", fmt.Errorf("export settings as toml: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// Import parses settings from the given format.
func Import(content, format string) (Settings, error) {
	var settings Settings
	switch format {
	case "json", "":
		if err := json.Unmarshal([]byte(content), &settings); err != nil {
			return Settings{}, fmt.Errorf("import settings from json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal([]byte(content), &settings); err != nil {
			return Settings{}, fmt.Errorf("import settings from yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal([]byte(content), &settings); err != nil {
			return Settings{}, fmt.Errorf("import settings from toml: %w", err)
		}
	default:
		return Settings{}, fmt.Errorf("unsupported import format: %s", format)
	}

	if settings.WebdavFolder == nil {
		folder := DefaultFolder
		settings.WebdavFolder = &folder
	}
	return settings, nil
}
