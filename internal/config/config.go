package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL   = "http://127.0.0.1:7333"
	DefaultLogLevel = "info"

	DefaultUploadMaxBytes        int64 = 100 * 1024 * 1024
	DefaultUploadMultipartMemory int64 = 8 * 1024 * 1024

	configFileName  = ".pasteboard.toml"
	dataDirName     = ".pasteboard"
	dbFileName      = "pasteboard.db"
	uploadsDirName  = "uploads"
	configDirEnvKey = "PASTEBOARD_CONFIG_DIR"
)

// UploadConfig defines runtime configuration for file uploads.
type UploadConfig struct {
	MaxUploadBytes     int64 `toml:"max_upload_bytes"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory"`
}

// ClassifierConfig points at an optional ruleset override file.
type ClassifierConfig struct {
	RulesPath string `toml:"rules_path"`
}

// Config defines runtime configuration for pasteboard.
type Config struct {
	APIURL     string           `toml:"api_url"`
	DBPath     string           `toml:"db_path"`
	UploadsDir string           `toml:"uploads_dir"`
	LogLevel   string           `toml:"log_level"`
	Uploads    UploadConfig     `toml:"uploads"`
	Classifier ClassifierConfig `toml:"classifier"`
}

// Default returns default configuration values. Paths left empty are
// resolved against the data directory during Load.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Uploads: UploadConfig{
			MaxUploadBytes:     DefaultUploadMaxBytes,
			MultipartMaxMemory: DefaultUploadMultipartMemory,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

// Path returns the location of the config file.
func Path() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

func dataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dataDirName), nil
}

// Load reads the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DBPath == "" || cfg.UploadsDir == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, dbFileName)
		}
		if cfg.UploadsDir == "" {
			cfg.UploadsDir = filepath.Join(dir, uploadsDirName)
		}
	}

	if apiURL := os.Getenv("PASTEBOARD_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv("PASTEBOARD_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if uploadsDir := os.Getenv("PASTEBOARD_UPLOADS_DIR"); uploadsDir != "" {
		cfg.UploadsDir = uploadsDir
	}
	if level := os.Getenv("PASTEBOARD_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if rules := os.Getenv("PASTEBOARD_CLASSIFIER_RULES"); rules != "" {
		cfg.Classifier.RulesPath = rules
	}

	cfg.normalizeUploadDefaults()

	return &cfg, nil
}

func (c *Config) normalizeUploadDefaults() {
	if c.Uploads.MaxUploadBytes <= 0 {
		c.Uploads.MaxUploadBytes = DefaultUploadMaxBytes
	}
	if c.Uploads.MultipartMaxMemory <= 0 {
		c.Uploads.MultipartMaxMemory = DefaultUploadMultipartMemory
	}
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"uploads_dir",
	"log_level",
	"uploads.max_upload_bytes",
	"uploads.multipart_max_memory",
	"classifier.rules_path",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "uploads_dir":
		return c.UploadsDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "uploads.max_upload_bytes":
		return strconv.FormatInt(c.Uploads.MaxUploadBytes, 10), nil
	case "uploads.multipart_max_memory":
		return strconv.FormatInt(c.Uploads.MultipartMaxMemory, 10), nil
	case "classifier.rules_path":
		return c.Classifier.RulesPath, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "uploads.max_upload_bytes", "uploads.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}
