package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix is the prefix of every configuration environment variable.
	EnvPrefix = "CTXENG_"
)

// nestedSections lists second-level keys whose env names need a dot
// after the sub-section, e.g. CTXENG_LOGGING_OUTPUT_STREAM.
var nestedSections = map[string][]string{
	"logging":   {"output", "caller", "redaction", "fields"},
	"telemetry": {"metrics", "shutdown"},
}

// listKeys are split on commas when set from the environment.
var listKeys = map[string]bool{
	"analyzer.critical_keywords": true,
	"logging.redaction.fields":   true,
}

// ErrConfigNotFound is returned when an explicitly requested file is missing.
var ErrConfigNotFound = errors.New("config file not found")

// DefaultPath returns ~/.config/ctxeng/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ctxeng", "config.yaml"), nil
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (CTXENG_ANALYZER_TOKEN_LIMIT, CTXENG_LOGGING_LEVEL, ...)
//  2. YAML config file
//  3. Built-in defaults
//
// An empty path means DefaultPath, which may be absent. An explicit path
// must exist.
//
// # Security Considerations
//
// The file must live under ~/.config/ctxeng/ or /etc/ctxeng/, have 0600 or
// 0400 permissions and be at most 1MB.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := validateConfigPath(path); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}

	content, err := readConfigFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// envValue maps an environment variable to its config key, splitting
// list values on commas.
func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// envKey maps CTXENG_SECTION_FIELD_NAME to section.field_name.
//
//	CTXENG_ANALYZER_TOKEN_LIMIT  -> analyzer.token_limit
//	CTXENG_LOGGING_OUTPUT_STREAM -> logging.output.stream
//	CTXENG_TELEMETRY_SERVICE_NAME -> telemetry.service_name
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}

	section, field := parts[0], parts[1]
	for _, sub := range nestedSections[section] {
		if strings.HasPrefix(field, sub+"_") {
			return section + "." + sub + "." + strings.TrimPrefix(field, sub+"_")
		}
	}
	return section + "." + field
}

// readConfigFile opens path once and checks it through the open
// descriptor, so the file validated is the file read.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// allowedDirs returns the directories config files may be loaded from.
func allowedDirs() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return []string{
		filepath.Join(home, ".config", "ctxeng"),
		"/etc/ctxeng",
	}, nil
}

// validateConfigPath checks that path resolves inside an allowed directory.
// It runs even when the file does not exist yet.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolvedPath = absPath
	}

	dirs, err := allowedDirs()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if resolvedDir, err := filepath.EvalSymlinks(dir); err == nil {
			dir = resolvedDir
		}
		if strings.HasPrefix(resolvedPath, dir+string(filepath.Separator)) {
			return nil
		}
	}

	return fmt.Errorf("config file must be in ~/.config/ctxeng/ or /etc/ctxeng/")
}

// validateConfigFileProperties checks file permissions and size.
func validateConfigFileProperties(info os.FileInfo) error {
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return nil
}
