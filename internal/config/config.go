// Package config loads hoard's runtime configuration from the YAML config
// file, the environment, and command line flags, creating the file with
// defaults on first run.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/seivan/hoard/internal/template"
)

const (
	defaultHomeDir    = ".config/hoard"
	defaultTroveFile  = "trove.yml"
	defaultConfigFile = "config.yml"

	envConfigPath = "HOARD_CONFIG"
	envTrovePath  = "HOARD_TROVE"
	envLogFile    = "HOARD_LOG_FILE"
	envTrace      = "HOARD_TRACE"
	envOpenAIKey  = "OPENAI_API_KEY"
)

// RGB is a display color stored as a [r, g, b] triple in the config file.
type RGB [3]uint8

// Hex renders the color for lipgloss.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// File is the persisted configuration shape.
type File struct {
	Version          string `yaml:"version"`
	DefaultNamespace string `yaml:"default_namespace"`
	TrovePath        string `yaml:"trove_path"`
	QueryPrefix      string `yaml:"query_prefix"`

	PrimaryColor   *RGB `yaml:"primary_color"`
	SecondaryColor *RGB `yaml:"secondary_color"`
	TertiaryColor  *RGB `yaml:"tertiary_color"`

	ParameterToken       string `yaml:"parameter_token"`
	ParameterEndingToken string `yaml:"parameter_ending_token"`

	ReadFromCurrentDirectory *bool  `yaml:"read_from_current_directory"`
	GptAPIKey                string `yaml:"gpt_api_key,omitempty"`
}

const version = "1.0.0"

func defaultColor(level int) *RGB {
	var c RGB
	switch level {
	case 0:
		c = RGB{242, 229, 188}
	case 1:
		c = RGB{181, 118, 20}
	default:
		c = RGB{50, 48, 47}
	}
	return &c
}

func boolPtr(v bool) *bool { return &v }

// Defaults returns a fully populated configuration file rooted at homeDir.
func Defaults(homeDir string) File {
	return File{
		Version:                  version,
		DefaultNamespace:         "default",
		TrovePath:                filepath.Join(homeDir, defaultTroveFile),
		QueryPrefix:              "  >",
		PrimaryColor:             defaultColor(0),
		SecondaryColor:           defaultColor(1),
		TertiaryColor:            defaultColor(2),
		ParameterToken:           "#",
		ParameterEndingToken:     "!",
		ReadFromCurrentDirectory: boolPtr(true),
	}
}

// Logging captures log-related settings.
type Logging struct {
	FilePath string
	Trace    bool
}

// Runtime is the loaded configuration handed to the application.
type Runtime struct {
	File       File
	ConfigPath string
	Logging    Logging
	Flags      map[string]string
	Args       []string
}

// GptConfigured reports whether a generation credential is present, from
// either the config file or the environment.
func (r Runtime) GptConfigured() bool {
	return strings.TrimSpace(r.File.GptAPIKey) != ""
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Runtime, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Runtime, error) {
	// A .env next to the binary may carry the OpenAI credential.
	_ = godotenv.Load()

	env := parseEnv(environ)

	fs := flag.NewFlagSet("hoard", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", envOrDefault(env, envConfigPath, ""), "path to the hoard config file")
	trovePath := fs.String("trove", envOrDefault(env, envTrovePath, ""), "path to the trove file (overrides config)")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")

	if err := fs.Parse(args); err != nil {
		return Runtime{}, err
	}

	path, err := resolveConfigPath(*configPath)
	if err != nil {
		return Runtime{}, err
	}
	file, err := loadOrCreate(path)
	if err != nil {
		return Runtime{}, err
	}
	if *trovePath != "" {
		file.TrovePath = *trovePath
	} else if file.ReadFromCurrentDirectory != nil && *file.ReadFromCurrentDirectory {
		if _, statErr := os.Stat(defaultTroveFile); statErr == nil {
			file.TrovePath = defaultTroveFile
		}
	}
	if file.GptAPIKey == "" {
		file.GptAPIKey = env[envOpenAIKey]
	}

	rt := Runtime{
		File:       file,
		ConfigPath: path,
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"config":   *configPath,
			"trove":    *trovePath,
			"trace":    strconv.FormatBool(*trace),
			"logFile":  *logFile,
			"gptReady": strconv.FormatBool(strings.TrimSpace(file.GptAPIKey) != ""),
		},
		Args: append([]string(nil), args...),
	}
	return rt, nil
}

// MustLoad returns configuration or exits.
func MustLoad() Runtime {
	rt, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return rt
}

// Validate ensures the configuration can start a session. The parameter
// delimiter collision is fatal here, before any template is resolved.
func Validate(rt Runtime) error {
	if err := template.ValidateDelimiters(rt.File.ParameterToken, rt.File.ParameterEndingToken); err != nil {
		return err
	}
	if strings.TrimSpace(rt.File.TrovePath) == "" {
		return fmt.Errorf("trove path must not be empty")
	}
	if strings.TrimSpace(rt.File.DefaultNamespace) == "" {
		return fmt.Errorf("default namespace must not be empty")
	}
	return nil
}

// resolveConfigPath picks the config file location: the explicit path (flag
// or HOARD_CONFIG; directories get the default file name appended), falling
// back to ~/.config/hoard/config.yml.
func resolveConfigPath(explicit string) (string, error) {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		if info, err := os.Stat(trimmed); err == nil && info.IsDir() {
			return filepath.Join(trimmed, defaultConfigFile), nil
		}
		if filepath.Ext(trimmed) == "" {
			return filepath.Join(trimmed, defaultConfigFile), nil
		}
		return trimmed, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no home directory for hoard config: %w", err)
	}
	return filepath.Join(home, defaultHomeDir, defaultConfigFile), nil
}

// loadOrCreate reads the config file, backfilling any missing fields with
// defaults and re-saving when it was incomplete. A missing file is created
// with full defaults.
func loadOrCreate(path string) (File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return File{}, fmt.Errorf("create config directory: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return File{}, fmt.Errorf("read config %s: %w", path, err)
		}
		file := Defaults(dir)
		if err := save(file, path); err != nil {
			return File{}, err
		}
		return file, nil
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if backfillDefaults(&file, dir) {
		if err := save(file, path); err != nil {
			return File{}, err
		}
	}
	return file, nil
}

// backfillDefaults fills fields missing from older config files and reports
// whether anything changed.
func backfillDefaults(file *File, homeDir string) bool {
	dirty := false
	if file.Version == "" {
		file.Version = version
		dirty = true
	}
	if file.DefaultNamespace == "" {
		file.DefaultNamespace = "default"
		dirty = true
	}
	if file.TrovePath == "" {
		file.TrovePath = filepath.Join(homeDir, defaultTroveFile)
		dirty = true
	}
	if file.QueryPrefix == "" {
		file.QueryPrefix = "  >"
		dirty = true
	}
	if file.PrimaryColor == nil {
		file.PrimaryColor = defaultColor(0)
		dirty = true
	}
	if file.SecondaryColor == nil {
		file.SecondaryColor = defaultColor(1)
		dirty = true
	}
	if file.TertiaryColor == nil {
		file.TertiaryColor = defaultColor(2)
		dirty = true
	}
	if file.ParameterToken == "" {
		file.ParameterToken = "#"
		dirty = true
	}
	if file.ParameterEndingToken == "" {
		file.ParameterEndingToken = "!"
		dirty = true
	}
	if file.ReadFromCurrentDirectory == nil {
		file.ReadFromCurrentDirectory = boolPtr(false)
		dirty = true
	}
	return dirty
}

func save(file File, path string) error {
	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
