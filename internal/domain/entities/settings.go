package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	logger "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel    = "info"
	DefaultPyPIURL     = "https://pypi.org/pypi"
	DefaultHTTPTimeout = 15 * time.Second
)

// Settings holds the optional file-based configuration of update-version.
// CLI flags take precedence over every field.
type Settings struct {
	NixPath          string `yaml:"nix_path"          toml:"nix_path"          hcl:"nix_path,optional"`
	LogLevel         string `yaml:"log_level"         toml:"log_level"         hcl:"log_level,optional"`
	SkipBuild        bool   `yaml:"skip_build"        toml:"skip_build"        hcl:"skip_build,optional"`
	StrictEvaluation bool   `yaml:"strict_evaluation" toml:"strict_evaluation" hcl:"strict_evaluation,optional"`
	AllowPrerelease  bool   `yaml:"allow_prerelease"  toml:"allow_prerelease"  hcl:"allow_prerelease,optional"`
	GitHubToken      string `yaml:"github_token"      toml:"github_token"      hcl:"github_token,optional"`
	GitHubAPIURL     string `yaml:"github_api_url"    toml:"github_api_url"    hcl:"github_api_url,optional"`
	GitLabToken      string `yaml:"gitlab_token"      toml:"gitlab_token"      hcl:"gitlab_token,optional"`
	GitLabAPIURL     string `yaml:"gitlab_api_url"    toml:"gitlab_api_url"    hcl:"gitlab_api_url,optional"`
	PyPIURL          string `yaml:"pypi_url"          toml:"pypi_url"          hcl:"pypi_url,optional"`
	HTTPTimeout      string `yaml:"http_timeout"      toml:"http_timeout"      hcl:"http_timeout,optional"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewDefaultSettings returns the settings used when no file is present.
func NewDefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

// NewSettings reads a YAML, TOML or HCL settings file (picked by extension),
// expands token references and validates the result.
func NewSettings(path string, log logger.FieldLogger) (*Settings, error) {
	var settings Settings

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".hcl":
		if err := hclsimple.DecodeFile(path, newHCLEvalContext(), &settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format %q", filepath.Ext(path))
	}

	settings.GitHubToken = resolveToken(settings.GitHubToken, log)
	settings.GitLabToken = resolveToken(settings.GitLabToken, log)
	settings.applyDefaults()

	if err := validate(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// LoadSettings loads path when set, otherwise the first file FindConfigFile
// returns, otherwise the defaults.
func LoadSettings(path string, log logger.FieldLogger) (*Settings, error) {
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			return NewDefaultSettings(), nil //nolint:nilerr // no config file is a valid setup
		}
		path = found
	}
	log.Debugf("Using config file: %s", path)
	return NewSettings(path, log)
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".update-version.yaml",
		".update-version.yml",
		".update-version.toml",
		".update-version.hcl",
		"update-version.yaml",
		"update-version.yml",
		"update-version.toml",
		"update-version.hcl",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// Timeout returns the parsed HTTP timeout for registry requests.
func (s *Settings) Timeout() time.Duration {
	d, err := time.ParseDuration(s.HTTPTimeout)
	if err != nil {
		return DefaultHTTPTimeout
	}
	return d
}

func (s *Settings) applyDefaults() {
	if s.PyPIURL == "" {
		s.PyPIURL = DefaultPyPIURL
	}
	if s.HTTPTimeout == "" {
		s.HTTPTimeout = DefaultHTTPTimeout.String()
	}
	if s.GitHubToken == "" {
		s.GitHubToken = githubTokenFromEnv()
	}
	if s.GitLabToken == "" {
		s.GitLabToken = os.Getenv("GITLAB_TOKEN")
	}
	s.PyPIURL = strings.TrimSuffix(s.PyPIURL, "/")
}

// newHCLEvalContext exposes the process environment as `env.NAME`.
func newHCLEvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string, log logger.FieldLogger) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		log.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			log.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		log.Debugf("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func githubTokenFromEnv() string {
	if t := os.Getenv("GITHUB_TOKEN"); t != "" {
		return t
	}
	return os.Getenv("GH_TOKEN")
}

// validate checks the values that cannot be corrected by defaults.
func validate(settings *Settings) error {
	if settings.LogLevel != "" {
		if _, err := logger.ParseLevel(settings.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	if _, err := time.ParseDuration(settings.HTTPTimeout); err != nil {
		return fmt.Errorf("http_timeout: %w", err)
	}
	return nil
}

// ExpandNixPath expands "~" at the start of every NIX_PATH entry, including
// the path part of "prefix=path" entries.
func ExpandNixPath(nixPath string) string {
	if nixPath == "" {
		return nixPath
	}
	entries := strings.Split(nixPath, ":")
	for i, entry := range entries {
		if prefix, path, ok := strings.Cut(entry, "="); ok {
			entries[i] = prefix + "=" + ExpandHome(path)
			continue
		}
		entries[i] = ExpandHome(entry)
	}
	return strings.Join(entries, ":")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
