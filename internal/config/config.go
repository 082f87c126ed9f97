package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/alnah/go-aliyun/pkg/signing"
)

// Config keys.
const (
	KeyAccessKeyID     = "access-key-id"
	KeyAccessKeySecret = "access-key-secret"
	KeyRegion          = "region"
	KeyTimeout         = "timeout"
	KeyLogLevel        = "log-level"
	KeySignatureMethod = "signature-method"
)

// Keys lists the supported keys in display order.
var Keys = []string{
	KeyAccessKeyID,
	KeyAccessKeySecret,
	KeyRegion,
	KeyTimeout,
	KeyLogLevel,
	KeySignatureMethod,
}

// Environment variable fallbacks.
const (
	EnvAccessKeyID     = "ALIBABA_CLOUD_ACCESS_KEY_ID"
	EnvAccessKeySecret = "ALIBABA_CLOUD_ACCESS_KEY_SECRET"
	EnvRegion          = "ALIBABA_CLOUD_REGION_ID"
	EnvTimeout         = "ALIYUN_TIMEOUT"
	EnvLogLevel        = "ALIYUN_LOG_LEVEL"
	EnvSignatureMethod = "ALIYUN_SIGNATURE_METHOD"
	EnvProfile         = "ALIYUN_PROFILE"
)

// EnvFor returns the environment variable consulted when key is unset in the file.
func EnvFor(key string) string {
	switch key {
	case KeyAccessKeyID:
		return EnvAccessKeyID
	case KeyAccessKeySecret:
		return EnvAccessKeySecret
	case KeyRegion:
		return EnvRegion
	case KeyTimeout:
		return EnvTimeout
	case KeyLogLevel:
		return EnvLogLevel
	case KeySignatureMethod:
		return EnvSignatureMethod
	default:
		return ""
	}
}

// Defaults applied after file and environment.
const (
	DefaultProfile  = "default"
	DefaultRegion   = "cn-hangzhou"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
)

var (
	// ErrUnknownKey indicates a key outside Keys.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidValue indicates a value that does not parse for its key.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrUnknownProfile indicates a named profile absent from the file.
	ErrUnknownProfile = errors.New("unknown profile")
)

// Profile is one named set of settings as stored on disk.
type Profile struct {
	AccessKeyID     string `yaml:"access-key-id,omitempty"`
	AccessKeySecret string `yaml:"access-key-secret,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Timeout         string `yaml:"timeout,omitempty"`
	LogLevel        string `yaml:"log-level,omitempty"`
	SignatureMethod string `yaml:"signature-method,omitempty"`
}

func (p *Profile) field(key string) (*string, error) {
	switch key {
	case KeyAccessKeyID:
		return &p.AccessKeyID, nil
	case KeyAccessKeySecret:
		return &p.AccessKeySecret, nil
	case KeyRegion:
		return &p.Region, nil
	case KeyTimeout:
		return &p.Timeout, nil
	case KeyLogLevel:
		return &p.LogLevel, nil
	case KeySignatureMethod:
		return &p.SignatureMethod, nil
	default:
		return nil, fmt.Errorf("%w %q (valid keys: %v)", ErrUnknownKey, key, Keys)
	}
}

// File is the on-disk layout of config.yaml.
type File struct {
	Current  string             `yaml:"current,omitempty"`
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// Config is the resolved configuration for one profile.
type Config struct {
	Profile         string
	AccessKeyID     string
	AccessKeySecret string
	Region          string
	Timeout         time.Duration
	LogLevel        string
	SignatureMethod signing.Algorithm
}

// HasCredentials reports whether both halves of the access key are set.
func (c Config) HasCredentials() bool {
	return c.AccessKeyID != "" && c.AccessKeySecret != ""
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-aliyun.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "go-aliyun"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "go-aliyun"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// Load resolves the settings of profile.
// An empty profile selects ALIYUN_PROFILE, then the file's current profile,
// then "default". Precedence per key: config file, environment, default.
// A missing file is not an error.
func Load(profile string) (Config, error) {
	f, err := readFile()
	if err != nil {
		return Config{}, err
	}

	name := resolveName(f, profile)
	p, ok := f.Profiles[name]
	if !ok && profile != "" && name != DefaultProfile {
		return Config{}, fmt.Errorf("%w %q", ErrUnknownProfile, name)
	}

	value := func(key string) string {
		v, _ := p.field(key)
		if *v != "" {
			return *v
		}
		return os.Getenv(EnvFor(key))
	}

	cfg := Config{
		Profile:         name,
		AccessKeyID:     value(KeyAccessKeyID),
		AccessKeySecret: value(KeyAccessKeySecret),
		Region:          value(KeyRegion),
		Timeout:         DefaultTimeout,
		LogLevel:        value(KeyLogLevel),
		SignatureMethod: signing.DefaultAlgorithm,
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	} else if err := Validate(KeyLogLevel, cfg.LogLevel); err != nil {
		return Config{}, err
	}
	if raw := value(KeyTimeout); raw != "" {
		if cfg.Timeout, err = parseTimeout(raw); err != nil {
			return Config{}, err
		}
	}
	if raw := value(KeySignatureMethod); raw != "" {
		alg, err := signing.ParseAlgorithm(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidValue, KeySignatureMethod, err)
		}
		cfg.SignatureMethod = alg
	}

	return cfg, nil
}

// Validate checks that value is acceptable for key.
func Validate(key, value string) error {
	var p Profile
	if _, err := p.field(key); err != nil {
		return err
	}

	switch key {
	case KeyTimeout:
		_, err := parseTimeout(value)
		return err
	case KeyLogLevel:
		if _, err := logrus.ParseLevel(value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, key, err)
		}
	case KeySignatureMethod:
		if _, err := signing.ParseAlgorithm(value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, key, err)
		}
	}
	return nil
}

func parseTimeout(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %w", ErrInvalidValue, KeyTimeout, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, KeyTimeout, d)
	}
	return d, nil
}

func resolveName(f File, profile string) string {
	switch {
	case profile != "":
		return profile
	case os.Getenv(EnvProfile) != "":
		return os.Getenv(EnvProfile)
	case f.Current != "":
		return f.Current
	default:
		return DefaultProfile
	}
}

// readFile parses config.yaml. A missing file yields an empty File.
func readFile() (File, error) {
	var f File

	p, err := path()
	if err != nil {
		return f, err
	}

	data, err := os.ReadFile(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse config %s: %w", p, err)
	}
	return f, nil
}

// writeFile writes f to config.yaml, creating the directory if needed.
// The file holds credentials and is written owner-only.
func writeFile(f File) error {
	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(p, data, 0600); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Save validates and writes a single key of profile.
// The first profile saved becomes the current one.
func Save(profile, key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}

	f, err := readFile()
	if err != nil {
		return err
	}

	name := resolveName(f, profile)
	if f.Profiles == nil {
		f.Profiles = make(map[string]Profile)
	}
	p := f.Profiles[name]
	field, _ := p.field(key)
	*field = value
	f.Profiles[name] = p

	if f.Current == "" {
		f.Current = name
	}
	return writeFile(f)
}

// Get reads a single key of profile from the file.
// Returns empty string if the key is not set.
func Get(profile, key string) (string, error) {
	var p Profile
	if _, err := p.field(key); err != nil {
		return "", err
	}

	f, err := readFile()
	if err != nil {
		return "", err
	}

	p = f.Profiles[resolveName(f, profile)]
	v, _ := p.field(key)
	return *v, nil
}

// List returns the keys set in the file for profile.
func List(profile string) (map[string]string, error) {
	f, err := readFile()
	if err != nil {
		return nil, err
	}

	p := f.Profiles[resolveName(f, profile)]
	data := make(map[string]string)
	for _, key := range Keys {
		if v, _ := p.field(key); *v != "" {
			data[key] = *v
		}
	}
	return data, nil
}

// Use makes profile the current one. The profile must already exist.
func Use(profile string) error {
	f, err := readFile()
	if err != nil {
		return err
	}
	if _, ok := f.Profiles[profile]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownProfile, profile)
	}
	f.Current = profile
	return writeFile(f)
}

// Profiles returns the stored profile names, sorted, and the current one.
func Profiles() (names []string, current string, err error) {
	f, err := readFile()
	if err != nil {
		return nil, "", err
	}
	for name := range f.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, resolveName(f, ""), nil
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// Dir returns the configuration directory path (exported for testing).
func Dir() (string, error) {
	return dir()
}
