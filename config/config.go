// Package config loads the converter settings from defaults, an optional
// YAML file, INV2DP_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/code4sa/inventory2datapackage/logging"
	"github.com/code4sa/inventory2datapackage/validator"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = "inventory2datapackage.yaml"
	// EnvPrefix prefixes the environment variables overriding settings,
	// e.g. INV2DP_JSON_DIR.
	EnvPrefix = "INV2DP_"

	DefaultInventory = "Asset_Inventory-2019-05-21.csv"
	DefaultRawDir    = "raw-csv"
	DefaultJSONDir   = "data-packages-json"
	DefaultZipDir    = "data-packages-zip"
	DefaultLogLevel  = "info"
)

// Config holds the converter settings. Paths other than BaseDir are relative
// to BaseDir unless absolute.
type Config struct {
	BaseDir     string `koanf:"base_dir"`
	Inventory   string `koanf:"inventory"`
	RawDir      string `koanf:"raw_dir"`
	JSONDir     string `koanf:"json_dir"`
	ZipDir      string `koanf:"zip_dir"`
	ProfilesDir string `koanf:"profiles_dir"`
	LogLevel    string `koanf:"log_level"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Load reads the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"base_dir":     ".",
		"inventory":    DefaultInventory,
		"raw_dir":      DefaultRawDir,
		"json_dir":     DefaultJSONDir,
		"zip_dir":      DefaultZipDir,
		"profiles_dir": "",
		"log_level":    DefaultLogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// INV2DP_JSON_DIR -> json_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = cfgFile
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.RawDir = filepath.ToSlash(filepath.Clean(cfg.RawDir))
	return &cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	var errs []error
	for key, v := range map[string]string{
		"base_dir":  c.BaseDir,
		"inventory": c.Inventory,
		"raw_dir":   c.RawDir,
		"json_dir":  c.JSONDir,
		"zip_dir":   c.ZipDir,
	} {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}
	// Raw CSV paths end up in the descriptors, which only allow local relative paths.
	if c.RawDir != "" && !filepath.IsLocal(c.RawDir) {
		errs = append(errs, fmt.Errorf("raw_dir %q must be a relative path within base_dir", c.RawDir))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Path resolves p against BaseDir.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// InventoryPath returns the location of the inventory export.
func (c *Config) InventoryPath() string {
	return c.Path(c.Inventory)
}

// JSONPath returns the directory JSON descriptors are written to.
func (c *Config) JSONPath() string {
	return c.Path(c.JSONDir)
}

// ZipPath returns the directory zip bundles are written to.
func (c *Config) ZipPath() string {
	return c.Path(c.ZipDir)
}

// RegistryLoaders returns the profile loaders to validate packages with.
// Profiles found in ProfilesDir take precedence over the built-in ones. A
// ProfilesDir that can not be loaded is an error.
func (c *Config) RegistryLoaders() ([]validator.RegistryLoader, error) {
	if c.ProfilesDir == "" {
		return []validator.RegistryLoader{validator.InMemoryLoader()}, nil
	}
	dir := c.Path(c.ProfilesDir)
	local, err := validator.LocalRegistryLoader(dir)()
	if err != nil {
		return nil, fmt.Errorf("error loading profiles_dir %s: %w", dir, err)
	}
	return []validator.RegistryLoader{
		func() (validator.Registry, error) { return local, nil },
		validator.InMemoryLoader(),
	}, nil
}
