// Package config resolves festplan settings and data paths.
//
// Settings come, in increasing precedence, from built-in defaults, a
// .festplan.yaml file, FESTPLAN_* environment variables (a .env file in the
// working directory is loaded first) and command-line flags bound onto the
// same viper instance. The data root defaults to ~/.festplan.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Setting keys shared by the config file, the environment and CLI flags.
const (
	KeyRoot    = "root"
	KeyCatalog = "catalog"
	KeyPlan    = "plan"
	KeyBackend = "backend"
	KeyAddr    = "addr"
	KeyVerbose = "verbose"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
)

// Backends lists the supported storage backends.
var Backends = []string{BackendFile, BackendDiskv, BackendSQLite}

// Settings is the resolved configuration.
type Settings struct {
	Root    string
	Catalog string
	Plan    string
	Backend string
	Addr    string
	Verbose bool

	// ConfigFile is the config file that was read, if any
	ConfigFile string
}

// Paths returns the data paths under s.Root.
func (s *Settings) Paths() *Paths {
	return NewPaths(s.Root)
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRoot, "~/.festplan")
	v.SetDefault(KeyCatalog, "")
	v.SetDefault(KeyPlan, "default")
	v.SetDefault(KeyBackend, BackendFile)
	v.SetDefault(KeyAddr, "localhost:8888")
	v.SetDefault(KeyVerbose, false)
}

// Load resolves settings from v. configFile, when set, is read instead of
// searching for .festplan.yaml.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix("FESTPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".festplan")
		v.SetConfigType("yaml")
		if override := os.Getenv("FESTPLAN_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		if root, err := homedir.Expand(v.GetString(KeyRoot)); err == nil {
			v.AddConfigPath(root)
		}
		v.AddConfigPath("./")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	root, err := homedir.Expand(v.GetString(KeyRoot))
	if err != nil {
		return nil, fmt.Errorf("failed to expand root: %w", err)
	}

	s := &Settings{
		Root:       root,
		Catalog:    v.GetString(KeyCatalog),
		Plan:       v.GetString(KeyPlan),
		Backend:    strings.ToLower(v.GetString(KeyBackend)),
		Addr:       v.GetString(KeyAddr),
		Verbose:    v.GetBool(KeyVerbose),
		ConfigFile: v.ConfigFileUsed(),
	}
	if s.Catalog == "" {
		s.Catalog = s.Paths().Catalog
	} else if s.Catalog, err = homedir.Expand(s.Catalog); err != nil {
		return nil, fmt.Errorf("failed to expand catalog path: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.Plan == "" {
		return fmt.Errorf("plan name must not be empty")
	}
	for _, b := range Backends {
		if s.Backend == b {
			return nil
		}
	}
	return fmt.Errorf("unknown backend %q (expected one of %s)", s.Backend, strings.Join(Backends, ", "))
}
