// Package config resolves the settings of an extraction run. Every key has a
// default matching the fixed run layout; environment variables (RMETL_*,
// typically populated from the .env file in main.go) and command-line flags
// override them.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "RMETL"

// Config keys.
const (
	KeyAPIURL        = "api_url"
	KeyStartPage     = "start_page"
	KeyOutDir        = "out_dir"
	KeyLocationsJSON = "locations_json"
	KeyEpisodesJSON  = "episodes_json"
	KeyHTTPTimeout   = "http_timeout"
	KeyLogFile       = "log_file"
	KeyDebug         = "debug"
)

const (
	DefaultAPIURL        = "https://rickandmortyapi.com/api/character/"
	DefaultStartPage     = "1"
	DefaultOutDir        = "raw-data"
	DefaultLocationsJSON = "raw-data/locations.json"
	DefaultEpisodesJSON  = "raw-data/episodes.json"
)

// Config holds all settings for one run.
type Config struct {
	APIURL        string
	StartPage     string
	OutDir        string
	LocationsJSON string
	EpisodesJSON  string
	HTTPTimeout   time.Duration
	LogFile       string
	Debug         bool
}

// New returns a viper instance with defaults set and the environment bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyStartPage, DefaultStartPage)
	v.SetDefault(KeyOutDir, DefaultOutDir)
	v.SetDefault(KeyLocationsJSON, DefaultLocationsJSON)
	v.SetDefault(KeyEpisodesJSON, DefaultEpisodesJSON)
	v.SetDefault(KeyHTTPTimeout, time.Duration(0))
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds command-line flags to config keys. Flag names use dashes
// (out-dir -> out_dir); flags not named after a key are ignored.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !isKey(key) {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil && err == nil {
			err = fmt.Errorf("bind flag --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

// Load reads the resolved settings out of v and validates them.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIURL:        strings.TrimSpace(v.GetString(KeyAPIURL)),
		StartPage:     strings.TrimSpace(v.GetString(KeyStartPage)),
		OutDir:        strings.TrimSpace(v.GetString(KeyOutDir)),
		LocationsJSON: v.GetString(KeyLocationsJSON),
		EpisodesJSON:  v.GetString(KeyEpisodesJSON),
		HTTPTimeout:   v.GetDuration(KeyHTTPTimeout),
		LogFile:       v.GetString(KeyLogFile),
		Debug:         v.GetBool(KeyDebug),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url must not be empty"))
	}
	if c.StartPage == "" {
		errs = append(errs, errors.New("start_page must not be empty"))
	}
	if c.OutDir == "" {
		errs = append(errs, errors.New("out_dir must not be empty"))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("http_timeout must not be negative, got %s", c.HTTPTimeout))
	}
	return errors.Join(errs...)
}

func isKey(key string) bool {
	switch key {
	case KeyAPIURL, KeyStartPage, KeyOutDir, KeyLocationsJSON, KeyEpisodesJSON,
		KeyHTTPTimeout, KeyLogFile, KeyDebug:
		return true
	}
	return false
}
