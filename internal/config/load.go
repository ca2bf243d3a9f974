package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// ErrConfigValidation wraps config validation failures (as opposed to TOML
// syntax or filesystem errors).
var ErrConfigValidation = errors.New(messages.ConfigValidationFailed)

// LoadConfig reads the config file at path and validates it.
// A missing file is not an error: the defaults are returned and found is false.
func LoadConfig(path string) (cfg Config, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), false, nil
		}
		return Config{}, false, fmt.Errorf(messages.ConfigReadFileFmt, path, err)
	}
	cfg, err = ParseConfig(data, path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// ParseConfig parses TOML data on top of the defaults and validates the result.
// Keys missing from data keep their default values; source is used in error messages.
func ParseConfig(data []byte, source string) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return Config{}, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return Config{}, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes data rejecting keys the Config struct does not know.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
