package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the defaults file looked up in the working directory when
// no --config flag is given.
const DefaultFile = "clipper.yaml"

// Config holds optional defaults for the clipper commands. Command-line
// flags take precedence over values loaded from the file.
type Config struct {
	Credentials    string `yaml:"credentials"`    // Path to the OAuth client secrets JSON file
	CategoryID     string `yaml:"categoryId"`     // YouTube category ID assigned on rename
	Concurrency    int    `yaml:"concurrency"`    // Max source files extracted in parallel
	Encode         bool   `yaml:"encode"`         // Re-encode clips instead of stream copying
	SuppressCredit bool   `yaml:"suppressCredit"` // Omit the credit line from descriptions
}

// Load reads the defaults file at path. An empty path falls back to
// DefaultFile in the working directory; a missing fallback file is not an
// error, an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("config file %s: concurrency must not be negative", path)
	}

	return &cfg, nil
}
