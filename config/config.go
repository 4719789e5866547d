package config

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common"
)

type Config struct {
	Ledger `json:"Ledger"`
	Node   `json:"Node"`

	// global keys
	DataDir  string `json:"DataDir"`
	LogLevel string `json:"LogLevel"`
}

func Default() *Config {
	return &Config{
		Ledger:   defaultLedger(),
		Node:     defaultNode(),
		DataDir:  common.DefaultDataDir(),
		LogLevel: "info",
	}
}

// Load reads the json file at path over the defaults. Keys missing from the
// file keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	text, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	if err := json.Unmarshal(text, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "config file %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return errors.Errorf("Node.Concurrency must be positive, got %d", c.Concurrency)
	}
	if c.RequestTimeout < 0 {
		return errors.Errorf("Node.RequestTimeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}
