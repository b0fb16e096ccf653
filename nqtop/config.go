// Configuration for the queue monitor.

package nqtop

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-yaml/yaml"
)

// The whole configuration lives in one object loaded from an optional
// YAML file; for an interactive tool the built-in defaults should be good
// enough, so no file is required. A few parameters can be overridden by
// command line args, the arg winning only if it was actually used.
//
// The decreasing order of precedence for parameter values:
//   - command line arg (if applicable)
//   - config file
//   - built-in default

type NqtopConfig struct {
	DisplayConfig *DisplayConfig `yaml:"display_config"`
	QdiscConfig   *QdiscConfig   `yaml:"qdisc_config"`
	LoggerConfig  *LoggerConfig  `yaml:"log_config"`
}

type QdiscConfig struct {
	// Whether to show the interface's qdisc layer in the footer row:
	Enabled bool `yaml:"enabled"`
}

var nqtopConfigFile = flag.String(
	"config",
	"",
	"Config file to load, optional (built-in defaults apply otherwise)",
)

func DefaultNqtopConfig() *NqtopConfig {
	return &NqtopConfig{
		DisplayConfig: DefaultDisplayConfig(),
		QdiscConfig:   &QdiscConfig{Enabled: true},
		LoggerConfig:  &LoggerConfig{},
	}
}

func LoadNqtopConfig(cfgFile string) (*NqtopConfig, error) {
	f, err := os.Open(cfgFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	cfg := DefaultNqtopConfig()
	err = decoder.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}
	return cfg, nil
}

func LoadNqtopConfigFromArgs() (*NqtopConfig, error) {
	if *nqtopConfigFile != "" {
		return LoadNqtopConfig(*nqtopConfigFile)
	}
	return DefaultNqtopConfig(), nil
}
