// Package pipeline runs ordered sequences of preprocessing operations
// described by a declarative YAML configuration.
package pipeline

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/strataprep/strata/pkg/errors"
	"github.com/strataprep/strata/pkg/preprocess"
)

// Config is the declarative description of a pipeline run
type Config struct {
	// Name labels the run in logs and reports.
	Name string `yaml:"name"`

	Input  FileConfig `yaml:"input"`
	Output FileConfig `yaml:"output"`

	// Operations run in order; each one consumes the previous result.
	Operations []preprocess.Request `yaml:"operations"`
}

// FileConfig locates a dataset file. Format is "csv" or "json"; when empty
// it is derived from the path extension.
type FileConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"`
}

// LoadConfig reads a pipeline configuration from a YAML file. ${VAR}
// references resolve against the environment before parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is operator-controlled
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read pipeline config")
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse pipeline config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural parts of the configuration. Operation
// parameters are validated by the engine when each step runs.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.New(errors.ErrorTypeConfig, "input path is required")
	}
	if len(c.Operations) == 0 {
		return errors.New(errors.ErrorTypeConfig, "at least one operation is required")
	}
	for i, op := range c.Operations {
		if op.Kind == "" {
			return errors.Newf(errors.ErrorTypeConfig, "operation %d has no kind", i)
		}
	}
	return nil
}

// substituteEnvVars replaces ${VAR} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		content = content[:start] + os.Getenv(content[start+2:end]) + content[end+1:]
	}
	return content
}
