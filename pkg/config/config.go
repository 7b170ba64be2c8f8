// Package config loads the optional .distlint.yaml project file. The file
// is an override source like command-line flags, not a detection candidate:
// detection never reads it, and the CLI merges it in between flags and
// detection.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"distlint/pkg/check"
	"distlint/pkg/logging"
)

// Filename is the project file looked up in the project root. It doubles
// as the provenance label for values it supplies.
const Filename = ".distlint.yaml"

// EngineConfig selects the external analysis engine binary.
type EngineConfig struct {
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
}

// ProjectConfig is the parsed project file. Every field is optional.
type ProjectConfig struct {
	Target   string       `yaml:"target,omitempty"`
	Browsers []string     `yaml:"browsers,omitempty"`
	Dist     StringList   `yaml:"dist,omitempty"`
	Engine   EngineConfig `yaml:"engine,omitempty"`
}

// StringList accepts both a single YAML string and a sequence of strings.
type StringList []string

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = StringList(items)
		return nil
	default:
		return fmt.Errorf("expected a string or a list of strings")
	}
}

// Apply fills check options the caller left empty from the project file.
// Explicit values keep their own provenance; values the file supplies are
// labeled with Filename.
func (c ProjectConfig) Apply(opts *check.Options) {
	if opts.Target == "" && c.Target != "" {
		opts.Target = c.Target
		opts.TargetSource = Filename
	}
	if len(opts.Dist) == 0 && len(c.Dist) > 0 {
		opts.Dist = []string(c.Dist)
		opts.DistSource = Filename
	}
	if len(opts.Browsers) == 0 && len(c.Browsers) > 0 {
		opts.Browsers = c.Browsers
		opts.BrowsersSource = Filename
	}
}

// Load reads dir's project file. A missing file yields an empty config, and
// malformed YAML is logged as a warning and likewise yields an empty config,
// so a broken project file can never break a run.
func Load(dir string, logger *slog.Logger) ProjectConfig {
	if logger == nil {
		logger = logging.Discard()
	}

	path := filepath.Join(dir, Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read project file", "path", path, "error", err)
		}
		return ProjectConfig{}
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Warn("ignoring malformed project file", "path", path, "error", err)
		return ProjectConfig{}
	}
	return cfg
}
