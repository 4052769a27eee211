package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tslower/pkg/parser"
	"tslower/pkg/vm"
)

// Config controls emission, the static check and execution.
type Config struct {
	Emit    EmitConfig    `yaml:"emit"`
	Check   CheckConfig   `yaml:"check"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Debug   DebugConfig   `yaml:"debug"`
}

type EmitConfig struct {
	Indent  int    `yaml:"indent"`
	Newline string `yaml:"newline"`
}

type CheckConfig struct {
	Enabled bool `yaml:"enabled"`
	// Strict turns check diagnostics into failures that stop lowering.
	Strict bool `yaml:"strict"`
}

type RuntimeConfig struct {
	Placeholder string `yaml:"placeholder"`
	// Clock pins Date to an RFC3339 instant. Empty means the wall clock.
	Clock string `yaml:"clock"`
}

type DebugConfig struct {
	AST bool `yaml:"ast"`
}

// ConfigError aggregates config validation failures.
type ConfigError struct {
	Path   string
	Issues []string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": invalid configuration")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Emit:    EmitConfig{Indent: 4, Newline: "\n"},
		Check:   CheckConfig{Enabled: true},
		Runtime: RuntimeConfig{Placeholder: "undefined"},
	}
}

// LoadConfig reads a YAML config file. Keys it leaves out keep their
// defaults; unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	cfg, err := DecodeConfig(file)
	if err != nil {
		if cerr, ok := err.(*ConfigError); ok {
			cerr.Path = path
			return nil, cerr
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig reads a YAML config from r on top of the defaults.
func DecodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var issues []string
	if c.Emit.Indent < 0 || c.Emit.Indent > 16 {
		issues = append(issues, fmt.Sprintf("emit.indent must be between 0 and 16, got %d", c.Emit.Indent))
	}
	if c.Emit.Newline != "\n" && c.Emit.Newline != "\r\n" {
		issues = append(issues, fmt.Sprintf("emit.newline must be \"\\n\" or \"\\r\\n\", got %q", c.Emit.Newline))
	}
	if c.Runtime.Clock != "" {
		if _, err := time.Parse(time.RFC3339, c.Runtime.Clock); err != nil {
			issues = append(issues, fmt.Sprintf("runtime.clock must be an RFC3339 time: %v", err))
		}
	}
	if len(issues) > 0 {
		return &ConfigError{Issues: issues}
	}
	return nil
}

func (c *Config) emitter() *parser.JSEmitter {
	return parser.NewJSEmitter(parser.WithIndent(c.Emit.Indent), parser.WithNewline(c.Emit.Newline))
}

func (c *Config) clock() func() time.Time {
	if c.Runtime.Clock == "" {
		return time.Now
	}
	t, err := time.Parse(time.RFC3339, c.Runtime.Clock)
	if err != nil {
		return time.Now
	}
	return func() time.Time { return t }
}

// Interpreter creates an interpreter honouring the runtime settings.
func (c *Config) Interpreter(sinks Sinks) *vm.Interpreter {
	opts := []vm.Option{
		vm.WithClock(c.clock()),
		vm.WithPlaceholder(c.Runtime.Placeholder),
	}
	if sinks.Console != nil {
		opts = append(opts, vm.WithConsole(sinks.Console))
	}
	if sinks.Page != nil {
		opts = append(opts, vm.WithPage(sinks.Page))
	}
	return vm.New(opts...)
}

func orDefault(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return cfg
}
