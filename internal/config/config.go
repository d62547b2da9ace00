// Package config loads the plugin-style key=value options file against a
// declared option schema. Unknown keys are ignored, values outside an
// option's allowed set fall back to its default, and a missing options file
// is replicated from the shipped defaults file.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var ErrInvalidConfigOption = errors.New("invalid config option")

// Option declares one configurable entry of the schema. A zero AllowedValues
// means the boolean pair {true, false}; a nil DefaultValue means false.
// StrOption accepts any string value except the literal "None".
type Option struct {
	Name          string
	StrOption     bool
	AllowedValues []any
	DefaultValue  any
}

func (o Option) normalized() Option {
	if o.AllowedValues == nil {
		o.AllowedValues = []any{true, false}
	}
	if o.DefaultValue == nil {
		o.DefaultValue = false
	}
	return o
}

func (o Option) validate() error {
	if o.StrOption {
		return nil
	}
	for _, allowed := range o.AllowedValues {
		if fmt.Sprint(allowed) == fmt.Sprint(o.DefaultValue) {
			return nil
		}
	}
	return fmt.Errorf("%w: default %v for %q not in allowed values %v",
		ErrInvalidConfigOption, o.DefaultValue, o.Name, o.AllowedValues)
}

type Options map[string]any

// Defaults resolves a schema without any options file, validating it the same
// way Load does.
func Defaults(options []Option) (Options, error) {
	resolved := make(Options, len(options))
	for _, option := range options {
		option = option.normalized()
		if err := option.validate(); err != nil {
			return nil, err
		}
		resolved[option.Name] = option.DefaultValue
	}
	return resolved, nil
}

func (o Options) Bool(name string) bool {
	v, _ := o[name].(bool)
	return v
}

func (o Options) String(name string) string {
	v, _ := o[name].(string)
	return v
}

func (o Options) Int(name string) int {
	v, _ := o[name].(int)
	return v
}

// Loader reads an options file and resolves it against a schema. Paths and
// logger are bound at construction so nothing leaks into package state.
type Loader struct {
	configPath  string
	defaultPath string
	logger      zerolog.Logger
}

func NewLoader(configPath, defaultPath string, logger zerolog.Logger) *Loader {
	return &Loader{
		configPath:  configPath,
		defaultPath: defaultPath,
		logger:      logger,
	}
}

// Load resolves the declared options. A missing options file is recreated
// from the defaults file before parsing; a missing defaults file is fatal.
func (l *Loader) Load(options []Option) (Options, error) {
	schema := make([]Option, 0, len(options))
	for _, option := range options {
		option = option.normalized()
		if err := option.validate(); err != nil {
			return nil, err
		}
		schema = append(schema, option)
	}

	file, err := os.Open(l.configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open options file: %w", err)
		}

		l.logger.Warn().Str("path", l.configPath).Msg("options file missing, replicating defaults")
		if err := l.replicateDefaults(); err != nil {
			return nil, err
		}

		file, err = os.Open(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("open replicated options file: %w", err)
		}
	}
	defer file.Close()

	return l.parse(file, schema)
}

func (l *Loader) parse(file *os.File, schema []Option) (Options, error) {
	byName := make(map[string]Option, len(schema))
	resolved := make(Options, len(schema))
	for _, option := range schema {
		byName[option.Name] = option
		resolved[option.Name] = option.DefaultValue
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		name, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		option, ok := byName[name]
		if !ok {
			l.logger.Debug().Str("option", name).Msg("ignoring undeclared option")
			continue
		}

		if option.StrOption {
			if value != "None" {
				resolved[name] = value
				l.logger.Debug().Str("option", name).Str("value", value).Msg("option set")
			}
			continue
		}

		for _, allowed := range option.AllowedValues {
			if strings.EqualFold(value, fmt.Sprint(allowed)) && value != fmt.Sprint(option.DefaultValue) {
				resolved[name] = allowed
				l.logger.Debug().Str("option", name).Interface("value", allowed).Msg("option set")
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}

	return resolved, nil
}

// replicateDefaults copies the defaults file to the options path, dropping
// "##" documentation lines and the blank padding that follows each doc block.
func (l *Loader) replicateDefaults() error {
	defaults, err := os.Open(l.defaultPath)
	if err != nil {
		return fmt.Errorf("open default options file: %w", err)
	}
	defer defaults.Close()

	out := &strings.Builder{}
	pastDocBlock := false
	scanner := bufio.NewScanner(defaults)
	for scanner.Scan() {
		line := scanner.Text()
		if !pastDocBlock {
			if strings.HasPrefix(line, "##") {
				continue
			}
			if strings.TrimSpace(line) != "" {
				out.WriteString(line + "\n")
				pastDocBlock = true
			}
			continue
		}
		if strings.HasPrefix(line, "##") {
			pastDocBlock = false
			continue
		}
		out.WriteString(line + "\n")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read default options file: %w", err)
	}

	if err := os.WriteFile(l.configPath, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("write options file: %w", err)
	}

	return nil
}
