package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource string

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the settings shared by every callir command.
type Config struct {
	MaxDepth        int    `json:"max_depth"`
	Format          string `json:"format"`
	Database        string `json:"database"`
	MaxCalls        int    `json:"max_calls"`
	RequireCallRoot bool   `json:"require_call_root"`
}

// Error is a configuration error with the CUE source position when known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the schema defaults.
func Default() *Config {
	ctx := cuecontext.New()
	cfg, err := FromValue(ctx.CompileString("{}"))
	if err != nil {
		// The embedded schema is fixed; failing here is a build defect.
		panic(fmt.Sprintf("config: embedded schema defaults: %v", err))
	}
	return cfg
}

// Load reads a CUE config file and applies it over the schema defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return FromValue(v)
}

// FromValue unifies v with the schema and decodes the result. v may come
// from a larger CUE instance, e.g. the `config:` block of an expression
// directory.
func FromValue(v cue.Value) (*Config, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	cfg := &Config{}
	var err error
	if cfg.MaxDepth, err = intField(unified, "max_depth"); err != nil {
		return nil, err
	}
	if cfg.Format, err = stringField(unified, "format"); err != nil {
		return nil, err
	}
	if cfg.Database, err = stringField(unified, "database"); err != nil {
		return nil, err
	}
	if cfg.MaxCalls, err = intField(unified, "max_calls"); err != nil {
		return nil, err
	}
	if cfg.RequireCallRoot, err = boolField(unified, "require_call_root"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags may have set after loading.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return &Error{Field: "max_depth", Message: fmt.Sprintf("must be >= 0, got %d", c.MaxDepth)}
	}
	if c.MaxCalls < 0 {
		return &Error{Field: "max_calls", Message: fmt.Sprintf("must be >= 0, got %d", c.MaxCalls)}
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return &Error{Field: "format", Message: fmt.Sprintf("must be %q or %q, got %q", FormatText, FormatJSON, c.Format)}
	}
	return nil
}

func field(v cue.Value, name string) cue.Value {
	f := v.LookupPath(cue.ParsePath(name))
	if d, ok := f.Default(); ok {
		return d
	}
	return f
}

func intField(v cue.Value, name string) (int, error) {
	f := field(v, name)
	n, err := f.Int64()
	if err != nil {
		return 0, &Error{Field: name, Message: fmt.Sprintf("expected integer: %v", err), Pos: f.Pos()}
	}
	return int(n), nil
}

func stringField(v cue.Value, name string) (string, error) {
	f := field(v, name)
	s, err := f.String()
	if err != nil {
		return "", &Error{Field: name, Message: fmt.Sprintf("expected string: %v", err), Pos: f.Pos()}
	}
	return s, nil
}

func boolField(v cue.Value, name string) (bool, error) {
	f := field(v, name)
	b, err := f.Bool()
	if err != nil {
		return false, &Error{Field: name, Message: fmt.Sprintf("expected bool: %v", err), Pos: f.Pos()}
	}
	return b, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &Error{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: "cue", Message: first.Error()}
}
