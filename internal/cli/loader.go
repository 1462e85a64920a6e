package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/config"
)

// LoadMode controls how errors are handled during expression loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// NamedExpression is one decoded `expression: <name>: {...}` entry.
type NamedExpression struct {
	Name string
	Node ast.Node
	Pos  token.Pos
}

// LoadResult contains the expressions loaded from a CUE directory.
type LoadResult struct {
	Expressions []NamedExpression // sorted by name
	Config      *config.Config    // set when the instance has a config block
	FileCount   int               // Number of CUE files found
}

// LoadError represents an error that occurred during loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadExpressions loads every expression of the CUE package in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadExpressions(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("expressions directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing expressions directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	// Find CUE files
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	// Load CUE instances
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}

	if cfgVal := value.LookupPath(cue.ParsePath("config")); cfgVal.Exists() {
		cfg, err := config.FromValue(cfgVal)
		if err != nil {
			errs = append(errs, convertConfigError(err))
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else {
			result.Config = cfg
		}
	}

	exprVal := value.LookupPath(cue.ParsePath("expression"))
	if !exprVal.Exists() {
		if len(errs) == 0 {
			errs = append(errs, &LoadError{Code: ErrCodeNoExpressions, Message: "no expressions found"})
		}
		return result, errs
	}

	iter, err := exprVal.Fields()
	if err != nil {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating expressions: %v", err)})
		return result, errs
	}
	for iter.Next() {
		name := iter.Label()
		node, err := decodeCUEExpression(iter.Value())
		if err != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDecodeFailed,
				Message: fmt.Sprintf("expression.%s: %v", name, err),
				Pos:     iter.Value().Pos(),
			})
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Expressions = append(result.Expressions, NamedExpression{Name: name, Node: node, Pos: iter.Value().Pos()})
	}

	sort.Slice(result.Expressions, func(i, j int) bool {
		return result.Expressions[i].Name < result.Expressions[j].Name
	})

	if len(result.Expressions) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoExpressions, Message: "no expressions found"})
	}
	return result, errs
}

// decodeCUEExpression exports a concrete CUE value as JSON and decodes it
// as an AST document.
func decodeCUEExpression(v cue.Value) (ast.Node, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return ast.DecodeYAML(data)
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertConfigError converts a config error to a LoadError with position info.
func convertConfigError(err error) *LoadError {
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return &LoadError{
			Code:    ErrCodeInvalidConfig,
			Message: fmt.Sprintf("config.%s: %s", cfgErr.Field, cfgErr.Message),
			Pos:     cfgErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeInvalidConfig, Message: err.Error()}
}

// ReadDocument reads one AST document (YAML or JSON) from path.
func ReadDocument(path string) (ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	node, err := ast.DecodeYAML(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return node, nil
}

// Error code constants - unified across all CLI commands. Normalization
// failures use the normalizer's own codes instead.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeScanError       = "E002" // Directory scan error
	ErrCodeNoFiles         = "E003" // No CUE files found
	ErrCodeLoadFailed      = "E004" // CUE load failed
	ErrCodeNotFound        = "E005" // Path not found
	ErrCodeBuildFailed     = "E006" // CUE build failed
	ErrCodeWriteFailed     = "E007" // File write error
	ErrCodeDatabase        = "E008" // Database open/read/write error
	ErrCodeDecodeFailed    = "E101" // AST document is malformed
	ErrCodeNoExpressions   = "E102" // CUE instance has no expressions
	ErrCodeInvalidConfig   = "E103" // Config block or file is invalid
	ErrCodeCheckFailed     = "E104" // check found grammar violations
	ErrCodeNormalizeFailed = "E105" // One or more inputs failed to normalize
	ErrCodeEvalFailed      = "E201" // Evaluation failed
	ErrCodeTestFailed      = "E301" // One or more scenarios failed
)

// loadErrorCode returns the code of a LoadError, or ErrCodeGeneric.
func loadErrorCode(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
