package invoke

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/callir/internal/ir"
)

// Builtins returns a fresh registry of small demo functions used by
// `callir eval` and the tests.
//
//	concat(a, b, ...)   string concatenation of every argument
//	upper(s), lower(s)  Unicode case mapping
//	nfc(s)              Unicode NFC normalization
//	len(x)              runes in a string, elements in a list or object
//	sum(n, ...)         float sum; a single list argument is summed element-wise
//	join(list, sep)     joins a list of strings
//	json(x)             canonical JSON of x
func Builtins() MapRegistry {
	return MapRegistry{
		"concat": builtinConcat,
		"upper":  stringFunc("upper", func(s string) string { return cases.Upper(language.Und).String(s) }),
		"lower":  stringFunc("lower", func(s string) string { return cases.Lower(language.Und).String(s) }),
		"nfc":    stringFunc("nfc", norm.NFC.String),
		"len":    builtinLen,
		"sum":    builtinSum,
		"join":   builtinJoin,
		"json":   builtinJSON,
	}
}

func builtinConcat(_ context.Context, args []any) (any, error) {
	var b strings.Builder
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			b.WriteString(v)
		case float64, bool:
			data, err := ir.MarshalCanonical(v)
			if err != nil {
				return nil, err
			}
			b.Write(data)
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String(), nil
}

func stringFunc(name string, f func(string) string) Func {
	return func(_ context.Context, args []any) (any, error) {
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, &ArgumentError{Func: name, Position: 0, Message: fmt.Sprintf("expected string, got %T", args[0])}
		}
		return f(s), nil
	}
}

func builtinLen(_ context.Context, args []any) (any, error) {
	if err := arity("len", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case []any:
		return float64(len(v)), nil
	case map[string]any:
		return float64(len(v)), nil
	default:
		return nil, &ArgumentError{Func: "len", Position: 0, Message: fmt.Sprintf("expected string, list or object, got %T", args[0])}
	}
}

func builtinSum(_ context.Context, args []any) (any, error) {
	if len(args) == 1 {
		if list, ok := args[0].([]any); ok {
			args = list
		}
	}
	var total float64
	for i, arg := range args {
		n, ok := arg.(float64)
		if !ok {
			return nil, &ArgumentError{Func: "sum", Position: i, Message: fmt.Sprintf("expected number, got %T", arg)}
		}
		total += n
	}
	return total, nil
}

func builtinJoin(_ context.Context, args []any) (any, error) {
	if err := arity("join", args, 2); err != nil {
		return nil, err
	}
	list, ok := args[0].([]any)
	if !ok {
		return nil, &ArgumentError{Func: "join", Position: 0, Message: fmt.Sprintf("expected list, got %T", args[0])}
	}
	sep, ok := args[1].(string)
	if !ok {
		return nil, &ArgumentError{Func: "join", Position: 1, Message: fmt.Sprintf("expected string, got %T", args[1])}
	}
	parts := make([]string, len(list))
	for i, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, &ArgumentError{Func: "join", Position: 0, Message: fmt.Sprintf("element %d: expected string, got %T", i, elem)}
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}

func builtinJSON(_ context.Context, args []any) (any, error) {
	if err := arity("json", args, 1); err != nil {
		return nil, err
	}
	data, err := ir.MarshalCanonical(args[0])
	if err != nil {
		return nil, &ArgumentError{Func: "json", Position: 0, Message: err.Error()}
	}
	return string(data), nil
}

func arity(name string, args []any, want int) error {
	if len(args) != want {
		return &ArgumentError{Func: name, Position: -1, Message: fmt.Sprintf("expected %d argument(s), got %d", want, len(args))}
	}
	return nil
}
