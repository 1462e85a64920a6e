package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ToJSON converts a Value into its tagged JSON tree (map[string]any,
// []any, string, float64, bool), ready for MarshalCanonical or json.Marshal.
//
//	String("x")            -> {"type":"string_literal","value":"x"}
//	Path{"a","b"}          -> {"type":"path","segments":["a","b"]}
//	NewCall(Identifier("f")) -> {"type":"call_expression","funcCall":"f","args":[]}
//
// Object entries are emitted as a list so declaration order survives
// canonical key sorting.
func ToJSON(v Value) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil value")
	case Identifier:
		return map[string]any{"type": TypeIdentifier, "value": string(val)}, nil
	case String:
		return map[string]any{"type": TypeStringLiteral, "value": string(val)}, nil
	case Number:
		return map[string]any{"type": TypeNumericLiteral, "value": float64(val)}, nil
	case Bool:
		return map[string]any{"type": TypeBooleanLiteral, "value": bool(val)}, nil
	case Array:
		values := make([]any, len(val))
		for i, elem := range val {
			j, err := ToJSON(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			values[i] = j
		}
		return map[string]any{"type": TypeArrayLiteral, "values": values}, nil
	case *Object:
		pairs := val.Pairs()
		values := make([]any, len(pairs))
		for i, p := range pairs {
			j, err := ToJSON(p.Value)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", p.Key, err)
			}
			values[i] = map[string]any{"identifier": p.Key, "value": j}
		}
		return map[string]any{"type": TypeObjectLiteral, "values": values}, nil
	case Path:
		return map[string]any{"type": TypePath, "segments": pathJSON(val)}, nil
	case *Call:
		var fn any
		switch callee := val.Func.(type) {
		case Identifier:
			fn = string(callee)
		case Path:
			fn = map[string]any{"type": TypePath, "segments": pathJSON(callee)}
		default:
			return nil, fmt.Errorf("funcCall: unsupported callee %T", val.Func)
		}
		args := make([]any, len(val.Args))
		for i, a := range val.Args {
			j, err := ToJSON(a)
			if err != nil {
				return nil, fmt.Errorf("args[%d]: %w", i, err)
			}
			args[i] = j
		}
		return map[string]any{"type": TypeCallExpression, "funcCall": fn, "args": args}, nil
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

func pathJSON(p Path) []any {
	out := make([]any, len(p))
	for i, s := range p {
		out[i] = s
	}
	return out
}

// Marshal encodes v as canonical tagged JSON.
func Marshal(v Value) ([]byte, error) {
	tree, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	return MarshalCanonical(tree)
}

// Unmarshal decodes tagged JSON produced by Marshal (canonical or not).
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromJSON(raw)
}

// FromJSON converts a decoded tagged JSON tree back into a Value.
// Numbers may be json.Number, float64, int or int64.
func FromJSON(raw any) (Value, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected tagged object, got %T", raw)
	}
	typ, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or non-string \"type\"")
	}

	switch typ {
	case TypeIdentifier:
		s, err := stringMember(m, "value")
		if err != nil {
			return nil, err
		}
		return Identifier(s), nil

	case TypeStringLiteral:
		s, err := stringMember(m, "value")
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case TypeNumericLiteral:
		f, err := toFloat(m["value"])
		if err != nil {
			return nil, fmt.Errorf("numeric_literal: %w", err)
		}
		return Number(f), nil

	case TypeBooleanLiteral:
		b, ok := m["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("boolean_literal: expected bool value, got %T", m["value"])
		}
		return Bool(b), nil

	case TypeArrayLiteral:
		items, ok := m["values"].([]any)
		if !ok {
			return nil, fmt.Errorf("array_literal: expected values list, got %T", m["values"])
		}
		arr := make(Array, len(items))
		for i, item := range items {
			v, err := FromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil

	case TypeObjectLiteral:
		items, ok := m["values"].([]any)
		if !ok {
			return nil, fmt.Errorf("object_literal: expected values list, got %T", m["values"])
		}
		pairs := make([]Pair, len(items))
		for i, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("object[%d]: expected entry object, got %T", i, item)
			}
			key, err := stringMember(entry, "identifier")
			if err != nil {
				return nil, fmt.Errorf("object[%d]: %w", i, err)
			}
			v, err := FromJSON(entry["value"])
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", key, err)
			}
			pairs[i] = Pair{Key: key, Value: v}
		}
		return NewObject(pairs...), nil

	case TypePath:
		return pathFromJSON(m)

	case TypeCallExpression:
		var fn Callee
		switch raw := m["funcCall"].(type) {
		case string:
			fn = Identifier(raw)
		case map[string]any:
			p, err := pathFromJSON(raw)
			if err != nil {
				return nil, fmt.Errorf("funcCall: %w", err)
			}
			fn = p
		default:
			return nil, fmt.Errorf("funcCall: expected string or path, got %T", raw)
		}
		items, ok := m["args"].([]any)
		if !ok {
			return nil, fmt.Errorf("call_expression: expected args list, got %T", m["args"])
		}
		args := make([]Value, len(items))
		for i, item := range items {
			v, err := FromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("args[%d]: %w", i, err)
			}
			args[i] = v
		}
		return &Call{Func: fn, Args: args}, nil

	default:
		return nil, fmt.Errorf("unknown IR type %q", typ)
	}
}

func pathFromJSON(m map[string]any) (Path, error) {
	if typ, _ := m["type"].(string); typ != TypePath {
		return nil, fmt.Errorf("expected path, got %q", typ)
	}
	items, ok := m["segments"].([]any)
	if !ok {
		return nil, fmt.Errorf("path: expected segments list, got %T", m["segments"])
	}
	p := make(Path, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("path: segment %d is %T, not string", i, item)
		}
		p[i] = s
	}
	return p, nil
}

func stringMember(m map[string]any, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("expected string %q, got %T", key, m[key])
	}
	return s, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// MarshalJSON implementations let Values sit inside ordinary structs
// (CLI responses, store records) and still encode in tagged form.

func (v Identifier) MarshalJSON() ([]byte, error) { return Marshal(v) }
func (v String) MarshalJSON() ([]byte, error)     { return Marshal(v) }
func (v Number) MarshalJSON() ([]byte, error)     { return Marshal(v) }
func (v Bool) MarshalJSON() ([]byte, error)       { return Marshal(v) }
func (v Array) MarshalJSON() ([]byte, error)      { return Marshal(v) }
func (v Path) MarshalJSON() ([]byte, error)       { return Marshal(v) }
func (v *Object) MarshalJSON() ([]byte, error)    { return Marshal(v) }
func (v *Call) MarshalJSON() ([]byte, error)      { return Marshal(v) }
