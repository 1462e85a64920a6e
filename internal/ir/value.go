package ir

import "strings"

// Value is a sealed interface over the normalized expression tree.
// Only Identifier, String, Number, Bool, Array, *Object, Path and *Call
// implement it.
//
// Values are immutable once built: constructors copy their inputs and
// no method mutates a value after it is returned.
type Value interface {
	irValue()
	// Type returns the tag used in the JSON encoding ("string_literal", ...).
	Type() string
}

// Callee is the funcCall of a Call: either a plain Identifier or a Path.
type Callee interface {
	Value
	callee()
}

// Type tags used on the wire.
const (
	TypeIdentifier     = "identifier"
	TypeStringLiteral  = "string_literal"
	TypeNumericLiteral = "numeric_literal"
	TypeBooleanLiteral = "boolean_literal"
	TypeArrayLiteral   = "array_literal"
	TypeObjectLiteral  = "object_literal"
	TypePath           = "path"
	TypeCallExpression = "call_expression"
)

// Identifier is a canonicalized bare name.
type Identifier string

func (Identifier) irValue()     {}
func (Identifier) callee()      {}
func (Identifier) Type() string { return TypeIdentifier }

func (i Identifier) String() string { return string(i) }

// String is a string literal value.
type String string

func (String) irValue()     {}
func (String) Type() string { return TypeStringLiteral }

// Number is a numeric literal value, copied verbatim from the source.
type Number float64

func (Number) irValue()     {}
func (Number) Type() string { return TypeNumericLiteral }

// Bool is a boolean literal value.
type Bool bool

func (Bool) irValue()     {}
func (Bool) Type() string { return TypeBooleanLiteral }

// Array is an ordered list of values.
type Array []Value

func (Array) irValue()     {}
func (Array) Type() string { return TypeArrayLiteral }

// Path is a flattened member access chain, e.g. a.b["c"] -> [a b c].
type Path []string

func (Path) irValue()     {}
func (Path) callee()      {}
func (Path) Type() string { return TypePath }

// Pair is a key/value entry used to build an Object.
type Pair struct {
	Key   string
	Value Value
}

// O is a shorthand for Pair.
// Example: NewObject(O("k", String("v")), O("n", Number(1)))
func O(key string, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// Object maps string keys to values and remembers declaration order.
// A repeated key keeps its first position and takes the last value.
type Object struct {
	keys   []string
	values map[string]Value
}

func (*Object) irValue()     {}
func (*Object) Type() string { return TypeObjectLiteral }

// NewObject builds an Object from pairs in order.
func NewObject(pairs ...Pair) *Object {
	obj := &Object{
		keys:   make([]string, 0, len(pairs)),
		values: make(map[string]Value, len(pairs)),
	}
	for _, p := range pairs {
		if _, seen := obj.values[p.Key]; !seen {
			obj.keys = append(obj.keys, p.Key)
		}
		obj.values[p.Key] = p.Value
	}
	return obj
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in declaration order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of distinct keys.
func (o *Object) Len() int { return len(o.keys) }

// Pairs returns the entries in declaration order.
func (o *Object) Pairs() []Pair {
	out := make([]Pair, len(o.keys))
	for i, k := range o.keys {
		out[i] = Pair{Key: k, Value: o.values[k]}
	}
	return out
}

// Call is a named function invocation with its arguments in source order.
type Call struct {
	Func Callee
	Args []Value
}

func (*Call) irValue()     {}
func (*Call) Type() string { return TypeCallExpression }

// NewCall builds a Call. Args is never nil so that a zero-argument call
// encodes as an empty list.
func NewCall(fn Callee, args ...Value) *Call {
	out := make([]Value, len(args))
	copy(out, args)
	return &Call{Func: fn, Args: out}
}

// FuncName returns the callee as a single string: the identifier itself or
// the path segments joined with ".".
func (c *Call) FuncName() string {
	switch fn := c.Func.(type) {
	case Identifier:
		return string(fn)
	case Path:
		return fn.String()
	default:
		return ""
	}
}

// String joins the segments with ".".
func (p Path) String() string {
	return strings.Join(p, ".")
}
