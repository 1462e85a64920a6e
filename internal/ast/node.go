package ast

// Kind is the runtime tag of a Node.
type Kind string

// Supported node kinds.
const (
	KindIdentifier       Kind = "Identifier"
	KindStringLiteral    Kind = "StringLiteral"
	KindNumericLiteral   Kind = "NumericLiteral"
	KindBooleanLiteral   Kind = "BooleanLiteral"
	KindArrayExpression  Kind = "ArrayExpression"
	KindObjectExpression Kind = "ObjectExpression"
	KindMemberExpression Kind = "MemberExpression"
	KindCallExpression   Kind = "CallExpression"
)

// SupportedKinds lists every kind the normalizer accepts, in declaration order.
var SupportedKinds = []Kind{
	KindIdentifier,
	KindStringLiteral,
	KindNumericLiteral,
	KindBooleanLiteral,
	KindArrayExpression,
	KindObjectExpression,
	KindMemberExpression,
	KindCallExpression,
}

// IsSupported reports whether k is one of the supported kinds.
func (k Kind) IsSupported() bool {
	for _, s := range SupportedKinds {
		if s == k {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Node is a sealed interface; only the types in this package implement it.
type Node interface {
	Kind() Kind
	node()
}

// Identifier is a bare name token. Name is kept exactly as written,
// including any surrounding quotes.
type Identifier struct {
	Name string
}

func (*Identifier) Kind() Kind { return KindIdentifier }
func (*Identifier) node()      {}

// StringLiteral is a quoted string with its quotes already removed.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) Kind() Kind { return KindStringLiteral }
func (*StringLiteral) node()      {}

// NumericLiteral holds a number in the host grammar's numeric domain (IEEE 754 double).
type NumericLiteral struct {
	Value float64
}

func (*NumericLiteral) Kind() Kind { return KindNumericLiteral }
func (*NumericLiteral) node()      {}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
}

func (*BooleanLiteral) Kind() Kind { return KindBooleanLiteral }
func (*BooleanLiteral) node()      {}

// ArrayExpression is an ordered list literal.
type ArrayExpression struct {
	Elements []Node
}

func (*ArrayExpression) Kind() Kind { return KindArrayExpression }
func (*ArrayExpression) node()      {}

// Property is one key/value entry of an ObjectExpression.
// Keys are plain strings; key expressions are outside the grammar.
type Property struct {
	Key   string
	Value Node
}

// ObjectExpression is an object literal with properties in source order.
type ObjectExpression struct {
	Properties []Property
}

func (*ObjectExpression) Kind() Kind { return KindObjectExpression }
func (*ObjectExpression) node()      {}

// MemberExpression is `object.property` or, when Computed, `object[property]`.
type MemberExpression struct {
	Object   Node
	Property Node
	Computed bool
}

func (*MemberExpression) Kind() Kind { return KindMemberExpression }
func (*MemberExpression) node()      {}

// CallExpression is `callee(arguments...)`.
type CallExpression struct {
	Callee    Node
	Arguments []Node
}

func (*CallExpression) Kind() Kind { return KindCallExpression }
func (*CallExpression) node()      {}

// Unsupported stands in for any construct outside the grammar
// (arrow functions, template literals, spread, ...). Type is the original tag.
type Unsupported struct {
	Type string
}

func (n *Unsupported) Kind() Kind { return Kind(n.Type) }
func (*Unsupported) node()        {}

// Convenience constructors, mostly used by tests and builders.

// Ident creates an Identifier.
func Ident(name string) *Identifier { return &Identifier{Name: name} }

// Str creates a StringLiteral.
func Str(v string) *StringLiteral { return &StringLiteral{Value: v} }

// Num creates a NumericLiteral.
func Num(v float64) *NumericLiteral { return &NumericLiteral{Value: v} }

// Bool creates a BooleanLiteral.
func Bool(v bool) *BooleanLiteral { return &BooleanLiteral{Value: v} }

// Array creates an ArrayExpression.
func Array(elems ...Node) *ArrayExpression { return &ArrayExpression{Elements: elems} }

// Object creates an ObjectExpression.
func Object(props ...Property) *ObjectExpression { return &ObjectExpression{Properties: props} }

// Prop creates a Property.
// Example: Object(Prop("k", Str("v")))
func Prop(key string, value Node) Property { return Property{Key: key, Value: value} }

// Member creates a dotted (non-computed) MemberExpression.
func Member(object Node, property string) *MemberExpression {
	return &MemberExpression{Object: object, Property: Ident(property)}
}

// Index creates a computed MemberExpression.
func Index(object, property Node) *MemberExpression {
	return &MemberExpression{Object: object, Property: property, Computed: true}
}

// Call creates a CallExpression.
func Call(callee Node, args ...Node) *CallExpression {
	if args == nil {
		args = []Node{}
	}
	return &CallExpression{Callee: callee, Arguments: args}
}
