package ast

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeError reports a structural problem in an AST document: a missing
// "type" field, a field of the wrong shape, or a construct that cannot be
// represented as a Node at all (computed object keys, spread properties).
type DecodeError struct {
	Path    string // location in the document, e.g. "$.arguments[1].value"
	Line    int
	Column  int
	Message string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d:%d: %s: %s", e.Line, e.Column, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// DecodeYAML decodes a single ESTree/Babel-shaped AST document.
// JSON input is accepted as-is since it is valid YAML.
func DecodeYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse AST document: %w", err)
	}
	return DecodeNode(&doc)
}

// DecodeNode decodes an AST from an already parsed YAML node. Document and
// alias nodes are followed; Program and ExpressionStatement wrappers are
// unwrapped. An alias that refers to one of its own ancestors, or aliases
// that expand past maxExpandedNodes, are rejected before decoding starts.
func DecodeNode(n *yaml.Node) (Node, error) {
	w := aliasWalker{active: make(map[*yaml.Node]bool)}
	if err := w.walk(n); err != nil {
		return nil, err
	}
	return decodeNode(n, "$")
}

// maxExpandedNodes bounds the YAML nodes reachable from a document once
// aliases are expanded.
const maxExpandedNodes = 1 << 20

// aliasWalker visits a YAML graph the way decodeNode will, following aliases.
type aliasWalker struct {
	active  map[*yaml.Node]bool // anchored nodes on the current path
	visited int
}

func (w *aliasWalker) walk(n *yaml.Node) error {
	if n == nil {
		return nil
	}
	w.visited++
	if w.visited > maxExpandedNodes {
		return errAt(n, "$", "document expands to more than %d nodes through aliases", maxExpandedNodes)
	}
	if n.Kind == yaml.AliasNode {
		if n.Alias == nil {
			return errAt(n, "$", "alias *%s has no anchor", n.Value)
		}
		if w.active[n.Alias] {
			return errAt(n, "$", "alias cycle: *%s refers to an enclosing node", n.Value)
		}
		return w.walk(n.Alias)
	}
	if n.Anchor != "" {
		w.active[n] = true
		defer delete(w.active, n)
	}
	for _, c := range n.Content {
		if err := w.walk(c); err != nil {
			return err
		}
	}
	return nil
}

func decodeNode(n *yaml.Node, path string) (Node, error) {
	n = resolve(n)
	if n == nil {
		return nil, &DecodeError{Path: path, Message: "empty document"}
	}
	if n.Kind != yaml.MappingNode {
		return nil, errAt(n, path, "expected a node object, got %s", describe(n))
	}

	fields := mappingFields(n)
	typ, err := stringField(fields, n, path, "type")
	if err != nil {
		return nil, err
	}

	switch typ {
	case "Program":
		body, err := sequenceField(fields, n, path, "body")
		if err != nil {
			return nil, err
		}
		if len(body) != 1 {
			return nil, errAt(n, path+".body", "expected 1 statement, got %d", len(body))
		}
		return decodeStatement(body[0], path+".body[0]")

	case "ExpressionStatement":
		return decodeStatement(n, path)

	case "Identifier":
		name, err := stringField(fields, n, path, "name")
		if err != nil {
			return nil, err
		}
		return &Identifier{Name: name}, nil

	case "StringLiteral":
		v, err := stringField(fields, n, path, "value")
		if err != nil {
			return nil, err
		}
		return &StringLiteral{Value: v}, nil

	case "NumericLiteral":
		v, ok := fields["value"]
		if !ok {
			return nil, errAt(n, path, "missing field %q", "value")
		}
		f, err := decodeFloat(v, path+".value")
		if err != nil {
			return nil, err
		}
		return &NumericLiteral{Value: f}, nil

	case "BooleanLiteral":
		v, ok := fields["value"]
		if !ok {
			return nil, errAt(n, path, "missing field %q", "value")
		}
		var b bool
		if v.Kind != yaml.ScalarNode || v.ShortTag() != "!!bool" {
			return nil, errAt(v, path+".value", "expected a boolean, got %s", describe(v))
		}
		if err := v.Decode(&b); err != nil {
			return nil, errAt(v, path+".value", "%v", err)
		}
		return &BooleanLiteral{Value: b}, nil

	case "Literal":
		return decodeLiteral(fields, n, path)

	case "ArrayExpression":
		elems, err := sequenceField(fields, n, path, "elements")
		if err != nil {
			return nil, err
		}
		out := make([]Node, len(elems))
		for i, e := range elems {
			if r := resolve(e); r != nil && r.ShortTag() == "!!null" {
				// Holes in array literals ([1,,2]) are not representable.
				out[i] = &Unsupported{Type: "ArrayHole"}
				continue
			}
			child, err := decodeNode(e, fmt.Sprintf("%s.elements[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return &ArrayExpression{Elements: out}, nil

	case "ObjectExpression":
		props, err := sequenceField(fields, n, path, "properties")
		if err != nil {
			return nil, err
		}
		out := make([]Property, len(props))
		for i, p := range props {
			prop, err := decodeProperty(p, fmt.Sprintf("%s.properties[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = prop
		}
		return &ObjectExpression{Properties: out}, nil

	case "MemberExpression", "OptionalMemberExpression":
		object, err := childField(fields, n, path, "object")
		if err != nil {
			return nil, err
		}
		property, err := childField(fields, n, path, "property")
		if err != nil {
			return nil, err
		}
		computed, err := boolField(fields, path, "computed")
		if err != nil {
			return nil, err
		}
		return &MemberExpression{Object: object, Property: property, Computed: computed}, nil

	case "CallExpression":
		callee, err := childField(fields, n, path, "callee")
		if err != nil {
			return nil, err
		}
		args, err := sequenceField(fields, n, path, "arguments")
		if err != nil {
			return nil, err
		}
		out := make([]Node, len(args))
		for i, a := range args {
			child, err := decodeNode(a, fmt.Sprintf("%s.arguments[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return &CallExpression{Callee: callee, Arguments: out}, nil

	default:
		return &Unsupported{Type: typ}, nil
	}
}

func decodeStatement(n *yaml.Node, path string) (Node, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, errAt(n, path, "expected a statement object, got %s", describe(n))
	}
	fields := mappingFields(n)
	typ, err := stringField(fields, n, path, "type")
	if err != nil {
		return nil, err
	}
	if typ != "ExpressionStatement" {
		return nil, errAt(n, path, "expected ExpressionStatement, got %s", typ)
	}
	return childField(fields, n, path, "expression")
}

// decodeLiteral handles the ESTree form, where the literal kind is implied
// by the value's type.
func decodeLiteral(fields map[string]*yaml.Node, n *yaml.Node, path string) (Node, error) {
	if _, ok := fields["regex"]; ok {
		return &Unsupported{Type: "RegExpLiteral"}, nil
	}
	if _, ok := fields["bigint"]; ok {
		return &Unsupported{Type: "BigIntLiteral"}, nil
	}
	v, ok := fields["value"]
	if !ok {
		return nil, errAt(n, path, "missing field %q", "value")
	}
	v = resolve(v)
	if v.Kind != yaml.ScalarNode {
		return nil, errAt(v, path+".value", "expected a scalar literal value, got %s", describe(v))
	}
	switch v.ShortTag() {
	case "!!str":
		return &StringLiteral{Value: v.Value}, nil
	case "!!int", "!!float":
		f, err := decodeFloat(v, path+".value")
		if err != nil {
			return nil, err
		}
		return &NumericLiteral{Value: f}, nil
	case "!!bool":
		var b bool
		if err := v.Decode(&b); err != nil {
			return nil, errAt(v, path+".value", "%v", err)
		}
		return &BooleanLiteral{Value: b}, nil
	case "!!null":
		return &Unsupported{Type: "NullLiteral"}, nil
	default:
		return nil, errAt(v, path+".value", "unsupported literal tag %s", v.ShortTag())
	}
}

func decodeProperty(n *yaml.Node, path string) (Property, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return Property{}, errAt(n, path, "expected a property object, got %s", describe(n))
	}
	fields := mappingFields(n)
	typ, err := stringField(fields, n, path, "type")
	if err != nil {
		return Property{}, err
	}
	if typ != "Property" && typ != "ObjectProperty" {
		return Property{}, errAt(n, path, "unsupported object member %s", typ)
	}
	computed, err := boolField(fields, path, "computed")
	if err != nil {
		return Property{}, err
	}
	if computed {
		return Property{}, errAt(n, path+".key", "computed object keys are not supported")
	}

	keyNode, err := childField(fields, n, path, "key")
	if err != nil {
		return Property{}, err
	}
	var key string
	switch k := keyNode.(type) {
	case *Identifier:
		key = k.Name
	case *StringLiteral:
		key = k.Value
	case *NumericLiteral:
		key = strconv.FormatFloat(k.Value, 'g', -1, 64)
	default:
		return Property{}, errAt(n, path+".key", "unsupported key kind %s", keyNode.Kind())
	}

	value, err := childField(fields, n, path, "value")
	if err != nil {
		return Property{}, err
	}
	return Property{Key: key, Value: value}, nil
}

// resolve follows document and alias indirections.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func mappingFields(n *yaml.Node) map[string]*yaml.Node {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}
	return fields
}

func stringField(fields map[string]*yaml.Node, n *yaml.Node, path, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", errAt(n, path, "missing field %q", name)
	}
	v = resolve(v)
	if v == nil || v.Kind != yaml.ScalarNode || v.ShortTag() != "!!str" {
		return "", errAt(v, path+"."+name, "expected a string, got %s", describe(v))
	}
	return v.Value, nil
}

func boolField(fields map[string]*yaml.Node, path, name string) (bool, error) {
	v, ok := fields[name]
	if !ok {
		return false, nil
	}
	v = resolve(v)
	if v == nil || v.ShortTag() == "!!null" {
		return false, nil
	}
	if v.Kind != yaml.ScalarNode || v.ShortTag() != "!!bool" {
		return false, errAt(v, path+"."+name, "expected a boolean, got %s", describe(v))
	}
	var b bool
	if err := v.Decode(&b); err != nil {
		return false, errAt(v, path+"."+name, "%v", err)
	}
	return b, nil
}

func sequenceField(fields map[string]*yaml.Node, n *yaml.Node, path, name string) ([]*yaml.Node, error) {
	v, ok := fields[name]
	if !ok {
		return nil, errAt(n, path, "missing field %q", name)
	}
	v = resolve(v)
	if v == nil || v.Kind != yaml.SequenceNode {
		return nil, errAt(v, path+"."+name, "expected a list, got %s", describe(v))
	}
	return v.Content, nil
}

func childField(fields map[string]*yaml.Node, n *yaml.Node, path, name string) (Node, error) {
	v, ok := fields[name]
	if !ok {
		return nil, errAt(n, path, "missing field %q", name)
	}
	return decodeNode(v, path+"."+name)
}

func decodeFloat(v *yaml.Node, path string) (float64, error) {
	v = resolve(v)
	if v == nil || v.Kind != yaml.ScalarNode || (v.ShortTag() != "!!int" && v.ShortTag() != "!!float") {
		return 0, errAt(v, path, "expected a number, got %s", describe(v))
	}
	var f float64
	if err := v.Decode(&f); err != nil {
		return 0, errAt(v, path, "%v", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errAt(v, path, "number %s is not finite", v.Value)
	}
	return f, nil
}

func describe(n *yaml.Node) string {
	if n == nil {
		return "nothing"
	}
	switch n.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return "string"
		case "!!int", "!!float":
			return "number"
		case "!!bool":
			return "boolean"
		case "!!null":
			return "null"
		}
		return n.ShortTag()
	}
	return "unknown"
}

func errAt(n *yaml.Node, path, format string, args ...any) *DecodeError {
	e := &DecodeError{Path: path, Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}
