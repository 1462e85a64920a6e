package normalize

import (
	"fmt"

	"github.com/roach88/callir/internal/ast"
)

// Check reports every grammar violation in n using an unbounded dispatcher.
// See Dispatcher.Check.
func Check(n ast.Node) []Error {
	return New().Check(n)
}

// Check walks the whole tree and returns all errors found (does not
// fail-fast). It applies the same rules as Resolve, so a tree with no
// errors is guaranteed to resolve. Locations are absolute ("$...").
func (d *Dispatcher) Check(n ast.Node) []Error {
	if d == nil || d.handlers == nil {
		e := newError(ErrMissingDispatcherWiring, kindOf(n), "dispatcher has no handler table; construct it with normalize.New")
		e.Location = "$"
		return []Error{*e}
	}
	c := &checker{d: d}
	c.walk(n, "$", 0)
	return c.errs
}

type checker struct {
	d    *Dispatcher
	errs []Error
}

func (c *checker) add(e *Error, loc string) {
	e.Location = loc + e.Location
	c.errs = append(c.errs, *e)
}

func (c *checker) walk(n ast.Node, loc string, depth int) {
	if n == nil {
		c.add(newError(ErrUnsupportedNodeKind, "", "missing node"), loc)
		return
	}
	if c.d.maxDepth > 0 && depth >= c.d.maxDepth {
		c.add(newError(ErrDepthExceeded, n.Kind(), "nesting exceeds max depth %d", c.d.maxDepth), loc)
		return
	}
	if _, ok := c.d.handlers[n.Kind()]; !ok {
		c.add(newError(ErrUnsupportedNodeKind, n.Kind(), "unsupported node kind %s", describeKind(n.Kind())), loc)
		return
	}

	switch node := n.(type) {
	case *ast.ArrayExpression:
		for i, elem := range node.Elements {
			c.walk(elem, fmt.Sprintf("%s.elements[%d]", loc, i), depth+1)
		}
	case *ast.ObjectExpression:
		for i, prop := range node.Properties {
			c.walk(prop.Value, fmt.Sprintf("%s.properties[%d].value", loc, i), depth+1)
		}
	case *ast.MemberExpression:
		if _, err := flattenMember(node); err != nil {
			c.add(err, loc)
		}
	case *ast.CallExpression:
		c.walkCallee(node.Callee, loc+".callee", depth+1)
		for i, arg := range node.Arguments {
			argLoc := fmt.Sprintf("%s.arguments[%d]", loc, i)
			k := kindOf(arg)
			if !argumentKinds[k] {
				e := newError(ErrUnsupportedArgumentKind, k, "argument %d has unsupported kind %s", i, describeKind(k))
				e.Position = i
				c.add(e, argLoc)
				continue
			}
			c.walk(arg, argLoc, depth+1)
		}
	case *ast.Identifier, *ast.StringLiteral, *ast.NumericLiteral, *ast.BooleanLiteral:
	default:
		c.add(mismatch(n, n.Kind()), loc)
	}
}

func (c *checker) walkCallee(callee ast.Node, loc string, depth int) {
	switch callee.(type) {
	case *ast.Identifier:
	case *ast.MemberExpression:
		c.walk(callee, loc, depth)
	default:
		c.add(newError(ErrUnsupportedCalleeKind, kindOf(callee),
			"callee must be an Identifier or MemberExpression, got %s", describeKind(kindOf(callee))), loc)
	}
}
