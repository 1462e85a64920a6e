package normalize

import (
	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/ir"
)

// CanonicalName strips one pair of matching quotes (" or ') when they wrap
// the entire token and enclose at least one character. Anything else,
// including interior quotes, is returned unchanged.
//
//	"foo"   -> foo
//	'foo'   -> foo
//	fo"o    -> fo"o
//	"foo'   -> "foo'
//	""      -> ""
func CanonicalName(raw string) string {
	if len(raw) < 3 {
		return raw
	}
	first, last := raw[0], raw[len(raw)-1]
	if (first == '"' || first == '\'') && first == last {
		return raw[1 : len(raw)-1]
	}
	return raw
}

func resolveIdentifier(_ Resolver, n ast.Node) (ir.Value, error) {
	id, ok := n.(*ast.Identifier)
	if !ok {
		return nil, mismatch(n, ast.KindIdentifier)
	}
	return ir.Identifier(CanonicalName(id.Name)), nil
}

func resolveString(_ Resolver, n ast.Node) (ir.Value, error) {
	s, ok := n.(*ast.StringLiteral)
	if !ok {
		return nil, mismatch(n, ast.KindStringLiteral)
	}
	return ir.String(s.Value), nil
}

func resolveNumber(_ Resolver, n ast.Node) (ir.Value, error) {
	num, ok := n.(*ast.NumericLiteral)
	if !ok {
		return nil, mismatch(n, ast.KindNumericLiteral)
	}
	return ir.Number(num.Value), nil
}

func resolveBool(_ Resolver, n ast.Node) (ir.Value, error) {
	b, ok := n.(*ast.BooleanLiteral)
	if !ok {
		return nil, mismatch(n, ast.KindBooleanLiteral)
	}
	return ir.Bool(b.Value), nil
}

// mismatch covers an Unsupported node whose type tag collides with a
// supported kind name.
func mismatch(n ast.Node, want ast.Kind) *Error {
	return newError(ErrUnsupportedNodeKind, n.Kind(), "node tagged %s is not a %s node (%T)", n.Kind(), want, n)
}
