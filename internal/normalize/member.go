package normalize

import (
	"strings"

	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/ir"
)

// resolveMember flattens a.b["c"] into Path{a, b, c}. The chain is walked
// directly; only static segments are accepted and nothing is evaluated.
func resolveMember(_ Resolver, n ast.Node) (ir.Value, error) {
	m, ok := n.(*ast.MemberExpression)
	if !ok {
		return nil, mismatch(n, ast.KindMemberExpression)
	}
	path, err := flattenMember(m)
	if err != nil {
		return nil, err
	}
	return path, nil
}

// flattenMember returns the path or an *Error located relative to m.
func flattenMember(m *ast.MemberExpression) (ir.Path, *Error) {
	// chain[0] is m itself; chain[i].Object == chain[i+1].
	var chain []*ast.MemberExpression
	var cur ast.Node = m
	for {
		next, ok := cur.(*ast.MemberExpression)
		if !ok {
			break
		}
		chain = append(chain, next)
		cur = next.Object
	}

	root, ok := cur.(*ast.Identifier)
	if !ok {
		e := newError(ErrUnsupportedPathSegment, kindOf(cur), "path root must be an Identifier, got %s", describeKind(kindOf(cur)))
		e.Location = strings.Repeat(".object", len(chain))
		return nil, e
	}

	path := make(ir.Path, 0, len(chain)+1)
	path = append(path, root.Name)
	for i := len(chain) - 1; i >= 0; i-- {
		seg, err := pathSegment(chain[i])
		if err != nil {
			err.Segments = append([]string(nil), path...)
			err.Location = strings.Repeat(".object", i) + ".property"
			return nil, err
		}
		path = append(path, seg)
	}
	return path, nil
}

// pathSegment extracts one static segment. Dotted access takes an
// Identifier; computed access takes a string literal or an Identifier.
func pathSegment(m *ast.MemberExpression) (string, *Error) {
	switch p := m.Property.(type) {
	case *ast.Identifier:
		return p.Name, nil
	case *ast.StringLiteral:
		if m.Computed {
			return p.Value, nil
		}
	}
	if m.Computed {
		return "", newError(ErrUnsupportedPathSegment, kindOf(m.Property),
			"computed member access must use a string literal or identifier, got %s", describeKind(kindOf(m.Property)))
	}
	return "", newError(ErrUnsupportedPathSegment, kindOf(m.Property),
		"member property must be an Identifier, got %s", describeKind(kindOf(m.Property)))
}
