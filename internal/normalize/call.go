package normalize

import (
	"fmt"

	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/ir"
)

// argumentKinds is the closed set of node kinds a call argument may have.
// MemberExpression is deliberately absent: paths name callees, not values.
var argumentKinds = map[ast.Kind]bool{
	ast.KindStringLiteral:    true,
	ast.KindNumericLiteral:   true,
	ast.KindBooleanLiteral:   true,
	ast.KindArrayExpression:  true,
	ast.KindObjectExpression: true,
	ast.KindCallExpression:   true,
	ast.KindIdentifier:       true,
}

// IsArgumentKind reports whether k may appear directly as a call argument.
func IsArgumentKind(k ast.Kind) bool {
	return argumentKinds[k]
}

func resolveCall(r Resolver, n ast.Node) (ir.Value, error) {
	call, ok := n.(*ast.CallExpression)
	if !ok {
		return nil, mismatch(n, ast.KindCallExpression)
	}

	fn, err := resolveCallee(r, call.Callee)
	if err != nil {
		return nil, at(err, ".callee")
	}

	if err := checkArguments(call.Arguments); err != nil {
		return nil, err
	}

	args := make([]ir.Value, len(call.Arguments))
	for i, arg := range call.Arguments {
		v, err := r.Resolve(arg)
		if err != nil {
			return nil, at(err, fmt.Sprintf(".arguments[%d]", i))
		}
		args[i] = v
	}
	return &ir.Call{Func: fn, Args: args}, nil
}

func resolveCallee(r Resolver, callee ast.Node) (ir.Callee, error) {
	switch c := callee.(type) {
	case *ast.Identifier:
		return ir.Identifier(CanonicalName(c.Name)), nil
	case *ast.MemberExpression:
		v, err := r.Resolve(c)
		if err != nil {
			return nil, err
		}
		path, ok := v.(ir.Path)
		if !ok {
			return nil, newError(ErrUnsupportedCalleeKind, c.Kind(), "member callee resolved to %s, not a path", v.Type())
		}
		return path, nil
	default:
		return nil, newError(ErrUnsupportedCalleeKind, kindOf(callee),
			"callee must be an Identifier or MemberExpression, got %s", describeKind(kindOf(callee)))
	}
}

// checkArguments gates argument kinds before any argument is resolved.
// It stops at the first offending position.
func checkArguments(args []ast.Node) *Error {
	for i, arg := range args {
		k := kindOf(arg)
		if argumentKinds[k] {
			continue
		}
		e := newError(ErrUnsupportedArgumentKind, k, "argument %d has unsupported kind %s", i, describeKind(k))
		e.Position = i
		e.Location = fmt.Sprintf(".arguments[%d]", i)
		return e
	}
	return nil
}
