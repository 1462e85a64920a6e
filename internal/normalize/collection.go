package normalize

import (
	"fmt"

	"github.com/roach88/callir/internal/ast"
	"github.com/roach88/callir/internal/ir"
)

func resolveArray(r Resolver, n ast.Node) (ir.Value, error) {
	arr, ok := n.(*ast.ArrayExpression)
	if !ok {
		return nil, mismatch(n, ast.KindArrayExpression)
	}
	out := make(ir.Array, len(arr.Elements))
	for i, elem := range arr.Elements {
		v, err := r.Resolve(elem)
		if err != nil {
			return nil, at(err, fmt.Sprintf(".elements[%d]", i))
		}
		out[i] = v
	}
	return out, nil
}

// resolveObject keeps keys as literal strings. Duplicate keys collapse
// with the last value winning.
func resolveObject(r Resolver, n ast.Node) (ir.Value, error) {
	obj, ok := n.(*ast.ObjectExpression)
	if !ok {
		return nil, mismatch(n, ast.KindObjectExpression)
	}
	pairs := make([]ir.Pair, len(obj.Properties))
	for i, prop := range obj.Properties {
		v, err := r.Resolve(prop.Value)
		if err != nil {
			return nil, at(err, fmt.Sprintf(".properties[%d].value", i))
		}
		pairs[i] = ir.Pair{Key: prop.Key, Value: v}
	}
	return ir.NewObject(pairs...), nil
}
