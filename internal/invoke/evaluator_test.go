package invoke

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/callir/internal/ir"
)

func recorder(calls *[]string, name string, result any) Func {
	return func(_ context.Context, args []any) (any, error) {
		*calls = append(*calls, name)
		return result, nil
	}
}

func TestEvaluate_Literals(t *testing.T) {
	e := NewEvaluator(MapRegistry{})
	tests := []struct {
		name string
		in   ir.Value
		want any
	}{
		{"string", ir.String("x"), "x"},
		{"number", ir.Number(2.5), 2.5},
		{"bool", ir.Bool(true), true},
		{"bare identifier", ir.Identifier("word"), "word"},
		{"array", ir.Array{ir.Number(1), ir.String("a")}, []any{1.0, "a"}},
		{"object", ir.NewObject(ir.O("k", ir.Bool(false))), map[string]any{"k": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Evaluate(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Value)
			assert.Empty(t, res.Trace)
		})
	}
}

func TestEvaluate_ArgumentsBeforeCall(t *testing.T) {
	var calls []string
	reg := MapRegistry{
		"outer": func(_ context.Context, args []any) (any, error) {
			calls = append(calls, "outer")
			return args, nil
		},
		"a": recorder(&calls, "a", "A"),
		"b": recorder(&calls, "b", "B"),
	}

	// outer(a(), [b()])
	v := ir.NewCall(ir.Identifier("outer"),
		ir.NewCall(ir.Identifier("a")),
		ir.Array{ir.NewCall(ir.Identifier("b"))},
	)
	res, err := NewEvaluator(reg).Evaluate(context.Background(), v)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "outer"}, calls)
	assert.Equal(t, []any{"A", []any{"B"}}, res.Value)

	require.Len(t, res.Trace, 3)
	assert.Equal(t, []string{"a", "b", "outer"}, res.Trace.Funcs())
	assert.Equal(t, []int64{1, 2, 3}, []int64{res.Trace[0].Seq, res.Trace[1].Seq, res.Trace[2].Seq})
	assert.Equal(t, 0, res.Trace[2].Depth)
	assert.Equal(t, 1, res.Trace[0].Depth)
	assert.Equal(t, 2, res.Trace[1].Depth)
}

func TestEvaluate_PathCallee(t *testing.T) {
	reg := MapRegistry{
		"tools.search": func(_ context.Context, args []any) (any, error) {
			return "searched:" + args[0].(string), nil
		},
	}
	res, err := NewEvaluator(reg).Evaluate(context.Background(),
		ir.NewCall(ir.Path{"tools", "search"}, ir.String("q")))
	require.NoError(t, err)
	assert.Equal(t, "searched:q", res.Value)
	assert.Equal(t, "tools.search", res.Trace[0].Func)
}

func TestEvaluate_UnknownFunction(t *testing.T) {
	_, err := NewEvaluator(MapRegistry{}).Evaluate(context.Background(), ir.NewCall(ir.Identifier("nope")))
	require.Error(t, err)
	assert.True(t, IsUnknownFunctionError(err))

	var ue *UnknownFunctionError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "nope", ue.Name)
}

func TestEvaluate_UnknownFunctionAfterArguments(t *testing.T) {
	boom := errors.New("boom")
	var calls []string
	reg := MapRegistry{
		"fail": func(context.Context, []any) (any, error) { return nil, boom },
		"ok":   recorder(&calls, "ok", "fine"),
	}
	e := NewEvaluator(reg)

	// nope(fail()): the argument's error wins over the unknown callee.
	_, err := e.Evaluate(context.Background(), ir.NewCall(ir.Identifier("nope"), ir.NewCall(ir.Identifier("fail"))))
	require.Error(t, err)
	assert.False(t, IsUnknownFunctionError(err))
	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "fail", ce.Func)

	// nope(ok()): the argument runs, then the lookup fails.
	_, err = e.Evaluate(context.Background(), ir.NewCall(ir.Identifier("nope"), ir.NewCall(ir.Identifier("ok"))))
	require.Error(t, err)
	assert.True(t, IsUnknownFunctionError(err))
	assert.Equal(t, []string{"ok"}, calls)
}

func TestEvaluate_FunctionError(t *testing.T) {
	boom := errors.New("boom")
	reg := MapRegistry{"fail": func(context.Context, []any) (any, error) { return nil, boom }}

	res, err := NewEvaluator(reg).Evaluate(context.Background(), ir.NewCall(ir.Identifier("fail")))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)

	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "fail", ce.Func)
	assert.Equal(t, int64(1), ce.Seq)
}

func TestEvaluate_MaxCalls(t *testing.T) {
	var calls []string
	reg := MapRegistry{"f": recorder(&calls, "f", 1.0)}
	v := ir.Array{
		ir.NewCall(ir.Identifier("f")),
		ir.NewCall(ir.Identifier("f")),
		ir.NewCall(ir.Identifier("f")),
	}

	_, err := NewEvaluator(reg, WithMaxCalls(2)).Evaluate(context.Background(), v)
	require.Error(t, err)
	assert.True(t, IsQuotaExceededError(err))
	assert.Len(t, calls, 2)

	// The quota is per evaluation, not per evaluator.
	e := NewEvaluator(reg, WithMaxCalls(3))
	for i := 0; i < 3; i++ {
		_, err := e.Evaluate(context.Background(), v)
		require.NoError(t, err)
	}
}

func TestEvaluate_ContextCancelled(t *testing.T) {
	var calls []string
	reg := MapRegistry{"f": recorder(&calls, "f", nil)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEvaluator(reg).Evaluate(ctx, ir.NewCall(ir.Identifier("f")))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestEvaluate_Bindings(t *testing.T) {
	reg := MapRegistry{"id": func(_ context.Context, args []any) (any, error) { return args[0], nil }}
	e := NewEvaluator(reg, WithBindings(map[string]any{
		"user": map[string]any{"name": "ada"},
		"n":    3.0,
	}))

	res, err := e.Evaluate(context.Background(), ir.NewCall(ir.Identifier("id"), ir.Path{"user", "name"}))
	require.NoError(t, err)
	assert.Equal(t, "ada", res.Value)

	res, err = e.Evaluate(context.Background(), ir.NewCall(ir.Identifier("id"), ir.Identifier("n")))
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Value)

	_, err = e.Evaluate(context.Background(), ir.NewCall(ir.Identifier("id"), ir.Path{"user", "email"}))
	var pe *UnresolvedPathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "user.email", pe.Path)
	assert.Equal(t, "email", pe.Missing)
}

func TestEvaluate_SharedClock(t *testing.T) {
	clock := NewClockAt(100)
	reg := MapRegistry{"f": func(context.Context, []any) (any, error) { return true, nil }}
	e := NewEvaluator(reg, WithClock(clock))

	res, err := e.Evaluate(context.Background(), ir.NewCall(ir.Identifier("f")))
	require.NoError(t, err)
	assert.Equal(t, int64(101), res.Trace[0].Seq)

	res, err = e.Evaluate(context.Background(), ir.NewCall(ir.Identifier("f")))
	require.NoError(t, err)
	assert.Equal(t, int64(102), res.Trace[0].Seq)
}

func TestMapRegistry(t *testing.T) {
	r := MapRegistry{}
	r.Register("b", nil)
	r.Register("a", nil)
	assert.Equal(t, []string{"a", "b"}, r.Names())

	merged := r.Merge(MapRegistry{"c": nil})
	assert.Equal(t, []string{"a", "b", "c"}, merged.Names())
	assert.Len(t, r, 2)

	_, ok := merged.Lookup("c")
	assert.True(t, ok)
}
