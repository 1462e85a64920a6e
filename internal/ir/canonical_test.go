package ir

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"float integral", float64(2), "2"},
		{"float fraction", 2.5, "2.5"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array of numbers", []any{float64(1), float64(2), float64(3)}, "[1,2,3]"},
		{"simple object", map[string]any{"a": float64(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNumberFormatting(t *testing.T) {
	// ECMAScript Number.prototype.toString forms, per RFC 8785 section 3.2.2.3.
	tests := []struct {
		input    float64
		expected string
	}{
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{123456789, "123456789"},
		{0.000001, "0.000001"},
		{0.0000001, "1e-7"},
		{1.5e-7, "1.5e-7"},
		{-3.25, "-3.25"},
		{9007199254740992, "9007199254740992"},
		{5e-324, "5e-324"},
		{1.7976931348623157e308, "1.7976931348623157e+308"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := MarshalCanonical(f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not representable")
	}

	_, err := Marshal(Array{Number(math.NaN())})
	require.Error(t, err)
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": float64(1),
		"alpha": float64(2),
		"beta":  float64(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000 - UTF-16 order differs from UTF-8
	obj := map[string]any{
		"\uE000":     float64(1), // UTF-16: 0xE000
		"\U00010000": float64(2), // UTF-16: 0xD800, 0xDC00 (surrogate pair)
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	// UTF-16 order: 0xD800 < 0xE000, so U+10000 comes first
	expected := `{"` + "\U00010000" + `":2,"` + "\uE000" + `":1}`
	assert.Equal(t, expected, string(result))
}

func TestSortedKeysDifferFromUTF8Sort(t *testing.T) {
	keys := sortedKeys(map[string]any{"\uE000": 1, "\U00010000": 2})
	assert.Equal(t, []string{"\U00010000", "\uE000"}, keys)

	utf8Order := []string{"\U00010000", "\uE000"}
	sort.Strings(utf8Order)
	assert.NotEqual(t, keys, utf8Order, "UTF-8 and UTF-16 orders MUST differ for this test")
}

func TestCompareKeysRFC8785(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"a", "b", -1},
		{"b", "a", 1},
		{"a", "a", 0},
		{"aa", "a", 1},
		{"a", "aa", -1},
		{"A", "a", -1},
		{"", "", 0},
		{"", "a", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			result := compareKeysRFC8785(tt.a, tt.b)
			switch {
			case tt.expected < 0:
				assert.Less(t, result, 0)
			case tt.expected > 0:
				assert.Greater(t, result, 0)
			default:
				assert.Equal(t, 0, result)
			}
		})
	}
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical(String("<script>alert('x') & more</script>"))
	require.NoError(t, err)

	assert.Contains(t, string(result), `"value":"<script>alert('x') & more</script>"`)
	assert.NotContains(t, string(result), "\\u003c")
	assert.NotContains(t, string(result), "\\u003e")
	assert.NotContains(t, string(result), "\\u0026")
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	result, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))

	// A literal backslash followed by the text u2028 must stay escaped.
	result, err = MarshalCanonical(`x\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(result))
}

func TestMarshalCanonicalEscapesControlCharacters(t *testing.T) {
	result, err := MarshalCanonical("tab\there\nquote\"back\\")
	require.NoError(t, err)
	assert.Equal(t, `"tab\there\nquote\"back\\"`, string(result))
}

func TestMarshalCanonicalKeepsUnicodeForm(t *testing.T) {
	composed := "caf\u00E9"    // precomposed e-acute
	decomposed := "cafe\u0301" // e + combining acute accent

	result1, err := MarshalCanonical(String(composed))
	require.NoError(t, err)
	result2, err := MarshalCanonical(String(decomposed))
	require.NoError(t, err)

	assert.NotEqual(t, result1, result2)
	assert.Equal(t, `"cafe\u0301"`, string(result2))
	assert.NotEqual(t, MustExpressionID(String(composed)), MustExpressionID(String(decomposed)))
}

func TestMarshalRoundTripDecomposedStrings(t *testing.T) {
	v := NewCall(Identifier("tag"),
		String("e\u0301"),
		NewObject(O("e\u0301", Number(1)), O("\u00e9", Number(2))),
	)

	data, err := Marshal(v)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	obj := got.(*Call).Args[1].(*Object)
	assert.Len(t, obj.Keys(), 2)
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")

	_, err = MarshalCanonical(map[string]any{"k": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `value for key "k"`)
}

func TestMarshalCanonicalRejectsUnsupportedTypes(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestMarshalCanonicalDeterministic(t *testing.T) {
	v := NewCall(Identifier("f"), NewObject(O("b", Number(1)), O("a", Number(2))))
	first, err := Marshal(v)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
