package typespec

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleClass() ClassSpec {
	return ClassSpec{
		Name:      "Vault",
		Docstring: "base",
		PublicAttributes: []ValueSpec{
			{Name: "account_id", Type: "str", Docstring: "The account id."},
		},
		PublicMethods: []MethodSpec{
			{
				Name: "get_parameter_timeseries",
				Args: []ValueSpec{{Name: "name", Type: "str"}},
				ReturnValue: &ReturnValueSpec{
					Type: "ParameterTimeseries",
				},
			},
			{
				Name: "get_postings",
				Args: []ValueSpec{{Name: "include_proposed", Type: "Optional[bool]"}},
			},
		},
	}
}

func TestTypeChecker_Builtins(t *testing.T) {
	c := NewTypeChecker()

	tests := []struct {
		expr string
		v    any
		want bool
	}{
		{"str", "x", true},
		{"str", 1, false},
		{"int", 3, true},
		{"int", int64(3), true},
		{"int", "3", false},
		{"bool", true, true},
		{"datetime", time.Now(), true},
		{"Optional[str]", nil, true},
		{"Optional[str]", "a", true},
		{"Optional[str]", 1, false},
		{"List[str]", []string{"a", "b"}, true},
		{"List[str]", []any{"a", 1}, false},
		{"Dict[str, int]", map[string]int{"a": 1}, true},
		{"Dict[str, int]", map[string]string{"a": "b"}, false},
		{"Union[str, int]", 1, true},
		{"str | None", nil, true},
		{"Tuple[str, str]", [2]string{"a", "b"}, true},
		{"Tuple[str, str]", []string{"a"}, false},
		{"Unregistered", "x", false},
		{"Any", struct{}{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Check(tt.expr, tt.v))
		})
	}
}

func TestTypeChecker_Register(t *testing.T) {
	c := NewTypeChecker()
	require.False(t, c.Known("Decimal"))

	c.Register("Decimal", func(v any) bool { _, ok := v.(float64); return ok })
	require.True(t, c.Known("Decimal"))
	assert.True(t, c.Check("List[Decimal]", []float64{1.5}))

	err := c.Assert("Decimal", "1.5", "Posting.amount")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.Contains(t, err.Error(), "Posting.amount expected Decimal")
}

func TestClassSpec_AssertMethodArgs(t *testing.T) {
	c := NewTypeChecker()
	spec := sampleClass()

	require.NoError(t, spec.AssertMethodArgs(c, "get_parameter_timeseries", map[string]any{"name": "rate"}))
	require.NoError(t, spec.AssertMethodArgs(c, "get_postings", map[string]any{"include_proposed": nil}))

	err := spec.AssertMethodArgs(c, "get_balances", nil)
	require.ErrorIs(t, err, ErrMissingSpec)
	assert.Equal(t, "MethodSpec missing on class Vault for method 'get_balances'", err.Error())

	err = spec.AssertMethodArgs(c, "get_parameter_timeseries", map[string]any{"flag": "x"})
	require.ErrorIs(t, err, ErrMissingSpec)
	assert.Equal(t, "ArgSpec missing on class Vault for method get_parameter_timeseries arg 'flag'", err.Error())

	err = spec.AssertMethodArgs(c, "get_parameter_timeseries", map[string]any{"name": 42})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestClassSpec_AssertConstructorAndAttribute(t *testing.T) {
	c := NewTypeChecker()
	spec := sampleClass()

	err := spec.AssertConstructorArgs(c, map[string]any{})
	require.ErrorIs(t, err, ErrMissingSpec)

	spec.Constructor = &ConstructorSpec{Args: []ValueSpec{{Name: "message", Type: "str"}}}
	require.NoError(t, spec.AssertConstructorArgs(c, map[string]any{"message": "no"}))
	require.ErrorIs(t, spec.AssertConstructorArgs(c, map[string]any{"reason": "no"}), ErrMissingSpec)

	require.NoError(t, spec.AssertAttributeValue(c, "account_id", "main"))
	require.ErrorIs(t, spec.AssertAttributeValue(c, "tside", "ASSET"), ErrTypeMismatch)
}

func TestMergeClassSpecs(t *testing.T) {
	base := sampleClass()
	derived := ClassSpec{
		Name: "Vault330",
		PublicMethods: []MethodSpec{
			{Name: "get_postings", Docstring: "redocumented"},
			{Name: "localize_datetime", Args: []ValueSpec{{Name: "dt", Type: "datetime"}}},
		},
	}

	merged := MergeClassSpecs(derived, base)
	assert.Equal(t, "Vault330", merged.Name)
	assert.Equal(t, "base", merged.Docstring)
	assert.Equal(t, []string{"get_parameter_timeseries", "get_postings", "localize_datetime"}, merged.MethodNames())

	m, ok := merged.Method("get_postings")
	require.True(t, ok)
	assert.Equal(t, "redocumented", m.Docstring)

	// base untouched
	m, _ = base.Method("get_postings")
	assert.Empty(t, m.Docstring)
}

func TestRegistry_Export(t *testing.T) {
	r := NewRegistry()
	r.RegisterClass(sampleClass(), func(v any) bool { return v != nil })
	r.RegisterEnum(EnumSpec{
		Name:    "Tside",
		Members: []EnumMember{{Name: "ASSET", Value: 1}, {Name: "LIABILITY", Value: 2}},
	}, nil)
	r.RegisterException(ExceptionSpec{Name: "InvalidSmartContractError"})

	require.True(t, r.Checker().Known("Vault"))
	e, ok := r.Enum("Tside")
	require.True(t, ok)
	assert.True(t, e.Has("ASSET"))
	assert.False(t, e.Has("EQUITY"))

	var y bytes.Buffer
	require.NoError(t, r.Export(&y, "4.0.0", FormatYAML))
	var doc Document
	require.NoError(t, yaml.Unmarshal(y.Bytes(), &doc))
	assert.Equal(t, "4.0.0", doc.Version)
	require.Len(t, doc.Classes, 1)
	assert.Equal(t, "Vault", doc.Classes[0].Name)

	var j bytes.Buffer
	require.NoError(t, r.Export(&j, "4.0.0", FormatJSON))
	require.True(t, json.Valid(j.Bytes()))

	var md bytes.Buffer
	require.NoError(t, r.Export(&md, "4.0.0", FormatMarkdown))
	assert.Contains(t, md.String(), "### get_parameter_timeseries(name)")
	assert.Contains(t, md.String(), "## enum Tside")

	require.Error(t, r.Export(&md, "4.0.0", "toml"))
}
