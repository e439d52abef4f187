// Package typespec holds the self-describing specification records for the
// contract API: classes, methods, values and enums. The records drive
// documentation export and the strict test doubles in pkg/vaultapi.
package typespec

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	ErrCodeMissingSpec  = "ERR_TYPESPEC_MISSING_SPEC"
	ErrCodeTypeMismatch = "ERR_TYPESPEC_TYPE_MISMATCH"
)

var (
	// ErrMissingSpec reports a lookup of a method, argument or constructor
	// that the owning ClassSpec does not declare.
	ErrMissingSpec = errors.New("typespec: missing spec")
	// ErrTypeMismatch reports a value that does not satisfy its declared type.
	ErrTypeMismatch = errors.New("typespec: type mismatch")
)

// SpecError is returned by the Assert* helpers.
type SpecError struct {
	Code    string
	Message string
}

func (e *SpecError) Error() string {
	return e.Message
}

// Is maps the error code onto the package sentinels.
func (e *SpecError) Is(target error) bool {
	switch e.Code {
	case ErrCodeMissingSpec:
		return target == ErrMissingSpec
	case ErrCodeTypeMismatch:
		return target == ErrTypeMismatch
	}
	return false
}

func missingSpec(format string, args ...any) error {
	return &SpecError{Code: ErrCodeMissingSpec, Message: fmt.Sprintf(format, args...)}
}

// ValueSpec describes an exposed value: an argument or an attribute.
type ValueSpec struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Docstring string `json:"docstring" yaml:"docstring"`
}

// FixedValueSpec describes a constant exposed by the API.
type FixedValueSpec struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	FixedValue any    `json:"fixed_value" yaml:"fixed_value"`
	Docstring  string `json:"docstring" yaml:"docstring"`
}

// ReturnValueSpec describes a method's return value.
type ReturnValueSpec struct {
	Type      string `json:"type" yaml:"type"`
	Docstring string `json:"docstring" yaml:"docstring"`
}

// EnumMember is one member of an EnumSpec.
type EnumMember struct {
	Name      string `json:"name" yaml:"name"`
	Value     any    `json:"value" yaml:"value"`
	Docstring string `json:"docstring,omitempty" yaml:"docstring,omitempty"`
}

// EnumSpec describes a custom enum.
type EnumSpec struct {
	Name       string       `json:"name" yaml:"name"`
	Docstring  string       `json:"docstring" yaml:"docstring"`
	Members    []EnumMember `json:"members" yaml:"members"`
	ShowValues bool         `json:"show_values,omitempty" yaml:"show_values,omitempty"`
}

// Has reports whether name is a member of the enum.
func (e EnumSpec) Has(name string) bool {
	for _, m := range e.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Example is a documentation snippet attached to a method.
type Example struct {
	Title string `json:"title" yaml:"title"`
	Code  string `json:"code" yaml:"code"`
}

// MethodSpec describes a public method. Args keep declaration order.
type MethodSpec struct {
	Name        string           `json:"name" yaml:"name"`
	Docstring   string           `json:"docstring" yaml:"docstring"`
	Args        []ValueSpec      `json:"args,omitempty" yaml:"args,omitempty"`
	ReturnValue *ReturnValueSpec `json:"return_value,omitempty" yaml:"return_value,omitempty"`
	Examples    []Example        `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Arg returns the spec of the named argument.
func (m MethodSpec) Arg(name string) (ValueSpec, bool) {
	for _, a := range m.Args {
		if a.Name == name {
			return a, true
		}
	}
	return ValueSpec{}, false
}

// ArgNames returns argument names in declaration order.
func (m MethodSpec) ArgNames() []string {
	names := make([]string, 0, len(m.Args))
	for _, a := range m.Args {
		names = append(names, a.Name)
	}
	return names
}

// AssertArgs checks every supplied argument is declared and type-correct.
func (m MethodSpec) AssertArgs(checker *TypeChecker, owner string, args map[string]any) error {
	for _, name := range sortedKeys(args) {
		spec, ok := m.Arg(name)
		if !ok {
			return missingSpec("ArgSpec missing on class %s for method %s arg '%s'", owner, m.Name, name)
		}
		if err := checker.Assert(spec.Type, args[name], fmt.Sprintf("%s.%s arg '%s'", owner, m.Name, name)); err != nil {
			return err
		}
	}
	return nil
}

// ConstructorSpec describes a class constructor.
type ConstructorSpec struct {
	Docstring string      `json:"docstring" yaml:"docstring"`
	Args      []ValueSpec `json:"args,omitempty" yaml:"args,omitempty"`
}

// AssertArgs checks constructor arguments against the spec.
func (c ConstructorSpec) AssertArgs(checker *TypeChecker, owner string, args map[string]any) error {
	m := MethodSpec{Name: "__init__", Args: c.Args}
	for _, name := range sortedKeys(args) {
		spec, ok := m.Arg(name)
		if !ok {
			return missingSpec("ArgSpec missing on class %s for constructor arg '%s'", owner, name)
		}
		if err := checker.Assert(spec.Type, args[name], fmt.Sprintf("%s.__init__ arg '%s'", owner, name)); err != nil {
			return err
		}
	}
	return nil
}

// ExceptionSpec describes an error type exposed to contract authors.
type ExceptionSpec struct {
	Name            string      `json:"name" yaml:"name"`
	Docstring       string      `json:"docstring" yaml:"docstring"`
	ConstructorArgs []ValueSpec `json:"constructor_args,omitempty" yaml:"constructor_args,omitempty"`
}

// ClassSpec describes a public class: its attributes, constructor and methods.
type ClassSpec struct {
	Name             string           `json:"name" yaml:"name"`
	Docstring        string           `json:"docstring" yaml:"docstring"`
	PublicAttributes []ValueSpec      `json:"public_attributes,omitempty" yaml:"public_attributes,omitempty"`
	Constructor      *ConstructorSpec `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	PublicMethods    []MethodSpec     `json:"public_methods,omitempty" yaml:"public_methods,omitempty"`
}

// Method returns the named method spec.
func (c ClassSpec) Method(name string) (MethodSpec, bool) {
	for _, m := range c.PublicMethods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodSpec{}, false
}

// Attribute returns the named attribute spec.
func (c ClassSpec) Attribute(name string) (ValueSpec, bool) {
	for _, a := range c.PublicAttributes {
		if a.Name == name {
			return a, true
		}
	}
	return ValueSpec{}, false
}

// MethodNames returns method names in declaration order.
func (c ClassSpec) MethodNames() []string {
	names := make([]string, 0, len(c.PublicMethods))
	for _, m := range c.PublicMethods {
		names = append(names, m.Name)
	}
	return names
}

// AssertConstructorArgs validates args against the constructor spec.
func (c ClassSpec) AssertConstructorArgs(checker *TypeChecker, args map[string]any) error {
	if c.Constructor == nil {
		return missingSpec("ConstructorSpec missing on class %s", c.Name)
	}
	return c.Constructor.AssertArgs(checker, c.Name, args)
}

// AssertMethodArgs validates args against the named method.
func (c ClassSpec) AssertMethodArgs(checker *TypeChecker, method string, args map[string]any) error {
	m, ok := c.Method(method)
	if !ok {
		return missingSpec("MethodSpec missing on class %s for method '%s'", c.Name, method)
	}
	return m.AssertArgs(checker, c.Name, args)
}

// AssertAttributeValue validates a value assigned to the named attribute.
func (c ClassSpec) AssertAttributeValue(checker *TypeChecker, name string, value any) error {
	a, ok := c.Attribute(name)
	if !ok {
		return &SpecError{
			Code:    ErrCodeTypeMismatch,
			Message: fmt.Sprintf("ValueSpec missing on class %s for attribute %s", c.Name, name),
		}
	}
	return checker.Assert(a.Type, value, c.Name+"."+name)
}

// MergeClassSpecs returns a new spec where derived values override base
// values. Attributes and methods keep the base order; entries new in derived
// are appended.
func MergeClassSpecs(derived, base ClassSpec) ClassSpec {
	out := ClassSpec{
		Name:        derived.Name,
		Docstring:   derived.Docstring,
		Constructor: derived.Constructor,
	}
	if out.Docstring == "" {
		out.Docstring = base.Docstring
	}
	if out.Constructor == nil {
		out.Constructor = base.Constructor
	}
	out.PublicAttributes = mergeValues(base.PublicAttributes, derived.PublicAttributes)
	out.PublicMethods = mergeMethods(base.PublicMethods, derived.PublicMethods)
	return out
}

func mergeValues(base, derived []ValueSpec) []ValueSpec {
	out := append([]ValueSpec(nil), base...)
	for _, d := range derived {
		replaced := false
		for i := range out {
			if out[i].Name == d.Name {
				out[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, d)
		}
	}
	return out
}

func mergeMethods(base, derived []MethodSpec) []MethodSpec {
	out := append([]MethodSpec(nil), base...)
	for _, d := range derived {
		replaced := false
		for i := range out {
			if out[i].Name == d.Name {
				out[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, d)
		}
	}
	return out
}
