package typespec

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// TypeChecker validates Go values against the type-name expressions used in
// specs, e.g. "Optional[List[str]]" or "Dict[str, Decimal]".
//
// Named types are resolved through registered predicates. The builtin names
// are str, int, float, bool, datetime, Any and None.
type TypeChecker struct {
	mu    sync.RWMutex
	named map[string]func(any) bool
}

// NewTypeChecker returns a checker preloaded with the builtin names.
func NewTypeChecker() *TypeChecker {
	c := &TypeChecker{named: make(map[string]func(any) bool)}
	c.named["str"] = func(v any) bool { return kindOf(v) == reflect.String }
	c.named["int"] = isInt
	c.named["float"] = func(v any) bool {
		k := kindOf(v)
		return k == reflect.Float32 || k == reflect.Float64
	}
	c.named["bool"] = func(v any) bool { return kindOf(v) == reflect.Bool }
	c.named["datetime"] = func(v any) bool {
		switch v.(type) {
		case time.Time, *time.Time:
			return true
		}
		return false
	}
	c.named["Any"] = func(any) bool { return true }
	c.named["None"] = isNil
	return c
}

// Register binds a type name to a predicate. Later registrations win.
func (c *TypeChecker) Register(name string, check func(any) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.named[name] = check
}

// Known reports whether name resolves to a registered predicate.
func (c *TypeChecker) Known(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.named[name]
	return ok
}

// Check reports whether v satisfies typeExpr. Unknown names never match.
func (c *TypeChecker) Check(typeExpr string, v any) bool {
	expr := strings.TrimSpace(typeExpr)
	if parts := splitTopLevel(expr, '|'); len(parts) > 1 {
		for _, p := range parts {
			if c.Check(p, v) {
				return true
			}
		}
		return false
	}

	name, params := parseGeneric(expr)
	switch name {
	case "Optional":
		if len(params) != 1 {
			return false
		}
		return isNil(v) || c.Check(params[0], deref(v))
	case "Union":
		for _, p := range params {
			if c.Check(p, v) {
				return true
			}
		}
		return false
	case "List", "list":
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return false
		}
		if len(params) == 0 {
			return true
		}
		for i := 0; i < rv.Len(); i++ {
			if !c.Check(params[0], rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case "Tuple", "tuple":
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return false
		}
		if len(params) == 0 {
			return true
		}
		if rv.Len() != len(params) {
			return false
		}
		for i, p := range params {
			if !c.Check(p, rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case "Dict", "dict":
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Kind() != reflect.Map {
			return false
		}
		if len(params) != 2 {
			return len(params) == 0
		}
		iter := rv.MapRange()
		for iter.Next() {
			if !c.Check(params[0], iter.Key().Interface()) || !c.Check(params[1], iter.Value().Interface()) {
				return false
			}
		}
		return true
	}

	c.mu.RLock()
	check, ok := c.named[name]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	return check(v)
}

// Assert is Check returning a SpecError naming the owner on mismatch.
func (c *TypeChecker) Assert(typeExpr string, v any, owner string) error {
	if c.Check(typeExpr, v) {
		return nil
	}
	return &SpecError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("%s expected %s but got value %v", owner, typeExpr, describe(v)),
	}
}

func describe(v any) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprintf("%#v", v)
}

// parseGeneric splits "Name[a, b]" into ("Name", ["a", "b"]).
func parseGeneric(expr string) (string, []string) {
	open := strings.IndexByte(expr, '[')
	if open < 0 || !strings.HasSuffix(expr, "]") {
		return expr, nil
	}
	name := strings.TrimSpace(expr[:open])
	inner := expr[open+1 : len(expr)-1]
	var params []string
	for _, p := range splitTopLevel(inner, ',') {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return name, params
}

// splitTopLevel splits s on sep, ignoring separators nested in brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func kindOf(v any) reflect.Kind {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Invalid
	}
	return rv.Kind()
}

func isInt(v any) bool {
	switch kindOf(v) {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
