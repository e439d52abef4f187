package contracts

import (
	"encoding/json"
	"fmt"
)

// Validator is implemented by every contract value type.
type Validator interface {
	Validate() error
}

// New validates v and returns it. Use New for values built by contract
// authors; the first violated invariant is returned.
func New[T Validator](v T) (T, error) {
	if err := v.Validate(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// MustNew is New that panics. It is meant for package-level contract
// metadata such as parameter and event type declarations.
func MustNew[T Validator](v T) T {
	out, err := New(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Decode parses the JSON wire form of T and validates the result.
func Decode[T Validator](data []byte) (T, error) {
	v, err := DecodeTrusted[T](data)
	if err != nil {
		return v, err
	}
	return New(v)
}

// DecodeTrusted parses the JSON wire form of T without validating it. It is
// the fast path for data reconstructed from the runtime, which validated the
// values before emitting them.
func DecodeTrusted[T Validator](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("contracts: decode %T: %w", v, err)
	}
	return v, nil
}
