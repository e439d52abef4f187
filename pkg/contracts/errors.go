package contracts

import (
	"errors"
	"fmt"
	"time"

	"github.com/Mindburn-Labs/vaultsdk/pkg/typespec"
)

// Error codes carried by the contract error types.
const (
	ErrCodeInvalidSmartContract = "VAULT/CONTRACTS/INVALID_SMART_CONTRACT"
	ErrCodeStrongTyping         = "VAULT/CONTRACTS/STRONG_TYPING"
)

var (
	// ErrInvalidSmartContract matches every structural invariant violation.
	ErrInvalidSmartContract = errors.New("contracts: invalid smart contract")
	// ErrStrongTyping matches every value whose type does not fit its
	// declaration. It is the same sentinel the spec registry uses, so
	// errors.Is works across both packages.
	ErrStrongTyping = typespec.ErrTypeMismatch
)

// InvalidSmartContractError reports a definition that violates a structural
// invariant. It is raised at construction and never retried.
type InvalidSmartContractError struct {
	Message string
}

func (e *InvalidSmartContractError) Error() string { return e.Message }

// Is makes the error match ErrInvalidSmartContract.
func (e *InvalidSmartContractError) Is(target error) bool {
	return target == ErrInvalidSmartContract
}

// Code returns the stable error code.
func (e *InvalidSmartContractError) Code() string { return ErrCodeInvalidSmartContract }

// StrongTypingError reports a value whose type does not match the declared type.
type StrongTypingError struct {
	Message string
}

func (e *StrongTypingError) Error() string { return e.Message }

// Is makes the error match ErrStrongTyping.
func (e *StrongTypingError) Is(target error) bool {
	return target == ErrStrongTyping
}

// Code returns the stable error code.
func (e *StrongTypingError) Code() string { return ErrCodeStrongTyping }

func invalidf(format string, args ...any) error {
	return &InvalidSmartContractError{Message: fmt.Sprintf(format, args...)}
}

func strongTypingf(format string, args ...any) error {
	return &StrongTypingError{Message: fmt.Sprintf(format, args...)}
}

// prefixed rewrites err's message with a prefix while keeping its type.
// Errors of other types pass through unchanged.
func prefixed(prefix string, err error) error {
	var ice *InvalidSmartContractError
	if errors.As(err, &ice) {
		return &InvalidSmartContractError{Message: prefix + ice.Message}
	}
	var ste *StrongTypingError
	if errors.As(err, &ste) {
		return &StrongTypingError{Message: prefix + ste.Message}
	}
	var se *typespec.SpecError
	if errors.As(err, &se) {
		return &StrongTypingError{Message: prefix + se.Message}
	}
	return err
}

func requireNonEmpty(prefix, s string) error {
	if s == "" {
		return invalidf("'%s' must be a non-empty string", prefix)
	}
	return nil
}

func requireSet(prefix string, v time.Time) error {
	if v.IsZero() {
		return strongTypingf("'%s' expected datetime, got None", prefix)
	}
	return nil
}

// requireUTC rejects datetimes whose location is not UTC. Zero values are
// treated as unset and accepted.
func requireUTC(v time.Time, attr, owner string) error {
	if v.IsZero() {
		return nil
	}
	if v.Location() != time.UTC {
		name, _ := v.Zone()
		return invalidf("'%s' of %s must have timezone UTC, currently %s.", attr, owner, name)
	}
	return nil
}

func requireValidEnum[E interface{ Valid() bool }](prefix, hint string, v E) error {
	if !v.Valid() {
		return strongTypingf("'%s' expected %s, got '%v'", prefix, hint, v)
	}
	return nil
}
