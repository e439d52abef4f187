// Package vaultapi describes the Vault callback object handed to contract
// hooks. Each contract API version exposes a different set of methods; the
// sets are derived by replaying an append-only capability log.
package vaultapi

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/Mindburn-Labs/vaultsdk/pkg/typespec"
)

// Kind selects the contract or supervisor surface.
type Kind string

const (
	KindContract   Kind = "contract"
	KindSupervisor Kind = "supervisor"
)

// Op is the effect of a capability log entry.
type Op string

const (
	OpAdd    Op = "added"
	OpChange Op = "changed"
	OpRemove Op = "removed"
	OpReset  Op = "reset"
)

// Capability is one entry of the log. Exactly one of Method or Attribute is
// set, except for OpReset entries which carry neither.
type Capability struct {
	Kind      Kind
	Version   string
	Op        Op
	Method    *typespec.MethodSpec
	Attribute *typespec.ValueSpec
}

// ClassName is the name every surface is documented under.
const ClassName = "VaultFunctions"

var versionTags = map[Kind][]string{
	KindContract: {
		"3.0.0", "3.1.0", "3.2.0", "3.3.0", "3.4.0", "3.5.0", "3.6.0",
		"3.7.0", "3.8.0", "3.9.0", "3.10.0", "3.11.0", "3.12.0", "4.0.0",
	},
	KindSupervisor: {
		"3.4.0", "3.5.0", "3.6.0", "3.7.0", "3.8.0", "3.9.0", "3.10.0",
		"3.11.0", "3.12.0", "4.0.0",
	},
}

// Versions lists the known version tags of kind in ascending order.
func Versions(kind Kind) []string {
	return append([]string(nil), versionTags[kind]...)
}

// Latest returns the newest version tag of kind.
func Latest(kind Kind) string {
	tags := versionTags[kind]
	if len(tags) == 0 {
		return ""
	}
	return tags[len(tags)-1]
}

// Surface replays the capability log of kind up to and including version.
// The version must be one of Versions(kind); "3.10" and "v3.10.0" are
// accepted spellings of "3.10.0".
func Surface(kind Kind, version string) (typespec.ClassSpec, error) {
	target, err := resolveVersion(kind, version)
	if err != nil {
		return typespec.ClassSpec{}, err
	}

	entries := logFor(kind)
	var (
		attrs   []typespec.ValueSpec
		methods []typespec.MethodSpec
	)
	for _, e := range entries {
		if mustVersion(e.Version).GreaterThan(target) {
			break
		}
		switch e.Op {
		case OpReset:
			attrs, methods = nil, nil
		case OpAdd, OpChange:
			if e.Attribute != nil {
				attrs = upsertValue(attrs, *e.Attribute)
			}
			if e.Method != nil {
				methods = upsertMethod(methods, *e.Method)
			}
		case OpRemove:
			if e.Attribute != nil {
				attrs = removeValue(attrs, e.Attribute.Name)
			}
			if e.Method != nil {
				methods = removeMethod(methods, e.Method.Name)
			}
		}
	}

	return typespec.ClassSpec{
		Name:             ClassName,
		Docstring:        fmt.Sprintf("The %s Vault object at API version %s.", kind, target.Original()),
		PublicAttributes: attrs,
		PublicMethods:    methods,
	}, nil
}

// History returns the log entries of kind, ordered by version.
func History(kind Kind) []Capability {
	return logFor(kind)
}

func resolveVersion(kind Kind, version string) (*semver.Version, error) {
	tags, ok := versionTags[kind]
	if !ok {
		return nil, &Error{Code: ErrCodeUnknownVersion, Message: fmt.Sprintf("unknown Vault kind %q", kind)}
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, &Error{Code: ErrCodeUnknownVersion, Message: fmt.Sprintf("invalid version %q: %v", version, err)}
	}
	for _, tag := range tags {
		if t := mustVersion(tag); t.Equal(v) {
			return t, nil
		}
	}
	return nil, &Error{
		Code:    ErrCodeUnknownVersion,
		Message: fmt.Sprintf("no %s Vault surface for version %s", kind, version),
	}
}

func logFor(kind Kind) []Capability {
	var out []Capability
	for _, e := range capabilityLog {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return mustVersion(out[i].Version).LessThan(mustVersion(out[j].Version))
	})
	return out
}

func mustVersion(s string) *semver.Version {
	return semver.MustParse(s)
}

func upsertValue(vs []typespec.ValueSpec, v typespec.ValueSpec) []typespec.ValueSpec {
	for i := range vs {
		if vs[i].Name == v.Name {
			vs[i] = v
			return vs
		}
	}
	return append(vs, v)
}

func removeValue(vs []typespec.ValueSpec, name string) []typespec.ValueSpec {
	out := vs[:0]
	for _, v := range vs {
		if v.Name != name {
			out = append(out, v)
		}
	}
	return out
}

func upsertMethod(ms []typespec.MethodSpec, m typespec.MethodSpec) []typespec.MethodSpec {
	for i := range ms {
		if ms[i].Name == m.Name {
			ms[i] = m
			return ms
		}
	}
	return append(ms, m)
}

func removeMethod(ms []typespec.MethodSpec, name string) []typespec.MethodSpec {
	out := ms[:0]
	for _, m := range ms {
		if m.Name != name {
			out = append(out, m)
		}
	}
	return out
}
