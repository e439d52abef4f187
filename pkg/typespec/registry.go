package typespec

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry is the lookup table of every documented class, enum and
// exception. It is populated once at package init by its owners and read
// thereafter.
type Registry struct {
	mu         sync.RWMutex
	classes    map[string]ClassSpec
	enums      map[string]EnumSpec
	exceptions map[string]ExceptionSpec
	checker    *TypeChecker
}

// NewRegistry creates an empty registry with a builtin type checker.
func NewRegistry() *Registry {
	return &Registry{
		classes:    make(map[string]ClassSpec),
		enums:      make(map[string]EnumSpec),
		exceptions: make(map[string]ExceptionSpec),
		checker:    NewTypeChecker(),
	}
}

// RegisterClass records spec and binds its name in the type checker.
// A nil check leaves the checker untouched.
func (r *Registry) RegisterClass(spec ClassSpec, check func(any) bool) {
	r.mu.Lock()
	r.classes[spec.Name] = spec
	r.mu.Unlock()
	if check != nil {
		r.checker.Register(spec.Name, check)
	}
}

// RegisterEnum records spec. Values of the enum are checked by check.
func (r *Registry) RegisterEnum(spec EnumSpec, check func(any) bool) {
	r.mu.Lock()
	r.enums[spec.Name] = spec
	r.mu.Unlock()
	if check != nil {
		r.checker.Register(spec.Name, check)
	}
}

// RegisterException records an exception spec.
func (r *Registry) RegisterException(spec ExceptionSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exceptions[spec.Name] = spec
}

// Class looks up a class spec by name.
func (r *Registry) Class(name string) (ClassSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Enum looks up an enum spec by name.
func (r *Registry) Enum(name string) (EnumSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.enums[name]
	return e, ok
}

// Checker returns the registry's type checker.
func (r *Registry) Checker() *TypeChecker {
	return r.checker
}

// Classes returns all class specs sorted by name.
func (r *Registry) Classes() []ClassSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ClassSpec, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Enums returns all enum specs sorted by name.
func (r *Registry) Enums() []EnumSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EnumSpec, 0, len(r.enums))
	for _, e := range r.enums {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Exceptions returns all exception specs sorted by name.
func (r *Registry) Exceptions() []ExceptionSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ExceptionSpec, 0, len(r.exceptions))
	for _, e := range r.exceptions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Document is the exported form of a registry.
type Document struct {
	Version    string          `json:"version" yaml:"version"`
	Classes    []ClassSpec     `json:"classes" yaml:"classes"`
	Enums      []EnumSpec      `json:"enums,omitempty" yaml:"enums,omitempty"`
	Exceptions []ExceptionSpec `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
}

// Document snapshots the registry.
func (r *Registry) Document(version string) Document {
	return Document{
		Version:    version,
		Classes:    r.Classes(),
		Enums:      r.Enums(),
		Exceptions: r.Exceptions(),
	}
}

// Export formats.
const (
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatMarkdown = "md"
)

// Export writes the registry in the requested format.
func (r *Registry) Export(w io.Writer, version, format string) error {
	doc := r.Document(version)
	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("typespec: yaml export failed: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMarkdown:
		return writeMarkdown(w, doc)
	default:
		return fmt.Errorf("typespec: unsupported export format %q", format)
	}
}

func writeMarkdown(w io.Writer, doc Document) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Contracts API %s\n\n", doc.Version)
	for _, c := range doc.Classes {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", c.Name, strings.TrimSpace(c.Docstring))
		if len(c.PublicAttributes) > 0 {
			b.WriteString("| Attribute | Type | Description |\n|---|---|---|\n")
			for _, a := range c.PublicAttributes {
				fmt.Fprintf(&b, "| `%s` | `%s` | %s |\n", a.Name, a.Type, oneLine(a.Docstring))
			}
			b.WriteString("\n")
		}
		for _, m := range c.PublicMethods {
			fmt.Fprintf(&b, "### %s(%s)\n\n%s\n\n", m.Name, strings.Join(m.ArgNames(), ", "), strings.TrimSpace(m.Docstring))
			for _, a := range m.Args {
				fmt.Fprintf(&b, "- `%s` (`%s`): %s\n", a.Name, a.Type, oneLine(a.Docstring))
			}
			if m.ReturnValue != nil {
				fmt.Fprintf(&b, "- returns `%s`: %s\n", m.ReturnValue.Type, oneLine(m.ReturnValue.Docstring))
			}
			b.WriteString("\n")
		}
	}
	for _, e := range doc.Enums {
		fmt.Fprintf(&b, "## enum %s\n\n%s\n\n", e.Name, strings.TrimSpace(e.Docstring))
		for _, m := range e.Members {
			if e.ShowValues {
				fmt.Fprintf(&b, "- `%s` = `%v`\n", m.Name, m.Value)
			} else {
				fmt.Fprintf(&b, "- `%s`\n", m.Name)
			}
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
