package renderer

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// sourceFile is one parsed Go file of the template or of a feature.
type sourceFile struct {
	Path string
	AST  *ast.File
	// features maps the local import name to the feature package name.
	features map[string]string
}

// feature is a package of the template's module inlined into the contract.
type feature struct {
	ImportPath string
	Name       string
	Files      []*sourceFile
	Deps       []string
}

// loader parses the template and walks its feature imports.
type loader struct {
	fset     *token.FileSet
	mod      *goModule
	features map[string]*feature
	prefixes map[string]string
	// imports maps allowed import paths to the name they are used under.
	imports map[string]string
}

func newLoader(mod *goModule) *loader {
	return &loader{
		fset:     token.NewFileSet(),
		mod:      mod,
		features: map[string]*feature{},
		prefixes: map[string]string{},
		imports:  map[string]string{},
	}
}

func (l *loader) parseFile(p string) (*sourceFile, error) {
	f, err := parser.ParseFile(l.fset, p, nil, 0)
	if err != nil {
		return nil, &RenderError{Path: p, Message: "could not parse", Err: err}
	}
	return &sourceFile{Path: p, AST: f, features: map[string]string{}}, nil
}

// resolveImports classifies the imports of sf and loads any features.
func (l *loader) resolveImports(sf *sourceFile, stack []string) ([]string, error) {
	var deps []string
	for _, spec := range sf.AST.Imports {
		ipath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return nil, &RenderError{Path: sf.Path, Message: "bad import path", Err: err}
		}
		local := ""
		if spec.Name != nil {
			local = spec.Name.Name
		}
		if local == "." {
			return nil, renderErrorf(sf.Path, "dot import of %q is not supported", ipath)
		}

		if AllowedImports[ipath] {
			if local == "_" {
				continue
			}
			if local == "" {
				local = path.Base(ipath)
			}
			if prev, ok := l.imports[ipath]; ok && prev != local {
				return nil, renderErrorf(sf.Path, "%q is imported as both %s and %s", ipath, prev, local)
			}
			l.imports[ipath] = local
			continue
		}

		if _, ok := l.mod.dirOf(ipath); !ok {
			return nil, renderErrorf(sf.Path, "import %q is not allowed in contracts", ipath)
		}
		feat, err := l.loadFeature(ipath, stack)
		if err != nil {
			return nil, err
		}
		if local == "" {
			local = feat.Name
		}
		sf.features[local] = feat.Name
		deps = append(deps, ipath)
	}
	return deps, nil
}

func (l *loader) loadFeature(importPath string, stack []string) (*feature, error) {
	for _, p := range stack {
		if p == importPath {
			return nil, renderErrorf(importPath, "import cycle: %s", strings.Join(append(stack, importPath), " -> "))
		}
	}
	if f, ok := l.features[importPath]; ok {
		return f, nil
	}

	dir, _ := l.mod.dirOf(importPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &RenderError{Path: importPath, Message: "feature package not found", Err: err}
	}
	feat := &feature{ImportPath: importPath}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		sf, err := l.parseFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		switch {
		case feat.Name == "":
			feat.Name = sf.AST.Name.Name
		case feat.Name != sf.AST.Name.Name:
			return nil, renderErrorf(dir, "multiple packages %s and %s", feat.Name, sf.AST.Name.Name)
		}
		feat.Files = append(feat.Files, sf)
	}
	if len(feat.Files) == 0 {
		return nil, renderErrorf(dir, "no Go files in feature package %s", importPath)
	}
	if other, ok := l.prefixes[feat.Name]; ok {
		return nil, renderErrorf(importPath, "feature package name %s is also used by %s", feat.Name, other)
	}
	l.prefixes[feat.Name] = importPath
	l.features[importPath] = feat

	seen := map[string]bool{}
	for _, sf := range feat.Files {
		deps, err := l.resolveImports(sf, append(stack, importPath))
		if err != nil {
			return nil, err
		}
		for _, d := range deps {
			if !seen[d] {
				seen[d] = true
				feat.Deps = append(feat.Deps, d)
			}
		}
	}
	sort.Strings(feat.Deps)

	if err := renameFeature(feat); err != nil {
		return nil, err
	}
	return feat, nil
}

// renameFeature prefixes every package-level identifier of feat with its
// package name. Methods keep their names.
//
//nolint:staticcheck // ast.Object resolution is enough to find package-level references.
func renameFeature(feat *feature) error {
	top := map[*ast.Object]bool{}
	names := map[string]bool{}
	for _, sf := range feat.Files {
		for name, obj := range sf.AST.Scope.Objects {
			top[obj] = true
			names[name] = true
		}
		for _, d := range sf.AST.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok && fd.Recv == nil && fd.Name.Name == "init" {
				return renderErrorf(sf.Path, "init functions are not supported in feature packages")
			}
		}
	}

	prefix := feat.Name + "_"
	for _, sf := range feat.Files {
		skip := structKeys(sf.AST)
		rename := map[*ast.Ident]bool{}
		for _, id := range sf.AST.Unresolved {
			if names[id.Name] {
				rename[id] = true
			}
		}
		for _, d := range sf.AST.Decls {
			ast.Inspect(d, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.Ident:
					if x.Obj != nil && top[x.Obj] && !skip[x] {
						rename[x] = true
					}
				case *ast.CompositeLit:
					if !keyedByValue(x) {
						return true
					}
					for _, elt := range x.Elts {
						if kv, ok := elt.(*ast.KeyValueExpr); ok {
							if id, ok := kv.Key.(*ast.Ident); ok && names[id.Name] {
								rename[id] = true
							}
						}
					}
				}
				return true
			})
		}
		for id := range rename {
			if id.Name != "_" {
				id.Name = prefix + id.Name
			}
		}
	}

	for _, sf := range feat.Files {
		qualifyFeatureRefs(sf)
	}
	return nil
}

// keyedByValue reports whether the keys of lit are expressions rather than
// struct field names.
func keyedByValue(lit *ast.CompositeLit) bool {
	switch lit.Type.(type) {
	case *ast.MapType, *ast.ArrayType:
		return true
	}
	return false
}

// structKeys returns the field-name keys of all struct-like composite
// literals in f.
func structKeys(f *ast.File) map[*ast.Ident]bool {
	keys := map[*ast.Ident]bool{}
	ast.Inspect(f, func(n ast.Node) bool {
		lit, ok := n.(*ast.CompositeLit)
		if !ok || keyedByValue(lit) {
			return true
		}
		for _, elt := range lit.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				if id, ok := kv.Key.(*ast.Ident); ok {
					keys[id] = true
				}
			}
		}
		return true
	})
	return keys
}

// qualifyFeatureRefs rewrites pkg.X selectors on feature imports to the
// flattened pkg_X identifier.
//
//nolint:staticcheck // a nil Obj on the qualifier means it is not shadowed locally.
func qualifyFeatureRefs(sf *sourceFile) {
	if len(sf.features) == 0 {
		return
	}
	for i, d := range sf.AST.Decls {
		if gd, ok := d.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			continue
		}
		sf.AST.Decls[i] = astutil.Apply(d, nil, func(c *astutil.Cursor) bool {
			sel, ok := c.Node().(*ast.SelectorExpr)
			if !ok {
				return true
			}
			x, ok := sel.X.(*ast.Ident)
			if !ok || x.Obj != nil {
				return true
			}
			if name, ok := sf.features[x.Name]; ok {
				c.Replace(&ast.Ident{NamePos: x.NamePos, Name: name + "_" + sel.Sel.Name})
			}
			return true
		}).(ast.Decl)
	}
}
