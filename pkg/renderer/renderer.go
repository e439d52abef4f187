package renderer

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"
	"go/token"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Mindburn-Labs/vaultsdk/pkg/gitsource"
)

// Result is a rendered contract.
type Result struct {
	Source []byte
	// Features lists the inlined feature packages in emission order.
	Features []string
}

// unit is the smallest declaration the renderer keeps or prunes.
type unit struct {
	decl  ast.Decl
	names []string
	recv  string
	refs  map[string]bool
	file  *sourceFile
	keep  bool
}

// Renderer renders contract templates.
type Renderer struct {
	cfg    Config
	repo   *gitsource.Repo
	logger *slog.Logger
}

// New validates cfg and, when git headers are requested, opens the repo.
func New(cfg Config) (*Renderer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	r := &Renderer{cfg: cfg, logger: slog.Default().With("component", "renderer")}
	if cfg.UseGit {
		repo, err := gitsource.LoadRepo(cfg.GitRepoRoot)
		if err != nil {
			return nil, err
		}
		r.repo = repo
	} else {
		r.logger.Info("use_git not set to True - git info will be excluded from renderer output")
	}
	return r, nil
}

// Render renders the template at templatePath.
func Render(templatePath string, cfg Config) (*Result, error) {
	r, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return r.Render(templatePath)
}

// Render flattens the template and its features into one source file.
func (r *Renderer) Render(templatePath string) (*Result, error) {
	abs, err := filepath.Abs(templatePath)
	if err != nil {
		return nil, err
	}
	mod, err := findModule(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	l := newLoader(mod)
	tmpl, err := l.parseFile(abs)
	if err != nil {
		return nil, err
	}
	if !declares(tmpl.AST, "API") {
		return nil, renderErrorf(abs, "template has no API metadata; only contracts declaring API are supported")
	}
	deps, err := l.resolveImports(tmpl, nil)
	if err != nil {
		return nil, err
	}
	qualifyFeatureRefs(tmpl)

	order := topoSort(l.features, deps)
	r.logger.Debug("resolved features", "template", abs, "features", order)

	var units []*unit
	for _, ip := range order {
		for _, sf := range sortedFiles(l.features[ip].Files) {
			units = append(units, splitDecls(sf)...)
		}
	}
	templateUnits := splitTemplate(tmpl)
	prune(units, templateUnits)

	src, err := r.emit(l, tmpl, templateUnits, units)
	if err != nil {
		return nil, err
	}
	if r.cfg.ApplyFormatting {
		formatted, err := format.Source(src)
		if err != nil {
			return nil, &RenderError{Path: abs, Message: "rendered contract is not valid Go", Err: err}
		}
		src = formatted
	}
	return &Result{Source: src, Features: order}, nil
}

func declares(f *ast.File, name string) bool {
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || (gd.Tok != token.CONST && gd.Tok != token.VAR) {
			continue
		}
		for _, s := range gd.Specs {
			for _, n := range s.(*ast.ValueSpec).Names {
				if n.Name == name {
					return true
				}
			}
		}
	}
	return false
}

// topoSort orders features so dependencies come first. Ties break on
// import path.
func topoSort(features map[string]*feature, roots []string) []string {
	var out []string
	seen := map[string]bool{}
	var visit func(ip string)
	visit = func(ip string) {
		for _, dep := range features[ip].Deps {
			if !seen[dep] {
				seen[dep] = true
				visit(dep)
			}
		}
		out = append(out, ip)
	}
	sorted := append([]string(nil), roots...)
	sort.Strings(sorted)
	for _, ip := range sorted {
		if !seen[ip] {
			seen[ip] = true
			visit(ip)
		}
	}
	return out
}

func sortedFiles(files []*sourceFile) []*sourceFile {
	out := append([]*sourceFile(nil), files...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// splitDecls breaks a feature file into prunable units. Const groups stay
// whole so iota values are preserved.
func splitDecls(sf *sourceFile) []*unit {
	var units []*unit
	for _, d := range sf.AST.Decls {
		switch x := d.(type) {
		case *ast.FuncDecl:
			u := &unit{decl: x, file: sf}
			if x.Recv != nil && len(x.Recv.List) > 0 {
				u.recv = receiverName(x.Recv.List[0].Type)
			} else {
				u.names = []string{x.Name.Name}
			}
			units = append(units, u)
		case *ast.GenDecl:
			switch x.Tok {
			case token.IMPORT:
			case token.CONST:
				u := &unit{decl: x, file: sf}
				for _, s := range x.Specs {
					u.names = append(u.names, specNames(s)...)
				}
				units = append(units, u)
			default:
				for _, s := range x.Specs {
					units = append(units, &unit{
						decl:  &ast.GenDecl{TokPos: x.TokPos, Tok: x.Tok, Specs: []ast.Spec{s}},
						names: specNames(s),
						file:  sf,
					})
				}
			}
		}
	}
	for _, u := range units {
		u.refs = references(u.decl)
	}
	return units
}

// splitTemplate splits template declarations so metadata specs can be
// reordered individually.
func splitTemplate(sf *sourceFile) []*unit {
	var units []*unit
	for _, d := range sf.AST.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok {
			units = append(units, &unit{decl: d, names: funcNames(d), file: sf, keep: true})
			continue
		}
		if gd.Tok == token.IMPORT {
			continue
		}
		if gd.Tok == token.CONST && usesIota(gd) {
			u := &unit{decl: gd, file: sf, keep: true}
			for _, s := range gd.Specs {
				u.names = append(u.names, specNames(s)...)
			}
			units = append(units, u)
			continue
		}
		for _, s := range gd.Specs {
			units = append(units, &unit{
				decl:  &ast.GenDecl{TokPos: gd.TokPos, Tok: gd.Tok, Specs: []ast.Spec{s}},
				names: specNames(s),
				file:  sf,
				keep:  true,
			})
		}
	}
	for _, u := range units {
		u.refs = references(u.decl)
	}
	return units
}

func funcNames(d ast.Decl) []string {
	if fd, ok := d.(*ast.FuncDecl); ok && fd.Recv == nil {
		return []string{fd.Name.Name}
	}
	return nil
}

func usesIota(gd *ast.GenDecl) bool {
	found := false
	ast.Inspect(gd, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok && id.Name == "iota" {
			found = true
		}
		return !found
	})
	return found || len(gd.Specs) > 1 && len(gd.Specs[len(gd.Specs)-1].(*ast.ValueSpec).Values) == 0
}

func specNames(s ast.Spec) []string {
	switch x := s.(type) {
	case *ast.ValueSpec:
		names := make([]string, 0, len(x.Names))
		for _, n := range x.Names {
			names = append(names, n.Name)
		}
		return names
	case *ast.TypeSpec:
		return []string{x.Name.Name}
	}
	return nil
}

func receiverName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.StarExpr:
		return receiverName(x.X)
	case *ast.IndexExpr:
		return receiverName(x.X)
	case *ast.IndexListExpr:
		return receiverName(x.X)
	case *ast.Ident:
		return x.Name
	}
	return ""
}

func references(d ast.Decl) map[string]bool {
	refs := map[string]bool{}
	ast.Inspect(d, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			refs[id.Name] = true
		}
		return true
	})
	return refs
}

// prune marks the feature units reachable from the template. Methods are
// kept with their receiver type.
func prune(units, roots []*unit) {
	byName := map[string]*unit{}
	methods := map[string][]*unit{}
	for _, u := range units {
		for _, n := range u.names {
			byName[n] = u
		}
		if u.recv != "" {
			methods[u.recv] = append(methods[u.recv], u)
		}
	}

	var queue []*unit
	mark := func(u *unit) {
		if !u.keep {
			u.keep = true
			queue = append(queue, u)
		}
	}
	follow := func(refs map[string]bool) {
		for name := range refs {
			if u, ok := byName[name]; ok {
				mark(u)
			}
		}
	}
	for _, root := range roots {
		follow(root.refs)
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		follow(u.refs)
		for _, n := range u.names {
			for _, m := range methods[n] {
				mark(m)
			}
		}
	}
}

func (r *Renderer) emit(l *loader, tmpl *sourceFile, templateUnits, featureUnits []*unit) ([]byte, error) {
	var body bytes.Buffer
	pc := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	printDecl := func(d ast.Decl) error {
		if err := pc.Fprint(&body, l.fset, d); err != nil {
			return err
		}
		body.WriteString("\n\n")
		return nil
	}
	writeHeader := func(sf *sourceFile) error {
		lines, err := r.header(sf.Path)
		if err != nil {
			return err
		}
		for _, line := range lines {
			body.WriteString("// " + line + "\n")
		}
		// Detached from the next declaration so it is not reformatted as
		// a doc comment.
		body.WriteString("\n")
		return nil
	}

	front, rest := r.orderTemplate(templateUnits)
	if len(front) > 0 {
		if err := writeHeader(tmpl); err != nil {
			return nil, err
		}
		for _, u := range front {
			if err := printDecl(u.decl); err != nil {
				return nil, err
			}
		}
	}

	var current *sourceFile
	var kept []*unit
	for _, u := range featureUnits {
		if !u.keep {
			continue
		}
		kept = append(kept, u)
		if u.file != current {
			current = u.file
			if err := writeHeader(current); err != nil {
				return nil, err
			}
		}
		if err := printDecl(u.decl); err != nil {
			return nil, err
		}
	}

	if len(rest) > 0 {
		if err := writeHeader(tmpl); err != nil {
			return nil, err
		}
		for _, u := range rest {
			if err := printDecl(u.decl); err != nil {
				return nil, err
			}
		}
	}

	used := map[string]bool{}
	for _, u := range append(kept, templateUnits...) {
		for name := range qualifiers(u.decl) {
			used[name] = true
		}
	}

	var out bytes.Buffer
	if r.cfg.IncludeAutogenWarning {
		out.WriteString("// " + AutogenWarning + "\n\n")
	}
	fmt.Fprintf(&out, "package %s\n\n", tmpl.AST.Name.Name)
	writeImports(&out, l.imports, used)
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// orderTemplate moves metadata and hooks to the front.
func (r *Renderer) orderTemplate(units []*unit) (front, rest []*unit) {
	if !r.cfg.RenderMetadataAtTopOfFile {
		return units, nil
	}
	idx := orderIndex(TopLevelMetadata, Hooks)
	for _, u := range units {
		if len(u.names) == 1 {
			if _, ok := idx[u.names[0]]; ok {
				front = append(front, u)
				continue
			}
		}
		rest = append(rest, u)
	}
	sort.SliceStable(front, func(i, j int) bool { return idx[front[i].names[0]] < idx[front[j].names[0]] })
	return front, rest
}

// qualifiers returns the identifiers used as selector operands in d.
func qualifiers(d ast.Decl) map[string]bool {
	out := map[string]bool{}
	ast.Inspect(d, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				out[id.Name] = true
			}
		}
		return true
	})
	return out
}

func writeImports(buf *bytes.Buffer, imports map[string]string, used map[string]bool) {
	paths := make([]string, 0, len(imports))
	for p, name := range imports {
		if used[name] {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	buf.WriteString("import (\n")
	for _, p := range paths {
		name := imports[p]
		if name == path.Base(p) {
			fmt.Fprintf(buf, "\t%s\n", strconv.Quote(p))
		} else {
			fmt.Fprintf(buf, "\t%s %s\n", name, strconv.Quote(p))
		}
	}
	buf.WriteString(")\n\n")
}

// header returns the comment lines identifying a source file.
func (r *Renderer) header(file string) ([]string, error) {
	var name string
	switch {
	case !r.cfg.UseFullFilepathInHeaders:
		name = filepath.Base(file)
	case r.cfg.UseGit:
		name = r.repo.RelativePath(file)
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(cwd, file)
		if err != nil {
			rel = file
		}
		name = filepath.ToSlash(rel)
	}

	alg := r.cfg.HashingAlgorithm
	sum, err := gitsource.FileChecksum(file, alg)
	if err != nil {
		return nil, err
	}
	hashes := fmt.Sprintf("%s:%s", alg, sum)
	if r.cfg.UseGit {
		commit, err := r.repo.ValidatedCommitHashForFileChecksum(file, sum, alg)
		if err != nil {
			return nil, err
		}
		hashes += " git:" + commit
	}
	return []string{r.cfg.ModuleHeaderPrefix + ":", "   " + name, hashes}, nil
}
