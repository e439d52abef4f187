package linters

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/types/typeutil"
)

const (
	MsgCTR001       = "CTR001 Do not use time.Now() in contracts; use hook_arguments.EffectiveDatetime"
	MsgCTR002       = "CTR002 List-type metadata objects should be extended using the unpacking operator (*)"
	MsgCTR003       = "CTR003 Typehints should be used for hooks"
	MsgCTR004       = "CTR004 Typehints should be used for helper methods"
	MsgCTR004Return = MsgCTR004 + " - please include return type"
	MsgCTR005       = "CTR005 Hooks should not be empty"
	MsgCTR006       = "CTR006 Use a parameter name constant when fetching parameter timeseries"
	MsgCTR007       = "CTR007 Parameter names should be defined as constants prefixed with Param"
	MsgCTR008       = "CTR008 Parameter display names should be in Title Case"
	MsgCTR009       = "CTR009 ValueDatetime should not be set on PostingInstructionsDirective"
)

// ListMetadata are metadata variables that must be built in one literal.
var ListMetadata = map[string]bool{
	"GlobalParameters":       true,
	"Parameters":             true,
	"SupportedDenominations": true,
	"EventTypes":             true,
	"EventTypesGroups":       true,
	"ContractModuleImports":  true,
	"DataFetchers":           true,
}

func newAnalyzer(name, doc string, run func(*analysis.Pass) (any, error)) *analysis.Analyzer {
	return &analysis.Analyzer{
		Name:     name,
		Doc:      doc,
		Run:      run,
		Requires: []*analysis.Analyzer{Classifier},
	}
}

var (
	CTR001 = newAnalyzer("ctr001", "forbid time.Now in contracts outside parameter defaults", runCTR001)
	CTR002 = newAnalyzer("ctr002", "forbid extending list-type metadata after its declaration", runCTR002)
	CTR003 = newAnalyzer("ctr003", "require exact hook signatures", runCTR003)
	CTR004 = newAnalyzer("ctr004", "require concrete types on helper functions", runCTR004)
	CTR005 = newAnalyzer("ctr005", "forbid empty hooks", runCTR005)
	CTR006 = newAnalyzer("ctr006", "require parameter name constants for parameter timeseries lookups", runCTR006)
	CTR007 = newAnalyzer("ctr007", "require Param constants for parameter names", runCTR007)
	CTR008 = newAnalyzer("ctr008", "require Title Case parameter display names", runCTR008)
	CTR009 = newAnalyzer("ctr009", "forbid ValueDatetime on posting instruction directives", runCTR009)
)

// Analyzers returns every contract check.
func Analyzers() []*analysis.Analyzer {
	return []*analysis.Analyzer{CTR001, CTR002, CTR003, CTR004, CTR005, CTR006, CTR007, CTR008, CTR009}
}

// isContractsType reports whether expr has the named contracts type, or a
// pointer to it.
func isContractsType(pass *analysis.Pass, expr ast.Expr, name string) bool {
	t := pass.TypesInfo.TypeOf(expr)
	if t == nil {
		return false
	}
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == ContractsPath && obj.Name() == name
}

// fieldValue returns the value keyed by field in a struct literal.
func fieldValue(lit *ast.CompositeLit, field string) (ast.Expr, bool) {
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		if id, ok := kv.Key.(*ast.Ident); ok && id.Name == field {
			return kv.Value, true
		}
	}
	return nil, false
}

// parameterLiterals returns every contracts.Parameter literal in f.
func parameterLiterals(pass *analysis.Pass, f *ast.File) []*ast.CompositeLit {
	var lits []*ast.CompositeLit
	ast.Inspect(f, func(n ast.Node) bool {
		if lit, ok := n.(*ast.CompositeLit); ok && isContractsType(pass, lit, "Parameter") {
			lits = append(lits, lit)
		}
		return true
	})
	return lits
}

func runCTR001(pass *analysis.Pass) (any, error) {
	for _, f := range filesOf(pass) {
		var allowed []ast.Node
		for _, lit := range parameterLiterals(pass, f) {
			if v, ok := fieldValue(lit, "DefaultValue"); ok {
				allowed = append(allowed, v)
			}
		}
		ast.Inspect(f, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
			if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "time" || fn.Name() != "Now" {
				return true
			}
			for _, a := range allowed {
				if call.Pos() >= a.Pos() && call.End() <= a.End() {
					return true
				}
			}
			pass.Reportf(call.Pos(), MsgCTR001)
			return true
		})
	}
	return nil, nil
}

// helperNames returns the functions called directly from hooks.
func helperNames(f *ast.File) map[string]bool {
	helpers := map[string]bool{}
	for _, d := range f.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Recv != nil || fd.Body == nil {
			continue
		}
		if _, hook := ContractHooks[fd.Name.Name]; !hook {
			continue
		}
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			if call, ok := n.(*ast.CallExpr); ok {
				if id, ok := call.Fun.(*ast.Ident); ok {
					helpers[id.Name] = true
				}
			}
			return true
		})
	}
	return helpers
}

func runCTR002(pass *analysis.Pass) (any, error) {
	for _, f := range filesOf(pass) {
		helpers := helperNames(f)
		counts := map[string]int{}
		visit := func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.FuncLit, *ast.ForStmt, *ast.RangeStmt:
				return false
			case *ast.Ident:
				if !ListMetadata[x.Name] {
					return true
				}
				obj := pass.TypesInfo.ObjectOf(x)
				if obj == nil || obj.Parent() != pass.Pkg.Scope() {
					return true
				}
				counts[x.Name]++
				if counts[x.Name] > 1 {
					pass.Reportf(x.Pos(), MsgCTR002)
				}
			}
			return true
		}
		for _, d := range f.Decls {
			switch x := d.(type) {
			case *ast.GenDecl:
				if x.Tok != token.IMPORT {
					ast.Inspect(x, visit)
				}
			case *ast.FuncDecl:
				if x.Recv != nil || x.Body == nil {
					continue
				}
				if _, hook := ContractHooks[x.Name.Name]; hook || helpers[x.Name.Name] {
					continue
				}
				ast.Inspect(x.Body, visit)
			}
		}
	}
	return nil, nil
}

func runCTR003(pass *analysis.Pass) (any, error) {
	fileTypes := pass.ResultOf[Classifier].(FileTypes)
	for _, f := range filesOf(pass, FileContract, FileSupervisorContract) {
		for _, d := range f.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok {
				continue
			}
			sig, ok := hookDecl(fd, fileTypes[f])
			if !ok {
				continue
			}
			if got := formatParams(fd.Type.Params); got != sig.Arguments {
				pos := fd.Name.Pos()
				if len(fd.Type.Params.List) > 0 {
					pos = fd.Type.Params.List[0].Pos()
				}
				pass.Reportf(pos, "%s - arguments should be '%s'", MsgCTR003, sig.Arguments)
			}
			if got := formatResults(fd.Type.Results); got != sig.Result {
				pass.Reportf(fd.Pos(), "%s - return type should be '%s'", MsgCTR003, sig.Result)
			}
		}
	}
	return nil, nil
}

// isUntyped reports whether expr is the empty interface.
func isUntyped(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name == "any"
	case *ast.InterfaceType:
		return x.Methods == nil || len(x.Methods.List) == 0
	case *ast.Ellipsis:
		return isUntyped(x.Elt)
	}
	return false
}

func runCTR004(pass *analysis.Pass) (any, error) {
	fileTypes := pass.ResultOf[Classifier].(FileTypes)
	for _, f := range filesOf(pass) {
		for _, d := range f.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok {
				continue
			}
			if _, hook := hookDecl(fd, fileTypes[f]); hook {
				continue
			}
			for _, field := range fd.Type.Params.List {
				if isUntyped(field.Type) {
					pass.Reportf(field.Pos(), MsgCTR004)
				}
			}
			if fd.Type.Results == nil {
				continue
			}
			for _, field := range fd.Type.Results.List {
				if isUntyped(field.Type) {
					pass.Reportf(fd.Pos(), MsgCTR004Return)
					break
				}
			}
		}
	}
	return nil, nil
}

// isEmptyHookBody reports bodies that do nothing: no statements, a bare
// nil return, or a return of an empty result literal.
func isEmptyHookBody(body *ast.BlockStmt) bool {
	if len(body.List) == 0 {
		return true
	}
	if len(body.List) != 1 {
		return false
	}
	ret, ok := body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return false
	}
	expr := ret.Results[0]
	if u, ok := expr.(*ast.UnaryExpr); ok && u.Op == token.AND {
		expr = u.X
	}
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name == "nil"
	case *ast.CompositeLit:
		return len(x.Elts) == 0
	}
	return false
}

func runCTR005(pass *analysis.Pass) (any, error) {
	fileTypes := pass.ResultOf[Classifier].(FileTypes)
	for _, f := range filesOf(pass, FileContract, FileSupervisorContract) {
		for _, d := range f.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			if _, hook := hookDecl(fd, fileTypes[f]); hook && isEmptyHookBody(fd.Body) {
				pass.Reportf(fd.Pos(), MsgCTR005)
			}
		}
	}
	return nil, nil
}

func isStringLit(expr ast.Expr) (*ast.BasicLit, bool) {
	lit, ok := expr.(*ast.BasicLit)
	return lit, ok && lit.Kind == token.STRING
}

func runCTR006(pass *analysis.Pass) (any, error) {
	for _, f := range filesOf(pass, FileContract) {
		ast.Inspect(f, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || len(call.Args) == 0 {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "GetParameterTimeseries" {
				return true
			}
			if _, ok := isStringLit(call.Args[0]); ok {
				pass.Reportf(call.Args[0].Pos(), MsgCTR006)
			}
			return true
		})
	}
	return nil, nil
}

// isParamConstant accepts ParamX and pkg.ParamX references.
func isParamConstant(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.Ident:
		return strings.HasPrefix(x.Name, "Param")
	case *ast.SelectorExpr:
		return strings.HasPrefix(x.Sel.Name, "Param")
	}
	return false
}

func runCTR007(pass *analysis.Pass) (any, error) {
	for _, f := range filesOf(pass) {
		for _, lit := range parameterLiterals(pass, f) {
			if v, ok := fieldValue(lit, "Name"); ok && !isParamConstant(v) {
				pass.Reportf(v.Pos(), MsgCTR007)
			}
		}
	}
	return nil, nil
}

var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "by": true, "for": true,
	"in": true, "of": true, "on": true, "or": true, "per": true, "the": true, "to": true,
}

// IsTitleCase reports whether s is in Title Case. Parenthesised text and
// minor words after the first are ignored.
func IsTitleCase(s string) bool {
	caser := cases.Title(language.English, cases.NoLower)
	depth := 0
	first := true
	for _, word := range strings.Fields(s) {
		inParens := depth > 0
		depth += strings.Count(word, "(") - strings.Count(word, ")")
		if inParens || strings.HasPrefix(word, "(") {
			continue
		}
		if !first && minorWords[word] {
			continue
		}
		first = false
		if caser.String(word) != word {
			return false
		}
	}
	return true
}

func runCTR008(pass *analysis.Pass) (any, error) {
	for _, f := range filesOf(pass) {
		for _, lit := range parameterLiterals(pass, f) {
			v, ok := fieldValue(lit, "DisplayName")
			if !ok {
				continue
			}
			s, ok := isStringLit(v)
			if !ok {
				continue
			}
			if text, err := strconv.Unquote(s.Value); err == nil && !IsTitleCase(text) {
				pass.Reportf(v.Pos(), MsgCTR008)
			}
		}
	}
	return nil, nil
}

func runCTR009(pass *analysis.Pass) (any, error) {
	for _, f := range filesOf(pass) {
		ast.Inspect(f, func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.CompositeLit:
				if !isContractsType(pass, x, "PostingInstructionsDirective") {
					return true
				}
				if v, ok := fieldValue(x, "ValueDatetime"); ok {
					pass.Reportf(v.Pos(), MsgCTR009)
				}
			case *ast.AssignStmt:
				for _, lhs := range x.Lhs {
					sel, ok := lhs.(*ast.SelectorExpr)
					if ok && sel.Sel.Name == "ValueDatetime" && isContractsType(pass, sel.X, "PostingInstructionsDirective") {
						pass.Reportf(sel.Pos(), MsgCTR009)
					}
				}
			}
			return true
		})
	}
	return nil, nil
}
