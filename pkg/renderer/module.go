package renderer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// goModule is the module containing a template.
type goModule struct {
	Root string
	Path string
}

// findModule locates the nearest go.mod at or above dir.
func findModule(dir string) (*goModule, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for d := abs; ; {
		gomod := filepath.Join(d, "go.mod")
		data, err := os.ReadFile(gomod)
		if err == nil {
			f, err := modfile.ParseLax(gomod, data, nil)
			if err != nil {
				return nil, &RenderError{Path: gomod, Message: "invalid go.mod", Err: err}
			}
			if f.Module == nil || f.Module.Mod.Path == "" {
				return nil, renderErrorf(gomod, "go.mod has no module directive")
			}
			return &goModule{Root: d, Path: f.Module.Mod.Path}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		parent := filepath.Dir(d)
		if parent == d {
			return nil, renderErrorf(abs, "no go.mod found at or above template directory")
		}
		d = parent
	}
}

// dirOf maps an import path inside the module to its directory.
func (m *goModule) dirOf(importPath string) (string, bool) {
	if importPath == m.Path {
		return m.Root, true
	}
	rel, ok := strings.CutPrefix(importPath, m.Path+"/")
	if !ok {
		return "", false
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel)), true
}
