package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// allowedGlobalPrefixes lists name prefixes treated as constant-like in a
// package. lipgloss styles and colors are built by function calls but are
// never reassigned.
var allowedGlobalPrefixes = map[string][]string{
	"report": {"style", "color"},
}

// TestNoMutableGlobalState flags package-level vars that could carry state
// between analyses. Allowed: error sentinels, interface checks, literals,
// composite lookup tables, sync primitives, and allowlisted prefixes.
func TestNoMutableGlobalState(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()

			fset := token.NewFileSet()
			for _, path := range goFilesIn(t, filepath.Join(dir, pkg)) {
				node, err := parser.ParseFile(fset, path, nil, 0)
				if err != nil {
					t.Fatalf("parsing %s: %v", path, err)
				}
				for _, g := range packageVars(node) {
					if g.name == "_" || hasPrefix(g.name, allowedGlobalPrefixes[pkg]) || constantLike(g) {
						continue
					}
					t.Errorf("mutable global state in %s: var %s; move it into a constructor",
						filepath.Base(path), g.name)
				}
			}
		})
	}
}

type globalVar struct {
	name string
	typ  ast.Expr
	val  ast.Expr
}

func packageVars(file *ast.File) []globalVar {
	var out []globalVar
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				g := globalVar{name: name.Name, typ: vs.Type}
				if i < len(vs.Values) {
					g.val = vs.Values[i]
				}
				out = append(out, g)
			}
		}
	}
	return out
}

func hasPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func constantLike(g globalVar) bool {
	if ident, ok := g.typ.(*ast.Ident); ok && ident.Name == "error" {
		return true
	}
	if sel, ok := g.typ.(*ast.SelectorExpr); ok {
		if pkg, ok := sel.X.(*ast.Ident); ok && (pkg.Name == "sync" || pkg.Name == "atomic") {
			return true
		}
	}
	switch v := g.val.(type) {
	case *ast.BasicLit, *ast.CompositeLit:
		return true
	case *ast.CallExpr:
		sel, ok := v.Fun.(*ast.SelectorExpr)
		if !ok {
			return false
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok {
			return false
		}
		switch pkg.Name + "." + sel.Sel.Name {
		case "errors.New", "fmt.Errorf", "regexp.MustCompile":
			return true
		}
	}
	return false
}

func parseVars(t *testing.T, src string) []globalVar {
	t.Helper()
	node, err := parser.ParseFile(token.NewFileSet(), "src.go", src, 0)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	return packageVars(node)
}

func TestConstantLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"errors.New sentinel", `package p; import "errors"; var ErrFoo = errors.New("foo")`, true},
		{"fmt.Errorf sentinel", `package p; import "fmt"; var ErrBar = fmt.Errorf("bar")`, true},
		{"regexp", `package p; import "regexp"; var re = regexp.MustCompile("^x$")`, true},
		{"string literal", `package p; var name = "hello"`, true},
		{"slice literal", `package p; var items = []string{"a"}`, true},
		{"map literal", `package p; var lookup = map[string]bool{"x": true}`, true},
		{"make map", `package p; var m = make(map[string]string)`, false},
		{"make chan", `package p; var ch = make(chan int)`, false},
		{"zero value", `package p; var n int`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vars := parseVars(t, tt.src)
			if len(vars) != 1 {
				t.Fatalf("parsed %d vars, want 1", len(vars))
			}
			if got := constantLike(vars[0]); got != tt.want {
				t.Errorf("constantLike(%s) = %v, want %v", vars[0].name, got, tt.want)
			}
		})
	}
}
