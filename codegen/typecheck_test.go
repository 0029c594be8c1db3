package codegen_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/packages"

	"github.com/chazu/scriptgen/catalog"
	"github.com/chazu/scriptgen/codegen"
	"github.com/chazu/scriptgen/manifest"
	"github.com/chazu/scriptgen/syntax"
)

// typeCheck writes src as the only file of a package inside this module and
// type-checks it against the module's real dependencies.
func typeCheck(t *testing.T, src []byte) {
	t.Helper()
	if testing.Short() {
		t.Skip("type checking loads dependencies with the go command")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	dir, err := os.MkdirTemp(".", "typecheck")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	if err := os.WriteFile(filepath.Join(dir, "scripts_gen.go"), src, 0o644); err != nil {
		t.Fatal(err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax,
		Dir:  abs,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		t.Fatalf("loading generated package: %v", err)
	}
	if len(pkgs) != 1 {
		t.Fatalf("loaded %d packages, want 1", len(pkgs))
	}
	for _, e := range pkgs[0].Errors {
		t.Errorf("generated code: %v", e)
	}
	if t.Failed() {
		t.Logf("source:\n%s", src)
	}
}

func TestExampleManifestCompiles(t *testing.T) {
	m, err := manifest.Load(filepath.Join("..", "examples", "scripts"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	funcs, err := m.Funcs()
	if err != nil {
		t.Fatalf("Funcs: %v", err)
	}
	imports, err := m.Imports()
	if err != nil {
		t.Fatalf("Imports: %v", err)
	}
	e := codegen.NewEmitter(nil, m.Generate.Runtime)
	for _, imp := range imports {
		if err := e.Import(imp.Name, imp.Path); err != nil {
			t.Fatalf("Import: %v", err)
		}
	}
	src, err := e.Source(m.Generate.Package, funcs)
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	typeCheck(t, src)
}

func TestCustomCatalogCompiles(t *testing.T) {
	g := codegen.New(codegen.WithCatalog(catalog.Table{"OP_FOO": 0x01, "OP_DUP": 0x76}))
	src, err := codegen.NewEmitter(g, "").Source("scripts", []codegen.Func{{
		Name:   "custom",
		Params: []codegen.Param{{Name: "key", Type: "[]byte"}},
		Items: []syntax.Item{
			syntax.Opcode{Name: "OP_FOO"},
			syntax.Opcode{Name: "OP_DUP"},
			syntax.Escape{Expr: "key"},
		},
	}})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	typeCheck(t, src)
}

func TestEveryOpcodeCompiles(t *testing.T) {
	c := catalog.Bitcoin()
	var items []syntax.Item
	for _, name := range c.Names() {
		items = append(items, syntax.Opcode{Name: name})
	}
	src, err := codegen.NewEmitter(nil, "").Source("scripts", []codegen.Func{{Name: "all-opcodes", Items: items}})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	typeCheck(t, src)
}

func TestDeclaredImportCompiles(t *testing.T) {
	e := codegen.NewEmitter(nil, "")
	if err := e.Import("", "math/big"); err != nil {
		t.Fatalf("Import: %v", err)
	}
	src, err := e.Source("scripts", []codegen.Func{{
		Name:   "with-declared-import",
		Params: []codegen.Param{{Name: "n", Type: "*big.Int"}, {Name: "amounts", Type: "map[string]btcutil.Amount"}},
		Items:  []syntax.Item{syntax.Escape{Expr: "n.Int64()"}},
	}})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	typeCheck(t, src)
}
