package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"regexp"

	"github.com/dave/jennifer/jen"
)

// KnownImports maps package names that may appear in parameter types to
// their import paths. Emitter.Import adds to or overrides these per file.
var KnownImports = map[string]string{
	"btcec":     "github.com/btcsuite/btcd/btcec/v2",
	"btcutil":   "github.com/btcsuite/btcd/btcutil",
	"chaincfg":  "github.com/btcsuite/btcd/chaincfg",
	"chainhash": "github.com/btcsuite/btcd/chaincfg/chainhash",
	"schnorr":   "github.com/btcsuite/btcd/btcec/v2/schnorr",
	"txscript":  txscriptPath,
	"wire":      "github.com/btcsuite/btcd/wire",
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// PackageName guesses the package name of an import path, skipping a
// trailing major version element: ".../btcec/v2" is "btcec".
func PackageName(importPath string) string {
	name := path.Base(importPath)
	if majorVersion.MatchString(name) {
		name = path.Base(path.Dir(importPath))
	}
	return name
}

// typeCode parses a parameter type and renders it with every package
// qualifier resolved through imports, so the file's import block lists
// exactly the packages the signatures use.
func typeCode(src string, imports map[string]string) (jen.Code, error) {
	x, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", src, err)
	}
	return typeExpr(x, imports)
}

func typeExpr(x ast.Expr, imports map[string]string) (*jen.Statement, error) {
	switch n := x.(type) {
	case *ast.Ident:
		return jen.Id(n.Name), nil
	case *ast.SelectorExpr:
		pkg, ok := n.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unsupported qualified type")
		}
		importPath, ok := imports[pkg.Name]
		if !ok {
			return nil, fmt.Errorf("unknown package %q in type; declare its import path", pkg.Name)
		}
		return jen.Qual(importPath, n.Sel.Name), nil
	case *ast.StarExpr:
		elem, err := typeExpr(n.X, imports)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil
	case *ast.ArrayType:
		elem, err := typeExpr(n.Elt, imports)
		if err != nil {
			return nil, err
		}
		if n.Len == nil {
			return jen.Index().Add(elem), nil
		}
		lit, ok := n.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return nil, fmt.Errorf("array length must be an integer literal")
		}
		return jen.Index(jen.Id(lit.Value)).Add(elem), nil
	case *ast.MapType:
		key, err := typeExpr(n.Key, imports)
		if err != nil {
			return nil, err
		}
		val, err := typeExpr(n.Value, imports)
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(val), nil
	case *ast.ParenExpr:
		return typeExpr(n.X, imports)
	default:
		return nil, fmt.Errorf("unsupported parameter type %T", x)
	}
}
