package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/tliron/commonlog"

	"github.com/chazu/scriptgen/syntax"
)

// logger is looked up per call so a backend registered after package
// initialization is still used.
func logger() commonlog.Logger {
	return commonlog.GetLogger("scriptgen.codegen")
}

// GeneratedHeader is the first line of every emitted file.
const GeneratedHeader = "Code generated by scriptgen. DO NOT EDIT."

// Param is a parameter of a generated script function. Type is Go type
// syntax; package qualifiers in it must name a known or declared import.
type Param struct {
	Name string
	Type string
}

// Func describes one generated script function.
type Func struct {
	Name   string // script name, e.g. "pay-to-pubkey-hash"
	Doc    string
	Params []Param
	Items  []syntax.Item
}

// Emitter renders whole Go files, one function per script.
type Emitter struct {
	gen     *Generator
	runtime string
	imports map[string]string // package name -> import path
}

// NewEmitter creates an Emitter. An empty runtime selects DefaultRuntime.
func NewEmitter(g *Generator, runtime string) *Emitter {
	if g == nil {
		g = defaultGenerator
	}
	if runtime == "" {
		runtime = DefaultRuntime
	}
	imports := make(map[string]string, len(KnownImports)+1)
	for name, importPath := range KnownImports {
		imports[name] = importPath
	}
	imports[PackageName(runtime)] = runtime
	return &Emitter{gen: g, runtime: runtime, imports: imports}
}

// Import makes the package at importPath available to parameter types
// under name. An empty name uses the path's package name.
func (e *Emitter) Import(name, importPath string) error {
	if importPath == "" {
		return fmt.Errorf("empty import path")
	}
	if name == "" {
		name = PackageName(importPath)
	}
	if !token.IsIdentifier(name) {
		return fmt.Errorf("import %q: %q is not a valid package name", importPath, name)
	}
	e.imports[name] = importPath
	return nil
}

// File generates every function into a jennifer file for package pkg. Any
// failing script aborts the whole file.
func (e *Emitter) File(pkg string, funcs []Func) (*jen.File, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}

	f := jen.NewFile(pkg)
	f.HeaderComment(GeneratedHeader)
	for name, importPath := range e.imports {
		if name == PackageName(importPath) {
			f.ImportName(importPath, name)
		} else {
			f.ImportAlias(importPath, name)
		}
	}

	seen := make(map[string]string)
	for _, fn := range funcs {
		goName, err := FuncName(fn.Name)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[goName]; ok {
			return nil, fmt.Errorf("scripts %q and %q both generate func %s", prev, fn.Name, goName)
		}
		seen[goName] = fn.Name

		expr, err := e.gen.Generate(fn.Items)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", fn.Name, err)
		}
		logger().Debugf("generated %s: %d items", goName, len(fn.Items))
		for _, line := range Trace(expr) {
			logger().Debugf("  %s", line)
		}

		params := make([]jen.Code, 0, len(fn.Params))
		for _, p := range fn.Params {
			if !token.IsIdentifier(p.Name) {
				return nil, fmt.Errorf("script %s: invalid parameter name %q", fn.Name, p.Name)
			}
			typ, err := typeCode(p.Type, e.imports)
			if err != nil {
				return nil, fmt.Errorf("script %s: parameter %s: %w", fn.Name, p.Name, err)
			}
			params = append(params, jen.Id(p.Name).Add(typ))
		}

		if fn.Doc != "" {
			for _, line := range strings.Split(strings.TrimRight(fn.Doc, "\n"), "\n") {
				f.Comment(line)
			}
		}
		f.Func().Id(goName).Params(params...).Params(
			jen.Qual(e.runtime, "Script"),
			jen.Error(),
		).Block(
			jen.Return(Lower(expr, e.runtime)),
		)
		f.Line()
	}

	return f, nil
}

// Source generates and renders a file to gofmt'd Go source.
func (e *Emitter) Source(pkg string, funcs []Func) ([]byte, error) {
	f, err := e.File(pkg, funcs)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering package %s: %w", pkg, err)
	}
	logger().Infof("rendered package %s: %d scripts, %d bytes", pkg, len(funcs), buf.Len())
	return buf.Bytes(), nil
}

// FuncName converts a script name to an exported Go identifier.
// e.g., "pay-to-pubkey-hash" → "PayToPubkeyHash", "htlc_refund" → "HtlcRefund"
func FuncName(name string) (string, error) {
	goName := toPascal(name)
	if !token.IsIdentifier(goName) || !token.IsExported(goName) {
		return "", fmt.Errorf("script name %q does not form an exported Go identifier", name)
	}
	return goName, nil
}

// toPascal converts a string to PascalCase.
// Handles hyphenated, underscore-separated and space-separated names.
func toPascal(s string) string {
	var b strings.Builder
	nextUpper := true
	for _, r := range s {
		if r == '-' || r == '_' || r == ' ' {
			nextUpper = true
			continue
		}
		if nextUpper {
			b.WriteRune(unicode.ToUpper(r))
			nextUpper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
