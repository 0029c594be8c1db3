package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/chazu/scriptgen/catalog"
	"github.com/chazu/scriptgen/codegen"
	"github.com/chazu/scriptgen/manifest"
	"github.com/chazu/scriptgen/syntax"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("scriptgen")
}

type options struct {
	manifestDir string
	output      string
	runtime     string
	itemsFile   string
	name        string
	pkg         string
	dump        bool
	spans       bool
}

// runManifest generates every script configured in scriptgen.toml.
func runManifest(opts options, stdout io.Writer) error {
	m, err := manifest.FindAndLoad(opts.manifestDir)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	if m == nil {
		return fmt.Errorf("no %s found in %s or its parents", manifest.FileName, opts.manifestDir)
	}
	logger().Infof("loaded %s (%d scripts)", m.Path(), len(m.Scripts))

	funcs, err := m.Funcs()
	if err != nil {
		return err
	}
	imports, err := m.Imports()
	if err != nil {
		return err
	}

	runtime := m.Generate.Runtime
	if opts.runtime != "" {
		runtime = opts.runtime
	}
	outputPath := m.OutputPath()
	if opts.output != "" {
		outputPath = opts.output
	}

	if opts.dump {
		return dumpFuncs(funcs, opts.spans, stdout)
	}
	return generate(m.Generate.Package, runtime, imports, funcs, outputPath, stdout)
}

// runItems generates a single script from a CBOR item stream.
func runItems(opts options, stdout io.Writer) error {
	if opts.name == "" {
		return fmt.Errorf("-items requires -name")
	}
	items, err := manifest.ReadItemsFile(opts.itemsFile)
	if err != nil {
		return err
	}
	logger().Infof("read %d items from %s", len(items), opts.itemsFile)
	for _, it := range items {
		logger().Debugf("  %s: %s", it.Span(), syntax.Describe(it))
	}

	funcs := []codegen.Func{{Name: opts.name, Items: items}}
	if opts.dump {
		return dumpFuncs(funcs, opts.spans, stdout)
	}
	if opts.pkg == "" {
		return fmt.Errorf("-items requires -package")
	}
	return generate(opts.pkg, opts.runtime, nil, funcs, opts.output, stdout)
}

func generate(pkg, runtime string, imports []manifest.Import, funcs []codegen.Func, outputPath string, stdout io.Writer) error {
	emitter := codegen.NewEmitter(codegen.New(), runtime)
	for _, imp := range imports {
		if err := emitter.Import(imp.Name, imp.Path); err != nil {
			return err
		}
	}
	src, err := emitter.Source(pkg, funcs)
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err := stdout.Write(src)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	logger().Infof("wrote %s", outputPath)
	return nil
}

// dumpFuncs prints each script's construction expression, one per line.
// With spans, each expression is followed by its traced steps.
func dumpFuncs(funcs []codegen.Func, spans bool, w io.Writer) error {
	g := codegen.New()
	for _, fn := range funcs {
		expr, err := g.Generate(fn.Items)
		if err != nil {
			return fmt.Errorf("script %s: %w", fn.Name, err)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", fn.Name, codegen.Format(expr)); err != nil {
			return err
		}
		if !spans {
			continue
		}
		for _, line := range codegen.Trace(expr) {
			if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeOpcodes lists the catalog as "NAME 0xNN" lines.
func writeOpcodes(w io.Writer) error {
	c := catalog.Bitcoin()
	for _, name := range c.Names() {
		op, _ := c.Lookup(name)
		if _, err := fmt.Fprintf(w, "%-24s 0x%02x\n", op.Name, op.Value); err != nil {
			return err
		}
	}
	return nil
}
