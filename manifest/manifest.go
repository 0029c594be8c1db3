// Package manifest handles scriptgen.toml project configuration.
package manifest

import (
	"encoding/hex"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/scriptgen/codegen"
	"github.com/chazu/scriptgen/syntax"
)

// FileName is the manifest file looked up in project directories.
const FileName = "scriptgen.toml"

// Manifest represents a scriptgen.toml project configuration.
type Manifest struct {
	Generate Generate `toml:"generate"`
	Scripts  []Script `toml:"script"`

	// Dir is the directory containing the scriptgen.toml file (set at load time).
	Dir string `toml:"-"`
}

// Generate configures the emitted Go file.
type Generate struct {
	Package string `toml:"package"`
	Output  string `toml:"output"`
	Runtime string `toml:"runtime"`

	// Imports declares packages used by parameter types beyond the btcd
	// packages the generator already knows. Each entry is "path" or
	// "name path".
	Imports []string `toml:"imports"`
}

// Import is a declared package import.
type Import struct {
	Name string // empty: derived from Path
	Path string
}

// Script is one generated function.
type Script struct {
	Name      string      `toml:"name"`
	Doc       string      `toml:"doc"`
	Params    []string    `toml:"params"`
	Items     []ItemTable `toml:"items"`
	ItemsFile string      `toml:"items-file"`
}

// ItemTable is an inline item; exactly one field is set.
type ItemTable struct {
	Op     *string `toml:"op"`
	Bytes  *string `toml:"bytes"` // hex, optional 0x prefix
	Int    *int64  `toml:"int"`
	Escape *string `toml:"escape"`
}

// Load parses a scriptgen.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Generate.Output == "" && m.Generate.Package != "" {
		m.Generate.Output = m.Generate.Package + "_gen.go"
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a scriptgen.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) validate() error {
	if m.Generate.Package == "" {
		return fmt.Errorf("[generate] package is required")
	}
	if !token.IsIdentifier(m.Generate.Package) {
		return fmt.Errorf("[generate] package %q is not a Go identifier", m.Generate.Package)
	}

	for _, imp := range m.Generate.Imports {
		if _, err := parseImport(imp); err != nil {
			return fmt.Errorf("[generate] %w", err)
		}
	}

	names := make(map[string]bool)
	for i, s := range m.Scripts {
		if s.Name == "" {
			return fmt.Errorf("script %d: name is required", i+1)
		}
		if names[s.Name] {
			return fmt.Errorf("script %s: duplicate name", s.Name)
		}
		names[s.Name] = true

		if s.ItemsFile != "" && len(s.Items) > 0 {
			return fmt.Errorf("script %s: set items or items-file, not both", s.Name)
		}
		for _, p := range s.Params {
			if _, err := parseParam(p); err != nil {
				return fmt.Errorf("script %s: %w", s.Name, err)
			}
		}
		for j, it := range s.Items {
			if n := it.fieldsSet(); n != 1 {
				return fmt.Errorf("script %s: item %d sets %d of op, bytes, int, escape; want exactly 1", s.Name, j+1, n)
			}
		}
	}
	return nil
}

func (it ItemTable) fieldsSet() int {
	n := 0
	if it.Op != nil {
		n++
	}
	if it.Bytes != nil {
		n++
	}
	if it.Int != nil {
		n++
	}
	if it.Escape != nil {
		n++
	}
	return n
}

// OutputPath returns the absolute path of the generated file.
func (m *Manifest) OutputPath() string {
	if filepath.IsAbs(m.Generate.Output) {
		return m.Generate.Output
	}
	return filepath.Join(m.Dir, m.Generate.Output)
}

// Path returns the path of the manifest file itself.
func (m *Manifest) Path() string {
	return filepath.Join(m.Dir, FileName)
}

// Funcs converts every script to a generator function description,
// reading items-file streams relative to the manifest directory.
func (m *Manifest) Funcs() ([]codegen.Func, error) {
	funcs := make([]codegen.Func, 0, len(m.Scripts))
	for _, s := range m.Scripts {
		items, err := m.items(s)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", s.Name, err)
		}
		params := make([]codegen.Param, 0, len(s.Params))
		for _, p := range s.Params {
			param, err := parseParam(p)
			if err != nil {
				return nil, fmt.Errorf("script %s: %w", s.Name, err)
			}
			params = append(params, param)
		}
		funcs = append(funcs, codegen.Func{
			Name:   s.Name,
			Doc:    s.Doc,
			Params: params,
			Items:  items,
		})
	}
	return funcs, nil
}

func (m *Manifest) items(s Script) ([]syntax.Item, error) {
	if s.ItemsFile != "" {
		path := s.ItemsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.Dir, path)
		}
		return ReadItemsFile(path)
	}

	items := make([]syntax.Item, 0, len(s.Items))
	for i, it := range s.Items {
		at := syntax.Span{Source: fmt.Sprintf("%s:script[%s]#%d", FileName, s.Name, i+1)}
		switch {
		case it.Op != nil:
			items = append(items, syntax.Opcode{Name: *it.Op, At: at})
		case it.Bytes != nil:
			data, err := hex.DecodeString(strings.TrimPrefix(*it.Bytes, "0x"))
			if err != nil {
				return nil, fmt.Errorf("item %d: bytes: %w", i+1, err)
			}
			items = append(items, syntax.Bytes{Data: data, At: at})
		case it.Int != nil:
			items = append(items, syntax.Int{Value: *it.Int, At: at})
		case it.Escape != nil:
			items = append(items, syntax.Escape{Expr: *it.Escape, At: at})
		}
	}
	return items, nil
}

// ReadItemsFile reads a CBOR item stream written by an external parser.
func ReadItemsFile(path string) ([]syntax.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	items, err := syntax.UnmarshalItems(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Imports returns the declared imports in manifest order.
func (m *Manifest) Imports() ([]Import, error) {
	imports := make([]Import, 0, len(m.Generate.Imports))
	for _, s := range m.Generate.Imports {
		imp, err := parseImport(s)
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}
	return imports, nil
}

// parseImport accepts "path" or "name path".
func parseImport(s string) (Import, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return Import{Path: strings.Trim(fields[0], `"`)}, nil
	case 2:
		if !token.IsIdentifier(fields[0]) {
			return Import{}, fmt.Errorf("import %q: %q is not a Go identifier", s, fields[0])
		}
		return Import{Name: fields[0], Path: strings.Trim(fields[1], `"`)}, nil
	default:
		return Import{}, fmt.Errorf("import %q: want \"path\" or \"name path\"", s)
	}
}

// parseParam splits "name type" into a parameter.
func parseParam(s string) (codegen.Param, error) {
	name, typ, ok := strings.Cut(strings.TrimSpace(s), " ")
	typ = strings.TrimSpace(typ)
	if !ok || typ == "" {
		return codegen.Param{}, fmt.Errorf("param %q: want \"name type\"", s)
	}
	if !token.IsIdentifier(name) {
		return codegen.Param{}, fmt.Errorf("param %q: %q is not a Go identifier", s, name)
	}
	return codegen.Param{Name: name, Type: typ}, nil
}
