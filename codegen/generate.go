// Package codegen folds a tokenized script into a construction expression
// and lowers that expression to Go source.
package codegen

import (
	"errors"
	"fmt"

	"github.com/chazu/scriptgen/catalog"
	"github.com/chazu/scriptgen/syntax"
)

// ErrUnknownOpcode is matched by every UnknownOpcodeError.
var ErrUnknownOpcode = errors.New("unknown opcode")

// UnknownOpcodeError reports an opcode item whose name is not in the
// catalog.
type UnknownOpcodeError struct {
	Name string
	Span syntax.Span
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("%s: unknown opcode %q", e.Span, e.Name)
}

func (e *UnknownOpcodeError) Unwrap() error { return ErrUnknownOpcode }

// Generator turns item sequences into construction expressions. It holds
// no per-call state and may be shared between goroutines.
type Generator struct {
	catalog catalog.Catalog
}

// Option configures a Generator.
type Option func(*Generator)

// WithCatalog replaces the default Bitcoin opcode catalog.
func WithCatalog(c catalog.Catalog) Option {
	return func(g *Generator) {
		g.catalog = c
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{catalog: catalog.Bitcoin()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Catalog returns the catalog opcode names are resolved against.
func (g *Generator) Catalog() catalog.Catalog {
	return g.catalog
}

// Generate folds items, left to right, into a single construction
// expression ending in Finalize. The first unknown opcode aborts the whole
// call and no expression is returned.
func (g *Generator) Generate(items []syntax.Item) (Expr, error) {
	var chain Expr = Empty{}

	for _, it := range items {
		switch n := it.(type) {
		case syntax.Opcode:
			op, ok := g.catalog.Lookup(n.Name)
			if !ok {
				return nil, &UnknownOpcodeError{Name: n.Name, Span: n.At}
			}
			chain = AppendOpcode{Recv: chain, Op: op, At: n.At}
		case syntax.Bytes:
			chain = AppendBytes{Recv: chain, Data: literalBytes(n.Data), At: n.At}
		case syntax.Int:
			chain = AppendInt{Recv: chain, Value: n.Value, At: n.At}
		case syntax.Escape:
			// Flush: everything so far becomes the builder argument.
			chain = Push{Builder: chain, Value: n.Expr, At: n.At}
		default:
			panic(fmt.Sprintf("codegen: unexpected item %T", it))
		}
	}

	return Finalize{Recv: chain}, nil
}

// literalBytes copies a byte literal so the expression never aliases the
// parser's buffers.
func literalBytes(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

var defaultGenerator = New()

// Generate folds items using the Bitcoin catalog.
func Generate(items []syntax.Item) (Expr, error) {
	return defaultGenerator.Generate(items)
}
