package codegen

import (
	"fmt"
	"strings"

	"github.com/chazu/scriptgen/catalog"
	"github.com/chazu/scriptgen/syntax"
)

// ---------------------------------------------------------------------------
// Construction expressions
// ---------------------------------------------------------------------------

// Expr is a node of a construction expression: a chain of builder calls
// that starts at an empty builder and ends with a finalize step.
//
// Every node except Empty has exactly one receiver, so an expression is a
// linear chain even across escapes: a Push takes the whole chain built so
// far as its builder argument.
type Expr interface {
	expr() // marker method
}

// Empty is the empty builder, begin_empty().
type Empty struct{}

// AppendOpcode appends one catalog opcode.
type AppendOpcode struct {
	Recv Expr
	Op   catalog.Opcode
	At   syntax.Span
}

// AppendBytes appends a literal byte slice as one data push.
type AppendBytes struct {
	Recv Expr
	Data []byte
	At   syntax.Span
}

// AppendInt appends a minimally encoded integer.
type AppendInt struct {
	Recv  Expr
	Value int64
	At    syntax.Span
}

// Push hands the flushed chain and an escaped host expression to the
// runtime push dispatch; its result is the new accumulator.
type Push struct {
	Builder Expr
	Value   string
	At      syntax.Span
}

// Finalize converts the accumulator into the finished script.
type Finalize struct {
	Recv Expr
}

func (Empty) expr()        {}
func (AppendOpcode) expr() {}
func (AppendBytes) expr()  {}
func (AppendInt) expr()    {}
func (Push) expr()         {}
func (Finalize) expr()     {}

// receiver returns the expression a node is built on, or nil for Empty.
func receiver(e Expr) Expr {
	switch n := e.(type) {
	case AppendOpcode:
		return n.Recv
	case AppendBytes:
		return n.Recv
	case AppendInt:
		return n.Recv
	case Push:
		return n.Builder
	case Finalize:
		return n.Recv
	default:
		return nil
	}
}

// Steps flattens an expression into its operations in evaluation order,
// starting with Empty.
func Steps(e Expr) []Expr {
	var steps []Expr
	for n := e; n != nil; n = receiver(n) {
		steps = append(steps, n)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// Trace lists the spanned steps of an expression in evaluation order as
// "span: step" lines, mapping each generated builder call back to the item
// it came from.
func Trace(e Expr) []string {
	var lines []string
	for _, step := range Steps(e) {
		var at syntax.Span
		var call string
		switch n := step.(type) {
		case AppendOpcode:
			at, call = n.At, fmt.Sprintf("append_opcode(%s)", n.Op.Name)
		case AppendBytes:
			at, call = n.At, "append_byte_slice("+formatBytes(n.Data)+")"
		case AppendInt:
			at, call = n.At, fmt.Sprintf("append_integer(%d)", n.Value)
		case Push:
			at, call = n.At, fmt.Sprintf("push(%s)", n.Value)
		default:
			continue
		}
		lines = append(lines, at.String()+": "+call)
	}
	return lines
}

// Format prints an expression in builder notation, e.g.
//
//	push(begin_empty().append_opcode(OP_DUP), key).finalize()
func Format(e Expr) string {
	var b strings.Builder
	format(&b, e)
	return b.String()
}

func format(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case Empty:
		b.WriteString("begin_empty()")
	case AppendOpcode:
		format(b, n.Recv)
		fmt.Fprintf(b, ".append_opcode(%s)", n.Op.Name)
	case AppendBytes:
		format(b, n.Recv)
		b.WriteString(".append_byte_slice(" + formatBytes(n.Data) + ")")
	case AppendInt:
		format(b, n.Recv)
		fmt.Fprintf(b, ".append_integer(%d)", n.Value)
	case Push:
		b.WriteString("push(")
		format(b, n.Builder)
		b.WriteString(", ")
		b.WriteString(n.Value)
		b.WriteString(")")
	case Finalize:
		format(b, n.Recv)
		b.WriteString(".finalize()")
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

func formatBytes(data []byte) string {
	var b strings.Builder
	b.WriteString("[")
	for i, v := range data {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "0x%02x", v)
	}
	b.WriteString("]")
	return b.String()
}
