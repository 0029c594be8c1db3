// Package syntax defines the tokenized script items consumed by the code
// generator, together with the location markers attached to them.
package syntax

import "fmt"

// ---------------------------------------------------------------------------
// Locations
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number, 0 when unknown
	Column int // 1-based column number
}

// Span represents a range in source code. Spans are only used to place
// diagnostics; they never influence generation.
type Span struct {
	Source string
	Start  Position
	End    Position
}

// MakeSpan creates a span from start and end positions.
func MakeSpan(source string, start, end Position) Span {
	return Span{Source: source, Start: start, End: end}
}

// ZeroSpan returns an empty span.
func ZeroSpan() Span {
	return Span{}
}

func (s Span) String() string {
	src := s.Source
	if src == "" {
		src = "<unknown>"
	}
	if s.Start.Line == 0 {
		return src
	}
	return fmt.Sprintf("%s:%d:%d", src, s.Start.Line, s.Start.Column)
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

// Item is one element of a tokenized script: an opcode, a byte literal, an
// integer literal or an escaped host expression.
type Item interface {
	Span() Span
	item() // marker method
}

// Opcode names one member of the opcode catalog, e.g. "OP_CHECKSIG".
type Opcode struct {
	Name string
	At   Span
}

func (n Opcode) Span() Span { return n.At }
func (n Opcode) item()      {}

// Bytes is a literal byte sequence pushed as a single data item.
type Bytes struct {
	Data []byte
	At   Span
}

func (n Bytes) Span() Span { return n.At }
func (n Bytes) item()      {}

// Int is a literal integer pushed with minimal encoding.
type Int struct {
	Value int64
	At    Span
}

func (n Int) Span() Span { return n.At }
func (n Int) item()      {}

// Escape is Go expression source whose runtime value is pushed at this
// position. The text is opaque to the generator.
type Escape struct {
	Expr string
	At   Span
}

func (n Escape) Span() Span { return n.At }
func (n Escape) item()      {}

// Describe returns a short human readable form of an item, as logged by
// scriptgen -v for each item read from a stream.
func Describe(it Item) string {
	switch n := it.(type) {
	case Opcode:
		return n.Name
	case Bytes:
		return fmt.Sprintf("<%x>", n.Data)
	case Int:
		return fmt.Sprintf("%d", n.Value)
	case Escape:
		return "{" + n.Expr + "}"
	default:
		return fmt.Sprintf("%T", it)
	}
}
