// Package script is the runtime builder called by generated code. A chain
// starts at New, appends opcodes, data and integers, and ends with
// IntoScript. Values spliced in from host expressions go through Push.
package script

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/txscript"
)

// Builder accumulates a script. Every method returns the receiver so calls
// chain; the first error recorded is reported by IntoScript.
type Builder struct {
	script []byte
	err    error
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Len returns the number of bytes appended so far.
func (b *Builder) Len() int {
	return len(b.script)
}

// Err returns the first error recorded, if any.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// PushOpcode appends a single opcode.
func (b *Builder) PushOpcode(op byte) *Builder {
	b.script = append(b.script, op)
	return b
}

// PushSlice pushes data as one stack item using the smallest push prefix.
// The bytes are pushed as given: a single byte 1..16 is not rewritten to
// OP_1..OP_16.
func (b *Builder) PushSlice(data []byte) *Builder {
	n := uint64(len(data))
	switch {
	case n < txscript.OP_PUSHDATA1:
		b.script = append(b.script, byte(n))
	case n <= math.MaxUint8:
		b.script = append(b.script, txscript.OP_PUSHDATA1, byte(n))
	case n <= math.MaxUint16:
		b.script = append(b.script, txscript.OP_PUSHDATA2)
		b.script = binary.LittleEndian.AppendUint16(b.script, uint16(n))
	case n <= math.MaxUint32:
		b.script = append(b.script, txscript.OP_PUSHDATA4)
		b.script = binary.LittleEndian.AppendUint32(b.script, uint32(n))
	default:
		return b.fail(fmt.Errorf("push of %d bytes: %w", n, ErrDataTooLarge))
	}
	b.script = append(b.script, data...)
	return b
}

// PushInt pushes n with the canonical minimal encoding: OP_0, OP_1NEGATE
// and OP_1..OP_16 for small values, otherwise a sign-magnitude little-endian
// number of the shortest length.
func (b *Builder) PushInt(n int64) *Builder {
	switch {
	case n == 0:
		return b.PushOpcode(txscript.OP_0)
	case n == -1:
		return b.PushOpcode(txscript.OP_1NEGATE)
	case n >= 1 && n <= 16:
		return b.PushOpcode(txscript.OP_1 + byte(n-1))
	}
	return b.PushSlice(EncodeNum(n))
}

// PushScript appends another script verbatim.
func (b *Builder) PushScript(s Script) *Builder {
	b.script = append(b.script, s...)
	return b
}

// IntoScript finalizes the builder. The returned script does not share
// memory with the builder.
func (b *Builder) IntoScript() (Script, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make(Script, len(b.script))
	copy(out, b.script)
	return out, nil
}

// EncodeNum returns the minimal script number encoding of n. Zero encodes
// as an empty slice. When the most significant byte has its high bit set an
// extra byte carries the sign.
func EncodeNum(n int64) []byte {
	if n == 0 {
		return []byte{}
	}
	negative := n < 0
	abs := uint64(n)
	if negative {
		abs = uint64(-(n + 1)) + 1
	}

	out := make([]byte, 0, 9)
	for abs > 0 {
		out = append(out, byte(abs))
		abs >>= 8
	}

	last := len(out) - 1
	switch {
	case out[last]&0x80 != 0 && negative:
		out = append(out, 0x80)
	case out[last]&0x80 != 0:
		out = append(out, 0x00)
	case negative:
		out[last] |= 0x80
	}
	return out
}
