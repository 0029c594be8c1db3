package script

import (
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Pushable is implemented by values that know how to push themselves.
type Pushable interface {
	PushTo(b *Builder) *Builder
}

// Push appends v to b and returns the updated builder. Generated code calls
// Push for every escaped expression. Pushable values push themselves; the
// common Go and btcd types are handled here. Anything else records an
// *UnsupportedValueError reported by IntoScript.
func Push(b *Builder, v any) *Builder {
	switch x := v.(type) {
	case nil:
		return b.fail(ErrNilValue)
	case Pushable:
		return x.PushTo(b)
	case Script:
		return b.PushScript(x)
	case []byte:
		return b.PushSlice(x)
	case [20]byte:
		return b.PushSlice(x[:])
	case [32]byte:
		return b.PushSlice(x[:])
	case chainhash.Hash:
		return b.PushSlice(x[:])
	case [33]byte:
		return b.PushSlice(x[:])
	case [64]byte:
		return b.PushSlice(x[:])
	case [65]byte:
		return b.PushSlice(x[:])
	case int:
		return b.PushInt(int64(x))
	case int8:
		return b.PushInt(int64(x))
	case int16:
		return b.PushInt(int64(x))
	case int32:
		return b.PushInt(int64(x))
	case int64:
		return b.PushInt(x)
	case uint8:
		return b.PushInt(int64(x))
	case uint16:
		return b.PushInt(int64(x))
	case uint32:
		return b.PushInt(int64(x))
	case uint:
		return pushUint(b, uint64(x))
	case uint64:
		return pushUint(b, x)
	case bool:
		if x {
			return b.PushInt(1)
		}
		return b.PushInt(0)
	case btcutil.Amount:
		return b.PushInt(int64(x))
	case *btcec.PublicKey:
		if x == nil {
			return b.fail(ErrNilValue)
		}
		return b.PushSlice(x.SerializeCompressed())
	case btcutil.Address:
		return b.PushSlice(x.ScriptAddress())
	case []Pushable:
		for _, p := range x {
			b = Push(b, p)
		}
		return b
	case []int64:
		for _, n := range x {
			b = b.PushInt(n)
		}
		return b
	case [][]byte:
		for _, d := range x {
			b = b.PushSlice(d)
		}
		return b
	default:
		return b.fail(&UnsupportedValueError{Type: fmt.Sprintf("%T", v)})
	}
}

func pushUint(b *Builder, n uint64) *Builder {
	if n > math.MaxInt64 {
		return b.fail(fmt.Errorf("push %d: %w", n, ErrValueOutOfRange))
	}
	return b.PushInt(int64(n))
}

// Op pushes an opcode chosen at runtime.
type Op byte

func (o Op) PushTo(b *Builder) *Builder {
	return b.PushOpcode(byte(o))
}

// XOnly pushes a public key in its 32-byte BIP340 form.
type XOnly struct {
	Key *btcec.PublicKey
}

func (x XOnly) PushTo(b *Builder) *Builder {
	if x.Key == nil {
		return b.fail(ErrNilValue)
	}
	return b.PushSlice(schnorr.SerializePubKey(x.Key))
}
