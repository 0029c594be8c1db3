package syntax

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// StreamVersion is the item stream format version written by MarshalItems.
const StreamVersion = 1

// Kind tags an item variant on the wire.
type Kind uint8

const (
	KindOpcode Kind = iota + 1
	KindBytes
	KindInt
	KindEscape
)

// stream is the CBOR envelope exchanged with external parsers.
type stream struct {
	Version int        `cbor:"1,keyasint"`
	Items   []wireItem `cbor:"2,keyasint"`
}

type wireItem struct {
	Kind  Kind   `cbor:"1,keyasint"`
	Name  string `cbor:"2,keyasint,omitempty"`
	Data  []byte `cbor:"3,keyasint,omitempty"`
	Value int64  `cbor:"4,keyasint,omitempty"`
	Expr  string `cbor:"5,keyasint,omitempty"`
	Span  Span   `cbor:"6,keyasint"`
}

// cborEncMode uses canonical mode so identical item sequences always
// encode to identical bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("syntax: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalItems serializes an item sequence to CBOR bytes.
func MarshalItems(items []Item) ([]byte, error) {
	s := stream{Version: StreamVersion, Items: make([]wireItem, 0, len(items))}
	for i, it := range items {
		w := wireItem{Span: it.Span()}
		switch n := it.(type) {
		case Opcode:
			w.Kind, w.Name = KindOpcode, n.Name
		case Bytes:
			w.Kind, w.Data = KindBytes, n.Data
		case Int:
			w.Kind, w.Value = KindInt, n.Value
		case Escape:
			w.Kind, w.Expr = KindEscape, n.Expr
		default:
			return nil, fmt.Errorf("syntax: item %d: unsupported item type %T", i, it)
		}
		s.Items = append(s.Items, w)
	}
	return cborEncMode.Marshal(&s)
}

// UnmarshalItems deserializes an item sequence from CBOR bytes.
func UnmarshalItems(data []byte) ([]Item, error) {
	var s stream
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("syntax: unmarshal items: %w", err)
	}
	if s.Version != StreamVersion {
		return nil, fmt.Errorf("syntax: unsupported item stream version %d", s.Version)
	}
	items := make([]Item, 0, len(s.Items))
	for i, w := range s.Items {
		switch w.Kind {
		case KindOpcode:
			items = append(items, Opcode{Name: w.Name, At: w.Span})
		case KindBytes:
			data := w.Data
			if data == nil {
				data = []byte{}
			}
			items = append(items, Bytes{Data: data, At: w.Span})
		case KindInt:
			items = append(items, Int{Value: w.Value, At: w.Span})
		case KindEscape:
			items = append(items, Escape{Expr: w.Expr, At: w.Span})
		default:
			return nil, fmt.Errorf("syntax: item %d: unknown kind %d", i, w.Kind)
		}
	}
	return items, nil
}
