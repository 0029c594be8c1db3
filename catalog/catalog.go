// Package catalog maps opcode names to references the code generator can
// emit. The default catalog is the Bitcoin opcode set known to btcd's
// txscript package.
package catalog

import (
	"sort"

	"github.com/btcsuite/btcd/txscript"
)

// Opcode is a resolved catalog member. For Bitcoin opcodes Name doubles as
// the identifier of the txscript constant emitted by generated code; other
// catalogs are emitted by Value.
type Opcode struct {
	Name  string
	Value byte
}

// Catalog resolves opcode names. A miss is reported with ok == false.
type Catalog interface {
	Lookup(name string) (op Opcode, ok bool)
	Names() []string
}

// Table is a Catalog backed by a name to value map.
type Table map[string]byte

// Lookup implements Catalog.
func (t Table) Lookup(name string) (Opcode, bool) {
	v, ok := t[name]
	if !ok {
		return Opcode{}, false
	}
	return Opcode{Name: name, Value: v}, true
}

// Names returns the catalog's names sorted by opcode value, then by name.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		vi, vj := t[names[i]], t[names[j]]
		if vi != vj {
			return vi < vj
		}
		return names[i] < names[j]
	})
	return names
}

var bitcoin Table

func init() {
	bitcoin = make(Table, len(txscript.OpcodeByName))
	for name, v := range txscript.OpcodeByName {
		bitcoin[name] = v
	}
}

// IsBitcoin reports whether op is a Bitcoin opcode exactly as txscript
// names it, i.e. whether txscript exports a constant called op.Name with
// value op.Value.
func IsBitcoin(op Opcode) bool {
	v, ok := bitcoin[op.Name]
	return ok && v == op.Value
}

// Bitcoin returns the catalog of Bitcoin script opcodes, including the
// aliases txscript registers (OP_FALSE, OP_TRUE, OP_NOP2, OP_NOP3).
func Bitcoin() Catalog {
	return bitcoin
}
