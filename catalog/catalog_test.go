package catalog

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
)

func TestBitcoinLookup(t *testing.T) {
	tests := []struct {
		name  string
		value byte
	}{
		{"OP_0", txscript.OP_0},
		{"OP_FALSE", txscript.OP_FALSE},
		{"OP_TRUE", txscript.OP_TRUE},
		{"OP_DUP", txscript.OP_DUP},
		{"OP_HASH160", txscript.OP_HASH160},
		{"OP_EQUALVERIFY", txscript.OP_EQUALVERIFY},
		{"OP_CHECKSIG", txscript.OP_CHECKSIG},
		{"OP_CHECKLOCKTIMEVERIFY", txscript.OP_CHECKLOCKTIMEVERIFY},
		{"OP_NOP2", txscript.OP_CHECKLOCKTIMEVERIFY},
	}
	c := Bitcoin()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := c.Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) missed", tt.name)
			}
			if op.Name != tt.name {
				t.Errorf("Name = %q, want %q", op.Name, tt.name)
			}
			if op.Value != tt.value {
				t.Errorf("Value = %#x, want %#x", op.Value, tt.value)
			}
		})
	}
}

func TestBitcoinLookup_Miss(t *testing.T) {
	for _, name := range []string{"NOT_A_REAL_OP", "", "op_dup", "DUP"} {
		if _, ok := Bitcoin().Lookup(name); ok {
			t.Errorf("Lookup(%q) should miss", name)
		}
	}
}

func TestTableNames(t *testing.T) {
	tab := Table{"OP_B": 2, "OP_A": 2, "OP_Z": 1}
	got := tab.Names()
	want := []string{"OP_Z", "OP_A", "OP_B"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBitcoinNamesCoverCatalog(t *testing.T) {
	names := Bitcoin().Names()
	if len(names) != len(txscript.OpcodeByName) {
		t.Errorf("got %d names, want %d", len(names), len(txscript.OpcodeByName))
	}
	for _, name := range names {
		if _, ok := Bitcoin().Lookup(name); !ok {
			t.Errorf("listed name %q does not resolve", name)
		}
	}
}

func TestIsBitcoin(t *testing.T) {
	tests := []struct {
		op   Opcode
		want bool
	}{
		{Opcode{"OP_DUP", txscript.OP_DUP}, true},
		{Opcode{"OP_TRUE", txscript.OP_1}, true},
		{Opcode{"OP_DUP", 0x01}, false},
		{Opcode{"OP_FOO", txscript.OP_DUP}, false},
	}
	for _, tt := range tests {
		if got := IsBitcoin(tt.op); got != tt.want {
			t.Errorf("IsBitcoin(%+v) = %v, want %v", tt.op, got, tt.want)
		}
	}
}
