package codegen

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/chazu/scriptgen/syntax"
)

func p2pkh() Func {
	return Func{
		Name:   "pay-to-pubkey-hash",
		Doc:    "PayToPubkeyHash locks an output to a HASH160 of a public key.",
		Params: []Param{{Name: "pubKeyHash", Type: "[]byte"}},
		Items: []syntax.Item{
			syntax.Opcode{Name: "OP_DUP"},
			syntax.Opcode{Name: "OP_HASH160"},
			syntax.Escape{Expr: "pubKeyHash"},
			syntax.Opcode{Name: "OP_EQUALVERIFY"},
			syntax.Opcode{Name: "OP_CHECKSIG"},
		},
	}
}

func TestEmitterSource(t *testing.T) {
	src, err := NewEmitter(nil, "").Source("scripts", []Func{p2pkh(), {Name: "empty"}})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	code := string(src)

	for _, want := range []string{
		"// " + GeneratedHeader,
		"package scripts",
		`"github.com/chazu/scriptgen/script"`,
		`"github.com/btcsuite/btcd/txscript"`,
		"// PayToPubkeyHash locks an output to a HASH160 of a public key.",
		"func PayToPubkeyHash(pubKeyHash []byte) (script.Script, error) {",
		"return script.Push(script.New().PushOpcode(txscript.OP_DUP).PushOpcode(txscript.OP_HASH160), pubKeyHash).PushOpcode(txscript.OP_EQUALVERIFY).PushOpcode(txscript.OP_CHECKSIG).IntoScript()",
		"func Empty() (script.Script, error) {",
		"return script.New().IntoScript()",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated source missing %q\n%s", want, code)
		}
	}

	if _, err := parser.ParseFile(token.NewFileSet(), "scripts_gen.go", src, parser.ParseComments); err != nil {
		t.Errorf("generated source does not parse: %v", err)
	}
}

func TestEmitterFile_Errors(t *testing.T) {
	bad := Func{
		Name:  "broken",
		Items: []syntax.Item{syntax.Opcode{Name: "OP_NOPE", At: syntax.Span{Source: "scriptgen.toml"}}},
	}
	tests := []struct {
		name  string
		pkg   string
		funcs []Func
		want  string
	}{
		{"bad package", "my-scripts", nil, `invalid package name "my-scripts"`},
		{"unknown opcode", "scripts", []Func{p2pkh(), bad}, `script broken: scriptgen.toml: unknown opcode "OP_NOPE"`},
		{"duplicate", "scripts", []Func{{Name: "a-b"}, {Name: "a_b"}}, `both generate func AB`},
		{"bad name", "scripts", []Func{{Name: "2fast"}}, `does not form an exported Go identifier`},
		{"bad param", "scripts", []Func{{Name: "x", Params: []Param{{Name: "a b", Type: "int"}}}}, `invalid parameter name "a b"`},
		{"undeclared package", "scripts", []Func{{Name: "x", Params: []Param{{Name: "p", Type: "*psbt.Packet"}}}}, `parameter p: unknown package "psbt"`},
		{"bad type", "scripts", []Func{{Name: "x", Params: []Param{{Name: "c", Type: "chan int"}}}}, `unsupported parameter type`},
		{"unparsable type", "scripts", []Func{{Name: "x", Params: []Param{{Name: "c", Type: "[]"}}}}, `type "[]"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewEmitter(nil, "").File(tt.pkg, tt.funcs)
			if err == nil {
				t.Fatal("expected error")
			}
			if f != nil {
				t.Error("expected no file on error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestEmitterFile_UnknownOpcodeIsTyped(t *testing.T) {
	_, err := NewEmitter(New(), "").File("scripts", []Func{{
		Name:  "bad",
		Items: []syntax.Item{syntax.Opcode{Name: "NOT_A_REAL_OP"}},
	}})
	var uerr *UnknownOpcodeError
	if !errors.As(err, &uerr) || uerr.Name != "NOT_A_REAL_OP" {
		t.Errorf("got %v, want wrapped *UnknownOpcodeError", err)
	}
}

func TestEmitterSource_QualifiedParams(t *testing.T) {
	e := NewEmitter(nil, "")
	if err := e.Import("tx", "example.com/chain/transaction/v2"); err != nil {
		t.Fatalf("Import: %v", err)
	}
	src, err := e.Source("scripts", []Func{{
		Name: "lock",
		Params: []Param{
			{Name: "key", Type: "*btcec.PublicKey"},
			{Name: "keys", Type: "[3]*btcec.PublicKey"},
			{Name: "hash", Type: "chainhash.Hash"},
			{Name: "out", Type: "map[string]*tx.Output"},
		},
		Items: []syntax.Item{syntax.Escape{Expr: "key"}},
	}})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	code := string(src)
	for _, want := range []string{
		`"github.com/btcsuite/btcd/btcec/v2"`,
		`"github.com/btcsuite/btcd/chaincfg/chainhash"`,
		`tx "example.com/chain/transaction/v2"`,
		"func Lock(key *btcec.PublicKey, keys [3]*btcec.PublicKey, hash chainhash.Hash, out map[string]*tx.Output) (script.Script, error) {",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated source missing %q\n%s", want, code)
		}
	}
	if strings.Contains(code, "txscript") {
		t.Errorf("unused import rendered:\n%s", code)
	}
}

func TestEmitterImport_Errors(t *testing.T) {
	e := NewEmitter(nil, "")
	if err := e.Import("", ""); err == nil {
		t.Error("expected error for empty path")
	}
	if err := e.Import("my-pkg", "example.com/x"); err == nil {
		t.Error("expected error for invalid name")
	}
}

func TestPackageName(t *testing.T) {
	tests := map[string]string{
		"github.com/btcsuite/btcd/btcec/v2": "btcec",
		"github.com/btcsuite/btcd/txscript": "txscript",
		"github.com/chazu/scriptgen/script": "script",
		"math/big":                          "big",
	}
	for path, want := range tests {
		if got := PackageName(path); got != want {
			t.Errorf("PackageName(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestFuncName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pay-to-pubkey-hash", "PayToPubkeyHash"},
		{"htlc_refund", "HtlcRefund"},
		{"multisig 2 of 3", "Multisig2Of3"},
		{"P2WSH", "P2WSH"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FuncName(tt.input)
			if err != nil {
				t.Fatalf("FuncName: %v", err)
			}
			if got != tt.expected {
				t.Errorf("FuncName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}

	for _, bad := range []string{"", "-", "9lives", "a.b"} {
		if _, err := FuncName(bad); err == nil {
			t.Errorf("FuncName(%q) should fail", bad)
		}
	}
}
