package script

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/txscript"
)

// Script is a finished, serialized script.
type Script []byte

// String disassembles the script on one line. Malformed trailing pushes are
// rendered as "[error]".
func (s Script) String() string {
	disasm, _ := txscript.DisasmString(s)
	return disasm
}

// Hex returns the hex encoding of the script.
func (s Script) Hex() string {
	return hex.EncodeToString(s)
}

// Equal reports whether two scripts are byte-identical.
func (s Script) Equal(other Script) bool {
	return bytes.Equal(s, other)
}
