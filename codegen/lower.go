package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/chazu/scriptgen/catalog"
)

// DefaultRuntime is the import path of the builder package generated code
// calls into.
const DefaultRuntime = "github.com/chazu/scriptgen/script"

const txscriptPath = "github.com/btcsuite/btcd/txscript"

// Lower renders an expression as a Go builder call chain against the
// runtime package at the given import path.
//
//	Empty        -> script.New()
//	AppendOpcode -> .PushOpcode(txscript.OP_X), or .PushOpcode(value) for
//	                opcodes txscript does not define
//	AppendBytes  -> .PushSlice([]byte{...})
//	AppendInt    -> .PushInt(int64(n))
//	Push         -> script.Push(<builder>, <expr>)
//	Finalize     -> .IntoScript()
func Lower(e Expr, runtime string) *jen.Statement {
	if runtime == "" {
		runtime = DefaultRuntime
	}
	return lower(e, runtime)
}

func lower(e Expr, rt string) *jen.Statement {
	switch n := e.(type) {
	case Empty:
		return jen.Qual(rt, "New").Call()
	case AppendOpcode:
		return lower(n.Recv, rt).Dot("PushOpcode").Call(opcodeRef(n.Op))
	case AppendBytes:
		vals := make([]jen.Code, len(n.Data))
		for i, v := range n.Data {
			vals[i] = jen.Lit(int(v))
		}
		return lower(n.Recv, rt).Dot("PushSlice").Call(jen.Index().Byte().Values(vals...))
	case AppendInt:
		return lower(n.Recv, rt).Dot("PushInt").Call(jen.Lit(n.Value))
	case Push:
		return jen.Qual(rt, "Push").Call(lower(n.Builder, rt), jen.Id(n.Value))
	case Finalize:
		return lower(n.Recv, rt).Dot("IntoScript").Call()
	default:
		panic(fmt.Sprintf("codegen: unexpected expression %T", e))
	}
}

func opcodeRef(op catalog.Opcode) jen.Code {
	if catalog.IsBitcoin(op) {
		return jen.Qual(txscriptPath, op.Name)
	}
	return jen.Lit(int(op.Value))
}
