package lower

import (
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

// binOpBuiltin maps a Source binary operator to its Core builtin name.
// MatMult and TrueDiv have no Core semantics and are rejected by the
// caller before this table is consulted.
var binOpBuiltin = map[srcast.BinOpKind]string{
	srcast.Add:      "add",
	srcast.Sub:      "sub",
	srcast.Mul:      "mul",
	srcast.FloorDiv: "floordiv",
	srcast.Mod:      "mod",
	srcast.Pow:      "pow",
	srcast.BitAnd:   "band",
	srcast.BitOr:    "bor",
	srcast.BitXor:   "bxor",
	srcast.LShift:   "shl",
	srcast.RShift:   "shr",
	srcast.OpMax:    "max2",
	srcast.OpMin:    "min2",
}

var unaryOpBuiltin = map[srcast.UnaryOpKind]string{
	srcast.Invert: "bnot",
	srcast.Not:    "not",
	srcast.Negate: "neg",
}

var boolOpBuiltin = map[srcast.BoolOpKind]string{
	srcast.And:     "and",
	srcast.Or:      "or",
	srcast.Implies: "implies",
}

// compareOpBuiltin maps every CompareOp except NotIn, which has no
// single builtin and is desugared inline by lowerCompareLink.
var compareOpBuiltin = map[srcast.CompareOp]string{
	srcast.Lt:    "lt",
	srcast.LtE:   "le",
	srcast.Gt:    "gt",
	srcast.GtE:   "ge",
	srcast.Eq:    "eq",
	srcast.NotEq: "ne",
	srcast.Is:    "eq",
	srcast.IsNot: "ne",
	srcast.In:    "in",
}

func binOpName(op srcast.BinOpKind, span srcast.Span) (string, error) {
	switch op {
	case srcast.MatMult:
		return "", semErr(errors.LOW003, span, "matrix multiplication has no Core semantics")
	case srcast.TrueDiv:
		return "", semErr(errors.LOW004, span, "true division has no Core semantics")
	}
	name, ok := binOpBuiltin[op]
	if !ok {
		return "", semErr(errors.LOW901, span, "unresolved binary operator %v", op)
	}
	return name, nil
}
