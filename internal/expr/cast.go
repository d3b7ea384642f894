package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/genrors"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// CastStyle distinguishes an implicit conversion (inserted by the
// populator to satisfy a context's expected type) from an explicit,
// user-visible cast expression.
type CastStyle int

const (
	ImplicitCast CastStyle = iota
	ExplicitCast
)

// TypeCastExpr converts its operand to Target.
type TypeCastExpr struct {
	Operand data.Expr
	Target  types.Type
	Style   CastStyle
}

// NewTypeCastExpr builds a cast expression. Casting to or from a BOOL CV
// qualifier that doesn't match the operand's is always legal (every
// integer type converts to/from BOOL); the only thing this rejects is a
// nil operand, which would indicate an invariant violation upstream.
func NewTypeCastExpr(operand data.Expr, target types.Type, style CastStyle) *TypeCastExpr {
	if operand == nil {
		genrors.Fail(genrors.IncompatibleCast, "expr.NewTypeCastExpr", "cast operand is nil")
	}
	return &TypeCastExpr{Operand: operand, Target: target, Style: style}
}

func (e *TypeCastExpr) PropagateType() bool { return true }

func (e *TypeCastExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	return irvalue.Cast(e.Operand.Evaluate(ctx), e.Target.ID)
}

// Rebuild repairs the one new UB a cast can introduce — SignOverflow
// from narrowing into a signed destination that can't hold the source
// value — by masking the operand into the destination's unsigned range
// before casting, and reassigning e.Operand to the masked subtree so a
// later, independent Evaluate on this node reproduces the repair. Any
// UB already present on the operand simply propagates, since Rebuild's
// contract is "no *new* UB", not "no UB anywhere in the subtree" (the
// subtree's own Rebuild call already handled that).
func (e *TypeCastExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue {
	v := e.Operand.Rebuild(ctx)
	casted := irvalue.Cast(v, e.Target.ID)
	if casted.UB == irvalue.NoUB || casted.UB == v.UB {
		return casted
	}
	// Halve the unsigned range (not just mask into it) so the result is
	// guaranteed to land in the signed destination's non-negative half —
	// the same mask clearSignBit uses.
	maskVal := types.Max(types.UnsignedCounterpart(e.Target.ID)) >> 1
	mask := NewConstExpr(irvalue.FromUint64(v.TypeID, maskVal))
	e.Operand = NewBinaryExpr(irvalue.BitAnd, e.Operand, mask)
	return irvalue.Cast(e.Operand.Evaluate(ctx), e.Target.ID)
}

func (e *TypeCastExpr) ExprKind() policy.NodeKind { return policy.NodeTypeCast }
