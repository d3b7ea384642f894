package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
)

// BinaryExpr applies a single operator to two operands.
type BinaryExpr struct {
	Op       irvalue.BinaryOp
	LHS, RHS data.Expr
}

// NewBinaryExpr builds a binary expression node.
func NewBinaryExpr(op irvalue.BinaryOp, lhs, rhs data.Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

func (e *BinaryExpr) PropagateType() bool { return true }

func (e *BinaryExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	return irvalue.Binary(e.Op, e.LHS.Evaluate(ctx), e.RHS.Evaluate(ctx))
}

// Rebuild evaluates both (already-repaired) operands and, if combining
// them under Op would introduce fresh UB, masks them per
// repairBinaryOperandExprs and reassigns e.LHS/e.RHS to the repaired
// subtrees — the repair table from spec section 4.F, reduced to one
// fixed mask per UB kind rather than a search for the loosest safe
// bound. Reassigning the fields (rather than just returning a
// recomputed value) is what lets a later, independent Evaluate on this
// same node reproduce the repair.
func (e *BinaryExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue {
	a := e.LHS.Rebuild(ctx)
	b := e.RHS.Rebuild(ctx)
	r := irvalue.Binary(e.Op, a, b)
	if r.UB == irvalue.NoUB {
		return r
	}
	if a.UB != irvalue.NoUB || b.UB != irvalue.NoUB {
		// UB simply propagated from an operand that Rebuild already
		// tried and failed to clear (e.g. an uninitialized read); this
		// node has nothing fresh to repair.
		return r
	}
	e.LHS, e.RHS = repairBinaryOperandExprs(e.Op, a, b, e.LHS, e.RHS, r.UB)
	return irvalue.Binary(e.Op, e.LHS.Evaluate(ctx), e.RHS.Evaluate(ctx))
}

func (e *BinaryExpr) ExprKind() policy.NodeKind { return policy.NodeBinary }
