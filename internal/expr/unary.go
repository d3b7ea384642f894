package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
)

// UnaryExpr applies a single operator to one operand.
type UnaryExpr struct {
	Op      irvalue.UnaryOp
	Operand data.Expr
}

// NewUnaryExpr builds a unary expression node.
func NewUnaryExpr(op irvalue.UnaryOp, operand data.Expr) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand}
}

func (e *UnaryExpr) PropagateType() bool { return true }

func (e *UnaryExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	return irvalue.Unary(e.Op, e.Operand.Evaluate(ctx))
}

// Rebuild repairs the only UB a unary operator can introduce — negating
// TypeMin — by clearing the operand's sign bit first, reassigning
// e.Operand to the masked subtree so a later, independent Evaluate on
// this node reproduces the repair.
func (e *UnaryExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue {
	v := e.Operand.Rebuild(ctx)
	r := irvalue.Unary(e.Op, v)
	if r.UB == irvalue.NoUB || r.UB == v.UB {
		return r
	}
	e.Operand = clearSignBitExpr(v.TypeID, e.Operand)
	return irvalue.Unary(e.Op, e.Operand.Evaluate(ctx))
}

func (e *UnaryExpr) ExprKind() policy.NodeKind { return policy.NodeUnary }
