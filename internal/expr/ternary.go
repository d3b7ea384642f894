package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
)

// TernaryExpr is a condition ? then : else expression. Only the taken
// branch is evaluated, matching C/C++ semantics (the untaken branch's
// side effects, if any, never happen).
type TernaryExpr struct {
	Cond, Then, Else data.Expr
}

// NewTernaryExpr builds a ternary expression node.
func NewTernaryExpr(cond, then, els data.Expr) *TernaryExpr {
	return &TernaryExpr{Cond: cond, Then: then, Else: els}
}

func (e *TernaryExpr) PropagateType() bool { return true }

func (e *TernaryExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	c := irvalue.ToBool(e.Cond.Evaluate(ctx))
	if c.Val.Magnitude != 0 {
		return e.Then.Evaluate(ctx)
	}
	return e.Else.Evaluate(ctx)
}

func (e *TernaryExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue {
	c := irvalue.ToBool(e.Cond.Rebuild(ctx))
	if c.Val.Magnitude != 0 {
		return e.Then.Rebuild(ctx)
	}
	return e.Else.Rebuild(ctx)
}

func (e *TernaryExpr) ExprKind() policy.NodeKind { return policy.NodeTernary }
