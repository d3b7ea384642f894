package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
)

// ConstExpr is a literal value. It never carries UB on its own (a
// ConstExpr built from an irvalue.Uninitialized value is the one
// exception: it returns that tagged value as is).
type ConstExpr struct {
	Val irvalue.IRValue
}

// NewConstExpr wraps a fixed IRValue as an expression leaf.
func NewConstExpr(v irvalue.IRValue) *ConstExpr { return &ConstExpr{Val: v} }

func (e *ConstExpr) PropagateType() bool                        { return true }
func (e *ConstExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue  { return e.Val }
func (e *ConstExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue   { return e.Val }
func (e *ConstExpr) ExprKind() policy.NodeKind                   { return policy.NodeConst }
