package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/genrors"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
)

// LValue is an expression that can also appear as an assignment target.
type LValue interface {
	data.Expr
	AssignCurrent(v irvalue.IRValue)
}

// AssignmentExpr writes From's value into To. Taken mirrors the
// populator's dead-code bookkeeping (spec section 4.H): an assignment
// generated inside statically-dead code still type-checks and evaluates
// (so its value can feed an outer expression if the generator reuses the
// subtree), but its write-through to To is suppressed.
type AssignmentExpr struct {
	To    LValue
	From  data.Expr
	Taken bool
}

// NewAssignmentExpr builds an assignment expression. A nil target is an
// invariant violation: the populator must never construct an assignment
// without first resolving a concrete lvalue.
func NewAssignmentExpr(to LValue, from data.Expr, taken bool) *AssignmentExpr {
	if to == nil {
		genrors.Fail(genrors.NonLvalueAssignTarget, "expr.NewAssignmentExpr", "assignment target must be a non-nil lvalue")
	}
	return &AssignmentExpr{To: to, From: from, Taken: taken}
}

func (e *AssignmentExpr) PropagateType() bool { return true }

func (e *AssignmentExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	v := e.From.Evaluate(ctx)
	if e.Taken {
		e.To.AssignCurrent(v)
	}
	return v
}

func (e *AssignmentExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue {
	v := e.From.Rebuild(ctx)
	if e.Taken {
		e.To.AssignCurrent(v)
	}
	return v
}

func (e *AssignmentExpr) ExprKind() policy.NodeKind { return policy.NodeAssignment }
