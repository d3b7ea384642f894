package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/genrors"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// LibCallExpr models a call into the target language's standard library
// (std::min, simd_select, reduce_min, ...) in place of an arithmetic
// subtree. Library calls never produce UB themselves in this model —
// the spec treats them as UB-opaque primitives (section 4.I) — so
// Rebuild and Evaluate share one implementation.
type LibCallExpr struct {
	Kind       policy.LibCallKind
	Args       []data.Expr
	ResultType types.IntTypeID
}

// NewLibCallExpr builds a library-call expression.
func NewLibCallExpr(kind policy.LibCallKind, resultType types.IntTypeID, args ...data.Expr) *LibCallExpr {
	return &LibCallExpr{Kind: kind, Args: args, ResultType: resultType}
}

func (e *LibCallExpr) PropagateType() bool { return true }

func (e *LibCallExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue { return e.eval(ctx, false) }
func (e *LibCallExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue  { return e.eval(ctx, true) }
func (e *LibCallExpr) ExprKind() policy.NodeKind                   { return policy.NodeLibCall }

func (e *LibCallExpr) eval(ctx *data.EvalCtx, rebuild bool) irvalue.IRValue {
	vals := make([]irvalue.IRValue, len(e.Args))
	for i, a := range e.Args {
		if rebuild {
			vals[i] = a.Rebuild(ctx)
		} else {
			vals[i] = a.Evaluate(ctx)
		}
	}
	switch e.Kind {
	case policy.LibMin:
		return reduceVals(vals, func(acc, v irvalue.IRValue) irvalue.IRValue {
			if truthy(irvalue.Binary(irvalue.Lt, v, acc)) {
				return v
			}
			return acc
		})
	case policy.LibMax:
		return reduceVals(vals, func(acc, v irvalue.IRValue) irvalue.IRValue {
			if truthy(irvalue.Binary(irvalue.Gt, v, acc)) {
				return v
			}
			return acc
		})
	case policy.LibSelect:
		if len(vals) != 3 {
			genrors.Fail(genrors.UnreachableNodeKind, "expr.LibCallExpr.eval", "select expects 3 args, got %d", len(vals))
		}
		if truthy(vals[0]) {
			return vals[1]
		}
		return vals[2]
	case policy.LibAny:
		for _, v := range vals {
			if truthy(v) {
				return boolVal(true)
			}
		}
		return boolVal(false)
	case policy.LibAll:
		for _, v := range vals {
			if !truthy(v) {
				return boolVal(false)
			}
		}
		return boolVal(true)
	case policy.LibNone:
		for _, v := range vals {
			if truthy(v) {
				return boolVal(false)
			}
		}
		return boolVal(true)
	case policy.LibReduceMin:
		return reduceVals(vals, func(acc, v irvalue.IRValue) irvalue.IRValue {
			if truthy(irvalue.Binary(irvalue.Lt, v, acc)) {
				return v
			}
			return acc
		})
	case policy.LibReduceMax:
		return reduceVals(vals, func(acc, v irvalue.IRValue) irvalue.IRValue {
			if truthy(irvalue.Binary(irvalue.Gt, v, acc)) {
				return v
			}
			return acc
		})
	case policy.LibReduceEq:
		for i := 1; i < len(vals); i++ {
			if truthy(irvalue.Binary(irvalue.Ne, vals[i], vals[0])) {
				return boolVal(false)
			}
		}
		return boolVal(true)
	case policy.LibExtract:
		if len(vals) == 0 {
			return irvalue.Uninitialized(e.ResultType)
		}
		return vals[0]
	}
	genrors.Fail(genrors.UnreachableNodeKind, "expr.LibCallExpr.eval", "unhandled lib call kind %v", e.Kind)
	return irvalue.IRValue{}
}

func truthy(v irvalue.IRValue) bool { return v.Val.Magnitude != 0 }

func boolVal(b bool) irvalue.IRValue {
	if b {
		return irvalue.FromUint64(types.BOOL, 1)
	}
	return irvalue.FromUint64(types.BOOL, 0)
}

func reduceVals(vals []irvalue.IRValue, pick func(acc, v irvalue.IRValue) irvalue.IRValue) irvalue.IRValue {
	if len(vals) == 0 {
		return irvalue.IRValue{}
	}
	acc := vals[0]
	for _, v := range vals[1:] {
		acc = pick(acc, v)
	}
	return acc
}
