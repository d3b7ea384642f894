package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/genrors"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// Interner hands out one use-expression per underlying Data object, the
// way the original keeps a single VarUse/ArrayUse/IterUse per Data
// identity instead of allocating a fresh wrapper every time a leaf picks
// the same variable again. Each Generator owns its own Interner so two
// concurrently-running generations never share state.
type Interner struct {
	scalars map[*data.ScalarVar]*ScalarVarUseExpr
	arrays  map[*data.Array]*ArrayUseExpr
	iters   map[*data.Iterator]*IterUseExpr
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		scalars: make(map[*data.ScalarVar]*ScalarVarUseExpr),
		arrays:  make(map[*data.Array]*ArrayUseExpr),
		iters:   make(map[*data.Iterator]*IterUseExpr),
	}
}

// ScalarUse returns the (possibly cached) use expression for v.
func (in *Interner) ScalarUse(v *data.ScalarVar) *ScalarVarUseExpr {
	if e, ok := in.scalars[v]; ok {
		return e
	}
	e := &ScalarVarUseExpr{Var: v}
	in.scalars[v] = e
	return e
}

// ArrayUse returns the (possibly cached) use expression for a.
func (in *Interner) ArrayUse(a *data.Array) *ArrayUseExpr {
	if e, ok := in.arrays[a]; ok {
		return e
	}
	e := &ArrayUseExpr{Arr: a}
	in.arrays[a] = e
	return e
}

// IterUse returns the (possibly cached) use expression for it.
func (in *Interner) IterUse(it *data.Iterator) *IterUseExpr {
	if e, ok := in.iters[it]; ok {
		return e
	}
	e := &IterUseExpr{Iter: it}
	in.iters[it] = e
	return e
}

// ScalarVarUseExpr reads a scalar variable's current value.
type ScalarVarUseExpr struct {
	Var *data.ScalarVar
}

func (e *ScalarVarUseExpr) PropagateType() bool { return true }

func (e *ScalarVarUseExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	if ctx != nil {
		if d, ok := ctx.Input[e.Var.Name()]; ok {
			if sv, ok2 := d.(*data.ScalarVar); ok2 {
				return sv.CurVal
			}
		}
	}
	e.Var.SetIsDead(false)
	return e.Var.CurVal
}

func (e *ScalarVarUseExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue { return e.Evaluate(ctx) }
func (e *ScalarVarUseExpr) ExprKind() policy.NodeKind                { return policy.NodeScalarVarUse }

// AssignCurrent implements LValue by writing through to the underlying
// variable.
func (e *ScalarVarUseExpr) AssignCurrent(v irvalue.IRValue) { e.Var.SetCurrentValue(v) }

// ArrayUseExpr reads an array as a whole (e.g. as an argument to a
// reduction library call), rather than through a subscript.
type ArrayUseExpr struct {
	Arr *data.Array
}

func (e *ArrayUseExpr) PropagateType() bool { return true }

func (e *ArrayUseExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	e.Arr.SetIsDead(false)
	return e.Arr.CurVals.Latest()
}

func (e *ArrayUseExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue { return e.Evaluate(ctx) }
func (e *ArrayUseExpr) ExprKind() policy.NodeKind                 { return policy.NodeArrayUse }

// IterUseExpr reads a loop iterator's current value. Like the teacher's
// compiler which resolves a loop variable to its current bound slot
// rather than recomputing it, this looks up the iterator's live binding
// in the EvalCtx first, and only falls back to its start expression
// (the value before the loop body has run) when no binding is present.
type IterUseExpr struct {
	Iter *data.Iterator
}

func (e *IterUseExpr) PropagateType() bool { return true }

func (e *IterUseExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	if ctx != nil {
		if d, ok := ctx.Input[e.Iter.Name()]; ok {
			if sv, ok2 := d.(*data.ScalarVar); ok2 {
				return sv.CurVal
			}
		}
	}
	return e.Iter.Start.Evaluate(ctx)
}

func (e *IterUseExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue { return e.Evaluate(ctx) }
func (e *IterUseExpr) ExprKind() policy.NodeKind                 { return policy.NodeIterUse }

// SubscriptExpr indexes into an array along ActiveDim, with the other
// dimensions' indices fixed by Idx. StencilOffset records the offset the
// stencil planner drew when this subscript sits inside a stencil pattern
// (spec section 4.J); Evaluate and Rebuild do not add it to any index.
type SubscriptExpr struct {
	Arr           *data.Array
	Idx           []data.Expr
	ActiveDim     int
	StencilOffset int64
}

// NewSubscriptExpr validates and builds a subscript expression.
func NewSubscriptExpr(arr *data.Array, idx []data.Expr, activeDim int, stencilOffset int64) *SubscriptExpr {
	if arr == nil {
		genrors.Fail(genrors.SubscriptBaseNotArray, "expr.NewSubscriptExpr", "subscript base is nil, expected an array")
	}
	if len(idx) != arr.ArrType.Rank() {
		genrors.Fail(genrors.RankMismatch, "expr.NewSubscriptExpr", "array %s has rank %d, got %d index expressions", arr.Name(), arr.ArrType.Rank(), len(idx))
	}
	if activeDim < 0 || activeDim >= arr.ArrType.Rank() {
		genrors.Fail(genrors.RankMismatch, "expr.NewSubscriptExpr", "active_dim %d out of range for rank %d", activeDim, arr.ArrType.Rank())
	}
	return &SubscriptExpr{Arr: arr, Idx: idx, ActiveDim: activeDim, StencilOffset: stencilOffset}
}

func (e *SubscriptExpr) PropagateType() bool { return len(e.Idx) == e.Arr.ArrType.Rank() }

func (e *SubscriptExpr) Evaluate(ctx *data.EvalCtx) irvalue.IRValue {
	oob := false
	for d, ix := range e.Idx {
		iv := ix.Evaluate(ctx)
		if iv.UB == irvalue.NoUB && !inBounds(iv, e.Arr.ArrType.Dims[d]) {
			oob = true
		}
	}
	e.Arr.SetIsDead(false)
	v := e.Arr.CurVals.Latest()
	if oob {
		v.UB = irvalue.OutOfBounds
	}
	return v
}

// Rebuild repairs every out-of-bounds index dimension by wrapping it in
// ((idx mod size) + size) mod size — a true, always non-negative
// modulus, since the underlying Mod operator truncates toward zero
// like C's % and would leave a[i-1] at i==0 as a[-1] instead of
// wrapping to a[size-1] (spec section 4.F's "Subscript | OutOfBounds |
// wrap index in idx mod active_size", grounded on
// original_source/src/expr.cpp's SubscriptExpr::rebuild mod-repair on
// idx).
func (e *SubscriptExpr) Rebuild(ctx *data.EvalCtx) irvalue.IRValue {
	for d := range e.Idx {
		iv := e.Idx[d].Rebuild(ctx)
		size := e.Arr.ArrType.Dims[d]
		if iv.UB == irvalue.NoUB && !inBounds(iv, size) {
			e.Idx[d] = wrapIndexMod(e.Idx[d], iv.TypeID, size)
			e.Idx[d].Rebuild(ctx)
		}
	}
	e.Arr.SetIsDead(false)
	return e.Arr.CurVals.Latest()
}

func (e *SubscriptExpr) ExprKind() policy.NodeKind { return policy.NodeSubscript }

// inBounds reports whether v, read as a signed index, falls in [0, size).
func inBounds(v irvalue.IRValue, size int) bool {
	if v.Val.IsNegative {
		return false
	}
	return v.Val.Magnitude < uint64(size)
}

// wrapIndexMod builds ((idx mod size) + size) mod size, a tree that
// always evaluates in [0, size) regardless of idx's sign.
func wrapIndexMod(idx data.Expr, typeID types.IntTypeID, size int) data.Expr {
	sizeConst := func() data.Expr { return NewConstExpr(irvalue.FromInt64(typeID, int64(size))) }
	modded := NewBinaryExpr(irvalue.Mod, idx, sizeConst())
	shifted := NewBinaryExpr(irvalue.Add, modded, sizeConst())
	return NewBinaryExpr(irvalue.Mod, shifted, sizeConst())
}

// AssignCurrent implements LValue: the write is recorded against the
// whole array's current-value cluster rather than a single concrete
// element, matching the multi-value-cluster model the rest of this
// package uses in place of tracking each element's exact value.
func (e *SubscriptExpr) AssignCurrent(v irvalue.IRValue) {
	span := make([]int, len(e.Idx))
	steps := make([]int, len(e.Idx))
	for i := range steps {
		steps[i] = 1
	}
	e.Arr.SetValue(v, span, steps)
}
