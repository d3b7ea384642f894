package expr

import (
	"testing"

	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/genrors"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/types"
)

func newVar(name string, v int64) *data.ScalarVar {
	sv := data.NewScalarVar(name, types.INT, irvalue.FromInt64(types.INT, v))
	sv.SetIsDead(false)
	return sv
}

func newArr(name string, v int64) *data.Array {
	a := data.NewArray(name, data.ArrayType{Base: types.INT, Dims: []int{4}}, 4, irvalue.FromInt64(types.INT, v))
	a.SetIsDead(false)
	return a
}

func expectPanic(t *testing.T, wantKind genrors.InvariantKind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic, got none")
		}
		inv, ok := r.(*genrors.Invariant)
		if !ok {
			t.Fatalf("panic value is %T, want *genrors.Invariant", r)
		}
		if inv.Kind != wantKind {
			t.Errorf("Kind = %v, want %v", inv.Kind, wantKind)
		}
	}()
	fn()
}

func TestConstExprEvaluateAndRebuild(t *testing.T) {
	v := irvalue.FromInt64(types.INT, 42)
	c := NewConstExpr(v)
	if c.Evaluate(nil) != v || c.Rebuild(nil) != v {
		t.Error("ConstExpr must return its fixed value unchanged")
	}
	if c.ExprKind() != policy.NodeConst {
		t.Error("ConstExpr.ExprKind() != NodeConst")
	}
}

func TestInternerCachesByIdentity(t *testing.T) {
	in := NewInterner()
	v := newVar("x", 1)
	a := newArr("a", 1)

	if in.ScalarUse(v) != in.ScalarUse(v) {
		t.Error("ScalarUse must return the same expression for the same variable")
	}
	if in.ArrayUse(a) != in.ArrayUse(a) {
		t.Error("ArrayUse must return the same expression for the same array")
	}

	other := newVar("y", 2)
	if in.ScalarUse(v) == in.ScalarUse(other) {
		t.Error("ScalarUse must not conflate two distinct variables")
	}
}

func TestScalarVarUseExprReadsCurrentAndMarksLive(t *testing.T) {
	v := newVar("x", 5)
	v.SetIsDead(true)
	e := &ScalarVarUseExpr{Var: v}
	got := e.Evaluate(data.NewEvalCtx())
	if got.Val.Magnitude != 5 {
		t.Errorf("Evaluate() = %+v, want magnitude 5", got)
	}
	if v.IsDead() {
		t.Error("reading a variable must clear its dead flag")
	}
}

func TestScalarVarUseExprInputOverride(t *testing.T) {
	v := newVar("x", 5)
	e := &ScalarVarUseExpr{Var: v}
	ctx := data.NewEvalCtx()
	override := newVar("x", 99)
	ctx.Input["x"] = override
	got := e.Evaluate(ctx)
	if got.Val.Magnitude != 99 {
		t.Errorf("Evaluate() with an Input override = %+v, want 99", got)
	}
}

func TestScalarVarUseExprAssignCurrent(t *testing.T) {
	v := newVar("x", 0)
	e := &ScalarVarUseExpr{Var: v}
	e.AssignCurrent(irvalue.FromInt64(types.INT, 7))
	if v.CurVal.Val.Magnitude != 7 {
		t.Error("AssignCurrent must write through to the underlying variable")
	}
}

func TestArrayUseExprKind(t *testing.T) {
	a := newArr("a", 3)
	e := &ArrayUseExpr{Arr: a}
	if e.ExprKind() != policy.NodeArrayUse {
		t.Error("ArrayUseExpr.ExprKind() must be NodeArrayUse, not NodeScalarVarUse")
	}
	if e.Evaluate(nil).Val.Magnitude != 3 {
		t.Error("ArrayUseExpr.Evaluate must read the array's latest cluster value")
	}
}

func TestNewSubscriptExprValidation(t *testing.T) {
	a := newArr("a", 0)
	idx := []data.Expr{NewConstExpr(irvalue.FromInt64(types.INT, 0))}

	expectPanic(t, genrors.SubscriptBaseNotArray, func() {
		NewSubscriptExpr(nil, idx, 0, 0)
	})
	expectPanic(t, genrors.RankMismatch, func() {
		NewSubscriptExpr(a, []data.Expr{}, 0, 0)
	})
	expectPanic(t, genrors.RankMismatch, func() {
		NewSubscriptExpr(a, idx, 5, 0)
	})

	sub := NewSubscriptExpr(a, idx, 0, 0)
	if sub.Evaluate(nil).Val.Magnitude != 0 {
		t.Error("SubscriptExpr.Evaluate must read the array's current value")
	}
}

func TestSubscriptExprAssignCurrentRecordsWrite(t *testing.T) {
	a := newArr("a", 0)
	idx := []data.Expr{NewConstExpr(irvalue.FromInt64(types.INT, 2))}
	sub := NewSubscriptExpr(a, idx, 0, 0)
	sub.AssignCurrent(irvalue.FromInt64(types.INT, 9))
	if a.CurVals.Latest().Val.Magnitude != 9 {
		t.Error("SubscriptExpr.AssignCurrent must push into the array's current cluster")
	}
	if len(a.Writes) != 1 {
		t.Error("SubscriptExpr.AssignCurrent must record a write span")
	}
}

func TestTypeCastExprNilOperandPanics(t *testing.T) {
	expectPanic(t, genrors.IncompatibleCast, func() {
		NewTypeCastExpr(nil, types.NewType(types.CHAR), ImplicitCast)
	})
}

func TestTypeCastExprEvaluateNarrows(t *testing.T) {
	operand := NewConstExpr(irvalue.FromInt64(types.INT, 1000))
	cast := NewTypeCastExpr(operand, types.NewType(types.CHAR), ExplicitCast)
	r := cast.Evaluate(nil)
	if r.UB != irvalue.SignOverflow {
		t.Errorf("casting 1000 to CHAR: UB = %v, want SignOverflow", r.UB)
	}
}

func TestTypeCastExprRebuildNeverIntroducesFreshUB(t *testing.T) {
	operand := NewConstExpr(irvalue.FromInt64(types.INT, 1000))
	cast := NewTypeCastExpr(operand, types.NewType(types.CHAR), ExplicitCast)
	r := cast.Rebuild(nil)
	if r.HasUB() {
		t.Errorf("Rebuild must repair fresh cast overflow, got UB %v", r.UB)
	}
}

func TestUnaryExprRebuildRepairsNegOverflow(t *testing.T) {
	min := NewConstExpr(irvalue.FromInt64(types.INT, types.Min(types.INT)))
	u := NewUnaryExpr(irvalue.Neg, min)
	if ev := u.Evaluate(nil); ev.UB != irvalue.SignOverflow {
		t.Fatalf("precondition failed: -INT_MIN should be UB, got %v", ev.UB)
	}
	r := u.Rebuild(nil)
	if r.HasUB() {
		t.Errorf("Rebuild must clear fresh sign overflow, got UB %v", r.UB)
	}
}

func TestUnaryExprRebuildPropagatesExistingUB(t *testing.T) {
	uninit := NewConstExpr(irvalue.Uninitialized(types.INT))
	u := NewUnaryExpr(irvalue.Neg, uninit)
	r := u.Rebuild(nil)
	if r.UB != irvalue.Uninit {
		t.Errorf("Rebuild must not attempt to repair UB it didn't introduce, got %v want Uninit", r.UB)
	}
}

func TestBinaryExprRebuildRepairsSignOverflow(t *testing.T) {
	a := NewConstExpr(irvalue.FromInt64(types.INT, types.Min(types.INT)*-1-1)) // INT_MAX
	b := NewConstExpr(irvalue.FromInt64(types.INT, 1))
	add := NewBinaryExpr(irvalue.Add, a, b)
	if ev := add.Evaluate(nil); ev.UB != irvalue.SignOverflow {
		t.Fatalf("precondition failed: INT_MAX+1 should overflow, got %v", ev.UB)
	}
	r := add.Rebuild(nil)
	if r.HasUB() {
		t.Errorf("Rebuild must repair fresh sign overflow, got UB %v", r.UB)
	}
}

func TestBinaryExprRebuildRepairsZeroDiv(t *testing.T) {
	a := NewConstExpr(irvalue.FromInt64(types.INT, 10))
	z := NewConstExpr(irvalue.FromInt64(types.INT, 0))
	div := NewBinaryExpr(irvalue.Div, a, z)
	r := div.Rebuild(nil)
	if r.HasUB() {
		t.Errorf("Rebuild must repair division by zero, got UB %v", r.UB)
	}
}

func TestBinaryExprRebuildRepairsShiftUB(t *testing.T) {
	a := NewConstExpr(irvalue.FromInt64(types.INT, 1))
	big := NewConstExpr(irvalue.FromInt64(types.INT, 40))
	shl := NewBinaryExpr(irvalue.Shl, a, big)
	r := shl.Rebuild(nil)
	if r.HasUB() {
		t.Errorf("Rebuild must repair an out-of-range shift count, got UB %v", r.UB)
	}
}

func TestBinaryExprRebuildDoesNotTouchPropagatedUB(t *testing.T) {
	tainted := NewConstExpr(irvalue.Uninitialized(types.INT))
	one := NewConstExpr(irvalue.FromInt64(types.INT, 1))
	add := NewBinaryExpr(irvalue.Add, tainted, one)
	r := add.Rebuild(nil)
	if r.UB != irvalue.Uninit {
		t.Errorf("Rebuild of an already-tainted operand must leave UB as-is, got %v", r.UB)
	}
}

func TestBinaryExprRebuildMutatesTreeSoEvaluateAgrees(t *testing.T) {
	a := NewConstExpr(irvalue.FromInt64(types.INT, types.Min(types.INT)*-1-1)) // INT_MAX
	b := NewConstExpr(irvalue.FromInt64(types.INT, 1))
	add := NewBinaryExpr(irvalue.Add, a, b)
	rebuilt := add.Rebuild(nil)
	evaluated := add.Evaluate(nil)
	if evaluated.HasUB() {
		t.Errorf("Evaluate after Rebuild still sees UB %v; Rebuild must mutate the node tree", evaluated.UB)
	}
	if evaluated.Val != rebuilt.Val {
		t.Errorf("Evaluate after Rebuild = %v, want the repaired value %v", evaluated.Val, rebuilt.Val)
	}
}

func TestUnaryExprRebuildMutatesTreeSoEvaluateAgrees(t *testing.T) {
	min := NewConstExpr(irvalue.FromInt64(types.INT, types.Min(types.INT)))
	u := NewUnaryExpr(irvalue.Neg, min)
	u.Rebuild(nil)
	if ev := u.Evaluate(nil); ev.HasUB() {
		t.Errorf("Evaluate after Rebuild still sees UB %v; Rebuild must mutate e.Operand", ev.UB)
	}
}

func TestTypeCastExprRebuildMutatesTreeSoEvaluateAgrees(t *testing.T) {
	operand := NewConstExpr(irvalue.FromInt64(types.INT, 1000))
	cast := NewTypeCastExpr(operand, types.NewType(types.CHAR), ExplicitCast)
	cast.Rebuild(nil)
	if ev := cast.Evaluate(nil); ev.HasUB() {
		t.Errorf("Evaluate after Rebuild still sees UB %v; Rebuild must mutate e.Operand", ev.UB)
	}
}

func TestSubscriptExprEvaluateFlagsOutOfBounds(t *testing.T) {
	arr := newArr("a", 0)
	idx := NewConstExpr(irvalue.FromInt64(types.INT, -1))
	sub := NewSubscriptExpr(arr, []data.Expr{idx}, 0, 0)
	v := sub.Evaluate(nil)
	if v.UB != irvalue.OutOfBounds {
		t.Errorf("indexing a[-1] against a 4-element array: UB = %v, want OutOfBounds", v.UB)
	}
}

func TestSubscriptExprEvaluateInBoundsHasNoUB(t *testing.T) {
	arr := newArr("a", 0)
	idx := NewConstExpr(irvalue.FromInt64(types.INT, 2))
	sub := NewSubscriptExpr(arr, []data.Expr{idx}, 0, 0)
	if v := sub.Evaluate(nil); v.HasUB() {
		t.Errorf("indexing a[2] against a 4-element array should not be UB, got %v", v.UB)
	}
}

func TestSubscriptExprRebuildWrapsNegativeIndex(t *testing.T) {
	arr := newArr("a", 0)
	idx := NewConstExpr(irvalue.FromInt64(types.INT, -1))
	sub := NewSubscriptExpr(arr, []data.Expr{idx}, 0, 0)
	rebuilt := sub.Rebuild(nil)
	if rebuilt.HasUB() {
		t.Errorf("Rebuild must repair a[-1], got UB %v", rebuilt.UB)
	}
	wrapped, ok := sub.Idx[0].(*ConstExpr)
	if ok {
		t.Errorf("Rebuild should replace a negative-index leaf with a repair subtree, got it still a bare %T", wrapped)
	}
	if ev := sub.Idx[0].Evaluate(nil); ev.HasUB() || !inBounds(ev, arr.ArrType.Dims[0]) {
		t.Errorf("repaired index evaluates to %v, want an in-bounds, UB-free value", ev)
	}
	if ev := sub.Evaluate(nil); ev.HasUB() {
		t.Errorf("Evaluate after Rebuild still sees UB %v; Rebuild must mutate e.Idx", ev.UB)
	}
}

func TestTernaryExprOnlyEvaluatesTakenBranch(t *testing.T) {
	cond := NewConstExpr(irvalue.FromInt64(types.BOOL, 1))
	thenVal := NewConstExpr(irvalue.FromInt64(types.INT, 10))
	elseVal := NewConstExpr(irvalue.Uninitialized(types.INT))
	tern := NewTernaryExpr(cond, thenVal, elseVal)
	r := tern.Evaluate(nil)
	if r.HasUB() || r.Val.Magnitude != 10 {
		t.Errorf("true branch taken: Evaluate() = %+v, want well-defined 10", r)
	}
}

func TestAssignmentExprNilTargetPanics(t *testing.T) {
	expectPanic(t, genrors.NonLvalueAssignTarget, func() {
		NewAssignmentExpr(nil, NewConstExpr(irvalue.FromInt64(types.INT, 1)), true)
	})
}

func TestAssignmentExprTakenWritesThrough(t *testing.T) {
	v := newVar("x", 0)
	to := &ScalarVarUseExpr{Var: v}
	from := NewConstExpr(irvalue.FromInt64(types.INT, 5))
	a := NewAssignmentExpr(to, from, true)
	a.Evaluate(nil)
	if v.CurVal.Val.Magnitude != 5 {
		t.Error("a Taken assignment must write through")
	}
}

func TestAssignmentExprNotTakenSkipsWrite(t *testing.T) {
	v := newVar("x", 0)
	to := &ScalarVarUseExpr{Var: v}
	from := NewConstExpr(irvalue.FromInt64(types.INT, 5))
	a := NewAssignmentExpr(to, from, false)
	a.Evaluate(nil)
	if v.CurVal.Val.Magnitude != 0 {
		t.Error("a not-Taken assignment must not write through, even though it still evaluates")
	}
}

func ic(v int64) data.Expr { return NewConstExpr(irvalue.FromInt64(types.INT, v)) }

func TestLibCallExprMinMax(t *testing.T) {
	min := NewLibCallExpr(policy.LibMin, types.INT, ic(5), ic(2))
	if min.Evaluate(nil).Val.Magnitude != 2 {
		t.Error("LibMin(5,2) must be 2")
	}
	max := NewLibCallExpr(policy.LibMax, types.INT, ic(5), ic(2))
	if max.Evaluate(nil).Val.Magnitude != 5 {
		t.Error("LibMax(5,2) must be 5")
	}
}

func TestLibCallExprSelect(t *testing.T) {
	trueCond := NewConstExpr(irvalue.FromInt64(types.BOOL, 1))
	sel := NewLibCallExpr(policy.LibSelect, types.INT, trueCond, ic(1), ic(2))
	if sel.Evaluate(nil).Val.Magnitude != 1 {
		t.Error("LibSelect(true, 1, 2) must be 1")
	}
}

func TestLibCallExprAnyAllNone(t *testing.T) {
	f := NewConstExpr(irvalue.FromInt64(types.BOOL, 0))
	tt := NewConstExpr(irvalue.FromInt64(types.BOOL, 1))

	any := NewLibCallExpr(policy.LibAny, types.BOOL, f, tt)
	if any.Evaluate(nil).Val.Magnitude != 1 {
		t.Error("LibAny(false,true) must be true")
	}
	all := NewLibCallExpr(policy.LibAll, types.BOOL, f, tt)
	if all.Evaluate(nil).Val.Magnitude != 0 {
		t.Error("LibAll(false,true) must be false")
	}
	none := NewLibCallExpr(policy.LibNone, types.BOOL, f, f)
	if none.Evaluate(nil).Val.Magnitude != 1 {
		t.Error("LibNone(false,false) must be true")
	}
}

func TestLibCallExprReduceEq(t *testing.T) {
	eq := NewLibCallExpr(policy.LibReduceEq, types.BOOL, ic(3), ic(3), ic(3))
	if eq.Evaluate(nil).Val.Magnitude != 1 {
		t.Error("ReduceEq(3,3,3) must be true")
	}
	neq := NewLibCallExpr(policy.LibReduceEq, types.BOOL, ic(3), ic(4), ic(3))
	if neq.Evaluate(nil).Val.Magnitude != 0 {
		t.Error("ReduceEq(3,4,3) must be false")
	}
}

func TestLibCallExprExtractEmptyIsUninitialized(t *testing.T) {
	ext := NewLibCallExpr(policy.LibExtract, types.INT)
	r := ext.Evaluate(nil)
	if r.UB != irvalue.Uninit {
		t.Errorf("Extract with no args should be Uninitialized, got UB %v", r.UB)
	}
}

func TestLibCallExprUnknownKindPanics(t *testing.T) {
	expectPanic(t, genrors.UnreachableNodeKind, func() {
		bad := NewLibCallExpr(policy.LibCallKind(999), types.INT, ic(1))
		bad.Evaluate(nil)
	})
}
