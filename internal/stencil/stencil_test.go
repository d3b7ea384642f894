package stencil

import (
	"testing"

	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/expr"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/rng"
	"github.com/intel/yarpgen-sub001/internal/symtab"
	"github.com/intel/yarpgen-sub001/internal/types"
)

func newArr(name string, dims ...int) *data.Array {
	return data.NewArray(name, data.ArrayType{Base: types.INT, Dims: dims}, 4, irvalue.FromInt64(types.INT, 0))
}

// collectArrayUses walks a stencil's combined expression tree (built
// from Binary(Add, ...) over SubscriptExpr leaves) and returns every
// array it touches, in visit order.
func collectArrayUses(e data.Expr) []*data.Array {
	switch n := e.(type) {
	case *expr.BinaryExpr:
		return append(collectArrayUses(n.LHS), collectArrayUses(n.RHS)...)
	case *expr.SubscriptExpr:
		return []*data.Array{n.Arr}
	default:
		return nil
	}
}

func newLoopCtx(t *testing.T, in *expr.Interner, arrays ...*data.Array) (*symtab.PopulateCtx, *data.Iterator) {
	t.Helper()
	p := policy.DefaultGenPolicy()
	gen := symtab.NewGenCtx(p)
	ctx := symtab.NewRootPopulateCtx(gen)
	for _, a := range arrays {
		ctx.Local.AddArray(a)
		ctx.Local.AvailVars = append(ctx.Local.AvailVars, in.ArrayUse(a))
	}
	start := expr.NewConstExpr(irvalue.FromInt64(types.INT, 0))
	end := expr.NewConstExpr(irvalue.FromInt64(types.INT, 10))
	step := expr.NewConstExpr(irvalue.FromInt64(types.INT, 1))
	it := data.NewIterator("i", types.INT, start, end, step)
	ctx.Local.AddIterator(it)
	ctx.Local.AvailVars = append(ctx.Local.AvailVars, in.IterUse(it))
	ctx.Dims = append(ctx.Dims, 10)
	ctx.LoopDepth = 1
	return ctx, it
}

func TestCreateStencilSharesIteratorAcrossArrays(t *testing.T) {
	in := expr.NewInterner()
	a1, a2, a3 := newArr("a1", 10), newArr("a2", 10), newArr("a3", 10)
	ctx, it := newLoopCtx(t, in, a1, a2, a3)

	p := policy.DefaultGenPolicy()
	p.ArrsInStencilDistr = policy.NewDistr(policy.Pair[int]{3, 1})
	p.StencilSameDimsAllDistr = policy.NewDistr(policy.Pair[bool]{true, 1})
	p.StencilReuseOffsetDistr = policy.NewDistr(policy.Pair[bool]{true, 1})
	p.StencilInDimProb = 1
	p.StencilMaxLeftOffset = 1
	p.StencilMaxRightOffset = 1
	ctx.Gen.Policy = p
	ctx.CurPolicy = p

	src := rng.New(1)
	e := CreateStencil(ctx, src, in, types.INT)
	if e == nil {
		t.Fatal("CreateStencil returned nil with three eligible arrays and a live iterator in scope")
	}

	arrays := collectArrayUses(e)
	if len(arrays) != 3 {
		t.Fatalf("expected 3 distinct array subscripts, got %d (%v)", len(arrays), arrays)
	}
	seen := map[*data.Array]bool{}
	for _, a := range arrays {
		seen[a] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct arrays in the stencil, got %d distinct", len(seen))
	}

	sp := ctx.Local.StencilParamsFor(a1)
	if sp.Dims[0].MinLeftOffset == 0 && sp.Dims[0].MaxRightOffset == 0 {
		t.Errorf("expected a non-zero offset recorded against a1's stencil dim, got %+v", sp.Dims[0])
	}
	_ = it
}

func TestCreateStencilFallsBackWithoutLoop(t *testing.T) {
	in := expr.NewInterner()
	a1 := newArr("a1", 6)
	p := policy.DefaultGenPolicy()
	gen := symtab.NewGenCtx(p)
	ctx := symtab.NewRootPopulateCtx(gen)
	ctx.Local.AddArray(a1)
	ctx.Local.AvailVars = append(ctx.Local.AvailVars, in.ArrayUse(a1))

	src := rng.New(2)
	e := CreateStencil(ctx, src, in, types.INT)
	if e == nil {
		t.Fatal("CreateStencil should fall back to a single-array constant-index subscript without a loop")
	}
	if _, ok := e.(*expr.SubscriptExpr); !ok {
		t.Errorf("fallback expression should be a bare SubscriptExpr, got %T", e)
	}
}

func TestCreateStencilNilWithNoEligibleArray(t *testing.T) {
	in := expr.NewInterner()
	p := policy.DefaultGenPolicy()
	gen := symtab.NewGenCtx(p)
	ctx := symtab.NewRootPopulateCtx(gen)

	src := rng.New(3)
	if e := CreateStencil(ctx, src, in, types.INT); e != nil {
		t.Errorf("expected nil with no arrays in scope, got %v", e)
	}
}
