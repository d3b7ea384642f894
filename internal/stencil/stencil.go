// Package stencil implements multi-array neighborhood access patterns
// (spec section 4.J): a block of subscript expressions, across one or
// more arrays, that share the same surrounding loop iterators and
// differ only by a small constant offset on one or more dimensions — the
// classic a[i-1] + a[i] + a[i+1] shape. Every offset drawn against a
// given array is folded into that array's ArrayStencilParams (internal/
// symtab). Loop bounds are not derived from that record; a stencil index
// that falls outside the array is wrapped back into range by
// SubscriptExpr.Rebuild.
//
// Grounded on original_source/src/context.h's ArrayStencilParams /
// ArrayStencilDimParams and the teacher's compregister Scope chain
// (internal/compregister/compiler.go) for the "look up in the nearest
// enclosing scope" traversal pattern, generalised from variable slots to
// array dimension restrictions.
package stencil

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/expr"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/rng"
	"github.com/intel/yarpgen-sub001/internal/symtab"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// CreateStencil builds the stencil's arithmetic subtree: it picks a
// handful of in-scope arrays of base type target, chooses a set of
// active dimensions driven by the surrounding loop's iterators, and
// subscripts every array along those dimensions with a small constant
// offset from the iterator — sharing the same iterator (and, depending
// on GenPolicy.StencilSameDimsAllDistr, the same offsets) across arrays.
// Falls back to the single-array, constant-index form when no iterator
// is in scope (e.g. this arithmetic node sits outside any loop), and
// returns nil when no eligible array exists at all, letting the caller
// degrade to an ordinary constant per spec section 7.3.
func CreateStencil(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner, target types.IntTypeID) data.Expr {
	iters := scopeIterators(ctx)
	if len(iters) == 0 {
		if sub := createSingleArrayStencil(ctx, src, in, target); sub != nil {
			return sub
		}
		return nil
	}

	p := ctx.CurPolicy
	k := 1 + src.IntN(len(iters))
	activeIters := pickIterSubset(src, iters, k)

	n := 1
	if p.ArrsInStencilDistr.Total() > 0 {
		n = p.ArrsInStencilDistr.Pick(src.IntN(p.ArrsInStencilDistr.Total()))
	}
	if n < 1 {
		n = 1
	}

	rank := len(activeIters)
	var candidates []*data.Array
	for _, a := range ctx.ArraysOfRank(rank) {
		if a.ArrType.Base == target {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		if sub := createSingleArrayStencil(ctx, src, in, target); sub != nil {
			return sub
		}
		return nil
	}
	if n > len(candidates) {
		n = len(candidates)
	}
	arrays := pickArraySubset(src, candidates, n)

	sameDimsAll := p.StencilSameDimsAllDistr.Total() == 0 || p.StencilSameDimsAllDistr.Pick(src.IntN(p.StencilSameDimsAllDistr.Total()))
	reuseOffset := p.StencilReuseOffsetDistr.Total() == 0 || p.StencilReuseOffsetDistr.Pick(src.IntN(p.StencilReuseOffsetDistr.Total()))

	sharedOffsets := make([]int64, rank)
	for d := range sharedOffsets {
		sharedOffsets[d] = drawOffset(ctx, src)
	}

	var subs []data.Expr
	for _, arr := range arrays {
		offsets := sharedOffsets
		if !sameDimsAll || !reuseOffset {
			offsets = make([]int64, rank)
			for d := range offsets {
				offsets[d] = drawOffset(ctx, src)
			}
		}
		subs = append(subs, buildStencilSubscript(ctx, src, arr, activeIters, offsets))
	}

	combined := subs[0]
	for _, s := range subs[1:] {
		combined = expr.NewBinaryExpr(irvalue.Add, combined, s)
	}
	return combined
}

// buildStencilSubscript subscripts arr along activeIters (one index
// expression per active dimension, each the iterator offset by a small
// constant) and fills any remaining dimensions with a random in-bounds
// constant, recording every non-zero offset against arr's
// ArrayStencilParams so the symbol table reflects the restriction.
func buildStencilSubscript(ctx *symtab.PopulateCtx, src *rng.Source, arr *data.Array, activeIters []*data.Iterator, offsets []int64) *expr.SubscriptExpr {
	rank := arr.ArrType.Rank()
	idx := make([]data.Expr, rank)
	sp := ctx.Local.StencilParamsFor(arr)

	activeDim := 0
	for d := 0; d < rank; d++ {
		if d < len(activeIters) {
			it := activeIters[d]
			offset := offsets[d]
			idx[d] = offsetIndex(it, offset)
			dim := &sp.Dims[d]
			if offset < 0 && -offset > dim.MinLeftOffset {
				dim.MinLeftOffset = -offset
			}
			if offset > 0 && offset > dim.MaxRightOffset {
				dim.MaxRightOffset = offset
			}
			activeDim = d
			continue
		}
		size := arr.ArrType.Dims[d]
		idx[d] = expr.NewConstExpr(irvalue.FromInt64(types.INT, int64(src.IntN(size))))
	}
	return expr.NewSubscriptExpr(arr, idx, activeDim, offsets[0])
}

// offsetIndex builds the index expression for one stencil dimension: the
// bare iterator use when offset is zero, otherwise the iterator plus a
// constant offset (spec's "a[i-1] + a[i] + a[i+1]" shape, generalised to
// one index position per axis rather than one full expression per
// neighbor).
func offsetIndex(it *data.Iterator, offset int64) data.Expr {
	iterUse := &expr.IterUseExpr{Iter: it}
	if offset == 0 {
		return iterUse
	}
	return expr.NewBinaryExpr(irvalue.Add, iterUse, expr.NewConstExpr(irvalue.FromInt64(it.TypeID, offset)))
}

func drawOffset(ctx *symtab.PopulateCtx, src *rng.Source) int64 {
	p := ctx.CurPolicy
	if src.Float64() >= p.StencilInDimProb {
		return 0
	}
	left, right := p.StencilMaxLeftOffset, p.StencilMaxRightOffset
	if left+right <= 0 {
		return 0
	}
	offset := src.Int63Range(-left, right)
	if offset == 0 {
		offset = 1
	}
	return offset
}

// scopeIterators collects every iterator visible from ctx, innermost
// loop first, for use as a stencil's shared active dimensions.
func scopeIterators(ctx *symtab.PopulateCtx) []*data.Iterator {
	var out []*data.Iterator
	for _, e := range ctx.AvailVars() {
		if iu, ok := e.(*expr.IterUseExpr); ok {
			out = append(out, iu.Iter)
		}
	}
	return out
}

func pickIterSubset(src *rng.Source, iters []*data.Iterator, k int) []*data.Iterator {
	if k > len(iters) {
		k = len(iters)
	}
	return append([]*data.Iterator(nil), iters[:k]...)
}

func pickArraySubset(src *rng.Source, candidates []*data.Array, n int) []*data.Array {
	pool := append([]*data.Array(nil), candidates...)
	var out []*data.Array
	for i := 0; i < n && len(pool) > 0; i++ {
		j := src.IntN(len(pool))
		out = append(out, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}
	return out
}

// createSingleArrayStencil is the fallback used when no loop iterator is
// in scope to anchor a shared offset: it still folds a drawn offset for
// one dimension of one array into the array's ArrayStencilParams record
// (which stays unchanged when that offset is 0), but picks its index as a plain in-bounds constant rather than an
// iterator-relative one.
func createSingleArrayStencil(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner, target types.IntTypeID) *expr.SubscriptExpr {
	rank := 1 + src.IntN(2)
	var candidates []*data.Array
	for _, a := range ctx.ArraysOfRank(rank) {
		if a.ArrType.Base == target {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	arr := candidates[src.IntN(len(candidates))]

	sp := ctx.Local.StencilParamsFor(arr)
	activeDim := src.IntN(arr.ArrType.Rank())

	offset := drawOffset(ctx, src)

	dim := &sp.Dims[activeDim]
	if offset < 0 && -offset > dim.MinLeftOffset {
		dim.MinLeftOffset = -offset
	}
	if offset > 0 && offset > dim.MaxRightOffset {
		dim.MaxRightOffset = offset
	}

	idx := make([]data.Expr, arr.ArrType.Rank())
	for d := range idx {
		size := arr.ArrType.Dims[d]
		if d != activeDim {
			idx[d] = expr.NewConstExpr(irvalue.FromInt64(types.INT, int64(src.IntN(size))))
			continue
		}
		lo, hi := int(dim.MinLeftOffset), size-1-int(dim.MaxRightOffset)
		if hi <= lo {
			lo, hi = 0, size-1
		}
		idxVal := lo + src.IntN(hi-lo+1)
		idx[d] = expr.NewConstExpr(irvalue.FromInt64(types.INT, int64(idxVal)))
	}
	return expr.NewSubscriptExpr(arr, idx, activeDim, offset)
}
