package stmt

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/expr"
	"github.com/intel/yarpgen-sub001/internal/genrors"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/rng"
	"github.com/intel/yarpgen-sub001/internal/stencil"
	"github.com/intel/yarpgen-sub001/internal/symtab"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// growExpr grows an expression tree of type target, drawing its shape
// from ctx.CurPolicy.ArithNodeDistr until either the arithmetic-depth
// budget (spec invariant 5) is hit or a leaf is drawn by chance.
func growExpr(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner, target types.IntTypeID) data.Expr {
	p := ctx.CurPolicy
	if ctx.ArithDepth >= p.MaxArithDepth {
		return growLeaf(ctx, src, in, target)
	}

	kind := p.ArithNodeDistr.Pick(src.IntN(p.ArithNodeDistr.Total()))
	deeper := *ctx
	deeper.ArithDepth = ctx.ArithDepth + 1

	switch kind {
	case policy.NodeConst:
		forceReuse := p.ApplyConstUseDistr.Pick(src.IntN(p.ApplyConstUseDistr.Total()))
		constCtx := *ctx
		constCtx.CurPolicy = policy.ChooseAndApplyConstUse(p, forceReuse)
		return expr.NewConstExpr(growConst(&constCtx, src, target))
	case policy.NodeScalarVarUse:
		if v := pickScalarVar(ctx, src, target); v != nil {
			return in.ScalarUse(v)
		}
		return expr.NewConstExpr(growConst(ctx, src, target))
	case policy.NodeArrayUse:
		if a := pickArray(ctx, src, target); a != nil {
			return in.ArrayUse(a)
		}
		return expr.NewConstExpr(growConst(ctx, src, target))
	case policy.NodeSubscript:
		if sub := growSubscript(ctx, src, in, target); sub != nil {
			return sub
		}
		return expr.NewConstExpr(growConst(ctx, src, target))
	case policy.NodeIterUse:
		if it := pickIterator(ctx, src, target); it != nil {
			return in.IterUse(it)
		}
		return expr.NewConstExpr(growConst(ctx, src, target))
	case policy.NodeUnary:
		op := p.UnaryOpDistr.Pick(src.IntN(p.UnaryOpDistr.Total()))
		operand := growExpr(&deeper, src, in, target)
		return expr.NewUnaryExpr(op, operand)
	case policy.NodeBinary:
		op := p.BinaryOpDistr.Pick(src.IntN(p.BinaryOpDistr.Total()))
		applySimilar := p.ApplySimilarOpDistr.Pick(src.IntN(p.ApplySimilarOpDistr.Total()))
		deeper.CurPolicy = policy.ChooseAndApplySimilarOp(p, applySimilar, op)
		lhs := growExpr(&deeper, src, in, target)
		rhs := growExpr(&deeper, src, in, target)
		return expr.NewBinaryExpr(op, lhs, rhs)
	case policy.NodeTernary:
		cond := growExpr(&deeper, src, in, types.BOOL)
		then := growExpr(&deeper, src, in, target)
		els := growExpr(&deeper, src, in, target)
		return expr.NewTernaryExpr(cond, then, els)
	case policy.NodeTypeCast:
		srcType := p.IntTypeDistr.Pick(src.IntN(p.IntTypeDistr.Total()))
		operand := growExpr(&deeper, src, in, srcType)
		style := expr.ImplicitCast
		if src.Bool(0.5) {
			style = expr.ExplicitCast
		}
		return expr.NewTypeCastExpr(operand, types.NewType(target), style)
	case policy.NodeLibCall:
		return growLibCall(&deeper, src, in, target)
	case policy.NodeStencil:
		if sub := stencil.CreateStencil(ctx, src, in, target); sub != nil {
			return sub
		}
		return expr.NewConstExpr(growConst(ctx, src, target))
	}
	genrors.Fail(genrors.UnreachableNodeKind, "stmt.growExpr", "unhandled node kind %v", kind)
	return nil
}

// growLeaf grows a terminal expression only: a constant or, with even
// odds, a use of an existing scalar of the right type. Reached once the
// arithmetic-depth budget is exhausted, so it never recurses.
func growLeaf(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner, target types.IntTypeID) data.Expr {
	if v := pickScalarVar(ctx, src, target); v != nil && src.Bool(0.5) {
		return in.ScalarUse(v)
	}
	return expr.NewConstExpr(growConst(ctx, src, target))
}

// growConst draws a literal value of type target, consulting the
// const-reuse buffer first and, failing that, the special-constant and
// general-range distributions (spec section 4.E).
func growConst(ctx *symtab.PopulateCtx, src *rng.Source, target types.IntTypeID) irvalue.IRValue {
	p := ctx.CurPolicy
	if p.ReuseConstProb > 0 && len(ctx.Gen.ConstBuf) > 0 && src.Bool(p.ReuseConstProb) {
		var candidates []irvalue.IRValue
		for _, v := range ctx.Gen.ConstBuf {
			if v.TypeID == target {
				candidates = append(candidates, v)
			}
		}
		if len(candidates) > 0 {
			return candidates[src.IntN(len(candidates))]
		}
	}
	v := drawFreshConst(ctx, src, target)
	storeConst(ctx, src, v)
	return v
}

// storeConst offers a freshly drawn constant a slot in the program-wide
// reuse buffer: append while there's room, otherwise overwrite a random
// existing slot only when ReplaceInBufDistr selects that branch — so an
// already-buffered value sometimes survives untouched (Open Question:
// we pick the semantics where a selected replacement actually lands back
// in the buffer, see DESIGN.md).
func storeConst(ctx *symtab.PopulateCtx, src *rng.Source, v irvalue.IRValue) {
	p := ctx.CurPolicy
	buf := ctx.Gen.ConstBuf
	if len(buf) < p.ConstBufSize {
		ctx.Gen.ConstBuf = append(buf, v)
		return
	}
	if p.ReplaceInBufDistr.Total() > 0 && p.ReplaceInBufDistr.Pick(src.IntN(p.ReplaceInBufDistr.Total())) {
		buf[src.IntN(len(buf))] = v
	}
}

// drawFreshConst draws a brand-new literal value of type target,
// ignoring the reuse buffer entirely.
func drawFreshConst(ctx *symtab.PopulateCtx, src *rng.Source, target types.IntTypeID) irvalue.IRValue {
	p := ctx.CurPolicy
	if p.UseSpecialConst.Total() > 0 && p.UseSpecialConst.Pick(src.IntN(p.UseSpecialConst.Total())) {
		switch p.SpecialConstDistr.Pick(src.IntN(p.SpecialConstDistr.Total())) {
		case 0:
			return irvalue.FromInt64(target, 0)
		case 1:
			return irvalue.FromInt64(target, types.Min(target))
		case 2:
			return irvalue.FromUint64(target, types.Max(target))
		case 3:
			return irvalue.FromUint64(target, types.Max(target)>>1)
		default:
			return irvalue.FromUint64(target, 1)
		}
	}
	if types.IsSigned(target) {
		return irvalue.FromInt64(target, src.Int63Range(types.Min(target), int64(types.Max(target))))
	}
	hi := types.Max(target)
	if hi > uint64(1)<<62 {
		hi = uint64(1) << 62
	}
	return irvalue.FromUint64(target, uint64(src.Int63Range(0, int64(hi))))
}

// GrowConst is the exported entry point for drawing a single constant
// value of the given type. The root generator package uses it to seed
// external input variables before growing the program body, since that
// happens before any statement tree (and thus before growExpr has
// anything to recurse into) exists.
func GrowConst(ctx *symtab.PopulateCtx, src *rng.Source, target types.IntTypeID) irvalue.IRValue {
	return growConst(ctx, src, target)
}

func pickScalarVar(ctx *symtab.PopulateCtx, src *rng.Source, target types.IntTypeID) *data.ScalarVar {
	var candidates []*data.ScalarVar
	for _, e := range ctx.AvailVars() {
		if su, ok := e.(*expr.ScalarVarUseExpr); ok && su.Var.TypeID == target {
			candidates = append(candidates, su.Var)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[src.IntN(len(candidates))]
}

func pickArray(ctx *symtab.PopulateCtx, src *rng.Source, target types.IntTypeID) *data.Array {
	var candidates []*data.Array
	for _, e := range ctx.AvailVars() {
		if au, ok := e.(*expr.ArrayUseExpr); ok && au.Arr.ArrType.Base == target {
			candidates = append(candidates, au.Arr)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[src.IntN(len(candidates))]
}

func pickIterator(ctx *symtab.PopulateCtx, src *rng.Source, target types.IntTypeID) *data.Iterator {
	var candidates []*data.Iterator
	for _, e := range ctx.AvailVars() {
		if iu, ok := e.(*expr.IterUseExpr); ok && iu.Iter.TypeID == target {
			candidates = append(candidates, iu.Iter)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[src.IntN(len(candidates))]
}

func growSubscript(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner, target types.IntTypeID) *expr.SubscriptExpr {
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
	idx := make([]data.Expr, arr.ArrType.Rank())
	for d := range idx {
		idx[d] = expr.NewConstExpr(irvalue.FromInt64(types.INT, int64(src.IntN(arr.ArrType.Dims[d]))))
	}
	activeDim := src.IntN(arr.ArrType.Rank())
	return expr.NewSubscriptExpr(arr, idx, activeDim, 0)
}

func growLibCall(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner, target types.IntTypeID) data.Expr {
	p := ctx.CurPolicy
	distr := p.CLibCallDistr
	switch p.LanguageMode {
	case policy.LangCXX, policy.LangSYCL:
		distr = p.CXXLibCallDistr
	case policy.LangISPC:
		distr = p.ISPCLibCallDistr
	}
	if distr.Total() == 0 {
		return expr.NewConstExpr(growConst(ctx, src, target))
	}
	kind := distr.Pick(src.IntN(distr.Total()))
	switch kind {
	case policy.LibMin, policy.LibMax:
		a := growExpr(ctx, src, in, target)
		b := growExpr(ctx, src, in, target)
		return expr.NewLibCallExpr(kind, target, a, b)
	case policy.LibSelect:
		cond := growExpr(ctx, src, in, types.BOOL)
		a := growExpr(ctx, src, in, target)
		b := growExpr(ctx, src, in, target)
		return expr.NewLibCallExpr(kind, target, cond, a, b)
	case policy.LibAny, policy.LibAll, policy.LibNone:
		args := make([]data.Expr, 2+src.IntN(2))
		for i := range args {
			args[i] = growExpr(ctx, src, in, types.BOOL)
		}
		return expr.NewLibCallExpr(kind, types.BOOL, args...)
	case policy.LibReduceMin, policy.LibReduceMax, policy.LibReduceEq:
		args := make([]data.Expr, 2+src.IntN(2))
		for i := range args {
			args[i] = growExpr(ctx, src, in, target)
		}
		return expr.NewLibCallExpr(kind, target, args...)
	case policy.LibExtract:
		a := growExpr(ctx, src, in, target)
		return expr.NewLibCallExpr(kind, target, a)
	}
	return expr.NewConstExpr(growConst(ctx, src, target))
}

func pickAssignTarget(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner, target types.IntTypeID) expr.LValue {
	p := ctx.CurPolicy
	if p.OutKindDistr.Total() > 0 && p.OutKindDistr.Pick(src.IntN(p.OutKindDistr.Total())) == policy.OutArray {
		if sub := growSubscript(ctx, src, in, target); sub != nil {
			return sub
		}
	}
	if v := pickScalarVar(ctx, src, target); v != nil {
		return in.ScalarUse(v)
	}
	name := ctx.Gen.NextVarName()
	init := growConst(ctx, src, target)
	sv := data.NewScalarVar(name, target, init)
	ctx.Local.AddVar(sv)
	lv := in.ScalarUse(sv)
	ctx.Local.AvailVars = append(ctx.Local.AvailVars, lv)
	return lv
}

func pickScalarTypeForWrite(ctx *symtab.PopulateCtx, src *rng.Source) types.IntTypeID {
	p := ctx.CurPolicy
	return p.IntTypeDistr.Pick(src.IntN(p.IntTypeDistr.Total()))
}

func randomDims(ctx *symtab.PopulateCtx, src *rng.Source) []int {
	p := ctx.CurPolicy
	rank := 1 + src.IntN(2)
	dims := make([]int, rank)
	span := p.MaxArraySize - p.MinArraySize
	for d := range dims {
		size := p.MinArraySize
		if span > 0 {
			size += src.IntN(span + 1)
		}
		dims[d] = size
	}
	return dims
}

func newArrayName(ctx *symtab.PopulateCtx) string { return ctx.Gen.NextArrayName() }
func newScalarName(ctx *symtab.PopulateCtx) string { return ctx.Gen.NextVarName() }
