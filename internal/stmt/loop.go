package stmt

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/expr"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/rng"
	"github.com/intel/yarpgen-sub001/internal/symtab"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// LoopHead is one level of a loop nest: the iterator it binds, plus the
// surface-language hints (foreach-style, vectorizable, OpenMP-SIMD
// pragmas) that only matter to an eventual emitter. The populator does
// not read them, and what it grows inside the loop does not depend on
// them.
type LoopHead struct {
	Iter          *data.Iterator
	IsForeach     bool
	SameIterSpace bool
	Vectorizable  bool
	Pragmas       []string
}

// LoopNestStmt is one or more perfectly-nested loop heads sharing a
// single innermost body (spec section 4.H's LoopNestStmt).
type LoopNestStmt struct {
	Heads []*LoopHead
	Body  *StmtBlock
}

// NewLoopNestStmt builds an empty loop-nest shell.
func NewLoopNestStmt() *LoopNestStmt { return &LoopNestStmt{} }

func (s *LoopNestStmt) GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source) {
	p := ctx.CurPolicy
	budget := p.MaxLoopDepth - ctx.LoopDepth
	if budget < 1 {
		budget = 1
	}
	n := 1 + src.IntN(budget)
	child := ctx.Child()
	child.LoopDepth += n
	for i := 0; i < n; i++ {
		s.Heads = append(s.Heads, &LoopHead{})
	}
	s.Body = buildBodyShape(child, src)
	s.Body.GenerateStructure(child, src)
}

func (s *LoopNestStmt) Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner) {
	p := ctx.CurPolicy
	child := ctx.Child()
	for _, head := range s.Heads {
		id := p.IntTypeDistr.Pick(src.IntN(p.IntTypeDistr.Total()))
		span := p.MaxArraySize - p.MinArraySize
		size := p.MinArraySize
		if span > 0 {
			size += src.IntN(span + 1)
		}
		start := expr.NewConstExpr(irvalue.FromInt64(id, 0))
		end := expr.NewConstExpr(irvalue.FromInt64(id, int64(size)))
		step := drawLoopStep(child, src, id)
		evalCtx := data.NewEvalCtx()
		start.Rebuild(evalCtx)
		end.Rebuild(evalCtx)
		step.Rebuild(evalCtx)
		it := data.NewIterator(child.Gen.NextIterName(), id, start, end, step)
		head.Iter = it
		head.Vectorizable = true
		child.LoopDepth++
		child.Dims = append(child.Dims, size)
		child.Local.AddIterator(it)
		child.Local.AvailVars = append(child.Local.AvailVars, in.IterUse(it))
	}
	s.Body.Populate(child, src, in)
}

// drawLoopStep picks an iterator step magnitude from
// GenPolicy.LoopStepMagDistr (spec section 4.G's {1,2,3,4,8,arbitrary}
// step set), applying a sign per GenPolicy.LoopStepNegProb. A magnitude
// of 0 is the "arbitrary" sentinel: a fresh, uniformly-drawn span up to
// LoopStepMaxArbitrary rather than one of the fixed small steps.
func drawLoopStep(ctx *symtab.PopulateCtx, src *rng.Source, id types.IntTypeID) data.Expr {
	p := ctx.CurPolicy
	mag := 1
	if p.LoopStepMagDistr.Total() > 0 {
		mag = p.LoopStepMagDistr.Pick(src.IntN(p.LoopStepMagDistr.Total()))
	}
	if mag == 0 {
		arbitrary := p.LoopStepMaxArbitrary
		if arbitrary < 1 {
			arbitrary = 1
		}
		mag = 1 + src.IntN(arbitrary)
	}
	if mag < 1 {
		mag = 1
	}
	if src.Bool(p.LoopStepNegProb) {
		mag = -mag
	}
	return expr.NewConstExpr(irvalue.FromInt64(id, int64(mag)))
}

func (s *LoopNestStmt) Kind() policy.StmtKind { return policy.StmtLoopNest }

// LoopSeqStmt is a sequence of independent loop nests at the same
// nesting level (spec section 4.H's LoopSeqStmt) — e.g. two consecutive
// for-loops neither of which is nested in the other.
type LoopSeqStmt struct {
	Loops []*LoopNestStmt
}

// NewLoopSeqStmt builds an empty loop-sequence shell.
func NewLoopSeqStmt() *LoopSeqStmt { return &LoopSeqStmt{} }

func (s *LoopSeqStmt) GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source) {
	n := 1 + src.IntN(2)
	for i := 0; i < n; i++ {
		loop := NewLoopNestStmt()
		loop.GenerateStructure(ctx, src)
		s.Loops = append(s.Loops, loop)
	}
}

func (s *LoopSeqStmt) Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner) {
	for _, loop := range s.Loops {
		loop.Populate(ctx, src, in)
	}
}

func (s *LoopSeqStmt) Kind() policy.StmtKind { return policy.StmtLoopSeq }
