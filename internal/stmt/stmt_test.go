package stmt

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

// overflowProneCtx builds a PopulateCtx whose policy always grows
// const+const under Add, and seeds the const-reuse buffer with
// INT_MAX and 1 so the add is overflow-prone unless rebuild repairs it.
func overflowProneCtx() (*symtab.PopulateCtx, *rng.Source) {
	p := policy.DefaultGenPolicy()
	p.MaxArithDepth = 1
	p.ArithNodeDistr = policy.NewDistr(policy.Pair[policy.NodeKind]{policy.NodeBinary, 1})
	p.BinaryOpDistr = policy.NewDistr(policy.Pair[irvalue.BinaryOp]{irvalue.Add, 1})
	p.IntTypeDistr = policy.NewDistr(policy.Pair[types.IntTypeID]{types.INT, 1})
	p.OutKindDistr = policy.NewDistr(policy.Pair[policy.OutKind]{policy.OutScalar, 1})
	p.ReuseConstProb = 1.0

	gen := symtab.NewGenCtx(p)
	ctx := symtab.NewRootPopulateCtx(gen)
	ctx.Gen.ConstBuf = []irvalue.IRValue{
		irvalue.FromInt64(types.INT, types.Min(types.INT)*-1-1), // INT_MAX
		irvalue.FromInt64(types.INT, 1),
	}
	return ctx, rng.New(7)
}

func TestExprStmtPopulateRebuildsAwayFreshUB(t *testing.T) {
	ctx, src := overflowProneCtx()
	in := expr.NewInterner()
	s := NewExprStmt(true)
	s.Populate(ctx, src, in)

	if ev := s.Expr.Evaluate(data.NewEvalCtx()); ev.HasUB() {
		t.Errorf("ExprStmt.Populate must rebuild its expression before committing, but a later Evaluate still sees UB %v", ev.UB)
	}
}

func TestDeclStmtPopulateRebuildsAwayFreshUB(t *testing.T) {
	ctx, src := overflowProneCtx()
	in := expr.NewInterner()
	s := NewDeclStmt()
	s.Populate(ctx, src, in)

	if s.ScalarVar == nil {
		t.Fatal("expected a scalar declaration")
	}
	if s.ScalarVar.CurVal.HasUB() {
		t.Errorf("DeclStmt.Populate must rebuild its init expression, but the declared value carries UB %v", s.ScalarVar.CurVal.UB)
	}
}

func TestLoopNestStmtPopulateDrawsVariedSteps(t *testing.T) {
	p := policy.DefaultGenPolicy()
	gen := symtab.NewGenCtx(p)
	in := expr.NewInterner()

	seen := map[int64]bool{}
	for seed := uint64(0); seed < 40; seed++ {
		ctx := symtab.NewRootPopulateCtx(gen)
		loop := NewLoopNestStmt()
		src := rng.New(seed)
		loop.GenerateStructure(ctx, src)
		loop.Populate(ctx, rng.New(seed), in)
		for _, head := range loop.Heads {
			step := head.Iter.Step.Evaluate(data.NewEvalCtx())
			v := step.Val.Magnitude
			if step.Val.IsNegative {
				seen[-int64(v)] = true
			} else {
				seen[int64(v)] = true
			}
		}
	}
	if len(seen) < 2 {
		t.Errorf("expected loop steps to vary across seeds, got only %v", seen)
	}
	if _, ok := seen[1]; !ok {
		t.Errorf("expected step=1 to still occur across seeds, got %v", seen)
	}
}
