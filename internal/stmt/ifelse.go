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

// IfElseStmt is a conditional branch. The condition is evaluated once at
// population time (it is a tree of values known at generation time, not
// code that runs later), and the untaken branch is populated with
// Taken=false threaded through its whole subtree (spec section 4.H).
// UB in the untaken branch is repaired just as in taken code;
// GenPolicy.AllowUBInDead is not consulted.
type IfElseStmt struct {
	Cond    data.Expr
	Then    *StmtBlock
	Else    *StmtBlock
	HasElse bool
}

// NewIfElseStmt builds an empty if/else shell.
func NewIfElseStmt() *IfElseStmt { return &IfElseStmt{} }

func (s *IfElseStmt) GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source) {
	thenCtx := ctx.Child()
	thenCtx.IfElseDepth++
	s.Then = buildBodyShape(thenCtx, src)
	s.Then.GenerateStructure(thenCtx, src)

	s.HasElse = src.Bool(0.5)
	if s.HasElse {
		elseCtx := ctx.Child()
		elseCtx.IfElseDepth++
		s.Else = buildBodyShape(elseCtx, src)
		s.Else.GenerateStructure(elseCtx, src)
	}
}

func (s *IfElseStmt) Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner) {
	s.Cond = growExpr(ctx, src, in, types.BOOL)
	taken := branchTaken(s.Cond)

	thenCtx := ctx.Child()
	thenCtx.IfElseDepth++
	thenCtx.Taken = ctx.Taken && taken
	s.Then.Populate(thenCtx, src, in)

	if s.HasElse {
		elseCtx := ctx.Child()
		elseCtx.IfElseDepth++
		elseCtx.Taken = ctx.Taken && !taken
		s.Else.Populate(elseCtx, src, in)
	}
}

func (s *IfElseStmt) Kind() policy.StmtKind { return policy.StmtIfElse }

func branchTaken(cond data.Expr) bool {
	v := cond.Evaluate(data.NewEvalCtx())
	return v.UB == irvalue.NoUB && v.Val.Magnitude != 0
}
