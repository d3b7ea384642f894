package stmt

import (
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/rng"
	"github.com/intel/yarpgen-sub001/internal/symtab"
)

// buildBodyShape decides how many statements a block holds and what
// kind each one is, allocating a shell instance for each (its fields
// are filled in later by Populate). Container kinds (loops, if/else)
// that have already exhausted their nesting budget degrade to a
// StubStmt instead, so a deeply nested random draw never silently
// breaks the depth invariant.
func buildBodyShape(ctx *symtab.PopulateCtx, src *rng.Source) *StmtBlock {
	p := ctx.CurPolicy
	span := p.MaxStmtsPerBlock - p.MinStmtsPerBlock
	n := p.MinStmtsPerBlock
	if span > 0 {
		n += src.IntN(span + 1)
	}
	stmts := make([]Stmt, 0, n)
	for i := 0; i < n; i++ {
		kind := p.StmtKindDistr.Pick(src.IntN(p.StmtKindDistr.Total()))
		stmts = append(stmts, newStmtShell(ctx, kind))
	}
	return NewStmtBlock(stmts...)
}

func newStmtShell(ctx *symtab.PopulateCtx, kind policy.StmtKind) Stmt {
	p := ctx.CurPolicy
	switch kind {
	case policy.StmtExpr:
		return NewExprStmt(ctx.Taken)
	case policy.StmtDecl:
		return NewDeclStmt()
	case policy.StmtLoopSeq:
		if ctx.LoopDepth >= p.MaxLoopDepth {
			return NewStubStmt()
		}
		return NewLoopSeqStmt()
	case policy.StmtLoopNest:
		if ctx.LoopDepth >= p.MaxLoopDepth {
			return NewStubStmt()
		}
		return NewLoopNestStmt()
	case policy.StmtIfElse:
		if ctx.IfElseDepth >= p.MaxIfElseDepth {
			return NewStubStmt()
		}
		return NewIfElseStmt()
	default:
		return NewStubStmt()
	}
}
