// Package stmt implements the generator's statement IR: expression
// statements, declarations, scopes, loops and conditionals, each built
// in two phases (spec section 4.H) — GenerateStructure decides the
// statement's shape (how many nested loops, whether an if gets an else,
// how deep the block goes) against the policy's depth limits before any
// concrete expression exists, then Populate walks the shaped tree and
// grows the actual expressions and values into it. Splitting the phases
// means depth/budget decisions never depend on what got drawn while
// filling in expressions, and a statement's shape is fully decided
// before any RNG draw that could blow an arithmetic-depth budget.
//
// Grounded on the teacher's two-pass compiler shape: internal/compiler
// walks a pre-built syntax tree to resolve scopes before a second pass
// emits bytecode; here the "pre-built tree" role is played by
// GenerateStructure and the "second pass" role by Populate, generalised
// from compiling an existing tree to growing a fresh one.
package stmt

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/expr"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/rng"
	"github.com/intel/yarpgen-sub001/internal/symtab"
)

// Stmt is the capability every statement node implements.
type Stmt interface {
	GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source)
	Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner)
	Kind() policy.StmtKind
}

// ExprStmt wraps a single top-level expression (typically an
// AssignmentExpr) as a statement.
type ExprStmt struct {
	Expr  data.Expr
	Taken bool
}

// NewExprStmt builds an expression statement shell; its Expr is filled
// in by Populate.
func NewExprStmt(taken bool) *ExprStmt { return &ExprStmt{Taken: taken} }

func (s *ExprStmt) GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source) {}

func (s *ExprStmt) Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner) {
	target := pickScalarTypeForWrite(ctx, src)
	to := pickAssignTarget(ctx, src, in, target)
	from := growExpr(ctx, src, in, target)
	s.Expr = expr.NewAssignmentExpr(to, from, s.Taken && ctx.Taken)
	// No separate type-propagation pass runs (every node's PropagateType
	// is a no-op); rebuild clears any residual UB at the top of this arithmetic tree
	// before the statement's value is committed (spec section 4.F).
	s.Expr.Rebuild(data.NewEvalCtx())
}

func (s *ExprStmt) Kind() policy.StmtKind { return policy.StmtExpr }

// DeclStmt introduces a new local variable, scalar or array, with an
// initial value.
type DeclStmt struct {
	ScalarVar *data.ScalarVar
	ArrayVar  *data.Array
	Init      data.Expr
}

// NewDeclStmt builds a declaration statement shell.
func NewDeclStmt() *DeclStmt { return &DeclStmt{} }

func (s *DeclStmt) GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source) {}

func (s *DeclStmt) Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner) {
	p := ctx.CurPolicy
	id := p.IntTypeDistr.Pick(src.IntN(p.IntTypeDistr.Total()))
	if p.OutKindDistr.Pick(src.IntN(p.OutKindDistr.Total())) == policy.OutArray {
		dims := randomDims(ctx, src)
		t := data.ArrayType{Base: id, Dims: dims}
		initVal := growConst(ctx, src, id)
		name := newArrayName(ctx)
		arr := data.NewArray(name, t, p.MultiValClustSz, initVal)
		s.ArrayVar = arr
		s.Init = expr.NewConstExpr(initVal)
		ctx.Local.AddArray(arr)
		ctx.Local.AvailVars = append(ctx.Local.AvailVars, in.ArrayUse(arr))
		return
	}
	initExpr := growExpr(ctx, src, in, id)
	name := newScalarName(ctx)
	v := initExpr.Rebuild(data.NewEvalCtx())
	sv := data.NewScalarVar(name, id, v)
	s.ScalarVar = sv
	s.Init = initExpr
	ctx.Local.AddVar(sv)
	ctx.Local.AvailVars = append(ctx.Local.AvailVars, in.ScalarUse(sv))
}

func (s *DeclStmt) Kind() policy.StmtKind { return policy.StmtDecl }

// StubStmt is an intentional no-op, used to pad a block's statement
// count without adding arithmetic (spec section 4.H's StmtStub).
type StubStmt struct{}

// NewStubStmt builds a stub statement.
func NewStubStmt() *StubStmt { return &StubStmt{} }

func (s *StubStmt) GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source)             {}
func (s *StubStmt) Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner)   {}
func (s *StubStmt) Kind() policy.StmtKind                                                  { return policy.StmtStub }

// StmtBlock is an ordered sequence of statements sharing one scope.
type StmtBlock struct {
	Stmts []Stmt
}

// NewStmtBlock wraps a fixed statement slice.
func NewStmtBlock(stmts ...Stmt) *StmtBlock { return &StmtBlock{Stmts: stmts} }

// GenerateStructure recurses into every child statement's own structure
// phase.
func (b *StmtBlock) GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source) {
	for _, st := range b.Stmts {
		st.GenerateStructure(ctx, src)
	}
}

// Populate fills in every child statement in order.
func (b *StmtBlock) Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner) {
	for _, st := range b.Stmts {
		st.Populate(ctx, src, in)
	}
}

// ScopeStmt introduces a fresh nested lexical scope around a StmtBlock.
type ScopeStmt struct {
	Body *StmtBlock
}

// NewScopeStmt builds a scope wrapping body.
func NewScopeStmt(body *StmtBlock) *ScopeStmt { return &ScopeStmt{Body: body} }

func (s *ScopeStmt) GenerateStructure(ctx *symtab.PopulateCtx, src *rng.Source) {
	child := ctx.Child()
	if s.Body == nil {
		s.Body = buildBodyShape(child, src)
	}
	s.Body.GenerateStructure(child, src)
}

func (s *ScopeStmt) Populate(ctx *symtab.PopulateCtx, src *rng.Source, in *expr.Interner) {
	child := ctx.Child()
	s.Body.Populate(child, src, in)
}

func (s *ScopeStmt) Kind() policy.StmtKind { return policy.StmtDecl }
