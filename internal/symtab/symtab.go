// Package symtab implements the generator's scope-aware symbol tables
// and the two population-time contexts (GenCtx, PopulateCtx) that thread
// scope, nesting depth and policy down through the populator. Grounded on
// the teacher's compiler-time Scope chain (internal/compiler scope
// tracking a parent pointer plus local bindings) generalised from
// variable-name-to-slot bindings to the generator's richer Data/Expr
// bindings.
package symtab

import (
	"strconv"

	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
)

// ArrayStencilDimParams records, for one dimension of an array used
// inside a stencil pattern, the largest left and right offsets drawn
// against it. MinIdx and MaxIdx are carried but the stencil planner does
// not set them.
type ArrayStencilDimParams struct {
	MinLeftOffset  int64
	MaxRightOffset int64
	MinIdx         int
	MaxIdx         int
}

// ArrayStencilParams records, for one array entangled in a stencil
// pattern, the per-dimension restrictions collected so far. This is the
// newer "slice of per-dimension structs" shape (Open Question 2):
// earlier revisions of the original kept a single pair of scalar
// left/right offsets shared across every dimension, which silently
// under-restricted arrays of rank > 1. The array-of-structs form is the
// only one implemented here.
type ArrayStencilParams struct {
	Array *data.Array
	Dims  []ArrayStencilDimParams
}

// SymbolTable is one lexical scope's bindings: declared scalars, arrays
// (indexed by rank so a same-rank subscript expression can pick among
// them quickly), and iterators currently in scope, plus the stencil
// restrictions layered onto any array currently being used in a stencil.
type SymbolTable struct {
	Vars []*data.ScalarVar
	// Arrays preserves declaration order, independent of ArraysByRank's
	// map (whose iteration order is not stable) — anything that needs a
	// deterministic walk over every array in this scope (e.g. a
	// checksum) should use this slice, not the map.
	Arrays       []*data.Array
	ArraysByRank map[int][]*data.Array
	Iters        []*data.Iterator

	// AvailVars is every currently-visible scalar/array/iterator use
	// site, already wrapped as an Expr, that a leaf expression node can
	// pick up wholesale instead of re-deriving a use expression. Typed as
	// the data.Expr interface (not a concrete expr-package type) so this
	// package never needs to import internal/expr.
	AvailVars []data.Expr

	StencilParams []*ArrayStencilParams
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{ArraysByRank: make(map[int][]*data.Array)}
}

// AddVar registers a scalar variable in this scope.
func (st *SymbolTable) AddVar(v *data.ScalarVar) { st.Vars = append(st.Vars, v) }

// AddArray registers an array in this scope, indexed by its rank.
func (st *SymbolTable) AddArray(a *data.Array) {
	st.Arrays = append(st.Arrays, a)
	r := a.ArrType.Rank()
	st.ArraysByRank[r] = append(st.ArraysByRank[r], a)
}

// AddIterator registers an iterator in this scope.
func (st *SymbolTable) AddIterator(it *data.Iterator) { st.Iters = append(st.Iters, it) }

// ArraysOfRank returns every array of the given rank visible in this
// scope.
func (st *SymbolTable) ArraysOfRank(rank int) []*data.Array { return st.ArraysByRank[rank] }

// StencilParamsFor returns the stencil restriction record for arr,
// creating one if it doesn't exist yet.
func (st *SymbolTable) StencilParamsFor(arr *data.Array) *ArrayStencilParams {
	for _, sp := range st.StencilParams {
		if sp.Array == arr {
			return sp
		}
	}
	sp := &ArrayStencilParams{Array: arr, Dims: make([]ArrayStencilDimParams, arr.ArrType.Rank())}
	st.StencilParams = append(st.StencilParams, sp)
	return sp
}

// GenCtx is the top-level, whole-program generation context: the
// policy in force and the external input/output symbol tables that
// persist across the entire generated program (as opposed to a single
// scope's locals).
type GenCtx struct {
	Policy   *policy.GenPolicy
	ExtInput *SymbolTable
	ExtOut   *SymbolTable

	// ConstBuf is the whole-program constant-reuse buffer (spec §4.E,
	// Open Question "constant-reuse buffer bug"): every freshly drawn
	// literal is offered a slot here so a later draw can reuse it
	// instead of synthesizing a new one, the same value appearing more
	// than once in the generated program the way hand-written test
	// cases often do.
	ConstBuf []irvalue.IRValue

	varCounter  int
	arrCounter  int
	iterCounter int
}

// NewGenCtx builds a GenCtx with fresh external symbol tables.
func NewGenCtx(p *policy.GenPolicy) *GenCtx {
	return &GenCtx{Policy: p, ExtInput: NewSymbolTable(), ExtOut: NewSymbolTable()}
}

// NextVarName, NextArrayName and NextIterName return deterministic,
// unique names in generation order — counters, not the PRNG, so renaming
// never perturbs the random stream (spec invariant 1).
func (g *GenCtx) NextVarName() string {
	g.varCounter++
	return "var_" + strconv.Itoa(g.varCounter)
}

func (g *GenCtx) NextArrayName() string {
	g.arrCounter++
	return "arr_" + strconv.Itoa(g.arrCounter)
}

func (g *GenCtx) NextIterName() string {
	g.iterCounter++
	return "i_" + strconv.Itoa(g.iterCounter)
}

// PopulateCtx threads per-scope state down through the two-phase
// GenerateStructure/Populate walk: which scope (and its ancestors) are
// in play, how deep the current loop/if-else/arithmetic nesting is, and
// the handful of boolean flags that change what a node is allowed to
// grow (spec section 4.G-4.J).
type PopulateCtx struct {
	Parent *PopulateCtx
	Gen    *GenCtx
	Local  *SymbolTable

	LoopDepth   int
	IfElseDepth int
	ArithDepth  int
	Dims        []int

	Taken           bool
	InsideMutation  bool
	InsideOMPSimd   bool
	InStencil       bool
	AllowMulVals    bool
	MulValsIter     *data.Iterator

	CurPolicy *policy.GenPolicy
}

// NewRootPopulateCtx builds the PopulateCtx for the program's outermost
// scope.
func NewRootPopulateCtx(gen *GenCtx) *PopulateCtx {
	return &PopulateCtx{
		Gen:       gen,
		Local:     NewSymbolTable(),
		Taken:     true,
		CurPolicy: gen.Policy,
	}
}

// Child returns a new PopulateCtx for a nested scope, inheriting this
// context's depth counters and flags unless overridden by the caller.
func (p *PopulateCtx) Child() *PopulateCtx {
	return &PopulateCtx{
		Parent:         p,
		Gen:            p.Gen,
		Local:          NewSymbolTable(),
		LoopDepth:      p.LoopDepth,
		IfElseDepth:    p.IfElseDepth,
		ArithDepth:     p.ArithDepth,
		Dims:           append([]int(nil), p.Dims...),
		Taken:          p.Taken,
		InsideMutation: p.InsideMutation,
		InsideOMPSimd:  p.InsideOMPSimd,
		InStencil:      p.InStencil,
		AllowMulVals:   p.AllowMulVals,
		MulValsIter:    p.MulValsIter,
		CurPolicy:      p.CurPolicy,
	}
}

// AvailVars walks outward from this scope collecting every visible
// variable/array/iterator use, innermost scope first, the way name
// lookup in a nested block resolves to the nearest enclosing
// declaration.
func (p *PopulateCtx) AvailVars() []data.Expr {
	var out []data.Expr
	for ctx := p; ctx != nil; ctx = ctx.Parent {
		out = append(out, ctx.Local.AvailVars...)
	}
	out = append(out, p.Gen.ExtInput.AvailVars...)
	out = append(out, p.Gen.ExtOut.AvailVars...)
	return out
}

// ArraysOfRank walks outward from this scope collecting every visible
// array of the given rank, then falls back to the program's external
// input/output tables.
func (p *PopulateCtx) ArraysOfRank(rank int) []*data.Array {
	var out []*data.Array
	for ctx := p; ctx != nil; ctx = ctx.Parent {
		out = append(out, ctx.Local.ArraysOfRank(rank)...)
	}
	out = append(out, p.Gen.ExtInput.ArraysOfRank(rank)...)
	out = append(out, p.Gen.ExtOut.ArraysOfRank(rank)...)
	return out
}
