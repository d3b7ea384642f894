// Package ccgen is the generator facade: given a seed and a policy, it
// grows one complete C/C++/ISPC-shaped program, repairing UB in every
// statement tree it rebuilds (dead code included: GenPolicy.AllowUBInDead
// is not consulted), and returns it as a Program — a root scope plus the external input/output symbol tables
// that carry each variable's initial and predicted-final value.
//
// Grounded on the teacher's top-level orchestration shape in
// cmd/sentra/main.go (resolve config, build one long-lived object,
// drive it start to finish, surface a single error) generalised from
// "run a script" to "grow one program".
package ccgen

import (
	"log/slog"

	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/expr"
	"github.com/intel/yarpgen-sub001/internal/genrors"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/rng"
	"github.com/intel/yarpgen-sub001/internal/stmt"
	"github.com/intel/yarpgen-sub001/internal/symtab"
)

// Generator owns every piece of state a single generation run needs:
// the two-stream PRNG, the use-expression interner, and the symbol
// tables/policy bundled as a GenCtx. A Generator is single-use — call
// Generate once per instance — since every Generate call seeds external
// inputs: a second call adds more inputs to the same tables and goes on
// drawing from the same PRNG streams.
type Generator struct {
	rng      *rng.Source
	interner *expr.Interner
	gen      *symtab.GenCtx
	seed     uint64
	logger   *slog.Logger
}

// NewGenerator builds a Generator seeded deterministically from seed. A
// nil policy falls back to policy.DefaultGenPolicy().
func NewGenerator(seed uint64, p *policy.GenPolicy) *Generator {
	if p == nil {
		p = policy.DefaultGenPolicy()
	}
	return &Generator{
		rng:      rng.New(seed),
		interner: expr.NewInterner(),
		gen:      symtab.NewGenCtx(p),
		seed:     seed,
	}
}

// SetLogger attaches an optional structured logger. When set, Generate
// logs one Debug-level line per major phase (seed accepted, symbol
// tables sized, root scope structure generated, population finished,
// final UB sweep result). Without one, Generate stays silent — logging
// is a side channel and must never affect what gets generated for a
// given seed.
func (g *Generator) SetLogger(l *slog.Logger) { g.logger = l }

func (g *Generator) log(msg string, args ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Debug(msg, args...)
}

// Generate grows a full program. Any invariant violation raised deep in
// the expression/statement layers (genrors.Invariant) is caught here and
// returned as an error rather than propagating out as a panic, the way
// the teacher's top-level command handlers convert an internal
// SentraError into a reported failure instead of crashing the process.
func (g *Generator) Generate() (prog *Program, err error) {
	g.log("seed accepted", "seed", g.seed)

	defer func() {
		if r := recover(); r != nil {
			if inv, ok := r.(*genrors.Invariant); ok {
				err = inv
				return
			}
			panic(r)
		}
	}()

	root := symtab.NewRootPopulateCtx(g.gen)
	g.seedExternalInputs(root)
	g.log("symbol tables sized",
		"input_vars", len(g.gen.ExtInput.Vars), "input_arrays", len(g.gen.ExtInput.Arrays))

	scope := stmt.NewScopeStmt(nil)
	scope.GenerateStructure(root, g.rng)
	g.log("root scope structure generated")

	scope.Populate(root, g.rng, g.interner)
	g.log("population finished")

	prog = &Program{
		Seed:     g.seed,
		Policy:   g.gen.Policy,
		Root:     scope,
		ExtInput: g.gen.ExtInput,
		ExtOut:   g.gen.ExtOut,
	}
	g.log("final UB sweep result",
		"stmt_count", prog.StmtCount(), "residual_ub", residualUB(g.gen.ExtInput) || residualUB(g.gen.ExtOut))
	return prog, nil
}

// residualUB reports whether any variable or array in tbl still carries
// UB after population — the thing the final rebuild sweep is meant to
// have cleared everywhere it's reachable from top-level statements.
func residualUB(tbl *symtab.SymbolTable) bool {
	for _, v := range tbl.Vars {
		if v.CurVal.HasUB() {
			return true
		}
	}
	for _, a := range tbl.Arrays {
		if a.CurVals.Latest().HasUB() {
			return true
		}
	}
	return false
}

// seedExternalInputs populates the program's external input symbol
// table with a handful of scalars and arrays so the very first
// statement the populator grows already has something real to read —
// mirroring the original's "generate inputs before the body" ordering
// (spec section 6).
func (g *Generator) seedExternalInputs(ctx *symtab.PopulateCtx) {
	p := g.gen.Policy

	span := p.MaxInpVarsNum - p.MinInpVarsNum
	n := p.MinInpVarsNum
	if span > 0 {
		n += g.rng.IntN(span + 1)
	}
	for i := 0; i < n; i++ {
		id := p.IntTypeDistr.Pick(g.rng.IntN(p.IntTypeDistr.Total()))
		init := stmt.GrowConst(ctx, g.rng, id)
		sv := data.NewScalarVar(g.gen.NextVarName(), id, init)
		sv.SetIsDead(false)
		g.gen.ExtInput.AddVar(sv)
		g.gen.ExtInput.AvailVars = append(g.gen.ExtInput.AvailVars, g.interner.ScalarUse(sv))
	}

	arrSpan := p.MaxArraySize - p.MinArraySize
	arrCount := 1 + g.rng.IntN(2)
	for i := 0; i < arrCount; i++ {
		id := p.IntTypeDistr.Pick(g.rng.IntN(p.IntTypeDistr.Total()))
		size := p.MinArraySize
		if arrSpan > 0 {
			size += g.rng.IntN(arrSpan + 1)
		}
		init := stmt.GrowConst(ctx, g.rng, id)
		arr := data.NewArray(g.gen.NextArrayName(), data.ArrayType{Base: id, Dims: []int{size}}, p.MultiValClustSz, init)
		arr.SetIsDead(false)
		g.gen.ExtInput.AddArray(arr)
		g.gen.ExtInput.AvailVars = append(g.gen.ExtInput.AvailVars, g.interner.ArrayUse(arr))
	}
}

// Generate is the package-level convenience entry point: build a
// Generator and run it in one call.
func Generate(seed uint64, p *policy.GenPolicy) (*Program, error) {
	return NewGenerator(seed, p).Generate()
}
