// Package policy holds the generation policy: the probability
// distributions and hard limits that steer every random choice the
// populator makes, plus the small set of enums (node kinds, statement
// kinds, library-call families) those distributions range over. Keeping
// the enums here, rather than in internal/expr or internal/stmt, avoids
// an import cycle: expr and stmt both need to read GenPolicy, and policy
// must not need to import either of them back.
package policy

import (
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// NodeKind enumerates the kinds of expression the populator can grow at
// an internal AST node.
type NodeKind int

const (
	NodeConst NodeKind = iota
	NodeScalarVarUse
	NodeArrayUse
	NodeSubscript
	NodeIterUse
	NodeUnary
	NodeBinary
	NodeTernary
	NodeTypeCast
	NodeAssignment
	NodeLibCall
	NodeStencil
)

// StmtKind enumerates the statement kinds the populator can grow inside
// a scope body.
type StmtKind int

const (
	StmtExpr StmtKind = iota
	StmtDecl
	StmtLoopSeq
	StmtLoopNest
	StmtIfElse
	StmtStub
)

// LibCallKind enumerates the library-call families the populator can
// emit in place of an arithmetic subtree.
type LibCallKind int

const (
	LibMin LibCallKind = iota
	LibMax
	LibSelect
	LibAny
	LibAll
	LibNone
	LibReduceMin
	LibReduceMax
	LibReduceEq
	LibExtract
)

// OutKind is the choice of assignment target kind.
type OutKind int

const (
	OutScalar OutKind = iota
	OutArray
)

// LanguageMode selects which surface language the generated program
// targets; it gates which library-call family and whether varying types
// are legal. Only the typing rules feed back into the core (spec §1) —
// rendering the chosen syntax is the emitter's job, out of scope here.
type LanguageMode int

const (
	LangC LanguageMode = iota
	LangCXX
	LangISPC
	LangSYCL
)

// UBInDeadCode controls whether UB may be left standing in statically
// dead code instead of being repaired.
type UBInDeadCode int

const (
	UBInDeadNone UBInDeadCode = iota
	UBInDeadSome
	UBInDeadAll
)

// Pair is one (key, weight) entry used to build a Distr.
type Pair[T comparable] struct {
	Key    T
	Weight int
}

// Distr is an ordered, weighted discrete distribution over T. Order is
// preserved (unlike a bare map) so that Pick is deterministic for a given
// draw, which determinism (spec invariant 1) depends on.
type Distr[T comparable] struct {
	Keys    []T
	Weights []int
}

// NewDistr builds a distribution from an explicit list of weighted keys.
func NewDistr[T comparable](pairs ...Pair[T]) Distr[T] {
	d := Distr[T]{Keys: make([]T, len(pairs)), Weights: make([]int, len(pairs))}
	for i, p := range pairs {
		d.Keys[i] = p.Key
		d.Weights[i] = p.Weight
	}
	return d
}

// Total returns the sum of all weights.
func (d Distr[T]) Total() int {
	t := 0
	for _, w := range d.Weights {
		t += w
	}
	return t
}

// Pick returns the key whose cumulative weight bracket contains x, where
// 0 <= x < Total(). Callers draw x from their PRNG.
func (d Distr[T]) Pick(x int) T {
	acc := 0
	for i, w := range d.Weights {
		acc += w
		if x < acc {
			return d.Keys[i]
		}
	}
	return d.Keys[len(d.Keys)-1]
}

// Clone returns an independent copy, safe to mutate (e.g. to bump or
// zero out individual entries) without affecting the original.
func (d Distr[T]) Clone() Distr[T] {
	c := Distr[T]{Keys: append([]T(nil), d.Keys...), Weights: append([]int(nil), d.Weights...)}
	return c
}

// Bump increases the weight of every entry by amount, so entries whose
// weight was zero can be picked. The populator does not call it, and
// GenPolicy.LeavesProbBump is not read anywhere.
func (d *Distr[T]) Bump(amount int) {
	for i := range d.Weights {
		d.Weights[i] += amount
	}
}

// SetOnly zeroes every weight except key, which is set to weight. Used by
// ChooseAndApplySimilarOp to "cluster" a single choice.
func (d *Distr[T]) SetOnly(key T, weight int) {
	for i, k := range d.Keys {
		if k == key {
			d.Weights[i] = weight
		} else {
			d.Weights[i] = 0
		}
	}
}

// GenPolicy is the full set of knobs the populator consults. Every field
// has a documented default via DefaultGenPolicy.
type GenPolicy struct {
	LanguageMode     LanguageMode
	AllowUBInDead    UBInDeadCode
	MaxLoopDepth     int
	MaxIfElseDepth   int
	MaxArithDepth    int
	MinArraySize     int
	MaxArraySize     int
	MinInpVarsNum    int
	MaxInpVarsNum    int
	MinStmtsPerBlock int
	MaxStmtsPerBlock int
	MultiValClustSz  int
	LeavesProbBump   int
	MutationProb     float64
	UBInDeadCodeProb float64

	ArithNodeDistr  Distr[NodeKind]
	StmtKindDistr   Distr[StmtKind]
	IntTypeDistr    Distr[types.IntTypeID]
	UnaryOpDistr    Distr[irvalue.UnaryOp]
	BinaryOpDistr   Distr[irvalue.BinaryOp]
	CLibCallDistr   Distr[LibCallKind]
	CXXLibCallDistr Distr[LibCallKind]
	ISPCLibCallDistr Distr[LibCallKind]
	OutKindDistr    Distr[OutKind]

	ReuseConstProb      float64
	UseConstTransform   Distr[bool]
	ConstTransformDistr Distr[irvalue.UnaryOp]
	UseSpecialConst     Distr[bool]
	SpecialConstDistr   Distr[int] // 0=zero,1=min,2=max,3=bit-block,4=end-bits
	UseConstOffset      Distr[bool]
	ConstOffsetDistr    Distr[int]
	PosConstOffsetDistr Distr[bool]
	ReplaceInBufDistr   Distr[bool]
	ConstBufSize        int

	LoopStepMagDistr     Distr[int]
	LoopStepNegProb      float64
	LoopStepMaxArbitrary int

	StencilProbWeightAlternation float64
	ArrsInStencilDistr           Distr[int]
	StencilSameDimsOneArrDistr   Distr[bool]
	StencilSameDimsAllDistr      Distr[bool]
	StencilReuseOffsetDistr      Distr[bool]
	StencilInDimProb             float64
	StencilMaxLeftOffset         int64
	StencilMaxRightOffset        int64

	ApplySimilarOpDistr  Distr[bool]
	ApplyConstUseDistr   Distr[bool]
}

// DefaultGenPolicy returns a policy with reasonable, documented defaults,
// the way the teacher's config-carrying structs (e.g. vmregister.Value's
// tag-bit constants) ship one authoritative constructor rather than
// scattering zero-value assumptions across callers.
func DefaultGenPolicy() *GenPolicy {
	return &GenPolicy{
		LanguageMode:     LangCXX,
		AllowUBInDead:    UBInDeadNone,
		MaxLoopDepth:     2,
		MaxIfElseDepth:   2,
		MaxArithDepth:    5,
		MinArraySize:     8,
		MaxArraySize:     64,
		MinInpVarsNum:    4,
		MaxInpVarsNum:    8,
		MinStmtsPerBlock: 1,
		MaxStmtsPerBlock: 4,
		MultiValClustSz:  4,
		LeavesProbBump:   1,
		MutationProb:     0.1,
		UBInDeadCodeProb: 0.0,

		ArithNodeDistr: NewDistr(
			Pair[NodeKind]{NodeConst, 10},
			Pair[NodeKind]{NodeScalarVarUse, 15},
			Pair[NodeKind]{NodeArrayUse, 5},
			Pair[NodeKind]{NodeSubscript, 15},
			Pair[NodeKind]{NodeIterUse, 5},
			Pair[NodeKind]{NodeUnary, 10},
			Pair[NodeKind]{NodeBinary, 30},
			Pair[NodeKind]{NodeTernary, 5},
			Pair[NodeKind]{NodeTypeCast, 5},
			Pair[NodeKind]{NodeLibCall, 5},
			Pair[NodeKind]{NodeStencil, 5},
		),
		StmtKindDistr: NewDistr(
			Pair[StmtKind]{StmtExpr, 35},
			Pair[StmtKind]{StmtDecl, 20},
			Pair[StmtKind]{StmtLoopSeq, 10},
			Pair[StmtKind]{StmtLoopNest, 15},
			Pair[StmtKind]{StmtIfElse, 15},
			Pair[StmtKind]{StmtStub, 5},
		),
		IntTypeDistr: NewDistr(
			Pair[types.IntTypeID]{types.BOOL, 5}, Pair[types.IntTypeID]{types.CHAR, 5},
			Pair[types.IntTypeID]{types.UCHAR, 5}, Pair[types.IntTypeID]{types.SHORT, 5},
			Pair[types.IntTypeID]{types.USHORT, 5}, Pair[types.IntTypeID]{types.INT, 20},
			Pair[types.IntTypeID]{types.UINT, 15}, Pair[types.IntTypeID]{types.LONG, 10},
			Pair[types.IntTypeID]{types.ULONG, 10}, Pair[types.IntTypeID]{types.LLONG, 5},
			Pair[types.IntTypeID]{types.ULLONG, 5},
		),
		UnaryOpDistr: NewDistr(
			Pair[irvalue.UnaryOp]{irvalue.Neg, 10},
			Pair[irvalue.UnaryOp]{irvalue.Plus, 5},
			Pair[irvalue.UnaryOp]{irvalue.BitNot, 10},
			Pair[irvalue.UnaryOp]{irvalue.LogicalNot, 10},
		),
		BinaryOpDistr: NewDistr(
			Pair[irvalue.BinaryOp]{irvalue.Add, 15},
			Pair[irvalue.BinaryOp]{irvalue.Sub, 15},
			Pair[irvalue.BinaryOp]{irvalue.Mul, 10},
			Pair[irvalue.BinaryOp]{irvalue.Div, 5},
			Pair[irvalue.BinaryOp]{irvalue.Mod, 5},
			Pair[irvalue.BinaryOp]{irvalue.Shl, 5},
			Pair[irvalue.BinaryOp]{irvalue.Shr, 5},
			Pair[irvalue.BinaryOp]{irvalue.BitAnd, 10},
			Pair[irvalue.BinaryOp]{irvalue.BitOr, 10},
			Pair[irvalue.BinaryOp]{irvalue.BitXor, 10},
			Pair[irvalue.BinaryOp]{irvalue.Lt, 5},
			Pair[irvalue.BinaryOp]{irvalue.Gt, 5},
			Pair[irvalue.BinaryOp]{irvalue.Eq, 5},
		),
		CLibCallDistr: NewDistr(
			Pair[LibCallKind]{LibMin, 10}, Pair[LibCallKind]{LibMax, 10},
		),
		CXXLibCallDistr: NewDistr(
			Pair[LibCallKind]{LibMin, 10}, Pair[LibCallKind]{LibMax, 10},
			Pair[LibCallKind]{LibSelect, 5},
		),
		ISPCLibCallDistr: NewDistr(
			Pair[LibCallKind]{LibMin, 10}, Pair[LibCallKind]{LibMax, 10},
			Pair[LibCallKind]{LibSelect, 10}, Pair[LibCallKind]{LibAny, 5},
			Pair[LibCallKind]{LibAll, 5}, Pair[LibCallKind]{LibNone, 5},
			Pair[LibCallKind]{LibReduceMin, 5}, Pair[LibCallKind]{LibReduceMax, 5},
			Pair[LibCallKind]{LibReduceEq, 5}, Pair[LibCallKind]{LibExtract, 5},
		),
		OutKindDistr: NewDistr(
			Pair[OutKind]{OutScalar, 70}, Pair[OutKind]{OutArray, 30},
		),

		ReuseConstProb:    0.3,
		UseConstTransform: NewDistr(Pair[bool]{true, 3}, Pair[bool]{false, 7}),
		ConstTransformDistr: NewDistr(
			Pair[irvalue.UnaryOp]{irvalue.Neg, 1}, Pair[irvalue.UnaryOp]{irvalue.BitNot, 1},
		),
		UseSpecialConst: NewDistr(Pair[bool]{true, 2}, Pair[bool]{false, 8}),
		SpecialConstDistr: NewDistr(
			Pair[int]{0, 25}, Pair[int]{1, 25}, Pair[int]{2, 25}, Pair[int]{3, 15}, Pair[int]{4, 10},
		),
		UseConstOffset:      NewDistr(Pair[bool]{true, 3}, Pair[bool]{false, 7}),
		ConstOffsetDistr:    NewDistr(Pair[int]{1, 5}, Pair[int]{2, 3}, Pair[int]{4, 1}),
		PosConstOffsetDistr: NewDistr(Pair[bool]{true, 5}, Pair[bool]{false, 5}),
		ReplaceInBufDistr:   NewDistr(Pair[bool]{true, 3}, Pair[bool]{false, 7}),
		ConstBufSize:        16,

		LoopStepMagDistr: NewDistr(
			Pair[int]{1, 40}, Pair[int]{2, 20}, Pair[int]{3, 10}, Pair[int]{4, 10},
			Pair[int]{8, 10}, Pair[int]{0, 10},
		),
		LoopStepNegProb:      0.15,
		LoopStepMaxArbitrary: 6,

		StencilProbWeightAlternation: 0.6,
		ArrsInStencilDistr: NewDistr(
			Pair[int]{2, 5}, Pair[int]{3, 4}, Pair[int]{4, 1},
		),
		StencilSameDimsOneArrDistr: NewDistr(Pair[bool]{true, 7}, Pair[bool]{false, 3}),
		StencilSameDimsAllDistr:    NewDistr(Pair[bool]{true, 6}, Pair[bool]{false, 4}),
		StencilReuseOffsetDistr:    NewDistr(Pair[bool]{true, 4}, Pair[bool]{false, 6}),
		StencilInDimProb:           0.5,
		StencilMaxLeftOffset:       3,
		StencilMaxRightOffset:      3,

		ApplySimilarOpDistr: NewDistr(Pair[bool]{true, 2}, Pair[bool]{false, 8}),
		ApplyConstUseDistr:  NewDistr(Pair[bool]{true, 2}, Pair[bool]{false, 8}),
	}
}

// Clone returns a deep-enough copy for the "temporarily narrow policy"
// combinators below to mutate without affecting the caller's policy.
func (p *GenPolicy) Clone() *GenPolicy {
	c := *p
	c.ArithNodeDistr = p.ArithNodeDistr.Clone()
	c.BinaryOpDistr = p.BinaryOpDistr.Clone()
	c.UnaryOpDistr = p.UnaryOpDistr.Clone()
	return &c
}

// ChooseAndApplySimilarOp clones the policy and, if pick selects the
// "apply" branch, zeroes every binary-op weight but op's, boosting its
// probability to 1 so the next several binary nodes reuse the same
// operator ("clustered" operator usage).
func ChooseAndApplySimilarOp(p *GenPolicy, apply bool, op irvalue.BinaryOp) *GenPolicy {
	if !apply {
		return p
	}
	c := p.Clone()
	c.BinaryOpDistr.SetOnly(op, 1)
	return c
}

// ChooseAndApplyConstUse clones the policy and, if apply, sets
// reuse_const_prob to 1.0, so a constant drawn under the clone is taken
// from the reuse buffer whenever the buffer holds one of the wanted type.
func ChooseAndApplyConstUse(p *GenPolicy, apply bool) *GenPolicy {
	if !apply {
		return p
	}
	c := p.Clone()
	c.ReuseConstProb = 1.0
	return c
}
