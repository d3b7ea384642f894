// Package data implements the generator's data objects — scalar
// variables, multi-dimensional arrays (with a small multi-value cluster
// per array), and iterators — plus the two lowest-level pieces that
// would otherwise force an import cycle between data and expr: the Expr
// capability interface itself and the evaluation context it takes.
//
// Data and Expr are mutually referential in the original design (an
// Iterator owns start/end/step Expr nodes; an Expr reads and writes
// Data). Go has no forward-declared classes, so rather than merge two
// conceptually separate components into one package, Expr is declared
// here as a small structural interface; internal/expr's concrete node
// types satisfy it without data ever importing expr back.
package data

import (
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// DataKind distinguishes the four Data variants.
type DataKind int

const (
	VarKind DataKind = iota
	ArrKind
	IterKind
	ClusterKind
)

// Data is the common interface shared by ScalarVar, Array and Iterator.
type Data interface {
	Name() string
	SetName(string)
	UBCode() irvalue.UBKind
	SetUBCode(irvalue.UBKind)
	IsDead() bool
	SetIsDead(bool)
	Kind() DataKind
}

// Expr is the capability set every expression IR node implements:
// type-propagation, abstract evaluation and UB-repairing rebuild (spec
// section 4.F). Emission is deliberately not part of this interface —
// rendering final source is out of scope for the core (spec section 1).
type Expr interface {
	PropagateType() bool
	Evaluate(ctx *EvalCtx) irvalue.IRValue
	Rebuild(ctx *EvalCtx) irvalue.IRValue
	ExprKind() policy.NodeKind
}

// EvalCtx determines the evaluation context: it lets the same arithmetic
// tree be evaluated against different input bindings (e.g. once per loop
// iteration) without mutating the tree itself.
type EvalCtx struct {
	// Input overrides scalar/iterator lookups by name; if a name is
	// absent, evaluation falls back to the underlying Data's current
	// value.
	Input map[string]Data
	// TotalIterNum is the number of iterations this evaluation spans, or
	// -1 if unknown.
	TotalIterNum int64
	// MulValsIter, when set, selects which entry of a multi-value
	// cluster array reads should return.
	MulValsIter *Iterator
	UseMainVals bool
}

// NewEvalCtx returns an empty evaluation context with no input overrides.
func NewEvalCtx() *EvalCtx {
	return &EvalCtx{Input: make(map[string]Data), TotalIterNum: -1, UseMainVals: true}
}

// base holds the fields shared by every Data variant.
type base struct {
	name string
	ub   irvalue.UBKind
	dead bool
}

func (b *base) Name() string               { return b.name }
func (b *base) SetName(n string)           { b.name = n }
func (b *base) UBCode() irvalue.UBKind     { return b.ub }
func (b *base) SetUBCode(u irvalue.UBKind) { b.ub = u }
func (b *base) IsDead() bool               { return b.dead }
func (b *base) SetIsDead(d bool)           { b.dead = d }

// ScalarVar is a named integer variable with an initial and a current
// abstract value.
type ScalarVar struct {
	base
	TypeID  types.IntTypeID
	InitVal irvalue.IRValue
	CurVal  irvalue.IRValue
	Changed bool
}

// NewScalarVar creates a scalar variable. New variables default to dead
// (is_dead=true) until something reads them, matching the teacher's
// "assume unused until proven otherwise" default for newly declared
// locals.
func NewScalarVar(name string, id types.IntTypeID, init irvalue.IRValue) *ScalarVar {
	sv := &ScalarVar{TypeID: id, InitVal: init, CurVal: init}
	sv.name = name
	sv.ub = init.UB
	sv.dead = true
	return sv
}

func (s *ScalarVar) Kind() DataKind { return VarKind }

// SetCurrentValue updates the variable's current value, adopting the new
// value's UB code and marking the variable as changed.
func (s *ScalarVar) SetCurrentValue(v irvalue.IRValue) {
	s.CurVal = v
	s.ub = v.UB
	s.Changed = true
}

// ArrayType is an array's base element type plus its dimension sizes.
type ArrayType struct {
	Base types.IntTypeID
	Dims []int
}

// Rank returns the array's number of dimensions.
func (t ArrayType) Rank() int { return len(t.Dims) }

// Size returns the total element count across all dimensions.
func (t ArrayType) Size() int {
	n := 1
	for _, d := range t.Dims {
		n *= d
	}
	return n
}

// ValueCluster is the small set of alternative values ("multi-value
// cluster") associated with an array's current or initial contents, kept
// deliberately small (capped by GenPolicy.MultiValClustSz) so masked
// operations have more than one value to select among without the
// analysis blowing up.
type ValueCluster struct {
	base
	TypeID types.IntTypeID
	Values []irvalue.IRValue
	Cap    int
}

// NewValueCluster seeds a cluster with a single value.
func NewValueCluster(name string, id types.IntTypeID, capacity int, first irvalue.IRValue) *ValueCluster {
	c := &ValueCluster{TypeID: id, Values: []irvalue.IRValue{first}, Cap: capacity}
	c.name = name
	c.ub = first.UB
	return c
}

func (c *ValueCluster) Kind() DataKind { return ClusterKind }

// Push appends a value to the cluster, evicting the oldest entry once
// Cap is reached.
func (c *ValueCluster) Push(v irvalue.IRValue) {
	c.Values = append(c.Values, v)
	if len(c.Values) > c.Cap {
		c.Values = c.Values[len(c.Values)-c.Cap:]
	}
	c.ub = v.UB
}

// Latest returns the most recently pushed value, or the zero IRValue if
// the cluster is empty.
func (c *ValueCluster) Latest() irvalue.IRValue {
	if len(c.Values) == 0 {
		return irvalue.IRValue{TypeID: c.TypeID}
	}
	return c.Values[len(c.Values)-1]
}

// WriteSpan records that value was stored across a sub-region of an
// array (a span of indices per dimension with a stride per dimension),
// so the emitter can later render multi-valued initialisation instead of
// one scalar per element.
type WriteSpan struct {
	Value irvalue.IRValue
	Span  []int
	Steps []int
}

// Array is a multi-dimensional array variable.
type Array struct {
	base
	ArrType    ArrayType
	InitVals   *ValueCluster
	CurVals    *ValueCluster
	WasChanged bool
	Writes     []WriteSpan
}

// NewArray creates an array with a single initial value shared across
// every element (before any SetValue call narrows it to a sub-region).
func NewArray(name string, t ArrayType, clusterCap int, init irvalue.IRValue) *Array {
	a := &Array{
		ArrType:  t,
		InitVals: NewValueCluster(name+".init", t.Base, clusterCap, init),
		CurVals:  NewValueCluster(name+".cur", t.Base, clusterCap, init),
	}
	a.name = name
	a.ub = init.UB
	return a
}

func (a *Array) Kind() DataKind { return ArrKind }

// SetValue records that v was written across the index span/steps given
// and pushes v into the current-value cluster.
func (a *Array) SetValue(v irvalue.IRValue, span, steps []int) {
	a.Writes = append(a.Writes, WriteSpan{Value: v, Span: append([]int(nil), span...), Steps: append([]int(nil), steps...)})
	a.CurVals.Push(v)
	a.WasChanged = true
	a.ub = v.UB
}

// Iterator owns the start/end/step expressions of a loop. All three must
// be constant-expressible at generation time (spec invariant 3): calling
// Evaluate on an empty EvalCtx must yield a concrete IRValue.
type Iterator struct {
	base
	TypeID     types.IntTypeID
	Start      Expr
	End        Expr
	Step       Expr
}

// NewIterator creates an iterator over [start, end) with the given step
// expressions.
func NewIterator(name string, id types.IntTypeID, start, end, step Expr) *Iterator {
	it := &Iterator{TypeID: id, Start: start, End: end, Step: step}
	it.name = name
	return it
}

func (it *Iterator) Kind() DataKind { return IterKind }

// SetParameters replaces the iterator's start/end/step expressions.
func (it *Iterator) SetParameters(start, end, step Expr) {
	it.Start, it.End, it.Step = start, end, step
}
