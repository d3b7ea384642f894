// Package irvalue implements the abstract-interpretation value the
// generator computes for every expression: a tagged integer carrying its
// type, a sign/magnitude representation, and an undefined-behaviour tag.
// Every arithmetic, comparison, bitwise and shift operator used by
// internal/expr is implemented here, on values alone, so it can be tested
// independently of the expression tree that produces them.
package irvalue

import (
	"math/big"

	"github.com/intel/yarpgen-sub001/internal/types"
)

// UBKind tags the kind of undefined behaviour an operation produced, or
// NoUB if the result is well-defined.
type UBKind int

const (
	NoUB UBKind = iota
	SignOverflow
	// SignOverflowMin is the distinct code for INT_MIN * -1 (and friends);
	// the rebuilder repairs it differently from a generic SignOverflow.
	SignOverflowMin
	ZeroDiv
	ShiftRhsNeg
	ShiftRhsLarge
	NegShift
	OutOfBounds
	Uninit
)

func (k UBKind) String() string {
	switch k {
	case NoUB:
		return "NoUB"
	case SignOverflow:
		return "SignOverflow"
	case SignOverflowMin:
		return "SignOverflowMin"
	case ZeroDiv:
		return "ZeroDiv"
	case ShiftRhsNeg:
		return "ShiftRhsNeg"
	case ShiftRhsLarge:
		return "ShiftRhsLarge"
	case NegShift:
		return "NegShift"
	case OutOfBounds:
		return "OutOfBounds"
	case Uninit:
		return "Uninit"
	default:
		return "UnknownUB"
	}
}

// AbsValue is a sign/magnitude pair: the value's absolute magnitude plus
// whether it is negative. Magnitude alone is enough because no supported
// integer type exceeds 64 bits.
type AbsValue struct {
	IsNegative bool
	Magnitude  uint64
}

// IRValue is the abstract value of an expression at generation time.
type IRValue struct {
	TypeID types.IntTypeID
	Val    AbsValue
	UB     UBKind
}

// New builds an IRValue directly from a type id and sign/magnitude pair.
func New(id types.IntTypeID, val AbsValue) IRValue {
	return IRValue{TypeID: id, Val: val, UB: NoUB}
}

// FromInt64 builds a well-defined IRValue of the given type from a host
// int64. The caller is responsible for v being representable in id.
func FromInt64(id types.IntTypeID, v int64) IRValue {
	if v < 0 {
		return New(id, AbsValue{IsNegative: true, Magnitude: uint64(-v)})
	}
	return New(id, AbsValue{IsNegative: false, Magnitude: uint64(v)})
}

// FromUint64 builds a well-defined unsigned IRValue of the given type.
func FromUint64(id types.IntTypeID, v uint64) IRValue {
	return New(id, AbsValue{IsNegative: false, Magnitude: v})
}

// Uninitialized returns a value of the given type tagged as uninitialized.
func Uninitialized(id types.IntTypeID) IRValue {
	return IRValue{TypeID: id, Val: AbsValue{}, UB: Uninit}
}

// HasUB reports whether the value carries a non-NoUB tag.
func (v IRValue) HasUB() bool { return v.UB != NoUB }

// toBig returns the exact mathematical value of v, ignoring its UB tag.
func toBig(v IRValue) *big.Int {
	b := new(big.Int).SetUint64(v.Val.Magnitude)
	if v.Val.IsNegative {
		b.Neg(b)
	}
	return b
}

// fromBigWrapped reduces an arbitrary-precision value modulo the type's
// width and reinterprets it per the type's signedness (two's-complement
// wraparound), the way hardware would actually produce a bit pattern even
// when the unwrapped value is UB.
func fromBigWrapped(v *big.Int, id types.IntTypeID) AbsValue {
	width := types.BitSize(id)
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
	m := new(big.Int).Mod(v, modulus) // Euclidean mod, always in [0, modulus)
	if types.IsSigned(id) {
		half := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
		if m.Cmp(half) >= 0 {
			signedVal := new(big.Int).Sub(m, modulus)
			return AbsValue{IsNegative: true, Magnitude: new(big.Int).Neg(signedVal).Uint64()}
		}
		return AbsValue{IsNegative: false, Magnitude: m.Uint64()}
	}
	return AbsValue{IsNegative: false, Magnitude: m.Uint64()}
}

func minBig(id types.IntTypeID) *big.Int { return big.NewInt(types.Min(id)) }
func maxBig(id types.IntTypeID) *big.Int { return new(big.Int).SetUint64(types.Max(id)) }

// fits reports whether v's exact mathematical value lies within id's range.
func fits(v *big.Int, id types.IntTypeID) bool {
	return v.Cmp(minBig(id)) >= 0 && v.Cmp(maxBig(id)) <= 0
}

// propagateUB returns the first non-NoUB code among the operands (UB, once
// set, propagates through further operations) or newUB if both operands
// were well-defined.
func propagateUB(newUB UBKind, ubs ...UBKind) UBKind {
	for _, u := range ubs {
		if u != NoUB {
			return u
		}
	}
	return newUB
}
