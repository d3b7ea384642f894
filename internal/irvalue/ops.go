package irvalue

import (
	"math/big"

	"github.com/intel/yarpgen-sub001/internal/types"
)

// promote implements integer promotion (integralProm in the spec): any
// type with rank below INT is widened to INT. Every sub-INT type in this
// type set (BOOL, CHAR, UCHAR, SHORT, USHORT) fits entirely inside INT's
// range, so the "promote to UINT instead" branch the standard allows for
// a hypothetical too-large unsigned type never triggers here.
func promote(id types.IntTypeID) types.IntTypeID {
	if types.Rank(id) < types.Rank(types.INT) {
		return types.INT
	}
	return id
}

// ArithConv implements the usual arithmetic conversions (arithConv in the
// spec): promote both operands, then pick the common result type.
func ArithConv(a, b types.IntTypeID) types.IntTypeID {
	a, b = promote(a), promote(b)
	if a == b {
		return a
	}
	if types.IsSigned(a) == types.IsSigned(b) {
		if types.Rank(a) >= types.Rank(b) {
			return a
		}
		return b
	}
	var signed, unsigned types.IntTypeID
	if types.IsSigned(a) {
		signed, unsigned = a, b
	} else {
		signed, unsigned = b, a
	}
	if types.Rank(unsigned) >= types.Rank(signed) {
		return unsigned
	}
	if types.CanRepresent(signed, unsigned) {
		return signed
	}
	return types.UnsignedCounterpart(signed)
}

// Promote casts v to its integer-promoted type.
func Promote(v IRValue) IRValue { return Cast(v, promote(v.TypeID)) }

// ToBool casts v to BOOL (convToBool in the spec).
func ToBool(v IRValue) IRValue { return Cast(v, types.BOOL) }

// BinaryOp identifies a binary IRValue operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	BitAnd
	BitOr
	BitXor
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	LogicalAnd
	LogicalOr
)

// Binary evaluates a binary operator on two IR values, applying the usual
// arithmetic conversions (or, for shifts and logical operators, the
// narrower rules those operators actually use) and detecting every UB
// case from spec section 4.A.
func Binary(op BinaryOp, a, b IRValue) IRValue {
	switch op {
	case Shl, Shr:
		return shift(op, a, b)
	case LogicalAnd, LogicalOr:
		return logical(op, a, b)
	case Eq, Ne, Lt, Le, Gt, Ge:
		return compare(op, a, b)
	}

	common := ArithConv(a.TypeID, b.TypeID)
	a3, b3 := Cast(a, common), Cast(b, common)
	ba, bb := toBig(a3), toBig(b3)

	switch op {
	case Add:
		return arith(common, a, b, a3, b3, new(big.Int).Add(ba, bb), SignOverflow)
	case Sub:
		return arith(common, a, b, a3, b3, new(big.Int).Sub(ba, bb), SignOverflow)
	case Mul:
		sum := new(big.Int).Mul(ba, bb)
		newUB := SignOverflow
		if isMinTimesNegOne(a3, b3, common) {
			newUB = SignOverflowMin
		}
		return arith(common, a, b, a3, b3, sum, newUB)
	case Div:
		if bb.Sign() == 0 {
			return IRValue{TypeID: common, Val: AbsValue{}, UB: propagateUB(ZeroDiv, a.UB, b.UB)}
		}
		q := new(big.Int).Quo(ba, bb)
		return arith(common, a, b, a3, b3, q, SignOverflow)
	case Mod:
		if bb.Sign() == 0 {
			return IRValue{TypeID: common, Val: AbsValue{}, UB: propagateUB(ZeroDiv, a.UB, b.UB)}
		}
		r := new(big.Int).Rem(ba, bb)
		return arith(common, a, b, a3, b3, r, SignOverflow)
	case BitAnd:
		return bitwise(common, a, b, new(big.Int).And(bitPattern(a3), bitPattern(b3)))
	case BitOr:
		return bitwise(common, a, b, new(big.Int).Or(bitPattern(a3), bitPattern(b3)))
	case BitXor:
		return bitwise(common, a, b, new(big.Int).Xor(bitPattern(a3), bitPattern(b3)))
	}
	panic("irvalue: unhandled binary op")
}

// isMinTimesNegOne reports whether this multiplication is exactly
// TypeMin * -1 (in either operand order), the one case that gets the
// distinct SignOverflowMin tag instead of a generic SignOverflow.
func isMinTimesNegOne(a3, b3 IRValue, common types.IntTypeID) bool {
	if !types.IsSigned(common) {
		return false
	}
	minMagnitude := uint64(1) << uint(types.BitSize(common)-1)
	isMin := func(v IRValue) bool {
		return v.Val.IsNegative && v.Val.Magnitude == minMagnitude
	}
	isNegOne := func(v IRValue) bool { return v.Val.IsNegative && v.Val.Magnitude == 1 }
	return (isMin(a3) && isNegOne(b3)) || (isMin(b3) && isNegOne(a3))
}

// arith finishes an arithmetic op: range-checks the exact result against
// the common type (signed overflow) or wraps it silently (unsigned), and
// propagates any pre-existing UB from the operands.
func arith(common types.IntTypeID, a, b, a3, b3 IRValue, exact *big.Int, newUBIfOverflow UBKind) IRValue {
	var ub UBKind
	if types.IsSigned(common) && !fits(exact, common) {
		ub = newUBIfOverflow
	}
	val := fromBigWrapped(exact, common)
	return IRValue{TypeID: common, Val: val, UB: propagateUB(ub, a.UB, b.UB)}
}

func bitPattern(v IRValue) *big.Int {
	width := types.BitSize(v.TypeID)
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
	m := new(big.Int).Mod(toBig(v), modulus)
	return m
}

func bitwise(common types.IntTypeID, a, b IRValue, pattern *big.Int) IRValue {
	val := fromBigWrapped(pattern, common)
	return IRValue{TypeID: common, Val: val, UB: propagateUB(NoUB, a.UB, b.UB)}
}

func shift(op BinaryOp, a, b IRValue) IRValue {
	a2 := Promote(a)
	b2 := Promote(b)
	width := types.BitSize(a2.TypeID)
	bigB := toBig(b2)
	bigA := toBig(a2)

	var ub UBKind
	switch {
	case bigB.Sign() < 0:
		ub = ShiftRhsNeg
	case bigB.Cmp(big.NewInt(int64(width))) >= 0:
		ub = ShiftRhsLarge
	case op == Shl && types.IsSigned(a2.TypeID) && bigA.Sign() < 0:
		ub = NegShift
	}

	var val AbsValue
	if ub == NoUB {
		count := uint(bigB.Int64())
		switch op {
		case Shl:
			shifted := new(big.Int).Lsh(bigA, count)
			if types.IsSigned(a2.TypeID) && !fits(shifted, a2.TypeID) {
				ub = ShiftRhsLarge
			}
			val = fromBigWrapped(shifted, a2.TypeID)
		case Shr:
			// big.Int.Rsh performs an arithmetic shift for negative values
			// (rounds toward -infinity), matching a typical signed >>.
			shifted := new(big.Int).Rsh(bigA, count)
			val = fromBigWrapped(shifted, a2.TypeID)
		}
	}

	return IRValue{TypeID: a2.TypeID, Val: val, UB: propagateUB(ub, a.UB, b.UB)}
}

func logical(op BinaryOp, a, b IRValue) IRValue {
	ba, bb := ToBool(a), ToBool(b)
	var r bool
	switch op {
	case LogicalAnd:
		r = ba.Val.Magnitude != 0 && bb.Val.Magnitude != 0
	case LogicalOr:
		r = ba.Val.Magnitude != 0 || bb.Val.Magnitude != 0
	}
	mag := uint64(0)
	if r {
		mag = 1
	}
	return IRValue{TypeID: types.BOOL, Val: AbsValue{Magnitude: mag}, UB: propagateUB(NoUB, a.UB, b.UB)}
}

func compare(op BinaryOp, a, b IRValue) IRValue {
	common := ArithConv(a.TypeID, b.TypeID)
	a3, b3 := Cast(a, common), Cast(b, common)
	c := toBig(a3).Cmp(toBig(b3))
	var r bool
	switch op {
	case Eq:
		r = c == 0
	case Ne:
		r = c != 0
	case Lt:
		r = c < 0
	case Le:
		r = c <= 0
	case Gt:
		r = c > 0
	case Ge:
		r = c >= 0
	}
	mag := uint64(0)
	if r {
		mag = 1
	}
	return IRValue{TypeID: types.BOOL, Val: AbsValue{Magnitude: mag}, UB: propagateUB(NoUB, a.UB, b.UB)}
}

// UnaryOp identifies a unary IRValue operator.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Plus
	BitNot
	LogicalNot
)

// Unary evaluates a unary operator on an IR value.
func Unary(op UnaryOp, a IRValue) IRValue {
	switch op {
	case Plus:
		return Promote(a)
	case BitNot:
		a2 := Promote(a)
		pattern := bitPattern(a2)
		width := types.BitSize(a2.TypeID)
		modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
		flipped := new(big.Int).Sub(modulus, pattern)
		flipped.Sub(flipped, big.NewInt(1))
		return IRValue{TypeID: a2.TypeID, Val: fromBigWrapped(flipped, a2.TypeID), UB: propagateUB(NoUB, a.UB)}
	case LogicalNot:
		b := ToBool(a)
		mag := uint64(1)
		if b.Val.Magnitude != 0 {
			mag = 0
		}
		return IRValue{TypeID: types.BOOL, Val: AbsValue{Magnitude: mag}, UB: propagateUB(NoUB, a.UB)}
	case Neg:
		a2 := Promote(a)
		exact := new(big.Int).Neg(toBig(a2))
		var ub UBKind
		if types.IsSigned(a2.TypeID) && !fits(exact, a2.TypeID) {
			ub = SignOverflow
		}
		return IRValue{TypeID: a2.TypeID, Val: fromBigWrapped(exact, a2.TypeID), UB: propagateUB(ub, a.UB)}
	}
	panic("irvalue: unhandled unary op")
}
