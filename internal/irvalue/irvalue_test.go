package irvalue

import (
	"testing"

	"github.com/intel/yarpgen-sub001/internal/types"
)

func TestFromInt64RoundTrip(t *testing.T) {
	v := FromInt64(types.INT, -42)
	if !v.Val.IsNegative || v.Val.Magnitude != 42 {
		t.Errorf("FromInt64(-42) = %+v", v)
	}
	if v.HasUB() {
		t.Error("FromInt64 should never itself carry UB")
	}
}

func TestSignedOverflowAdd(t *testing.T) {
	maxInt := FromInt64(types.INT, types.Min(types.INT)*-1-1) // INT_MAX
	one := FromInt64(types.INT, 1)
	r := Binary(Add, maxInt, one)
	if r.UB != SignOverflow {
		t.Errorf("INT_MAX + 1: UB = %v, want SignOverflow", r.UB)
	}
}

func TestIntMinTimesNegOne(t *testing.T) {
	min := FromInt64(types.INT, types.Min(types.INT))
	negOne := FromInt64(types.INT, -1)
	r := Binary(Mul, min, negOne)
	if r.UB != SignOverflowMin {
		t.Errorf("INT_MIN * -1: UB = %v, want SignOverflowMin", r.UB)
	}
}

func TestDivByZero(t *testing.T) {
	a := FromInt64(types.INT, 10)
	z := FromInt64(types.INT, 0)
	if r := Binary(Div, a, z); r.UB != ZeroDiv {
		t.Errorf("10/0: UB = %v, want ZeroDiv", r.UB)
	}
	if r := Binary(Mod, a, z); r.UB != ZeroDiv {
		t.Errorf("10%%0: UB = %v, want ZeroDiv", r.UB)
	}
}

func TestShiftUB(t *testing.T) {
	a := FromInt64(types.INT, 1)
	cases := []struct {
		name string
		b    IRValue
		op   BinaryOp
		want UBKind
	}{
		{"negative shift count", FromInt64(types.INT, -1), Shl, ShiftRhsNeg},
		{"shift count >= width", FromInt64(types.INT, 32), Shl, ShiftRhsLarge},
		{"shift count == width for shr", FromInt64(types.INT, 32), Shr, ShiftRhsLarge},
	}
	for _, c := range cases {
		if r := Binary(c.op, a, c.b); r.UB != c.want {
			t.Errorf("%s: UB = %v, want %v", c.name, r.UB, c.want)
		}
	}

	neg := FromInt64(types.INT, -1)
	one := FromInt64(types.INT, 1)
	if r := Binary(Shl, neg, one); r.UB != NegShift {
		t.Errorf("negative << 1: UB = %v, want NegShift", r.UB)
	}
}

func TestShiftWellDefined(t *testing.T) {
	a := FromInt64(types.INT, 1)
	b := FromInt64(types.INT, 4)
	r := Binary(Shl, a, b)
	if r.HasUB() {
		t.Fatalf("1 << 4 should be well-defined, got UB %v", r.UB)
	}
	if r.Val.Magnitude != 16 {
		t.Errorf("1 << 4 = %d, want 16", r.Val.Magnitude)
	}
}

func TestUnsignedWrapNoUB(t *testing.T) {
	max := FromUint64(types.UINT, types.Max(types.UINT))
	one := FromUint64(types.UINT, 1)
	r := Binary(Add, max, one)
	if r.HasUB() {
		t.Errorf("unsigned overflow must wrap silently, got UB %v", r.UB)
	}
	if r.Val.Magnitude != 0 {
		t.Errorf("UINT_MAX + 1 = %d, want 0", r.Val.Magnitude)
	}
}

func TestUBPropagatesThroughFurtherOps(t *testing.T) {
	tainted := IRValue{TypeID: types.INT, Val: AbsValue{Magnitude: 5}, UB: ZeroDiv}
	clean := FromInt64(types.INT, 2)
	r := Binary(Add, tainted, clean)
	if r.UB != ZeroDiv {
		t.Errorf("UB should propagate through a further op, got %v", r.UB)
	}
}

func TestCastSaturatesSignOverflowOnly(t *testing.T) {
	big := FromInt64(types.INT, 1000)
	r := Cast(big, types.CHAR)
	if r.UB != SignOverflow {
		t.Errorf("casting 1000 into CHAR: UB = %v, want SignOverflow", r.UB)
	}
	fitting := FromInt64(types.INT, 10)
	r2 := Cast(fitting, types.CHAR)
	if r2.HasUB() {
		t.Errorf("casting a fitting value must not introduce UB, got %v", r2.UB)
	}
}

func TestCastIdempotentWhenAlreadyTargetType(t *testing.T) {
	v := FromInt64(types.LONG, 123)
	r := Cast(v, types.LONG)
	if r != v {
		t.Errorf("Cast to the same type changed the value: %+v vs %+v", r, v)
	}
}

func TestCastToBool(t *testing.T) {
	zero := FromInt64(types.INT, 0)
	nonzero := FromInt64(types.INT, -7)
	if Cast(zero, types.BOOL).Val.Magnitude != 0 {
		t.Error("cast of 0 to bool must be 0")
	}
	if Cast(nonzero, types.BOOL).Val.Magnitude != 1 {
		t.Error("cast of nonzero to bool must be 1")
	}
}

func TestFitsRoundTrip(t *testing.T) {
	v := FromInt64(types.SHORT, 100)
	if !Fits(v, types.INT) {
		t.Error("a SHORT value must fit in INT")
	}
	big := FromInt64(types.LONG, 1<<40)
	if Fits(big, types.INT) {
		t.Error("a value outside INT's range must not fit")
	}
}

func TestArithConvUsualConversions(t *testing.T) {
	if got := ArithConv(types.CHAR, types.SHORT); got != types.INT {
		t.Errorf("CHAR,SHORT promote to INT, got %v", types.Name(got))
	}
	if got := ArithConv(types.UINT, types.INT); got != types.UINT {
		t.Errorf("UINT,INT => UINT, got %v", types.Name(got))
	}
	if got := ArithConv(types.LONG, types.UINT); got != types.LONG {
		t.Errorf("LONG can represent every UINT value, expected LONG, got %v", types.Name(got))
	}
}

func TestLogicalAndOrShortCircuitValue(t *testing.T) {
	f := FromInt64(types.INT, 0)
	tt := FromInt64(types.INT, 1)
	if Binary(LogicalAnd, f, tt).Val.Magnitude != 0 {
		t.Error("0 && 1 must be 0")
	}
	if Binary(LogicalOr, f, tt).Val.Magnitude != 1 {
		t.Error("0 || 1 must be 1")
	}
}

func TestUnaryNegOverflow(t *testing.T) {
	min := FromInt64(types.INT, types.Min(types.INT))
	r := Unary(Neg, min)
	if r.UB != SignOverflow {
		t.Errorf("-INT_MIN: UB = %v, want SignOverflow", r.UB)
	}
}

func TestUnaryBitNot(t *testing.T) {
	zero := FromInt64(types.INT, 0)
	r := Unary(BitNot, zero)
	if r.Val.IsNegative != true || r.Val.Magnitude != 1 {
		t.Errorf("~0 = %+v, want -1", r)
	}
}

func TestDeterministicReplay(t *testing.T) {
	// Same operator sequence on the same inputs must produce byte-identical
	// results every time (spec invariant 1), since generation never
	// consults anything but its arguments.
	a := FromInt64(types.INT, 17)
	b := FromInt64(types.INT, 5)
	r1 := Binary(Mod, a, b)
	r2 := Binary(Mod, a, b)
	if r1 != r2 {
		t.Errorf("Binary(Mod) is not deterministic: %+v vs %+v", r1, r2)
	}
}
