package irvalue

import "github.com/intel/yarpgen-sub001/internal/types"

// Cast converts v to type id, following C/C++ conversion rules: widening
// preserves value, narrowing unsigned truncates, narrowing signed clamps
// into an implementation-defined bit pattern and sets SignOverflow only
// when the source value did not fit the destination and the destination
// is signed. Booleans are produced as {0,1}. Any UB already on v
// propagates through the cast unchanged.
func Cast(v IRValue, id types.IntTypeID) IRValue {
	exact := toBig(v)

	if id == types.BOOL {
		mag := uint64(0)
		if exact.Sign() != 0 {
			mag = 1
		}
		return IRValue{TypeID: id, Val: AbsValue{Magnitude: mag}, UB: v.UB}
	}

	wrapped := fromBigWrapped(exact, id)
	ub := v.UB
	if ub == NoUB && types.IsSigned(id) && !fits(exact, id) {
		ub = SignOverflow
	}
	return IRValue{TypeID: id, Val: wrapped, UB: ub}
}

// Fits reports whether v's current value is exactly representable in id
// without truncation or sign clamping.
func Fits(v IRValue, id types.IntTypeID) bool {
	return fits(toBig(v), id)
}
