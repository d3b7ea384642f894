// Package expr implements the concrete expression IR nodes: constants,
// variable/array/iterator uses, subscripts, casts, unary/binary/ternary
// operators, assignments and library calls. Every node type here
// satisfies data.Expr (PropagateType/Evaluate/Rebuild/ExprKind) without
// expr importing anything from internal/stmt or the root generator
// package, keeping the dependency graph acyclic:
// types -> irvalue -> policy -> data -> expr -> stmt/stencil -> root.
//
// Grounded on the teacher's AST node shape (internal/ast nodes each
// implementing a small Accept-style interface) generalised from
// syntax-tree nodes to abstract-value nodes: PropagateType stands in for
// the teacher's static type-check pass, Evaluate for its constant-folder,
// and Rebuild has no teacher analogue — it is grounded directly on
// original_source/src/expr.h's rebuild() family, reimplemented here as
// masking repairs rather than the original's bespoke per-operator logic.
package expr

import (
	"github.com/intel/yarpgen-sub001/internal/data"
	"github.com/intel/yarpgen-sub001/internal/irvalue"
	"github.com/intel/yarpgen-sub001/internal/types"
)

// clearSignBit masks off v's sign bit, guaranteeing a non-negative
// result (of v's promoted type, as for any BitAnd). Used to repair TypeMin-only overflow cases
// (unary negation, NegShift) with a single cheap AND.
func clearSignBit(v irvalue.IRValue) irvalue.IRValue {
	unsignedMax := types.Max(types.UnsignedCounterpart(v.TypeID))
	mask := irvalue.FromUint64(v.TypeID, unsignedMax>>1)
	return irvalue.Binary(irvalue.BitAnd, v, mask)
}

// halveRange masks v down into roughly a quarter of its type's unsigned
// range. Two values both masked this way can be added or subtracted
// without signed overflow, which is the repair this package applies to
// overflow UB other than Mul's; Mul operands get a narrower mask, below
// 1<<(width/2-1), so their product fits (spec section 4.F's "narrow the operand
// range" strategy, simplified to one fixed mask rather than a search for
// the loosest safe bound).
func halveRange(v irvalue.IRValue) irvalue.IRValue {
	unsignedMax := types.Max(types.UnsignedCounterpart(v.TypeID))
	mask := irvalue.FromUint64(v.TypeID, unsignedMax>>2)
	return irvalue.Binary(irvalue.BitAnd, v, mask)
}

// forceNonZero ORs in the low bit, guaranteeing the result is never
// zero, the repair used for division/modulo by zero.
func forceNonZero(v irvalue.IRValue) irvalue.IRValue {
	one := irvalue.FromUint64(v.TypeID, 1)
	return irvalue.Binary(irvalue.BitOr, v, one)
}

// maskShiftCount masks v down into [0, width), the repair used for
// ShiftRhsNeg and ShiftRhsLarge.
func maskShiftCount(v irvalue.IRValue, width int) irvalue.IRValue {
	mask := irvalue.FromUint64(v.TypeID, uint64(width-1))
	return irvalue.Binary(irvalue.BitAnd, v, mask)
}

// repairBinaryOperands picks a masking repair for a values pair that
// produced ub under op, returning adjusted operands that are guaranteed
// (for this closed, fixed-width integer type set) to no longer trigger
// the same UB kind.
func repairBinaryOperands(op irvalue.BinaryOp, a, b irvalue.IRValue, ub irvalue.UBKind) (irvalue.IRValue, irvalue.IRValue) {
	switch ub {
	case irvalue.ZeroDiv:
		return a, forceNonZero(b)
	case irvalue.SignOverflow, irvalue.SignOverflowMin:
		if op == irvalue.Mul {
			mulMask := func(v irvalue.IRValue) irvalue.IRValue {
				bits := types.BitSize(v.TypeID)/2 - 1
				if bits < 0 {
					bits = 0
				}
				return irvalue.Binary(irvalue.BitAnd, v, irvalue.FromUint64(v.TypeID, uint64(1)<<uint(bits)-1))
			}
			return mulMask(a), mulMask(b)
		}
		return halveRange(a), halveRange(b)
	case irvalue.ShiftRhsNeg, irvalue.ShiftRhsLarge:
		width := types.BitSize(irvalue.Promote(a).TypeID)
		return a, maskShiftCount(b, width)
	case irvalue.NegShift:
		return clearSignBit(a), b
	default:
		return a, b
	}
}

// clearSignBitExpr is the tree-level counterpart of clearSignBit: it
// wraps operand in a BitAnd against the same mask, so a Rebuild caller
// can reassign a node's operand field and have a later, independent
// Evaluate reproduce the repair instead of just returning a
// locally-computed value.
func clearSignBitExpr(typeID types.IntTypeID, operand data.Expr) data.Expr {
	unsignedMax := types.Max(types.UnsignedCounterpart(typeID))
	mask := NewConstExpr(irvalue.FromUint64(typeID, unsignedMax>>1))
	return NewBinaryExpr(irvalue.BitAnd, operand, mask)
}

// halveRangeExpr is the tree-level counterpart of halveRange.
func halveRangeExpr(typeID types.IntTypeID, operand data.Expr) data.Expr {
	unsignedMax := types.Max(types.UnsignedCounterpart(typeID))
	mask := NewConstExpr(irvalue.FromUint64(typeID, unsignedMax>>2))
	return NewBinaryExpr(irvalue.BitAnd, operand, mask)
}

// forceNonZeroExpr is the tree-level counterpart of forceNonZero.
func forceNonZeroExpr(typeID types.IntTypeID, operand data.Expr) data.Expr {
	one := NewConstExpr(irvalue.FromUint64(typeID, 1))
	return NewBinaryExpr(irvalue.BitOr, operand, one)
}

// maskShiftCountExpr is the tree-level counterpart of maskShiftCount.
func maskShiftCountExpr(typeID types.IntTypeID, width int, operand data.Expr) data.Expr {
	mask := NewConstExpr(irvalue.FromUint64(typeID, uint64(width-1)))
	return NewBinaryExpr(irvalue.BitAnd, operand, mask)
}

// repairBinaryOperandExprs is the tree-level counterpart of
// repairBinaryOperands: it returns repaired operand expressions rather
// than repaired values, so BinaryExpr.Rebuild can reassign e.LHS/e.RHS
// and have the node itself carry the repair forward.
func repairBinaryOperandExprs(op irvalue.BinaryOp, aVal, bVal irvalue.IRValue, aExpr, bExpr data.Expr, ub irvalue.UBKind) (data.Expr, data.Expr) {
	switch ub {
	case irvalue.ZeroDiv:
		return aExpr, forceNonZeroExpr(bVal.TypeID, bExpr)
	case irvalue.SignOverflow, irvalue.SignOverflowMin:
		if op == irvalue.Mul {
			mulMaskExpr := func(typeID types.IntTypeID, operand data.Expr) data.Expr {
				bits := types.BitSize(typeID)/2 - 1
				if bits < 0 {
					bits = 0
				}
				mask := NewConstExpr(irvalue.FromUint64(typeID, uint64(1)<<uint(bits)-1))
				return NewBinaryExpr(irvalue.BitAnd, operand, mask)
			}
			return mulMaskExpr(aVal.TypeID, aExpr), mulMaskExpr(bVal.TypeID, bExpr)
		}
		return halveRangeExpr(aVal.TypeID, aExpr), halveRangeExpr(bVal.TypeID, bExpr)
	case irvalue.ShiftRhsNeg, irvalue.ShiftRhsLarge:
		width := types.BitSize(irvalue.Promote(aVal).TypeID)
		return aExpr, maskShiftCountExpr(bVal.TypeID, width, bExpr)
	case irvalue.NegShift:
		return clearSignBitExpr(aVal.TypeID, aExpr), bExpr
	default:
		return aExpr, bExpr
	}
}

var (
	_ data.Expr = (*ConstExpr)(nil)
	_ data.Expr = (*ScalarVarUseExpr)(nil)
	_ data.Expr = (*ArrayUseExpr)(nil)
	_ data.Expr = (*IterUseExpr)(nil)
	_ data.Expr = (*SubscriptExpr)(nil)
	_ data.Expr = (*TypeCastExpr)(nil)
	_ data.Expr = (*UnaryExpr)(nil)
	_ data.Expr = (*BinaryExpr)(nil)
	_ data.Expr = (*TernaryExpr)(nil)
	_ data.Expr = (*AssignmentExpr)(nil)
	_ data.Expr = (*LibCallExpr)(nil)

	_ LValue = (*ScalarVarUseExpr)(nil)
	_ LValue = (*SubscriptExpr)(nil)
)
