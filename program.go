package ccgen

import (
	"github.com/intel/yarpgen-sub001/internal/policy"
	"github.com/intel/yarpgen-sub001/internal/stmt"
	"github.com/intel/yarpgen-sub001/internal/symtab"
)

// Program is one complete generated program: the seed and policy that
// produced it, its root scope, and the external symbol tables carrying
// every input/output variable's identity, initial value and (once
// generation completes) predicted-final value.
type Program struct {
	Seed     uint64
	Policy   *policy.GenPolicy
	Root     *stmt.ScopeStmt
	ExtInput *symtab.SymbolTable
	ExtOut   *symtab.SymbolTable
}

// StmtCount returns the total number of statement nodes in the program,
// counting container statements (scopes, loop nests/sequences, if/else)
// once each plus every statement nested inside them.
func (p *Program) StmtCount() int {
	return countBlock(p.Root.Body)
}

func countBlock(b *stmt.StmtBlock) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, s := range b.Stmts {
		n += countStmt(s)
	}
	return n
}

func countStmt(s stmt.Stmt) int {
	switch v := s.(type) {
	case *stmt.ScopeStmt:
		return 1 + countBlock(v.Body)
	case *stmt.LoopNestStmt:
		return 1 + countBlock(v.Body)
	case *stmt.LoopSeqStmt:
		n := 1
		for _, loop := range v.Loops {
			n += countStmt(loop)
		}
		return n
	case *stmt.IfElseStmt:
		n := 1 + countBlock(v.Then)
		if v.HasElse {
			n += countBlock(v.Else)
		}
		return n
	default:
		return 1
	}
}

// Checksum combines every external input/output variable and array's
// final predicted value into one deterministic number — useful as a
// quick "did two runs of the same seed agree" smoke check (spec
// invariant 1) without diffing the whole program.
func (p *Program) Checksum() uint64 {
	const offset, prime = uint64(1469598103934665603), uint64(1099511628211)
	h := offset
	mix := func(x uint64) {
		h ^= x
		h *= prime
	}
	for _, tbl := range []*symtab.SymbolTable{p.ExtInput, p.ExtOut} {
		for _, v := range tbl.Vars {
			mix(uint64(v.TypeID))
			mix(v.CurVal.Val.Magnitude)
			if v.CurVal.Val.IsNegative {
				mix(1)
			}
		}
		for _, arr := range tbl.Arrays {
			latest := arr.CurVals.Latest()
			mix(uint64(latest.TypeID))
			mix(latest.Val.Magnitude)
		}
	}
	return h
}
