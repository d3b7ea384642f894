// Package genrors implements the generator's error taxonomy (spec
// section 7): invariant violations are unrecoverable and panic, built
// from a typed value so a recovering caller can still print useful
// context — the same shape as the teacher's SentraError, minus its
// builder-style With* methods and the stack-frame machinery Sentra needs
// for a running VM and this generator does not.
package genrors

import (
	"fmt"
	"strings"
)

// InvariantKind labels the kind of invariant an Invariant violates.
type InvariantKind string

const (
	NonLvalueAssignTarget InvariantKind = "NonLvalueAssignTarget"
	SubscriptBaseNotArray InvariantKind = "SubscriptBaseNotArray"
	IncompatibleCast      InvariantKind = "IncompatibleCast"
	RankMismatch          InvariantKind = "RankMismatch"
	UnreachableNodeKind   InvariantKind = "UnreachableNodeKind"
)

// Invariant represents a violated generator invariant: an implementation
// bug, not a property of the generated program. Callers are expected to
// let it propagate as a panic; it implements error only so tests and
// top-level recover() sites can report it cleanly.
type Invariant struct {
	Kind    InvariantKind
	Message string
	Where   string
}

func (e *Invariant) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invariant violation [%s]: %s", e.Kind, e.Message))
	if e.Where != "" {
		sb.WriteString(fmt.Sprintf(" (in %s)", e.Where))
	}
	return sb.String()
}

// NewInvariant builds an Invariant error.
func NewInvariant(kind InvariantKind, message, where string) *Invariant {
	return &Invariant{Kind: kind, Message: message, Where: where}
}

// Fail panics with a new Invariant. Every generator invariant violation
// (spec section 7.2) goes through this single choke point so the
// "fail loudly" contract is met uniformly.
func Fail(kind InvariantKind, where, format string, args ...interface{}) {
	panic(NewInvariant(kind, fmt.Sprintf(format, args...), where))
}
