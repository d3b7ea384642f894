// Package rng provides the generator's single PRNG, split into a primary
// stream and a secondary mutation stream (spec section 5). Everything
// the populator draws goes through a Source so that a given seed
// produces byte-identical programs regardless of how many times the
// mutation stream gets swapped in and out.
package rng

import "math/rand"

// Source is a seeded PRNG with two independent streams. Only one stream
// is "active" (read by IntN/Float64/...) at a time; SwitchMutationState
// toggles which one.
type Source struct {
	primary  *rand.Rand
	mutation *rand.Rand
	inMut    bool
}

// New seeds a Source deterministically from seed. The mutation stream is
// seeded from a value derived from seed, not from the primary stream
// itself, so that drawing from one stream never perturbs the other.
func New(seed uint64) *Source {
	return &Source{
		primary:  rand.New(rand.NewSource(int64(seed))),
		mutation: rand.New(rand.NewSource(int64(seed ^ 0x9E3779B97F4A7C15))),
	}
}

func (s *Source) active() *rand.Rand {
	if s.inMut {
		return s.mutation
	}
	return s.primary
}

// SwitchMutationState swaps which stream subsequent draws come from and
// reports the previous state, so callers can restore it.
func (s *Source) SwitchMutationState(mutating bool) (prev bool) {
	prev = s.inMut
	s.inMut = mutating
	return prev
}

// InMutation reports whether the mutation stream is currently active.
func (s *Source) InMutation() bool { return s.inMut }

// WithMutation runs fn with the mutation stream active, then restores
// whichever stream was active before the call — the save/switch/draw/
// switch-back/restore pattern spec section 5 requires so a rejected
// mutation probe can never desynchronise the primary stream.
func (s *Source) WithMutation(fn func()) {
	prev := s.SwitchMutationState(true)
	fn()
	s.SwitchMutationState(prev)
}

// IntN returns a uniform draw in [0, n).
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.active().Intn(n)
}

// Int63 returns a uniform draw in [0, 1<<63).
func (s *Source) Int63() int64 { return s.active().Int63() }

// Uint64 returns a uniform draw over the full uint64 range.
func (s *Source) Uint64() uint64 { return s.active().Uint64() }

// Float64 returns a uniform draw in [0.0, 1.0).
func (s *Source) Float64() float64 { return s.active().Float64() }

// Bool draws true with probability p.
func (s *Source) Bool(p float64) bool { return s.Float64() < p }

// Int63Range returns a uniform draw in [lo, hi].
func (s *Source) Int63Range(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	if span <= 0 {
		// [lo, hi] holds more than 1<<63 values, so span overflowed: draw
		// all 64 bits and keep the first draw that lands inside the range.
		for {
			if v := int64(s.active().Uint64()); v >= lo && v <= hi {
				return v
			}
		}
	}
	return lo + s.active().Int63n(span)
}
