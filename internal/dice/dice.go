// Package dice rolls the polyhedral dice used by skill generation and skill
// checks.
//
// # Determinism
//
// Every roll draws from the *rand.Rand passed in. Callers that need
// reproducible sessions seed that generator themselves; nothing in this
// package touches a process-wide random source.
package dice

import (
	"errors"
	"math/rand/v2"
)

var (
	// ErrMissingDice is returned when a roll names no dice.
	ErrMissingDice = errors.New("at least one die is required")
	// ErrInvalidDiceSpec is returned for dice with no sides.
	ErrInvalidDiceSpec = errors.New("dice must have at least one side")
)

// Spec describes Count dice of Sides sides each, e.g. {Sides: 6, Count: 4} is 4d6.
type Spec struct {
	Sides int
	Count int
}

// Roll is the outcome of a single Spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Roll rolls the dice described by spec.
func (spec Spec) Roll(rng *rand.Rand) (Roll, error) {
	if spec.Count <= 0 {
		return Roll{}, ErrMissingDice
	}
	if spec.Sides <= 0 {
		return Roll{}, ErrInvalidDiceSpec
	}

	results := make([]int, spec.Count)
	total := 0
	for i := range results {
		value := rollDie(rng, spec.Sides)
		results[i] = value
		total += value
	}
	return Roll{Sides: spec.Sides, Results: results, Total: total}, nil
}

// Sum rolls count six-sided dice and returns their total. A count below one
// rolls nothing and returns zero.
func Sum(rng *rand.Rand, count int) int {
	roll, err := Spec{Sides: 6, Count: count}.Roll(rng)
	if err != nil {
		return 0
	}
	return roll.Total
}

// D20 rolls a single twenty-sided die.
func D20(rng *rand.Rand) int {
	roll, _ := Spec{Sides: 20, Count: 1}.Roll(rng)
	return roll.Total
}

// NewRand returns a generator over a copy of state. Draws advance the copy,
// which the caller reads back with State.
func NewRand(state rand.PCG) *Source {
	s := &Source{pcg: state}
	s.rng = rand.New(&s.pcg)
	return s
}

// Source pairs a PCG state with the generator reading from it, so the
// advanced state can be stored back into an immutable value.
type Source struct {
	pcg rand.PCG
	rng *rand.Rand
}

// Rand returns the generator.
func (s *Source) Rand() *rand.Rand { return s.rng }

// State returns the current PCG state.
func (s *Source) State() rand.PCG { return s.pcg }

// Seed returns a PCG state derived from seed.
func Seed(seed uint64) rand.PCG {
	return *rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func rollDie(rng *rand.Rand, sides int) int {
	return rng.IntN(sides) + 1
}
