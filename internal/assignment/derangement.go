package assignment

import (
	"fmt"
	"math/rand/v2"

	"github.com/fkhayef/giftexchange/internal/exchange"
)

// Source yields uniform integers in [0, n)
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Derange returns a permutation of ids in which no id keeps its index.
//
// The shuffle never swaps a position with itself (Sattolo's algorithm), so the
// result is a single cycle over all of ids. A repair pass then swaps any
// remaining fixed point with its right neighbour, and the result is verified
// before it is returned.
func Derange(ids []int64, src Source) ([]int64, error) {
	n := len(ids)
	if n < 2 {
		return nil, fmt.Errorf("%w: cannot derange %d participants", exchange.ErrAssignmentGenerationFailed, n)
	}

	r := make([]int64, n)
	copy(r, ids)

	for i := n - 1; i >= 1; i-- {
		j := src.IntN(i)
		r[i], r[j] = r[j], r[i]
	}

	for i := 0; i < n; i++ {
		if r[i] == ids[i] {
			k := (i + 1) % n
			r[i], r[k] = r[k], r[i]
		}
	}

	if err := Verify(ids, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Verify checks that recipients is a permutation of givers with no fixed points
func Verify(givers, recipients []int64) error {
	if len(givers) != len(recipients) {
		return fmt.Errorf("%w: %d givers but %d recipients",
			exchange.ErrAssignmentGenerationFailed, len(givers), len(recipients))
	}

	remaining := make(map[int64]int, len(givers))
	for _, id := range givers {
		remaining[id]++
	}
	for i, id := range recipients {
		if id == givers[i] {
			return fmt.Errorf("%w: participant %d would give to themselves",
				exchange.ErrAssignmentGenerationFailed, id)
		}
		if remaining[id] == 0 {
			return fmt.Errorf("%w: participant %d received more than once or is not on the roster",
				exchange.ErrAssignmentGenerationFailed, id)
		}
		remaining[id]--
	}
	return nil
}
