package draw

import (
	"sort"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
)

// Assignment is one prize handed to one drawn number.
type Assignment struct {
	Prize         domain.Prize
	WinningNumber int
	Owner         Owner
}

// SortPrizes returns a copy of prizes ordered by position. Equal positions
// keep their input order.
func SortPrizes(prizes []domain.Prize) []domain.Prize {
	sorted := make([]domain.Prize, len(prizes))
	copy(sorted, prizes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	return sorted
}

// Allocate draws one number per prize, lowest position first, without
// replacement. Prizes left once the pool is exhausted get no assignment.
// Neither prizes nor pool are modified.
//
// A number held more than once is proportionally more likely to be drawn.
// Once it wins every copy leaves the pool, so winning numbers stay distinct.
func Allocate(prizes []domain.Prize, pool Pool, rng Rand) []Assignment {
	remaining := make([]int, len(pool.Numbers))
	copy(remaining, pool.Numbers)

	copies := make(map[int]int, len(remaining))
	for _, n := range remaining {
		copies[n]++
	}

	ordered := SortPrizes(prizes)
	assignments := make([]Assignment, 0, min(len(ordered), len(remaining)))
	for _, prize := range ordered {
		if len(remaining) == 0 {
			break
		}

		i := rng.Intn(len(remaining))
		number := remaining[i]
		last := len(remaining) - 1
		remaining[i] = remaining[last]
		remaining = remaining[:last]
		if copies[number] > 1 {
			remaining = removeAll(remaining, number)
		}
		delete(copies, number)

		assignments = append(assignments, Assignment{
			Prize:         prize,
			WinningNumber: number,
			Owner:         pool.Owners[number],
		})
	}

	return assignments
}

func removeAll(numbers []int, number int) []int {
	kept := numbers[:0]
	for _, n := range numbers {
		if n != number {
			kept = append(kept, n)
		}
	}

	return kept
}
