package draw

import "github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"

// Owner identifies who holds a drawable number.
type Owner struct {
	UserID     string
	UserName   string
	CustomData map[string]string
	AdminNotes *string
}

// Pool is the multiset of drawable numbers of one raffle.
type Pool struct {
	Numbers []int
	Owners  map[int]Owner
}

func (p Pool) Len() int {
	return len(p.Numbers)
}

// BuildPool collects every number of every paid ticket. Duplicate numbers are
// kept in Numbers; for Owners the last ticket holding the number wins.
func BuildPool(tickets []domain.Ticket) Pool {
	size := 0
	for _, t := range tickets {
		if t.IsPaid {
			size += len(t.TicketNumbers)
		}
	}

	pool := Pool{
		Numbers: make([]int, 0, size),
		Owners:  make(map[int]Owner, size),
	}
	for _, t := range tickets {
		if !t.IsPaid {
			continue
		}
		owner := Owner{
			UserID:     t.UserID,
			UserName:   t.UserName,
			CustomData: t.CustomData,
			AdminNotes: t.AdminNotes,
		}
		for _, n := range t.TicketNumbers {
			pool.Numbers = append(pool.Numbers, n)
			pool.Owners[n] = owner
		}
	}

	return pool
}
