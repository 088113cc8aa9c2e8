package engine

import (
	"cmp"
	"slices"

	"NYCalc/internal/domain/models"
)

// book holds open positions sorted by descending target, so the next
// candidate to close sits at the tail. Ties fall back to owner and open order.
type book struct {
	items []models.Position
	dirty bool
}

func (b *book) push(p models.Position) {
	b.items = append(b.items, p)
	b.dirty = true
}

// settle re-sorts only after new positions were pushed.
func (b *book) settle() {
	if !b.dirty {
		return
	}
	slices.SortFunc(b.items, func(x, y models.Position) int {
		if c := cmp.Compare(y.TargetPrice, x.TargetPrice); c != 0 {
			return c
		}
		if c := cmp.Compare(y.Owner, x.Owner); c != 0 {
			return c
		}
		return cmp.Compare(y.Seq, x.Seq)
	})
	b.dirty = false
}

// popBelow removes and returns the cheapest position if its target is under high.
func (b *book) popBelow(high float64) (models.Position, bool) {
	n := len(b.items)
	if n == 0 || !(b.items[n-1].TargetPrice < high) {
		return models.Position{}, false
	}
	p := b.items[n-1]
	b.items = b.items[:n-1]
	return p, true
}

func (b *book) len() int { return len(b.items) }
