// Package pool implements the shared number pool that cards mutate: a
// bounded stack of signed integers with an overflow payout when it fills.
package pool

import "github.com/tsanfield/stackpot-backend/internal/deck"

// DefaultCapacity is the pool size used when no override is configured.
const DefaultCapacity = 10

// Overflow is the payout produced when a push fills the pool: the acting
// player gains SelfGain (the last value pushed) and every other active
// player loses OtherLost (the pool's first value at that instant).
type Overflow struct {
	OtherLost int
	SelfGain  int
}

// Pool is an ordered sequence of signed integers with a fixed capacity.
// It never fails; mutations on an empty pool are no-ops.
type Pool struct {
	values   []int
	capacity int
}

func New(capacity int) *Pool {
	return &Pool{
		values:   make([]int, 0, capacity),
		capacity: capacity,
	}
}

func (p *Pool) Len() int {
	return len(p.values)
}

// Values returns a snapshot of the pool contents, oldest first.
func (p *Pool) Values() []int {
	out := make([]int, len(p.values))
	copy(out, p.values)
	return out
}

// Push appends n. When the push makes the pool full it empties the pool
// and reports the overflow computed from the first and last elements.
func (p *Pool) Push(n int) (Overflow, bool) {
	p.values = append(p.values, n)
	if len(p.values) == p.capacity {
		of := Overflow{
			OtherLost: p.values[0],
			SelfGain:  p.values[len(p.values)-1],
		}
		p.values = p.values[:0]
		return of, true
	}
	return Overflow{}, false
}

func (p *Pool) Pop() {
	if len(p.values) > 0 {
		p.values = p.values[:len(p.values)-1]
	}
}

func (p *Pool) Reverse() {
	for i, j := 0, len(p.values)-1; i < j; i, j = i+1, j-1 {
		p.values[i], p.values[j] = p.values[j], p.values[i]
	}
}

// Add adds n to the last element; no-op if empty.
func (p *Pool) Add(n int) {
	if len(p.values) > 0 {
		p.values[len(p.values)-1] += n
	}
}

// Negate negates the last element; no-op if empty.
func (p *Pool) Negate() {
	if len(p.values) > 0 {
		p.values[len(p.values)-1] = -p.values[len(p.values)-1]
	}
}

// ApplyCard applies each of the card's actions in order and collects every
// overflow produced. A card with several pushes can overflow more than once.
func (p *Pool) ApplyCard(card deck.Card) []Overflow {
	var overflows []Overflow
	for _, a := range card.Actions {
		switch a.Kind {
		case deck.ActionPush:
			if of, ok := p.Push(a.Num); ok {
				overflows = append(overflows, of)
			}
		case deck.ActionPop:
			p.Pop()
		case deck.ActionReverse:
			p.Reverse()
		case deck.ActionAdd:
			p.Add(a.Num)
		case deck.ActionNegate:
			p.Negate()
		}
	}
	return overflows
}
