package pool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanfield/stackpot-backend/internal/deck"
)

func TestPush_OverflowAtCapacity(t *testing.T) {
	p := New(3)

	_, ok := p.Push(5)
	require.False(t, ok)
	_, ok = p.Push(2)
	require.False(t, ok)

	of, ok := p.Push(7)
	require.True(t, ok)
	assert.Equal(t, Overflow{OtherLost: 5, SelfGain: 7}, of)
	assert.Equal(t, 0, p.Len(), "pool must be empty right after overflowing")
}

func TestPush_LengthNeverExceedsCapacity(t *testing.T) {
	const capacity = 10
	p := New(capacity)
	rng := rand.New(rand.NewSource(1))

	overflows := 0
	for i := 0; i < 1000; i++ {
		before := p.Len()
		_, ok := p.Push(rng.Intn(19) - 9)
		if ok {
			overflows++
			require.Equal(t, capacity-1, before, "overflow must fire exactly when the push fills the pool")
			require.Equal(t, 0, p.Len())
		} else {
			require.Equal(t, before+1, p.Len())
		}
		require.Less(t, p.Len(), capacity)
	}
	assert.Equal(t, 100, overflows)
}

func TestMutationsOnEmptyPoolAreNoOps(t *testing.T) {
	p := New(10)

	p.Pop()
	p.Add(3)
	p.Negate()
	p.Reverse()

	assert.Equal(t, 0, p.Len())
}

func TestReverseAddNegate(t *testing.T) {
	p := New(10)
	p.Push(1)
	p.Push(2)
	p.Push(3)

	p.Reverse()
	assert.Equal(t, []int{3, 2, 1}, p.Values())

	p.Add(4)
	assert.Equal(t, []int{3, 2, 5}, p.Values())

	p.Negate()
	assert.Equal(t, []int{3, 2, -5}, p.Values())

	p.Pop()
	assert.Equal(t, []int{3, 2}, p.Values())
}

func TestApplyCard_CollectsEveryOverflow(t *testing.T) {
	p := New(2)
	card := deck.Card{Actions: []deck.Action{
		{Kind: deck.ActionPush, Num: 1},
		{Kind: deck.ActionPush, Num: 2},
		{Kind: deck.ActionPush, Num: 3},
		{Kind: deck.ActionPush, Num: 4},
	}}

	overflows := p.ApplyCard(card)

	require.Len(t, overflows, 2, "two pushes past capacity per fill means two overflows")
	assert.Equal(t, Overflow{OtherLost: 1, SelfGain: 2}, overflows[0])
	assert.Equal(t, Overflow{OtherLost: 3, SelfGain: 4}, overflows[1])
	assert.Equal(t, 0, p.Len())
}

func TestApplyCard_MixedActions(t *testing.T) {
	p := New(10)
	card := deck.Card{Actions: []deck.Action{
		{Kind: deck.ActionPush, Num: 6},
		{Kind: deck.ActionAdd, Num: -2},
		{Kind: deck.ActionPush, Num: 1},
		{Kind: deck.ActionNegate},
	}}

	overflows := p.ApplyCard(card)

	assert.Empty(t, overflows)
	assert.Equal(t, []int{4, -1}, p.Values())
}
