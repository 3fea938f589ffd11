// Package deck holds the card model and the weighted random generator
// that produces the hands offered to the acting player each round.
package deck

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

type ActionKind string

const (
	ActionPush    ActionKind = "push"
	ActionPop     ActionKind = "pop"
	ActionReverse ActionKind = "reverse"
	ActionAdd     ActionKind = "add"
	ActionNegate  ActionKind = "negate"
)

// Action is a single card effect. Num is meaningful only for push and add.
// Serialization belongs to the transport layer, not to this package.
type Action struct {
	Kind ActionKind
	Num  int
}

// Card is an ordered list of 1-4 actions. Cards are immutable once drawn.
type Card struct {
	Actions []Action
}

// HandSize is how many cards the acting player chooses between each round.
const HandSize = 3

// Weight tables. These are the game's probabilistic contract, not tunables:
// changing any of them changes observable card distributions.
var (
	// 1..4 actions per card
	countWeights = []int{4, 6, 3, 1}
	// push, pop, reverse, add, negate
	kindWeights  = []int{7, 3, 3, 2, 1}
	kindByWeight = []ActionKind{ActionPush, ActionPop, ActionReverse, ActionAdd, ActionNegate}

	// push: bucket b maps to value b-9, then a [1,7]-weighted coin negates
	pushBucketWeights = []int{1, 1, 1, 2, 3, 4, 8, 8, 8, 1}
	pushFlipWeights   = []int{1, 7}

	// add: magnitude table with a fair sign flip
	addMagnitudeWeights = []int{1, 2, 3, 3}
	addMagnitudes       = []int{2, 3, 4, 4}
)

// Generator draws cards from a caller-supplied random source, so tests can
// fix the seed and assert exact hands.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewSeed generates a high-entropy seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// weightedIndex picks an index with probability proportional to its weight.
func (g *Generator) weightedIndex(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := g.rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1 // unreachable
}

func (g *Generator) drawAction() Action {
	kind := kindByWeight[g.weightedIndex(kindWeights)]
	switch kind {
	case ActionPush:
		v := g.weightedIndex(pushBucketWeights) - 9
		if g.weightedIndex(pushFlipWeights) == 1 {
			v = -v
		}
		return Action{Kind: ActionPush, Num: v}
	case ActionAdd:
		v := addMagnitudes[g.weightedIndex(addMagnitudeWeights)]
		if g.rng.Intn(2) == 1 {
			v = -v
		}
		return Action{Kind: ActionAdd, Num: v}
	default:
		return Action{Kind: kind}
	}
}

// Draw produces one card with 1-4 weighted-random actions.
func (g *Generator) Draw() Card {
	n := g.weightedIndex(countWeights) + 1
	actions := make([]Action, n)
	for i := range actions {
		actions[i] = g.drawAction()
	}
	return Card{Actions: actions}
}

// DrawHand draws the cards offered to the acting player for one round.
func (g *Generator) DrawHand() []Card {
	hand := make([]Card, HandSize)
	for i := range hand {
		hand[i] = g.Draw()
	}
	return hand
}

// Intn exposes the generator's source for other uniform draws owned by the
// same session, e.g. picking the opening turn.
func (g *Generator) Intn(n int) int {
	return g.rng.Intn(n)
}
