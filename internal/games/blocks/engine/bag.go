package engine

import "math/rand"

// Bag is the 7-bag randomizer. Each refill is one full permutation of the
// seven families, so every aligned group of seven draws contains each family
// exactly once. Two bags created with the same seed produce the same sequence.
type Bag struct {
	rng   *rand.Rand
	queue []Family
}

// NewBag returns a bag seeded for deterministic play.
func NewBag(seed int64) *Bag {
	return &Bag{rng: rand.New(rand.NewSource(seed))}
}

// refill appends one shuffled set. It only runs on an empty queue.
func (b *Bag) refill() {
	set := AllFamilies
	for i := len(set) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		set[i], set[j] = set[j], set[i]
	}
	b.queue = append(b.queue[:0], set[:]...)
}

// Next draws the next family.
func (b *Bag) Next() Family {
	if len(b.queue) == 0 {
		b.refill()
	}
	f := b.queue[0]
	b.queue = b.queue[1:]
	return f
}

// Remaining returns how many draws are left before the next refill.
func (b *Bag) Remaining() int {
	return len(b.queue)
}
