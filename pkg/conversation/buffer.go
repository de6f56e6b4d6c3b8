package conversation

import (
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultCapacity is the number of turns a Buffer keeps when no capacity is configured.
const DefaultCapacity = 10

var ErrInvalidCapacity = errors.New("conversation buffer capacity must be at least 1")

// Buffer is a fixed-capacity, ordered log of turns. Appending to a full
// buffer silently evicts the oldest turn.
//
// A Buffer is owned by a single adapter session and is not safe for
// concurrent use.
type Buffer struct {
	ring  []turns.Turn
	start int
	size  int
}

// NewBuffer creates an empty buffer holding at most capacity turns.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	return &Buffer{ring: make([]turns.Turn, capacity)}, nil
}

func NewDefaultBuffer() *Buffer {
	b, _ := NewBuffer(DefaultCapacity)
	return b
}

func (b *Buffer) Cap() int {
	return len(b.ring)
}

func (b *Buffer) Len() int {
	return b.size
}

// Append adds turns in order, evicting the oldest turn whenever the buffer is full.
func (b *Buffer) Append(ts ...turns.Turn) {
	for _, t := range ts {
		b.push(t.Clone())
	}
}

func (b *Buffer) push(t turns.Turn) {
	capacity := len(b.ring)
	if b.size < capacity {
		b.ring[(b.start+b.size)%capacity] = t
		b.size++
		return
	}
	evicted := b.ring[b.start]
	b.ring[b.start] = t
	b.start = (b.start + 1) % capacity
	log.Trace().
		Str("evicted_id", evicted.ID).
		Str("evicted_role", evicted.Role.String()).
		Int("capacity", capacity).
		Msg("conversation buffer full, evicted oldest turn")
}

// Snapshot returns the turns currently held, oldest first. The returned
// turns are copies and can be handed to request builders freely.
func (b *Buffer) Snapshot() []turns.Turn {
	out := make([]turns.Turn, 0, b.size)
	for i := 0; i < b.size; i++ {
		out = append(out, b.ring[(b.start+i)%len(b.ring)].Clone())
	}
	return out
}

// Preview returns what Snapshot would return after appending pending,
// without modifying the buffer.
func (b *Buffer) Preview(pending ...turns.Turn) []turns.Turn {
	all := b.Snapshot()
	for _, t := range pending {
		all = append(all, t.Clone())
	}
	if over := len(all) - len(b.ring); over > 0 {
		all = all[over:]
	}
	return all
}

// DropTrailing removes turns from the newest end for as long as match
// reports true, and returns how many were removed.
func (b *Buffer) DropTrailing(match func(turns.Turn) bool) int {
	n := 0
	for b.size > 0 {
		i := (b.start + b.size - 1) % len(b.ring)
		if !match(b.ring[i]) {
			break
		}
		b.ring[i] = turns.Turn{}
		b.size--
		n++
	}
	return n
}
