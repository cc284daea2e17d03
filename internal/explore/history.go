package explore

import (
	"errors"
	"fmt"

	"shellkick/internal/console"
)

var ErrEmptyHistory = errors.New("checkpoint history is empty")

// DefaultHistoryCap bounds checkpoint memory under long runs.
const DefaultHistoryCap = 400

// Checkpoint is an owned snapshot of a console plus the number of
// inputs consumed since the previous checkpoint. The snapshot is never
// mutated after insertion; State hands out independent copies.
type Checkpoint struct {
	state   console.Console
	inputs  int
	reverts int
}

func NewCheckpoint(state console.Console, inputs int) *Checkpoint {
	return &Checkpoint{state: state, inputs: inputs}
}

func (c *Checkpoint) State() console.Console {
	return c.state.Clone()
}

func (c *Checkpoint) Inputs() int {
	return c.inputs
}

// Reverts is the anti-thrash counter: how many times a rewind has
// already resumed from this checkpoint.
func (c *Checkpoint) Reverts() int {
	return c.reverts
}

// History is a bounded, append-ordered log of checkpoints. Appending
// past the cap evicts the oldest entry; exploration depth matters more
// than distant history.
type History struct {
	cap     int
	entries []*Checkpoint
}

func NewHistory(capacity int) (*History, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("history capacity must be > 0")
	}
	return &History{cap: capacity, entries: make([]*Checkpoint, 0, capacity)}, nil
}

func (h *History) Append(cp *Checkpoint) {
	h.entries = append(h.entries, cp)
	if len(h.entries) > h.cap {
		over := len(h.entries) - h.cap
		copy(h.entries, h.entries[over:])
		for i := len(h.entries) - over; i < len(h.entries); i++ {
			h.entries[i] = nil
		}
		h.entries = h.entries[:h.cap]
	}
}

func (h *History) PopBack() (*Checkpoint, error) {
	if len(h.entries) == 0 {
		return nil, ErrEmptyHistory
	}
	cp := h.entries[len(h.entries)-1]
	h.entries[len(h.entries)-1] = nil
	h.entries = h.entries[:len(h.entries)-1]
	return cp, nil
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) newest() *Checkpoint {
	return h.entries[len(h.entries)-1]
}
