package explore

import (
	"errors"
	"testing"

	"shellkick/internal/console"
	"shellkick/internal/fitness"
)

// fakeConsole counts frames and carries a mark so tests can tell
// checkpoint snapshots apart. Clone is a value copy.
type fakeConsole struct {
	steps int
	mark  int
}

func (c *fakeConsole) Read(uint16) byte { return 0 }

func (c *fakeConsole) Clone() console.Console {
	clone := *c
	return &clone
}

func (c *fakeConsole) SetInput(console.Buttons) {}

func (c *fakeConsole) StepFrame() { c.steps++ }

// fixedEval scores every state identically.
type fixedEval struct {
	out fitness.Outcome
}

func (e fixedEval) Evaluate(console.Console) fitness.Outcome { return e.out }

func TestNewHistoryRejectsNonPositiveCap(t *testing.T) {
	if _, err := NewHistory(0); err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if _, err := NewHistory(-1); err == nil {
		t.Fatal("expected error for negative capacity")
	}
}

func TestHistoryAppendEvictsOldest(t *testing.T) {
	h, err := NewHistory(2)
	if err != nil {
		t.Fatalf("new history: %v", err)
	}

	h.Append(NewCheckpoint(&fakeConsole{mark: 1}, 10))
	h.Append(NewCheckpoint(&fakeConsole{mark: 2}, 20))
	h.Append(NewCheckpoint(&fakeConsole{mark: 3}, 30))

	if h.Len() != 2 {
		t.Fatalf("len = %d, want 2", h.Len())
	}

	cp, err := h.PopBack()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if cp.Inputs() != 30 {
		t.Fatalf("newest inputs = %d, want 30", cp.Inputs())
	}

	cp, err = h.PopBack()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if cp.Inputs() != 20 {
		t.Fatalf("next inputs = %d, want 20 (oldest must have been evicted)", cp.Inputs())
	}

	if _, err := h.PopBack(); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("pop on empty = %v, want ErrEmptyHistory", err)
	}
}

func TestCheckpointStateReturnsIndependentCopies(t *testing.T) {
	cp := NewCheckpoint(&fakeConsole{mark: 7}, 0)

	first := cp.State().(*fakeConsole)
	first.StepFrame()
	first.StepFrame()

	second := cp.State().(*fakeConsole)
	if second.steps != 0 {
		t.Fatalf("snapshot was mutated through a handed-out copy: steps = %d", second.steps)
	}
	if second.mark != 7 {
		t.Fatalf("mark = %d, want 7", second.mark)
	}
}
