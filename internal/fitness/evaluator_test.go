package fitness

import (
	"testing"

	"shellkick/internal/console"
)

// memConsole exposes a fixed memory image for classification tests.
type memConsole struct {
	mem map[uint16]byte
}

func newMemConsole() *memConsole {
	return &memConsole{mem: map[uint16]byte{
		console.AddrMode:    console.ModePlaying,
		console.AddrLives:   3,
		console.AddrTimerHi: 0x0E,
		console.AddrTimerLo: 0x10,
	}}
}

func (c *memConsole) Read(addr uint16) byte { return c.mem[addr] }

func (c *memConsole) Clone() console.Console {
	clone := newMemConsole()
	for addr, v := range c.mem {
		clone.mem[addr] = v
	}
	return clone
}

func (c *memConsole) SetInput(console.Buttons) {}

func (c *memConsole) StepFrame() {}

func mustEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	eval, err := NewEvaluator(DefaultLayout())
	if err != nil {
		t.Fatalf("new evaluator: %v", err)
	}
	return eval
}

func TestEvaluatePlayingIsProgressing(t *testing.T) {
	eval := mustEvaluator(t)
	c := newMemConsole()
	c.mem[console.AddrPage] = 2
	c.mem[console.AddrSubpage] = 0x40

	out := eval.Evaluate(c)
	if out.Kind != KindProgressing {
		t.Fatalf("expected progressing, got %v", out)
	}
	if out.Distance != 2<<8|0x40 {
		t.Fatalf("distance = %d, want %d", out.Distance, 2<<8|0x40)
	}
}

func TestEvaluateTransitionPreemptsLossChecks(t *testing.T) {
	eval := mustEvaluator(t)
	c := newMemConsole()
	c.mem[console.AddrTransition] = 1
	c.mem[console.AddrLives] = 0
	c.mem[console.AddrMode] = console.ModeOver

	out := eval.Evaluate(c)
	if out.Kind != KindTransitional {
		t.Fatalf("transition byte must pre-empt loss checks, got %v", out)
	}
}

func TestEvaluateTerminalFailures(t *testing.T) {
	eval := mustEvaluator(t)

	over := newMemConsole()
	over.mem[console.AddrMode] = console.ModeOver
	if out := eval.Evaluate(over); out.Kind != KindFailing || !out.Terminal {
		t.Fatalf("game over: got %v, want terminal failing", out)
	}

	noLives := newMemConsole()
	noLives.mem[console.AddrLives] = 0
	if out := eval.Evaluate(noLives); out.Kind != KindFailing || !out.Terminal {
		t.Fatalf("zero lives: got %v, want terminal failing", out)
	}

	timerUp := newMemConsole()
	timerUp.mem[console.AddrTimerHi] = 0
	timerUp.mem[console.AddrTimerLo] = 0
	if out := eval.Evaluate(timerUp); out.Kind != KindFailing || !out.Terminal {
		t.Fatalf("timer exhausted: got %v, want terminal failing", out)
	}
}

func TestEvaluateNonTerminalFailures(t *testing.T) {
	eval := mustEvaluator(t)

	reset := newMemConsole()
	reset.mem[console.AddrMode] = console.ModeReset
	if out := eval.Evaluate(reset); out.Kind != KindFailing || out.Terminal {
		t.Fatalf("life lost: got %v, want non-terminal failing", out)
	}

	fell := newMemConsole()
	fell.mem[console.AddrVertical] = 200
	if out := eval.Evaluate(fell); out.Kind != KindFailing || out.Terminal {
		t.Fatalf("below vertical bound: got %v, want non-terminal failing", out)
	}
}

func TestEvaluateUnknownModeIsTransitional(t *testing.T) {
	eval := mustEvaluator(t)
	c := newMemConsole()
	c.mem[console.AddrMode] = 0x04

	if out := eval.Evaluate(c); out.Kind != KindTransitional {
		t.Fatalf("unknown mode: got %v, want transitional", out)
	}
}

func TestNewEvaluatorRejectsZeroBound(t *testing.T) {
	layout := DefaultLayout()
	layout.VerticalBound = 0
	if _, err := NewEvaluator(layout); err == nil {
		t.Fatal("expected error for zero vertical bound")
	}
}
