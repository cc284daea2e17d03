package fitness

import (
	"fmt"

	"shellkick/internal/console"
)

// Layout names the memory locations the evaluator inspects and the
// vertical bound past which the player counts as lost.
type Layout struct {
	Page       uint16
	Subpage    uint16
	Vertical   uint16
	Mode       uint16
	Transition uint16
	Lives      uint16
	TimerHi    uint16
	TimerLo    uint16

	VerticalBound byte
}

func DefaultLayout() Layout {
	return Layout{
		Page:          console.AddrPage,
		Subpage:       console.AddrSubpage,
		Vertical:      console.AddrVertical,
		Mode:          console.AddrMode,
		Transition:    console.AddrTransition,
		Lives:         console.AddrLives,
		TimerHi:       console.AddrTimerHi,
		TimerLo:       console.AddrTimerLo,
		VerticalBound: 176,
	}
}

// Evaluator maps a console state to an Outcome. Evaluation is pure:
// it only reads exposed bytes and holds no state of its own.
type Evaluator struct {
	layout Layout
}

func NewEvaluator(layout Layout) (*Evaluator, error) {
	if layout.VerticalBound == 0 {
		return nil, fmt.Errorf("vertical bound must be > 0")
	}
	return &Evaluator{layout: layout}, nil
}

func (e *Evaluator) Evaluate(c console.Console) Outcome {
	l := e.layout

	// Transitions pre-empt every loss check: a state that looks lost
	// mid-cutscene is not actionable and must not trigger a revert.
	if c.Read(l.Transition) != 0 {
		return Transitional()
	}

	mode := c.Read(l.Mode)
	lives := c.Read(l.Lives)
	timerUp := c.Read(l.TimerHi) == 0 && c.Read(l.TimerLo) == 0

	if mode == console.ModeOver || lives == 0 || timerUp {
		return Failing(true)
	}
	if mode == console.ModeReset || c.Read(l.Vertical) > l.VerticalBound {
		return Failing(false)
	}
	if mode != console.ModePlaying {
		return Transitional()
	}

	distance := uint64(c.Read(l.Page))<<8 | uint64(c.Read(l.Subpage))
	return Progressing(distance)
}
