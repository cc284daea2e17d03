package console

import "strings"

// Buttons is the single-frame input mask delivered to a console. Bit
// layout follows the standard joypad order.
type Buttons uint8

const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// DirectionMask covers the mutually exclusive horizontal directions.
const DirectionMask = ButtonLeft | ButtonRight

func (b Buttons) Has(mask Buttons) bool {
	return b&mask != 0
}

func (b Buttons) String() string {
	if b == 0 {
		return "none"
	}
	names := []struct {
		mask Buttons
		name string
	}{
		{ButtonA, "A"},
		{ButtonB, "B"},
		{ButtonSelect, "select"},
		{ButtonStart, "start"},
		{ButtonUp, "up"},
		{ButtonDown, "down"},
		{ButtonLeft, "left"},
		{ButtonRight, "right"},
	}
	parts := make([]string, 0, 8)
	for _, item := range names {
		if b.Has(item.mask) {
			parts = append(parts, item.name)
		}
	}
	return strings.Join(parts, "+")
}

// Console is a deterministic, steppable machine state. Implementations
// must make Clone return a fully independent copy: stepping the clone
// is never observable in the original.
type Console interface {
	Read(addr uint16) byte
	Clone() Console
	SetInput(buttons Buttons)
	StepFrame()
}

// Memory locations exposed to fitness evaluation. The built-in
// platformer honors this layout; external consoles map their own state
// onto it.
const (
	AddrPage       uint16 = 0x006D
	AddrSubpage    uint16 = 0x0086
	AddrVertical   uint16 = 0x00CE
	AddrMode       uint16 = 0x000E
	AddrTransition uint16 = 0x0770
	AddrLives      uint16 = 0x075A
	AddrTimerHi    uint16 = 0x07F8
	AddrTimerLo    uint16 = 0x07F9
)

// Mode byte values reported at AddrMode.
const (
	ModePlaying byte = 0x00
	ModeReset   byte = 0x06
	ModeOver    byte = 0x0B
)
