package console

// Platformer is a self-contained side-scroller used to exercise the
// exploration engine without an external emulator. The world is an
// endless corridor with deterministically placed pits; the player runs
// right, jumps pits, and races a frame timer. All state is plain value
// data so Clone is a struct copy.
type Platformer struct {
	seed uint64

	posX     int
	posY     int
	velY     int
	airborne bool
	section  int

	mode       byte
	transition int
	lives      byte
	timer      int

	input Buttons
}

const (
	platformerTimer      = 3600
	platformerFallLimit  = 48
	platformerJumpVel    = -7
	platformerTransition = 30
	sectionPages         = 4
)

func NewPlatformer(seed uint64) *Platformer {
	return &Platformer{
		seed:  seed,
		lives: 3,
		timer: platformerTimer,
		mode:  ModePlaying,
	}
}

func (p *Platformer) Clone() Console {
	clone := *p
	return &clone
}

func (p *Platformer) SetInput(buttons Buttons) {
	p.input = buttons
}

func (p *Platformer) Read(addr uint16) byte {
	switch addr {
	case AddrPage:
		return byte(p.posX >> 8)
	case AddrSubpage:
		return byte(p.posX)
	case AddrVertical:
		if p.posY < 0 {
			return 0
		}
		return byte(min(p.posY, 255))
	case AddrMode:
		return p.mode
	case AddrTransition:
		if p.transition > 0 {
			return 1
		}
		return 0
	case AddrLives:
		return p.lives
	case AddrTimerHi:
		return byte(p.timer >> 8)
	case AddrTimerLo:
		return byte(p.timer)
	default:
		return 0
	}
}

func (p *Platformer) StepFrame() {
	if p.mode != ModePlaying {
		return
	}
	if p.transition > 0 {
		p.transition--
		return
	}

	p.timer--
	if p.timer <= 0 {
		p.timer = 0
		p.mode = ModeOver
		return
	}

	speed := 0
	switch {
	case p.input.Has(ButtonRight):
		speed = 1
		if p.input.Has(ButtonB) {
			speed = 2
		}
	case p.input.Has(ButtonLeft):
		speed = -1
	}
	p.posX += speed
	if p.posX < 0 {
		p.posX = 0
	}

	if p.airborne {
		p.posY += p.velY
		p.velY++
		if p.posY >= 0 {
			if p.overPit() {
				// Fell into the pit it was jumping across.
				p.airborne = false
			} else {
				p.posY = 0
				p.velY = 0
				p.airborne = false
			}
		}
	} else {
		switch {
		case p.posY > 0 || (p.posY == 0 && p.overPit()):
			p.posY += 3
		case p.input.Has(ButtonA):
			p.velY = platformerJumpVel
			p.posY += p.velY
			p.airborne = true
		}
	}

	if p.posY > platformerFallLimit {
		if p.lives > 0 {
			p.lives--
		}
		if p.lives == 0 {
			p.mode = ModeOver
		} else {
			p.mode = ModeReset
		}
		return
	}

	// Entering a new section pauses play and refills the clock.
	if next := p.posX / (sectionPages * 256); next != p.section {
		p.section = next
		p.transition = platformerTransition
		p.timer = platformerTimer
	}
}

// overPit reports whether the ground is missing under the current
// position. Pit placement is a pure function of position and seed, so
// clones agree on the world.
func (p *Platformer) overPit() bool {
	cell := uint64(p.posX >> 4)
	if cell < 2 {
		return false
	}
	h := (cell*2654435761 + p.seed) * 0x9e3779b97f4a7c15
	return h>>60 == 0
}
