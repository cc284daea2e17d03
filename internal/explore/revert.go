package explore

import (
	"fmt"

	"shellkick/internal/console"
)

// RewindPolicy selects how many frames to roll back on a failure.
// Short covers ordinary loss of progress; Long covers running out of
// time, where the retry must begin well before the clock exhausted.
type RewindPolicy struct {
	Short int
	Long  int
}

func DefaultRewindPolicy() RewindPolicy {
	return RewindPolicy{Short: 150, Long: 3600}
}

func (p RewindPolicy) Validate() error {
	if p.Short <= 0 {
		return fmt.Errorf("short rewind must be > 0")
	}
	if p.Long < p.Short {
		return fmt.Errorf("long rewind must be >= short rewind")
	}
	return nil
}

func (p RewindPolicy) Frames(terminal bool) int {
	if terminal {
		return p.Long
	}
	return p.Short
}

// Rewind rolls the history back by at least frames consumed inputs,
// flooring at the oldest surviving checkpoint. After the requested
// rewind it keeps popping while the landing checkpoint has already
// been used as a rollback target, then marks the checkpoint it lands
// on. Repeated failure at the same juncture therefore backs off
// progressively deeper instead of oscillating.
func Rewind(h *History, frames int) (console.Console, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("rewind frames must be > 0, got %d", frames)
	}
	if h.Len() == 0 {
		return nil, ErrEmptyHistory
	}

	rewound := 0
	for h.Len() > 1 && rewound < frames {
		cp, err := h.PopBack()
		if err != nil {
			return nil, err
		}
		rewound += cp.Inputs()
	}
	for h.Len() > 1 && h.newest().reverts > 0 {
		if _, err := h.PopBack(); err != nil {
			return nil, err
		}
	}

	target := h.newest()
	target.reverts++
	return target.State(), nil
}
