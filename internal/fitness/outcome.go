package fitness

import "fmt"

// Kind is the fitness category of a console state. The three kinds are
// totally ordered: Failing < Transitional < Progressing.
type Kind int

const (
	KindFailing Kind = iota
	KindTransitional
	KindProgressing
)

func (k Kind) String() string {
	switch k {
	case KindFailing:
		return "failing"
	case KindTransitional:
		return "transitional"
	case KindProgressing:
		return "progressing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome classifies one console state. Terminal is only meaningful
// for KindFailing and Distance only for KindProgressing; neither
// participates in ordering beyond its kind, except that Progressing
// outcomes rank by Distance.
type Outcome struct {
	Kind     Kind
	Terminal bool
	Distance uint64
}

func Failing(terminal bool) Outcome {
	return Outcome{Kind: KindFailing, Terminal: terminal}
}

func Transitional() Outcome {
	return Outcome{Kind: KindTransitional}
}

func Progressing(distance uint64) Outcome {
	return Outcome{Kind: KindProgressing, Distance: distance}
}

// Compare returns -1, 0, or 1. All Failing outcomes compare equal
// regardless of the terminal flag; the flag drives rewind policy, not
// ordering.
func Compare(a, b Outcome) int {
	switch {
	case a.Kind < b.Kind:
		return -1
	case a.Kind > b.Kind:
		return 1
	}
	if a.Kind != KindProgressing {
		return 0
	}
	switch {
	case a.Distance < b.Distance:
		return -1
	case a.Distance > b.Distance:
		return 1
	default:
		return 0
	}
}

// Better reports whether a strictly outranks b.
func Better(a, b Outcome) bool {
	return Compare(a, b) > 0
}

func (o Outcome) String() string {
	switch o.Kind {
	case KindFailing:
		if o.Terminal {
			return "failing(terminal)"
		}
		return "failing"
	case KindTransitional:
		return "transitional"
	default:
		return fmt.Sprintf("progressing(%d)", o.Distance)
	}
}
