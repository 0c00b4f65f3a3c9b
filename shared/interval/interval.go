// Package interval implements the half-open time interval arithmetic shared by
// the slot resolver and the appointment conflict check. A span covers
// [Start, End): the start instant belongs to the span, the end instant does
// not, so two back-to-back appointments never overlap.
package interval

import "time"

// Span is a half-open time interval [Start, End).
type Span struct {
	Start time.Time
	End   time.Time
}

// New returns the span [start, end).
func New(start, end time.Time) Span {
	return Span{Start: start, End: end}
}

// IsValid reports whether the span is non-empty, i.e. Start < End.
func (s Span) IsValid() bool {
	return s.Start.Before(s.End)
}

// Duration returns End - Start.
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Contains reports whether t falls inside the span. The start instant is
// included, the end instant is not.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Overlaps reports whether two half-open spans share any instant:
// a.Start < b.End && b.Start < a.End. A span ending exactly where the other
// starts does not overlap it.
func Overlaps(a, b Span) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// OverlapsAny reports whether s overlaps at least one of the given spans.
func OverlapsAny(s Span, others []Span) bool {
	for _, o := range others {
		if Overlaps(s, o) {
			return true
		}
	}

	return false
}
