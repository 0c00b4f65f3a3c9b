package interval_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"salon/shared/interval"
)

func span(t *testing.T, start, end string) interval.Span {
	t.Helper()

	s, err := time.Parse(time.RFC3339, start)
	assert.NoError(t, err)

	e, err := time.Parse(time.RFC3339, end)
	assert.NoError(t, err)

	return interval.New(s, e)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    interval.Span
		b    interval.Span
		want bool
	}{
		{
			name: "disjoint intervals",
			a:    span(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
			b:    span(t, "2026-03-02T11:00:00Z", "2026-03-02T11:30:00Z"),
			want: false,
		},
		{
			name: "partial overlap",
			a:    span(t, "2026-03-02T09:00:00Z", "2026-03-02T09:45:00Z"),
			b:    span(t, "2026-03-02T09:30:00Z", "2026-03-02T10:00:00Z"),
			want: true,
		},
		{
			name: "containment",
			a:    span(t, "2026-03-02T09:00:00Z", "2026-03-02T12:00:00Z"),
			b:    span(t, "2026-03-02T10:00:00Z", "2026-03-02T10:30:00Z"),
			want: true,
		},
		{
			name: "back-to-back does not overlap",
			a:    span(t, "2026-03-02T09:30:00Z", "2026-03-02T10:00:00Z"),
			b:    span(t, "2026-03-02T10:00:00Z", "2026-03-02T10:30:00Z"),
			want: false,
		},
		{
			name: "shared start instant",
			a:    span(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
			b:    span(t, "2026-03-02T09:00:00Z", "2026-03-02T10:00:00Z"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interval.Overlaps(tt.a, tt.b))

			// overlap is symmetric
			assert.Equal(t, tt.want, interval.Overlaps(tt.b, tt.a))
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	s := span(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z")

	assert.True(t, interval.Overlaps(s, s))
}

func TestOverlapsAny(t *testing.T) {
	candidate := span(t, "2026-03-02T12:00:00Z", "2026-03-02T12:30:00Z")

	others := []interval.Span{
		span(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
		span(t, "2026-03-02T12:15:00Z", "2026-03-02T13:00:00Z"),
	}

	assert.True(t, interval.OverlapsAny(candidate, others))
	assert.False(t, interval.OverlapsAny(candidate, others[:1]))
	assert.False(t, interval.OverlapsAny(candidate, nil))
}

func TestSpan(t *testing.T) {
	s := span(t, "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z")

	assert.True(t, s.IsValid())
	assert.Equal(t, 30*time.Minute, s.Duration())
	assert.True(t, s.Contains(s.Start))
	assert.False(t, s.Contains(s.End))

	empty := interval.New(s.Start, s.Start)
	assert.False(t, empty.IsValid())
}
