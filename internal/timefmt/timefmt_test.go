package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgo(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		then time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"future", now.Add(time.Minute), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-2 * day), "2d ago"},
		{"weeks", now.Add(-15 * day), "2w ago"},
		{"same year", time.Date(2026, time.January, 2, 8, 0, 0, 0, time.UTC), "Jan 2"},
		{"other year", time.Date(2025, time.November, 20, 8, 0, 0, 0, time.UTC), "Nov 20, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ago(tt.then, now))
		})
	}
}

func TestFull(t *testing.T) {
	ts := time.Date(2026, time.March, 15, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "March 15, 2026 at 3:04 PM", Full(ts))
}
