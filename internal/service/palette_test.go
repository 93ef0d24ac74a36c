package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorForIsDeterministic(t *testing.T) {
	assert.Equal(t, ColorFor(42), ColorFor(42))
	assert.NotEmpty(t, ColorFor(0))
}

func TestColorForStaysInPalette(t *testing.T) {
	seen := map[string]bool{}
	for id := 0; id < 200; id++ {
		color := ColorFor(id)
		assert.Contains(t, teacherPalette, color)
		seen[color] = true
	}
	assert.Greater(t, len(seen), 1, "distribution should hit more than one palette entry")
}
