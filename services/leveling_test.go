package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelStartsAtOne(t *testing.T) {
	assert.Equal(t, 1, Level(0))
	assert.Equal(t, 1, Level(-5))
	assert.Equal(t, 1, Level(99))
}

func TestLevelThresholds(t *testing.T) {
	// Level 1 spans 100 XP, level 2 spans int(100*2^1.5) = 282.
	assert.Equal(t, 100, XPForLevel(1))
	assert.Equal(t, 282, XPForLevel(2))

	assert.Equal(t, 2, Level(100))
	assert.Equal(t, 2, Level(381))
	assert.Equal(t, 3, Level(382))
}

func TestLevelMonotonic(t *testing.T) {
	prev := Level(0)
	for totalXP := 1; totalXP <= 50000; totalXP += 7 {
		level := Level(totalXP)
		require.GreaterOrEqual(t, level, prev, "level dropped at totalXP=%d", totalXP)
		prev = level
	}
}

func TestLevelProgressConsistent(t *testing.T) {
	for _, totalXP := range []int{0, 50, 100, 381, 382, 999, 12345} {
		level, into := LevelProgress(totalXP)
		assert.Equal(t, Level(totalXP), level)
		assert.GreaterOrEqual(t, into, 0)
		assert.Less(t, into, XPForLevel(level))
	}
}
