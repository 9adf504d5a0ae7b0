package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Same point
	assert.Zero(t, HaversineDistance(42.2808, -83.7430, 42.2808, -83.7430))

	// Ann Arbor to Detroit, roughly 56 km
	d := HaversineDistance(42.2808, -83.7430, 42.3314, -83.0458)
	assert.InDelta(t, 57.5, d, 2.5)
}

func TestIsWithinRadius(t *testing.T) {
	// Two campus points about 1.5 km apart
	assert.True(t, IsWithinRadius(42.2808, -83.7430, 42.2936, -83.7400, 10))
	assert.False(t, IsWithinRadius(42.2808, -83.7430, 42.3314, -83.0458, 10))
}
