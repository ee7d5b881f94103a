package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0), "empty pattern has zero mastery")
	assert.Equal(t, 0.0, Percentage(0, 8))
	assert.Equal(t, 50.0, Percentage(4, 8))
	assert.Equal(t, 100.0, Percentage(8, 8))
	assert.InDelta(t, 33.333, Percentage(1, 3), 0.001)
}
