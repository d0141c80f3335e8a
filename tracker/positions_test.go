package tracker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionManager(t *testing.T) {
	t.Parallel()

	p := NewPositionManager()
	_, ok := p.Get("a")
	assert.False(t, ok)

	p.Set("a", 2.5)
	p.Set("b", math.NaN())

	beat, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2.5, beat)

	beat, _ = p.Get("b")
	assert.Equal(t, 0.0, beat)

	p.Delete("a")
	_, ok = p.Get("a")
	assert.False(t, ok)
}
