package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	a := NewVec2(3, 4)
	b := NewVec2(1, -2)

	assert.Equal(t, NewVec2(4, 2), a.Add(b))
	assert.Equal(t, NewVec2(2, 6), a.Sub(b))
	assert.Equal(t, NewVec2(6, 8), a.MulScalar(2))
	assert.Equal(t, NewVec2(1.5, 2), a.DivScalar(2))
}

func TestVec2Compare(t *testing.T) {
	a := NewVec2(1, 1)
	assert.True(t, a.Compare(NewVec2(1.0005, 0.9995), 1e-3))
	assert.False(t, a.Compare(NewVec2(1.01, 1), 1e-3))
	assert.True(t, NewVec2Zero().Compare(NewVec2(0, 0), K_FLOAT_EPSILON))
}

func TestRect(t *testing.T) {
	r := NewRect(NewVec2(10, 20), NewVec2(40, 25))
	assert.Equal(t, float32(30), r.Width())
	assert.Equal(t, float32(5), r.Height())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, 0, Clamp(-1, 0, 5))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
}

func TestPow(t *testing.T) {
	assert.InDelta(t, 0.9025, Pow(0.95, 2), 1e-6)
	assert.InDelta(t, 1, Pow(0.95, 0), 1e-6)
}
