package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorToStep(t *testing.T) {
	cases := []struct {
		value, step, want float64
	}{
		{0.1, 1, 0},
		{9.99, 1, 9},
		{10, 1, 10},
		{1.23456, 0.001, 1.234},
		{0.3, 0.1, 0.3},
		{5.5, 0, 5.5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FloorToStep(c.value, c.step), "floor(%v, %v)", c.value, c.step)
	}
}

func TestCeilToStep(t *testing.T) {
	cases := []struct {
		value, step, want float64
	}{
		{101, 0.0001, 101},
		{0.325826, 0.0001, 0.3259},
		{1.00001, 0.0001, 1.0001},
		{2, 1, 2},
		{2.1, 1, 3},
		{7.25, -1, 7.25},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CeilToStep(c.value, c.step), "ceil(%v, %v)", c.value, c.step)
	}
}

func TestPricing(t *testing.T) {
	p := DefaultParams()
	p.Stake = 1000
	pr := newPricing(p)

	assert.Equal(t, 10.0, pr.quantity(100))
	assert.Equal(t, 9.0, pr.quantity(105))
	assert.Equal(t, 101.0, pr.target(100))
	assert.Equal(t, 0.3259, pr.target(0.3226))

	p.Gain = 2.5
	assert.Equal(t, 102.5, newPricing(p).target(100))
}
