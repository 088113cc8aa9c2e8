package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NYCalc/internal/domain/models"
)

func TestRunBatch_MatchesSingleRuns(t *testing.T) {
	cases := []struct {
		name      string
		stake     float64
		base      float64
		allowZero bool
	}{
		{name: "whole lots", stake: 100, base: 30},
		{name: "sub lot stakes skipped", stake: 10, base: 18},
		{name: "sub lot stakes kept", stake: 10, base: 18, allowZero: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			p.Stake = tc.stake
			p.AllowZeroQuantity = tc.allowZero
			candles := walk(2024, 1500, tc.base)
			signals := randomSignals(99, candles, 20, 0.3)

			batch, err := RunBatch(candles, signals, p)
			require.NoError(t, err)
			require.Len(t, batch, len(signals))

			for i, sig := range signals {
				single, err := Run(candles, sig, p)
				require.NoError(t, err)
				requireSameStats(t, single, batch[i], "actor %d", i)
			}
		})
	}
}

func TestSimulateBatch_PositionsPartitionedByOwner(t *testing.T) {
	p := DefaultParams()
	p.Stake = 100
	candles := walk(5, 400, 30)
	signals := randomSignals(6, candles, 6, 0.4)

	reports, err := SimulateBatch(candles, signals, p)
	require.NoError(t, err)

	for a, r := range reports {
		single, err := Simulate(candles, signals[a], p)
		require.NoError(t, err)

		require.Len(t, r.Closed, len(single.Closed))
		for i, pos := range r.Closed {
			assert.Equal(t, a, pos.Owner)
			pos.Owner = 0
			assert.Equal(t, single.Closed[i], pos)
		}
		for _, pos := range r.Open {
			assert.Equal(t, a, pos.Owner)
			assert.True(t, pos.IsOpen())
		}
		assert.Len(t, r.Open, len(single.Open))
	}
}

func TestRunBatch_SharedTargetsAcrossActors(t *testing.T) {
	p := DefaultParams()
	p.Stake = 1000
	signals := []models.Signal{
		models.TimeSignal{0: true},
		models.SeriesSignal{true, false, false},
		models.TimeSignal{},
	}

	out, err := RunBatch(scenario(), signals, p)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, out[0], out[1])
	assert.Equal(t, 1, out[0].ExecutedOrders)
	assert.Equal(t, 0, out[2].ExecutedOrders)
	assert.Equal(t, p.InitialBalance, out[2].Balance)
}

func TestRunBatch_NoActors(t *testing.T) {
	out, err := RunBatch(scenario(), nil, DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunBatch_RejectsBadActor(t *testing.T) {
	signals := []models.Signal{models.TimeSignal{}, models.SeriesSignal{true}}

	_, err := RunBatch(scenario(), signals, DefaultParams())
	assert.ErrorIs(t, err, ErrSignalLength)
	assert.ErrorContains(t, err, "actor 1")
}
