package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NYCalc/internal/domain/models"
)

func TestRun_StakeBelowOneLotOpensNothing(t *testing.T) {
	p := DefaultParams()
	p.IntervalMinutes = 1

	st, err := Run(scenario(), models.TimeSignal{0: true}, p)
	require.NoError(t, err)

	assert.Equal(t, 0, st.OpenedOrders)
	assert.Equal(t, 0, st.ExecutedOrders)
	assert.Equal(t, 3000.0, st.Balance)
	assert.Equal(t, 0.0, st.Wallet)
	assert.Equal(t, 1.0, st.Drawdown)
}

func TestRun_ZeroQuantityOrderWhenAllowed(t *testing.T) {
	p := DefaultParams()
	p.IntervalMinutes = 1
	p.AllowZeroQuantity = true

	r, err := Simulate(scenario(), models.TimeSignal{0: true}, p)
	require.NoError(t, err)

	require.Len(t, r.Closed, 1)
	assert.Equal(t, 0.0, r.Closed[0].Quantity)
	assert.Equal(t, 101.0, r.Closed[0].TargetPrice)
	assert.Equal(t, 3000.0, r.Stats.Balance)
	assert.Equal(t, 0.0, r.Stats.Wallet)
	assert.Equal(t, 1, r.Stats.ExecutedOrders)
	assert.Equal(t, 59.0, r.Stats.AvgWait)
}

func TestRun_ZeroQuantityLeftOpenHasUndefinedDrawdown(t *testing.T) {
	p := DefaultParams()
	p.AllowZeroQuantity = true
	candles := []models.Candle{
		{OpenTime: 0, Open: 100, High: 100.5, Close: 100},
		{OpenTime: 60, Open: 100, High: 100.9, Close: 100},
	}

	st, err := Run(candles, models.SeriesSignal{true, false}, p)
	require.NoError(t, err)

	assert.Equal(t, 1, st.OpenedOrders)
	assert.Equal(t, 0.0, st.BaseExpected)
	assert.False(t, st.DrawdownDefined())
}

func TestRun_RealisticStake(t *testing.T) {
	p := DefaultParams()
	p.Stake = 1000
	p.IntervalMinutes = 1

	r, err := Simulate(scenario(), models.TimeSignal{0: true}, p)
	require.NoError(t, err)

	require.Len(t, r.Closed, 1)
	pos := r.Closed[0]
	assert.Equal(t, 10.0, pos.Quantity)
	assert.Equal(t, 101.0, pos.TargetPrice)
	assert.Equal(t, int64(0), pos.CloseTime)
	assert.InDelta(t, 2.01, pos.Commission, 1e-9)

	st := r.Stats
	assert.InDelta(t, 3.995, st.Wallet, 1e-9)
	assert.InDelta(t, 3003.995, st.Balance, 1e-9)
	assert.Equal(t, 3000.0, st.MinBalance)
	assert.Equal(t, st.Wallet, st.Score)
	assert.Equal(t, 0, st.OpenedOrders)
	assert.Equal(t, 1, st.ExecutedOrders)
	assert.Equal(t, 1.0, st.Drawdown)
	assert.Equal(t, 59.0, st.AvgWait)
	assert.Equal(t, 1.0, st.SuccessfulRatio)
}

func TestRun_ClosesOnLaterCandle(t *testing.T) {
	p := DefaultParams()
	p.Stake = 1000
	candles := []models.Candle{
		{OpenTime: 0, Open: 100, High: 100.5, Low: 99, Close: 100},
		{OpenTime: 900, Open: 100, High: 100.8, Low: 99, Close: 100.2},
		{OpenTime: 1800, Open: 100.2, High: 102, Low: 100, Close: 101.5},
	}

	r, err := Simulate(candles, models.SeriesSignal{true, false, false}, p)
	require.NoError(t, err)

	require.Len(t, r.Closed, 1)
	assert.Equal(t, int64(1800), r.Closed[0].CloseTime)
	assert.Equal(t, 1800.0+899, r.Stats.AvgWait)
	assert.InDelta(t, 1999.0, r.Stats.MinBalance, 1e-9)
}

func TestRun_TargetMustExceedHighStrictly(t *testing.T) {
	p := DefaultParams()
	p.Stake = 1000
	candles := []models.Candle{
		{OpenTime: 0, Open: 100, High: 101, Close: 100},
	}

	st, err := Run(candles, models.SeriesSignal{true}, p)
	require.NoError(t, err)
	assert.Equal(t, 1, st.OpenedOrders)
	assert.Equal(t, 0, st.ExecutedOrders)
	assert.InDelta(t, 1010.0, st.BaseExpected, 1e-9)
	assert.InDelta(t, 1000.0, st.BaseReal, 1e-9)
	assert.InDelta(t, 1000.0/1010.0, st.Drawdown, 1e-12)
}

func TestRun_NoSignal(t *testing.T) {
	p := DefaultParams()
	candles := walk(7, 200, 30)

	for _, sig := range []models.Signal{models.TimeSignal{}, make(models.SeriesSignal, len(candles))} {
		st, err := Run(candles, sig, p)
		require.NoError(t, err)

		assert.Equal(t, 0, st.OpenedOrders)
		assert.Equal(t, 0, st.ExecutedOrders)
		assert.Equal(t, p.InitialBalance, st.Balance)
		assert.Equal(t, p.InitialBalance, st.MinBalance)
		assert.Equal(t, 0.0, st.Wallet)
		assert.Equal(t, 1.0, st.Drawdown)
		assert.Equal(t, 0.0, st.AvgWait)
	}
}

func TestRun_SignalAtUnknownTimestampIsIgnored(t *testing.T) {
	p := DefaultParams()
	p.Stake = 1000

	st, err := Run(scenario(), models.TimeSignal{30: true, 999: true}, p)
	require.NoError(t, err)
	assert.Equal(t, 0, st.OpenedOrders+st.ExecutedOrders)
}

func TestRun_BalanceMustExceedStake(t *testing.T) {
	p := DefaultParams()
	p.InitialBalance = 1000
	p.Stake = 1000

	st, err := Run(scenario(), models.SeriesSignal{true, true, true}, p)
	require.NoError(t, err)
	assert.Equal(t, 0, st.OpenedOrders+st.ExecutedOrders)
}

func TestRun_Conservation(t *testing.T) {
	p := DefaultParams()
	p.Stake = 60
	candles := walk(42, 2000, 25)
	sig := randomSignals(43, candles, 1, 0.2)[0]

	r, err := Simulate(candles, sig, p)
	require.NoError(t, err)
	require.NotEmpty(t, r.Closed)

	want := p.InitialBalance
	var realized float64
	for _, pos := range r.Open {
		want -= pos.Quantity*pos.EntryPrice + pos.Commission
	}
	for _, pos := range r.Closed {
		net := (pos.TargetPrice-pos.EntryPrice)*pos.Quantity - pos.Commission
		want += net
		realized += net
	}

	assert.InDelta(t, want, r.Stats.Balance+r.Stats.Wallet, 1e-6)
	assert.InDelta(t, realized*p.ProfitShare, r.Stats.Wallet, 1e-6)
	assert.Equal(t, len(r.Open), r.Stats.OpenedOrders)
	assert.Equal(t, len(r.Closed), r.Stats.ExecutedOrders)
}

func TestRun_MinBalanceNeverAboveObservedBalances(t *testing.T) {
	p := DefaultParams()
	p.Stake = 200
	candles := walk(11, 500, 40)
	sig := randomSignals(12, candles, 1, 0.5)[0]

	prev := p.InitialBalance
	for n := 1; n <= len(candles); n += 50 {
		st, err := Run(candles[:n], sig.(models.TimeSignal), p)
		require.NoError(t, err)
		assert.LessOrEqual(t, st.MinBalance, prev)
		assert.LessOrEqual(t, st.MinBalance, p.InitialBalance)
		prev = st.MinBalance
	}
}

func TestRun_InvalidInput(t *testing.T) {
	p := DefaultParams()

	_, err := Run(nil, models.TimeSignal{}, p)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrEmptyCandles)

	c := scenario()
	c[2].OpenTime = 60
	_, err = Run(c, models.TimeSignal{}, p)
	assert.ErrorIs(t, err, ErrUnorderedCandles)

	c = scenario()
	c[1].Open = 0
	_, err = Run(c, models.TimeSignal{}, p)
	assert.ErrorIs(t, err, ErrBadOpenPrice)

	_, err = Run(scenario(), models.SeriesSignal{true}, p)
	assert.ErrorIs(t, err, ErrSignalLength)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Run(scenario(), nil, p)
	assert.ErrorIs(t, err, ErrNilSignal)

	p.Stake = 0
	_, err = Run(scenario(), models.TimeSignal{}, p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}
