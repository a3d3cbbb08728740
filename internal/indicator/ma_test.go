package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/errors"
)

func makeBars(closes ...float64) []types.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))

	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Symbol: "BTCUSDT",
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1,
		}
	}

	return bars
}

func TestSMASeries(t *testing.T) {
	bars := makeBars(10, 20, 30, 40, 50)

	values, err := SMASeries(bars, 3)
	require.NoError(t, err)
	require.Len(t, values, 5)

	assert.True(t, math.IsNaN(values[0]))
	assert.True(t, math.IsNaN(values[1]))
	assert.InDelta(t, 20, values[2], 1e-9)
	assert.InDelta(t, 30, values[3], 1e-9)
	assert.InDelta(t, 40, values[4], 1e-9)
}

func TestSMASeriesPeriodOne(t *testing.T) {
	bars := makeBars(10, 20, 30)

	values, err := SMASeries(bars, 1)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 20, 30}, values)
}

func TestSMASeriesShorterThanPeriod(t *testing.T) {
	bars := makeBars(10, 20)

	values, err := SMASeries(bars, 5)
	require.NoError(t, err)
	require.Len(t, values, 2)

	for _, v := range values {
		assert.True(t, math.IsNaN(v))
	}
}

func TestSMASeriesInvalidPeriod(t *testing.T) {
	_, err := SMASeries(makeBars(10), 0)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	_, err = SMASeries(makeBars(10), -3)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func TestTailSMA(t *testing.T) {
	bars := makeBars(10, 20, 30, 40, 50)

	v, err := TailSMA(bars, 3)
	require.NoError(t, err)
	assert.InDelta(t, 40, v, 1e-9)
}

func TestTailSMAMatchesLastSeriesValue(t *testing.T) {
	bars := makeBars(101, 99, 104, 98, 103, 107, 95, 110)

	series, err := SMASeries(bars, 4)
	require.NoError(t, err)

	tail, err := TailSMA(bars, 4)
	require.NoError(t, err)

	assert.InDelta(t, series[len(series)-1], tail, 1e-9)
}

func TestTailSMAInsufficientData(t *testing.T) {
	_, err := TailSMA(makeBars(10, 20), 3)
	assert.True(t, errors.IsInsufficientDataError(err))
}
