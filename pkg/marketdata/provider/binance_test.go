package provider

import (
	"testing"

	binance "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbeak/macross/pkg/errors"
)

func TestKlineToBar(t *testing.T) {
	bar, err := klineToBar("BTCUSDT", &binance.Kline{
		OpenTime: 1704067200000, // 2024-01-01T00:00:00Z
		Open:     "42000.5",
		High:     "42100",
		Low:      "41900",
		Close:    "42050.25",
		Volume:   "13.7",
	})
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", bar.Symbol)
	assert.Equal(t, int64(1704067200), bar.Time.Unix())
	assert.Equal(t, 42000.5, bar.Open)
	assert.Equal(t, 42050.25, bar.Close)
	assert.Equal(t, 13.7, bar.Volume)
}

func TestKlineToBarParseError(t *testing.T) {
	_, err := klineToBar("BTCUSDT", &binance.Kline{
		OpenTime: 1704067200000,
		Open:     "not-a-number",
		High:     "1",
		Low:      "1",
		Close:    "1",
		Volume:   "1",
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMarketDataParseFailed))
}
