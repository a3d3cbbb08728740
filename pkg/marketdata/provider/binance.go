package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"go.uber.org/zap"

	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/errors"
)

// BinanceProvider fetches klines from the Binance spot API. Public kline
// endpoints do not require credentials, so empty keys are fine for read-only
// use.
type BinanceProvider struct {
	client *binance.Client
	logger *logger.Logger
}

// NewBinanceProvider creates a Binance market data provider.
func NewBinanceProvider(apiKey, secretKey string, log *logger.Logger) *BinanceProvider {
	return &BinanceProvider{
		client: binance.NewClient(apiKey, secretKey),
		logger: log,
	}
}

// GetBars fetches the most recent klines for the symbol, oldest first. The
// bar timestamp is the kline open time.
func (p *BinanceProvider) GetBars(ctx context.Context, symbol string, interval string, limit int) ([]types.Bar, error) {
	if limit <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "limit must be positive, got %d", limit)
	}

	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", symbol)
	}

	bars := make([]types.Bar, 0, len(klines))

	for _, k := range klines {
		bar, err := klineToBar(symbol, k)
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	p.logger.Debug("fetched klines",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("count", len(bars)))

	return bars, nil
}

func klineToBar(symbol string, k *binance.Kline) (types.Bar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse open price %q", k.Open)
	}

	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse high price %q", k.High)
	}

	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse low price %q", k.Low)
	}

	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse close price %q", k.Close)
	}

	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse volume %q", k.Volume)
	}

	return types.Bar{
		Time:   time.UnixMilli(k.OpenTime),
		Symbol: symbol,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}
