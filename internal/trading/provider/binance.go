// Package tradingprovider implements order execution against exchanges.
package tradingprovider

import (
	"context"
	"math"
	"strconv"

	binance "github.com/adshao/go-binance/v2"
	"go.uber.org/zap"

	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/trading"
	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/errors"
)

// BinanceDecimalPrecision is the quantity precision used for orders.
// 8 decimals covers satoshi-level quantities for BTC-like assets; a
// production deployment would read symbol-specific LOT_SIZE filters from
// exchange info instead.
const BinanceDecimalPrecision = 8

// CreateOrderService is the slice of the Binance order API the trader uses.
// It exists so tests can substitute a fake without hitting the network.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side binance.SideType) CreateOrderService
	Type(orderType binance.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	Do(ctx context.Context) (*binance.CreateOrderResponse, error)
}

// GetAccountService is the slice of the Binance account API the trader uses.
type GetAccountService interface {
	Do(ctx context.Context) (*binance.Account, error)
}

// BinanceClient abstracts the Binance client for testing.
type BinanceClient interface {
	NewCreateOrderService() CreateOrderService
	NewGetAccountService() GetAccountService
}

type realBinanceClient struct {
	client *binance.Client
}

func (r *realBinanceClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realBinanceClient) NewGetAccountService() GetAccountService {
	return &realGetAccountService{service: r.client.NewGetAccountService()}
}

type realGetAccountService struct {
	service *binance.GetAccountService
}

func (s *realGetAccountService) Do(ctx context.Context) (*binance.Account, error) {
	return s.service.Do(ctx)
}

type realCreateOrderService struct {
	service *binance.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side binance.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

// BinanceTrader places market orders on the Binance spot API. It is
// stateless; position tracking lives in the trading cycle.
type BinanceTrader struct {
	client BinanceClient
	logger *logger.Logger
}

// NewBinanceTrader creates a Binance order executor. When useTestnet is true
// the client targets the Binance spot testnet.
func NewBinanceTrader(apiKey, secretKey string, useTestnet bool, log *logger.Logger) *BinanceTrader {
	if useTestnet {
		binance.UseTestnet = true
	}

	return &BinanceTrader{
		client: &realBinanceClient{client: binance.NewClient(apiKey, secretKey)},
		logger: log,
	}
}

// newBinanceTraderWithClient is used by tests to inject a fake client.
func newBinanceTraderWithClient(client BinanceClient, log *logger.Logger) *BinanceTrader {
	return &BinanceTrader{
		client: client,
		logger: log,
	}
}

// PlaceMarketOrder submits a market order for the given side and quantity.
func (t *BinanceTrader) PlaceMarketOrder(ctx context.Context, order trading.Order) error {
	var side binance.SideType

	switch order.Side {
	case types.SignalTypeBuy:
		side = binance.SideTypeBuy
	case types.SignalTypeSell:
		side = binance.SideTypeSell
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", order.Side)
	}

	if order.Quantity <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "order quantity must be greater than zero")
	}

	quantity := roundToPrecision(order.Quantity, BinanceDecimalPrecision)
	if quantity <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"order quantity %.8f is too small after rounding to %d decimal places",
			order.Quantity, BinanceDecimalPrecision)
	}

	_, err := t.client.NewCreateOrderService().
		Symbol(order.Symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(strconv.FormatFloat(quantity, 'f', BinanceDecimalPrecision, 64)).
		Do(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOrderFailed, "failed to place order on Binance", err)
	}

	t.logger.Info("market order placed",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", quantity))

	return nil
}

// GetBalance returns the free balance of the given asset.
func (t *BinanceTrader) GetBalance(ctx context.Context, asset string) (float64, error) {
	account, err := t.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch account from Binance", err)
	}

	for _, balance := range account.Balances {
		if balance.Asset != asset {
			continue
		}

		free, err := strconv.ParseFloat(balance.Free, 64)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse balance %q for %s", balance.Free, asset)
		}

		return free, nil
	}

	return 0, nil
}

func roundToPrecision(v float64, places int) float64 {
	p := math.Pow10(places)

	return math.Round(v*p) / p
}
