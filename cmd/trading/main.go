package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/quantbeak/macross/internal/config"
	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/strategy"
	"github.com/quantbeak/macross/internal/trading"
	tradingprovider "github.com/quantbeak/macross/internal/trading/provider"
	"github.com/quantbeak/macross/pkg/marketdata/provider"
	"github.com/quantbeak/macross/pkg/marketdata/writer"
)

// tradingAction wires the live trading loop: Binance market data in, the
// strategy in the middle, Binance market orders out.
func tradingAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	testnet := cmd.Bool("testnet")

	if cmd.Bool("schema") {
		cfg := config.DefaultConfig()

		schema, err := cfg.GenerateSchemaJSON()
		if err != nil {
			return fmt.Errorf("failed to generate config schema: %w", err)
		}

		fmt.Println(schema)

		return nil
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	cfg := config.DefaultConfig()

	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cmd.Bool("paper") {
		cfg.Paper = true
	}

	strat, err := strategy.New(cfg.Strategy.Name, cfg.Params())
	if err != nil {
		return fmt.Errorf("failed to create strategy: %w", err)
	}

	apiKey := os.Getenv("BINANCE_API_KEY")
	secretKey := os.Getenv("BINANCE_SECRET_KEY")

	if !cfg.Paper && (apiKey == "" || secretKey == "") {
		return fmt.Errorf("BINANCE_API_KEY and BINANCE_SECRET_KEY must be set unless running in paper mode")
	}

	market := provider.NewBinanceProvider(apiKey, secretKey, log)
	trader := tradingprovider.NewBinanceTrader(apiKey, secretKey, testnet, log)

	barWriter := optional.None[trading.BarWriter]()

	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		dbWriter, err := writer.NewDuckDBWriter(filepath.Join(cfg.DataDir, "live_bars.duckdb"), log)
		if err != nil {
			return fmt.Errorf("failed to create bar writer: %w", err)
		}
		defer dbWriter.Close()

		barWriter = optional.Some[trading.BarWriter](dbWriter)
	}

	cycle := trading.NewCycle(cfg, strat, market, trader, barWriter, log)

	if !cfg.Paper {
		if free, err := trader.GetBalance(ctx, quoteAsset(cfg.Symbol)); err != nil {
			log.Warn("failed to fetch account balance", zap.Error(err))
		} else {
			log.Info("account balance", zap.String("asset", quoteAsset(cfg.Symbol)), zap.Float64("free", free))
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting trading loop",
		zap.String("symbol", cfg.Symbol),
		zap.String("interval", cfg.Interval),
		zap.String("strategy", strat.Name()),
		zap.Bool("paper", cfg.Paper),
		zap.Int("cycle_minutes", cfg.CycleMinutes))

	return cycle.Run(ctx, time.Duration(cfg.CycleMinutes)*time.Minute)
}

// quoteAsset guesses the quote asset of a spot pair from its common
// suffixes. Unknown pairs fall back to USDT.
func quoteAsset(symbol string) string {
	for _, quote := range []string{"USDT", "USDC", "BUSD", "BTC", "ETH"} {
		if strings.HasSuffix(symbol, quote) && symbol != quote {
			return quote
		}
	}

	return "USDT"
}

func main() {
	cmd := &cli.Command{
		Name:  "trading",
		Usage: "Run the moving-average crossover strategy live against Binance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the YAML configuration file",
				Required: false,
			},
			&cli.BoolFlag{
				Name:  "paper",
				Usage: "Log signals without placing orders",
			},
			&cli.BoolFlag{
				Name:  "testnet",
				Usage: "Place orders on the Binance spot testnet",
			},
			&cli.BoolFlag{
				Name:  "schema",
				Usage: "Print the configuration JSON schema and exit",
			},
		},
		Action: tradingAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
