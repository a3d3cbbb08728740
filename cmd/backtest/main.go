package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/quantbeak/macross/internal/backtest"
	"github.com/quantbeak/macross/internal/config"
	"github.com/quantbeak/macross/internal/datasource"
	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/strategy"
	"github.com/quantbeak/macross/internal/types"
	"github.com/quantbeak/macross/pkg/marketdata/writer"
)

// backtestAction loads the bar series, replays the strategy over it and
// persists the stats and annotated series under the output directory.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	dataPath := cmd.String("data")
	configPath := cmd.String("config")
	outputDir := cmd.String("output")

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

	strat, err := strategy.New(cfg.Strategy.Name, cfg.Params())
	if err != nil {
		return fmt.Errorf("failed to create strategy: %w", err)
	}

	source, err := datasource.NewDuckDBSource(log)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}
	defer source.Close()

	if err := source.Initialize(dataPath); err != nil {
		return fmt.Errorf("failed to load data file: %w", err)
	}

	bars, err := source.ReadAll(cfg.Symbol, optional.None[time.Time](), optional.None[time.Time]())
	if err != nil {
		return fmt.Errorf("failed to read bars: %w", err)
	}

	bar := progressbar.Default(int64(len(bars)-1), "replaying")
	onStep := backtest.OnStep(func(current, total int) {
		bar.Set(current) //nolint:errcheck
	})

	result := backtest.NewSimulator(log).Run(bars, strat, optional.Some(onStep))
	if result.Status == backtest.StatusError {
		return fmt.Errorf("backtest failed: %s", result.Reason)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runID := uuid.New().String()
	statsPath := filepath.Join(outputDir, "stats.yaml")

	stats := types.BacktestStats{
		ID:        runID,
		Timestamp: time.Now(),
		Symbol:    cfg.Symbol,
		Strategy:  strat.Name(),
		DataPath:  dataPath,
		Metrics:   result.Metrics,
		Trades:    result.Trades,
	}

	if err := types.WriteBacktestStats(statsPath, stats); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}

	dbPath := filepath.Join(outputDir, "annotated.duckdb")

	dbWriter, err := writer.NewDuckDBWriter(dbPath, log)
	if err != nil {
		return fmt.Errorf("failed to create annotated series writer: %w", err)
	}
	defer dbWriter.Close()

	if err := dbWriter.WriteAnnotatedSeries(result.AnnotatedSeries); err != nil {
		return fmt.Errorf("failed to write annotated series: %w", err)
	}

	fmt.Printf("Backtest %s completed: %d trades, win rate %.2f%%, cumulative return %.2f%%\n",
		runID, result.Metrics.TotalTrades, result.Metrics.WinRate*100, result.Metrics.CumulativeReturn*100)
	fmt.Printf("Stats written to %s, annotated series to %s\n", statsPath, dbPath)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Replay a moving-average crossover strategy over historical bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the historical bars file (.csv or .parquet)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the YAML configuration file",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output directory for stats and the annotated series",
				Value:    "results",
				Required: false,
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
