package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Metrics summarizes the completed trades of one backtest run. All fields are
// derived and recomputed fresh each run, never mutated incrementally.
type Metrics struct {
	// Count of trades with a nonzero realized return.
	TotalTrades int `yaml:"total_trades"`
	// Count of trades with a positive return.
	WinningTrades int `yaml:"winning_trades"`
	// Count of trades with a negative return.
	LosingTrades int `yaml:"losing_trades"`
	// WinningTrades / TotalTrades. 0 when there are no trades.
	WinRate float64 `yaml:"win_rate"`
	// Mean of positive returns. 0 when there are no winners.
	AvgWin float64 `yaml:"avg_win"`
	// Mean of negative returns. 0 when there are no losers.
	AvgLoss float64 `yaml:"avg_loss"`
	// Compounding return: product of (1 + r) over all trades, minus 1.
	CumulativeReturn float64 `yaml:"cumulative_return"`
}

// BacktestStats is the persisted record of one backtest run.
type BacktestStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Symbol of the trading pair.
	Symbol string `yaml:"symbol"`
	// Strategy is the name of the strategy that produced these stats.
	Strategy string `yaml:"strategy"`
	// DataPath is the path to the market data file used for this backtest.
	DataPath string `yaml:"data_path"`
	// Metrics of all completed trades.
	Metrics Metrics `yaml:"metrics"`
	// Trades lists every completed round trip.
	Trades []Trade `yaml:"trades"`
}

// WriteBacktestStats writes the stats of a run to a YAML file.
func WriteBacktestStats(path string, stats BacktestStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}
