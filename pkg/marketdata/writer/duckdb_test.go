package writer

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/internal/types"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	path   string
	writer *DuckDBWriter
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "out.db")

	w, err := NewDuckDBWriter(suite.path, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.writer = w
}

func (suite *DuckDBWriterTestSuite) TearDownTest() {
	suite.NoError(suite.writer.Close())
}

func (suite *DuckDBWriterTestSuite) sampleBars() []types.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := []float64{100, 101, 102}
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

func (suite *DuckDBWriterTestSuite) TestWriteBars() {
	suite.Require().NoError(suite.writer.WriteBars(suite.sampleBars()))

	var count int
	err := suite.writer.db.QueryRow(`SELECT COUNT(*) FROM market_data`).Scan(&count)
	suite.Require().NoError(err)
	suite.Equal(3, count)
}

func (suite *DuckDBWriterTestSuite) TestWriteBarsAppends() {
	bars := suite.sampleBars()
	suite.Require().NoError(suite.writer.WriteBars(bars))
	suite.Require().NoError(suite.writer.WriteBars(bars))

	var count int
	err := suite.writer.db.QueryRow(`SELECT COUNT(*) FROM market_data`).Scan(&count)
	suite.Require().NoError(err)
	suite.Equal(6, count)
}

func (suite *DuckDBWriterTestSuite) TestWriteAnnotatedSeries() {
	bars := suite.sampleBars()
	series := types.IndicatorSeries{
		{Bar: bars[0], ShortMA: math.NaN(), LongMA: math.NaN(), Signal: types.SignalTypeHold},
		{Bar: bars[1], ShortMA: 100.5, LongMA: math.NaN(), Signal: types.SignalTypeHold},
		{Bar: bars[2], ShortMA: 101.5, LongMA: 101, Signal: types.SignalTypeBuy},
	}

	suite.Require().NoError(suite.writer.WriteAnnotatedSeries(series))

	var nulls int
	err := suite.writer.db.QueryRow(`SELECT COUNT(*) FROM annotated_series WHERE short_ma IS NULL`).Scan(&nulls)
	suite.Require().NoError(err)
	suite.Equal(1, nulls)

	var signal string
	err = suite.writer.db.QueryRow(`SELECT signal FROM annotated_series ORDER BY time DESC LIMIT 1`).Scan(&signal)
	suite.Require().NoError(err)
	suite.Equal("buy", signal)
}

func (suite *DuckDBWriterTestSuite) TestWriteAnnotatedSeriesReplaces() {
	bars := suite.sampleBars()
	series := types.IndicatorSeries{
		{Bar: bars[0], ShortMA: 1, LongMA: 1, Signal: types.SignalTypeHold},
	}

	suite.Require().NoError(suite.writer.WriteAnnotatedSeries(series))
	suite.Require().NoError(suite.writer.WriteAnnotatedSeries(series))

	var count int
	err := suite.writer.db.QueryRow(`SELECT COUNT(*) FROM annotated_series`).Scan(&count)
	suite.Require().NoError(err)
	suite.Equal(1, count)
}
