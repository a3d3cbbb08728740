package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/quantbeak/macross/internal/logger"
	"github.com/quantbeak/macross/pkg/errors"
)

type DuckDBSourceTestSuite struct {
	suite.Suite
	source  *DuckDBSource
	csvPath string
}

func TestDuckDBSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBSourceTestSuite))
}

func (suite *DuckDBSourceTestSuite) SetupTest() {
	source, err := NewDuckDBSource(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.source = source

	csv := `time,open,high,low,close,volume
2024-01-01 00:00:00,100,101,99,100.5,10
2024-01-01 01:00:00,100.5,102,100,101.5,12
2024-01-01 02:00:00,101.5,103,101,102.5,9
2024-01-01 03:00:00,102.5,104,102,103.5,14
`

	suite.csvPath = filepath.Join(suite.T().TempDir(), "bars.csv")
	suite.Require().NoError(os.WriteFile(suite.csvPath, []byte(csv), 0644))
}

func (suite *DuckDBSourceTestSuite) TearDownTest() {
	suite.NoError(suite.source.Close())
}

func (suite *DuckDBSourceTestSuite) TestReadAll() {
	suite.Require().NoError(suite.source.Initialize(suite.csvPath))

	bars, err := suite.source.ReadAll("BTCUSDT", optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 4)

	suite.Equal("BTCUSDT", bars[0].Symbol)
	suite.Equal(100.5, bars[0].Close)
	suite.Equal(103.5, bars[3].Close)

	for i := 1; i < len(bars); i++ {
		suite.True(bars[i].Time.After(bars[i-1].Time))
	}
}

func (suite *DuckDBSourceTestSuite) TestReadAllWithBounds() {
	suite.Require().NoError(suite.source.Initialize(suite.csvPath))

	start := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)

	bars, err := suite.source.ReadAll("BTCUSDT", optional.Some(start), optional.Some(end))
	suite.Require().NoError(err)
	suite.Len(bars, 2)
}

func (suite *DuckDBSourceTestSuite) TestCount() {
	suite.Require().NoError(suite.source.Initialize(suite.csvPath))

	count, err := suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(4, count)
}

func (suite *DuckDBSourceTestSuite) TestUnsupportedExtension() {
	err := suite.source.Initialize("bars.json")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *DuckDBSourceTestSuite) TestEmptyResultIsDataNotFound() {
	suite.Require().NoError(suite.source.Initialize(suite.csvPath))

	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.source.ReadAll("BTCUSDT", optional.Some(start), optional.None[time.Time]())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}
