package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeUnknownStrategy, "unknown strategy: %s", "momentum")
	suite.NotNil(err)
	suite.Equal(ErrCodeUnknownStrategy, err.Code)
	suite.Equal("unknown strategy: momentum", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeQueryFailed, "failed to read bars", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.Equal("failed to read bars", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeDataNotFound, cause, "no bars found for symbol: %s", "BTCUSDT")
	suite.NotNil(err)
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Equal("no bars found for symbol: BTCUSDT", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidSeries, "invalid series", cause)
	suite.Equal("[200] invalid series: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidSeries, "invalid series", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal(ErrCodeInvalidParameter, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeDataNotFound, "data not found")
	err := Wrap(ErrCodeBacktestFailed, "backtest failed", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeBacktestFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromPlainError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.True(HasCode(err, ErrCodeInvalidParameter))
	suite.False(HasCode(err, ErrCodeDataNotFound))
}

func (suite *ErrorTestSuite) TestIsError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidSeries, "invalid series", cause)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	var structuredErr *Error
	suite.True(As(err, &structuredErr))
	suite.Equal(ErrCodeInvalidParameter, structuredErr.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	// Verify some key error codes have expected values
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeInvalidSeries)
	suite.Equal(ErrorCode(300), ErrCodeUnknownStrategy)
	suite.Equal(ErrorCode(400), ErrCodeBacktestFailed)
	suite.Equal(ErrorCode(500), ErrCodeMarketDataFetchFailed)
	suite.Equal(ErrorCode(600), ErrCodeOrderFailed)
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := &InsufficientDataError{
		Required: 50,
		Actual:   12,
		Symbol:   "BTCUSDT",
		Message:  "insufficient data for calculation",
	}
	suite.Equal("insufficient data for calculation", err.Error())
	suite.Equal(50, err.Required)
	suite.Equal(12, err.Actual)
	suite.Equal("BTCUSDT", err.Symbol)
}

func (suite *ErrorTestSuite) TestNewInsufficientDataError() {
	err := NewInsufficientDataError(50, 10, "ETHUSDT", "insufficient data for long moving average")
	suite.NotNil(err)
	suite.Equal(50, err.Required)
	suite.Equal(10, err.Actual)
	suite.Equal("ETHUSDT", err.Symbol)
	suite.Equal("insufficient data for long moving average", err.Error())
}

func (suite *ErrorTestSuite) TestNewInsufficientDataErrorf() {
	err := NewInsufficientDataErrorf(20, 5, "BTCUSDT", "insufficient data for %s: required %d, got %d", "short moving average", 20, 5)
	suite.NotNil(err)
	suite.Equal(20, err.Required)
	suite.Equal(5, err.Actual)
	suite.Equal("insufficient data for short moving average: required 20, got 5", err.Message)
}

func (suite *ErrorTestSuite) TestIsInsufficientDataError() {
	insufficientErr := NewInsufficientDataError(50, 10, "BTCUSDT", "insufficient data")
	suite.True(IsInsufficientDataError(insufficientErr))

	stdErr := errors.New("standard error")
	suite.False(IsInsufficientDataError(stdErr))

	structuredErr := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.False(IsInsufficientDataError(structuredErr))

	suite.False(IsInsufficientDataError(nil))
}
