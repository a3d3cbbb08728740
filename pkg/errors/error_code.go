package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInsufficientData     ErrorCode = 103

	// Series errors (200-299)
	ErrCodeInvalidSeries ErrorCode = 200
	ErrCodeDataNotFound  ErrorCode = 201
	ErrCodeQueryFailed   ErrorCode = 202

	// Strategy errors (300-399)
	ErrCodeUnknownStrategy     ErrorCode = 300
	ErrCodeStrategyConfigError ErrorCode = 301

	// Backtest errors (400-499)
	ErrCodeBacktestFailed ErrorCode = 400

	// Market data errors (500-599)
	ErrCodeMarketDataFetchFailed ErrorCode = 500
	ErrCodeMarketDataParseFailed ErrorCode = 501
	ErrCodeMarketDataWriteFailed ErrorCode = 502

	// Trading errors (600-699)
	ErrCodeOrderFailed ErrorCode = 600
)
