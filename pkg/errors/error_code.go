package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

// Category names the hundreds range an ErrorCode belongs to.
type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryValidation   Category = "validation"
	CategoryData         Category = "data"
	CategoryIndicator    Category = "indicator"
	CategoryStrategy     Category = "strategy"
	CategoryTrading      Category = "trading"
	CategoryBacktest     Category = "backtest"
	CategoryMarketData   Category = "marketdata"
	CategoryNotification Category = "notification"
)

var categories = map[int]Category{
	1: CategoryValidation,
	2: CategoryData,
	3: CategoryIndicator,
	4: CategoryStrategy,
	5: CategoryTrading,
	6: CategoryBacktest,
	7: CategoryMarketData,
	8: CategoryNotification,
}

// Category returns the range of c. Codes outside the known ranges are general.
func (c ErrorCode) Category() Category {
	if category, ok := categories[int(c)/100]; ok {
		return category
	}

	return CategoryGeneral
}

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidWeight        ErrorCode = 102
	ErrCodeInvalidTakeProfit    ErrorCode = 103
	ErrCodeInvalidStopLoss      ErrorCode = 104
	ErrCodeInvalidVotingMethod  ErrorCode = 105
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidMultiplier    ErrorCode = 111
	ErrCodeInvalidThreshold     ErrorCode = 112
	ErrCodeInvalidInterval      ErrorCode = 113

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodePersistenceFailed     ErrorCode = 203
	ErrCodeReportFailed          ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound     ErrorCode = 400
	ErrCodeStrategyConfigError  ErrorCode = 401
	ErrCodeStrategyNotTrained   ErrorCode = 402
	ErrCodeUnsupportedStrategy  ErrorCode = 403
	ErrCodeStrategyAlreadyExist ErrorCode = 404
	ErrCodeModelTrainingFailed  ErrorCode = 405

	// Trading/ledger errors (500-599)
	ErrCodeTradeNotFound      ErrorCode = 500
	ErrCodeTradeAlreadyExists ErrorCode = 501
	ErrCodeTradeClosed        ErrorCode = 502
	ErrCodeInvalidTrade       ErrorCode = 503
	ErrCodeNoSignal           ErrorCode = 504

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError ErrorCode = 600
	ErrCodeBacktestNoData      ErrorCode = 601

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidTimespan       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704
	ErrCodePriceUnavailable      ErrorCode = 705

	// Notification errors (800-899)
	ErrCodeNotificationFailed    ErrorCode = 800
	ErrCodeNotifierNotConfigured ErrorCode = 801
)
