package types

type StrategyType string

const (
	StrategyTypeMACrossover    StrategyType = "ma_crossover"
	StrategyTypeRSI            StrategyType = "rsi"
	StrategyTypeBollingerBands StrategyType = "bollinger_bands"
	StrategyTypeMACD           StrategyType = "macd"
	StrategyTypeSuperTrend     StrategyType = "supertrend"
	StrategyTypeDonchian       StrategyType = "donchian"
	StrategyTypeADX            StrategyType = "adx"
	StrategyTypeHeikinAshi     StrategyType = "heikin_ashi"
	StrategyTypeIchimoku       StrategyType = "ichimoku"
	StrategyTypeMLClassifier   StrategyType = "ml_classifier"
	StrategyTypeMLSequence     StrategyType = "ml_sequence"
)

// StrategyConfig describes one strategy entry in the algorithm configuration.
// Params holds numeric parameters by name such as period or threshold.
// Missing params fall back to the strategy defaults.
type StrategyConfig struct {
	Type   StrategyType       `yaml:"type" json:"type" validate:"required"`
	Weight float64            `yaml:"weight" json:"weight" default:"1.0" validate:"gt=0"`
	Params map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
	// Model selects the classifier for ml_* strategies (knn, softmax).
	Model string `yaml:"model,omitempty" json:"model,omitempty"`
}
