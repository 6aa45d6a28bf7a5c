package main

import "github.com/JonusNattapong/DekEA-SUPERMAX/internal/trading"

// AnalysisMsg carries a finished analysis round.
type AnalysisMsg struct {
	Analysis trading.Analysis
}

// AnalysisErrorMsg reports a failed analysis round.
type AnalysisErrorMsg struct {
	Err error
}

// RefreshMsg triggers the next analysis. Seq discards ticks scheduled before a manual refresh.
type RefreshMsg struct {
	Seq int
}
