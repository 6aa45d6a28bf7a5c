package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger()
	suite.Require().NoError(err)
	suite.NotNil(logger.Logger)
	suite.True(logger.Core().Enabled(zapcore.InfoLevel))
	suite.False(logger.Core().Enabled(zapcore.DebugLevel))
}

func (suite *LoggerTestSuite) TestSyncNilLogger() {
	logger := &Logger{Logger: nil}
	suite.NoError(logger.Sync())
}

func (suite *LoggerTestSuite) TestNewLoggerWithConfigStdoutOnly() {
	logger, err := NewLoggerWithConfig(Config{Level: "debug"})
	suite.Require().NoError(err)
	suite.NotNil(logger.Logger)
	suite.True(logger.Core().Enabled(zapcore.DebugLevel))
}

func (suite *LoggerTestSuite) TestNewLoggerWithConfigInvalidLevel() {
	_, err := NewLoggerWithConfig(Config{Level: "loud"})
	suite.Error(err)
	suite.Contains(err.Error(), "invalid log level")
}

func (suite *LoggerTestSuite) TestNewLoggerWithConfigLevelFiltersFile() {
	path := filepath.Join(suite.T().TempDir(), "bot.log")

	logger, err := NewLoggerWithConfig(Config{Level: "warn", File: path})
	suite.Require().NoError(err)

	logger.Info("analysis complete")
	logger.Warn("price source failed", zap.String("source", "GoldAPI"))
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.NotContains(string(content), "analysis complete")
	suite.Contains(string(content), "GoldAPI")
}

func (suite *LoggerTestSuite) TestNewLoggerWithConfigWritesRotatingFile() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "bot.log")

	logger, err := NewLoggerWithConfig(Config{
		Level:      "info",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	suite.Require().NoError(err)

	logger.Info("trade opened", zap.String("trade_id", "TRADE_1"))
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(content), "trade opened")
	suite.Contains(string(content), "TRADE_1")
}

func (suite *LoggerTestSuite) TestNewNopLogger() {
	logger := NewNopLogger()
	suite.NotNil(logger.Logger)
	logger.Info("discarded")
	suite.NoError(logger.Sync())
}
