// Package notify delivers text messages to an external sink.
package notify

import (
	"context"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"go.uber.org/zap"
)

// Notifier sends one plain text message.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// LogNotifier writes messages to the log instead of sending them.
// It is used when Telegram is not configured.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Send(_ context.Context, message string) error {
	n.logger.Info("Notification", zap.String("message", message))

	return nil
}
