// Package notify delivers best-effort plain-text notifications back to the
// chat transport. Sends are retried with exponential backoff and abandoned
// silently after a bounded number of attempts; a failed notification never
// reaches back into ledger logic.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nurbek2810/stockchat-api/internal/config"
)

// Sender is the outbound side of the chat transport.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Notifier struct {
	sender      Sender
	limiter     *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration

	sleep func(ctx context.Context, d time.Duration)
}

func NewNotifier(sender Sender, conf *config.NotifyConfig) *Notifier {
	return &Notifier{
		sender:      sender,
		limiter:     rate.NewLimiter(rate.Limit(conf.RatePerSecond), conf.RateBurst),
		maxAttempts: conf.MaxAttempts,
		baseDelay:   time.Duration(conf.InitialBackoffMs) * time.Millisecond,
		maxDelay:    time.Duration(conf.MaxBackoffMs) * time.Millisecond,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Notify sends a message, retrying transient failures. It never returns an
// error: after maxAttempts it gives up and logs at warn level.
func (n *Notifier) Notify(ctx context.Context, chatID int64, text string) {
	delay := n.baseDelay

	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		if err := n.limiter.Wait(ctx); err != nil {
			return
		}

		err := n.sender.SendMessage(ctx, chatID, text)
		if err == nil {
			return
		}

		zap.L().Warn("send failed",
			zap.Int64("chat_id", chatID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			return
		}

		n.sleep(ctx, delay)
		delay *= 2
		if delay > n.maxDelay {
			delay = n.maxDelay
		}
	}
}

// LogSender is the default Sender when no chat transport is wired: it writes
// the notification to the log and succeeds.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendMessage(_ context.Context, chatID int64, text string) error {
	zap.L().Info("outbound notification",
		zap.Int64("chat_id", chatID),
		zap.String("text", text),
	)

	return nil
}
