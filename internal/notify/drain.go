package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// LogDrain consumes topic and logs each notification until ctx is done.
// It stands in for the delivery service when notifications never leave
// the process.
func LogDrain(ctx context.Context, subscriber message.Subscriber, topic string, logger *slog.Logger) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}

	for msg := range messages {
		var n Notification
		if err := json.Unmarshal(msg.Payload, &n); err != nil {
			logger.Warn("dropping malformed notification", "message_id", msg.UUID, "error", err)
			msg.Ack()
			continue
		}

		logger.Info("notification",
			"user_id", n.UserID,
			"type", n.Type,
			"title", n.Title,
		)
		msg.Ack()
	}

	return nil
}
