// Package notify publishes user notifications onto a watermill topic. Delivery
// (push, e-mail, in-app inbox) is handled by whoever consumes the topic.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Notification is the payload published for every notification.
type Notification struct {
	SentAt  time.Time `json:"sent_at"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	UserID  uuid.UUID `json:"user_id"`
}

// Notifier publishes notifications to a single topic.
type Notifier struct {
	publisher message.Publisher
	now       func() time.Time
	topic     string
}

// NewNotifier creates a Notifier publishing to topic.
func NewNotifier(publisher message.Publisher, topic string) *Notifier {
	return &Notifier{
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
	}
}

// Notify publishes a notification for userID.
func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, kind, title, content string) error {
	payload, err := json.Marshal(Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Content: content,
		SentAt:  n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshalling notification: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", kind)
	msg.Metadata.Set("user_id", userID.String())
	msg.SetContext(ctx)

	if err := n.publisher.Publish(n.topic, msg); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}

	return nil
}
