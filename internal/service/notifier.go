package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"tush00nka/marketplace_chat/internal/model"
)

const EventTypeMessageCreated = "chat.message_created"

// MessageEvent is published for participants who missed a message live.
type MessageEvent struct {
	Type        string    `json:"type"`
	ChatID      uint      `json:"chat_id"`
	MessageID   uint      `json:"message_id"`
	SenderID    uint      `json:"sender_id"`
	RecipientID uint      `json:"recipient_id"`
	Preview     string    `json:"preview"`
	HasImages   bool      `json:"has_images"`
	HasVoice    bool      `json:"has_voice"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewMessageEvent(chat *model.Chat, msg *model.Message, recipientID uint) MessageEvent {
	return MessageEvent{
		Type:        EventTypeMessageCreated,
		ChatID:      chat.ID,
		MessageID:   msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: recipientID,
		Preview:     preview(msg.Content),
		HasImages:   len(msg.Images) > 0,
		HasVoice:    msg.Voice != nil && *msg.Voice != "",
		CreatedAt:   msg.CreatedAt,
	}
}

// Publisher writes a keyed record to a message broker.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type brokerNotifier struct {
	pub Publisher
}

// NewBrokerNotifier publishes events keyed by recipient so that one user's
// notifications stay ordered within a partition.
func NewBrokerNotifier(pub Publisher) Notifier {
	return &brokerNotifier{pub: pub}
}

func (n *brokerNotifier) MessageCreated(ctx context.Context, event MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return n.pub.Publish(ctx, strconv.FormatUint(uint64(event.RecipientID), 10), data)
}

type NopNotifier struct{}

func (NopNotifier) MessageCreated(context.Context, MessageEvent) error { return nil }
