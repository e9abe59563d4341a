package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tush00nka/marketplace_chat/internal/model"
)

type capturePublisher struct {
	key   string
	value []byte
}

func (p *capturePublisher) Publish(_ context.Context, key string, value []byte) error {
	p.key, p.value = key, value
	return nil
}

func TestBrokerNotifierKeysByRecipient(t *testing.T) {
	pub := &capturePublisher{}
	notifier := NewBrokerNotifier(pub)

	long := strings.Repeat("я", 150)
	chat := &model.Chat{ID: 3, SellerID: 1, BuyerID: 2}
	msg := &model.Message{ID: 9, ChatID: 3, SenderID: 2, Content: &long, Images: []model.MessageImage{{Image: "k"}}}

	require.NoError(t, notifier.MessageCreated(context.Background(), NewMessageEvent(chat, msg, chat.Peer(msg.SenderID))))
	assert.Equal(t, "1", pub.key)

	var event MessageEvent
	require.NoError(t, json.Unmarshal(pub.value, &event))
	assert.Equal(t, EventTypeMessageCreated, event.Type)
	assert.EqualValues(t, 9, event.MessageID)
	assert.True(t, event.HasImages)
	assert.False(t, event.HasVoice)
	assert.Equal(t, previewLength+1, len([]rune(event.Preview)))
}
