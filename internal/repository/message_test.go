package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tush00nka/marketplace_chat/internal/model"
)

func TestMessageGetInChatScopesByChat(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seller := createUser(t, db, "seller@example.com")
	buyer := createUser(t, db, "buyer@example.com")
	other := createUser(t, db, "other@example.com")
	chat := createChat(t, db, seller, buyer)
	otherChat := createChat(t, db, seller, other)

	msg := createMessage(t, db, chat, buyer, "hello")

	got, err := repo.GetInChat(ctx, chat.ID, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", *got.Content)
	assert.Equal(t, buyer.Email, got.Sender.Email)

	_, err = repo.GetInChat(ctx, otherChat.ID, msg.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMessageDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seller := createUser(t, db, "seller@example.com")
	buyer := createUser(t, db, "buyer@example.com")
	chat := createChat(t, db, seller, buyer)

	question, voice := "question", "chats/1/voice/note.ogg"
	original := &model.Message{
		ChatID:   chat.ID,
		SenderID: buyer.ID,
		Content:  &question,
		Voice:    &voice,
		Images:   []model.MessageImage{{Image: "chats/1/a.png"}, {Image: "chats/1/b.png"}},
	}
	require.NoError(t, repo.Create(ctx, original))
	kept := &model.Message{ChatID: chat.ID, SenderID: seller.ID, Images: []model.MessageImage{{Image: "chats/1/kept.png"}}}
	require.NoError(t, repo.Create(ctx, kept))

	answer := "answer"
	reply := &model.Message{ChatID: chat.ID, SenderID: seller.ID, Content: &answer, ReplyToID: &original.ID}
	require.NoError(t, repo.Create(ctx, reply))
	require.NoError(t, NewReactionRepository(db).Upsert(ctx, &model.Reaction{MessageID: original.ID, UserID: seller.ID, Reaction: "❤️"}))

	loaded, err := repo.GetInChat(ctx, chat.ID, original.ID)
	require.NoError(t, err)
	keys, err := repo.Delete(ctx, loaded)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"chats/1/a.png", "chats/1/b.png", voice}, keys)

	var images []model.MessageImage
	require.NoError(t, db.Find(&images).Error)
	require.Len(t, images, 1)
	assert.Equal(t, kept.ID, images[0].MessageID)

	got, err := repo.GetInChat(ctx, chat.ID, reply.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReplyToID)

	var reactions int64
	require.NoError(t, db.Model(&model.Reaction{}).Count(&reactions).Error)
	assert.Zero(t, reactions)

	_, err = repo.Delete(ctx, loaded)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMessageListPages(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seller := createUser(t, db, "seller@example.com")
	buyer := createUser(t, db, "buyer@example.com")
	chat := createChat(t, db, seller, buyer)

	var ids []uint
	for _, text := range []string{"one", "two", "three", "four"} {
		ids = append(ids, createMessage(t, db, chat, buyer, text).ID)
	}

	page, err := repo.List(ctx, chat.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	page, err = repo.List(ctx, chat.ID, ids[2], 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[0].ID)
}

func TestMessageMarkRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	seller := createUser(t, db, "seller@example.com")
	buyer := createUser(t, db, "buyer@example.com")
	chat := createChat(t, db, seller, buyer)

	createMessage(t, db, chat, buyer, "one")
	createMessage(t, db, chat, buyer, "two")
	createMessage(t, db, chat, seller, "three")

	n, err := repo.MarkRead(ctx, chat.ID, seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.MarkRead(ctx, chat.ID, seller.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReactionUpsertOverwrites(t *testing.T) {
	db := newTestDB(t)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	seller := createUser(t, db, "seller@example.com")
	buyer := createUser(t, db, "buyer@example.com")
	chat := createChat(t, db, seller, buyer)
	msg := createMessage(t, db, chat, buyer, "hi")

	require.NoError(t, reactions.Upsert(ctx, &model.Reaction{MessageID: msg.ID, UserID: seller.ID, Reaction: "👍"}))
	require.NoError(t, reactions.Upsert(ctx, &model.Reaction{MessageID: msg.ID, UserID: seller.ID, Reaction: "❤️"}))

	var stored []model.Reaction
	require.NoError(t, db.Where("message_id = ?", msg.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "❤️", stored[0].Reaction)

	removed, err := reactions.Delete(ctx, msg.ID, seller.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = reactions.Delete(ctx, msg.ID, seller.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
