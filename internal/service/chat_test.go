package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tush00nka/marketplace_chat/internal/model"
)

func TestCreateChatDerivesSellerFromProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chat, created, err := f.chats.CreateChat(ctx, f.buyer, f.product.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, f.seller.ID, chat.SellerID)
	assert.Equal(t, f.buyer.ID, chat.BuyerID)

	again, created, err := f.chats.CreateChat(ctx, f.buyer, f.product.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, chat.ID, again.ID)
}

func TestCreateChatRejectsSelfChat(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.chats.CreateChat(context.Background(), f.seller, f.product.ID)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "you cannot start a chat with yourself")

	var count int64
	require.NoError(t, f.db.Model(&model.Chat{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateChatUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.chats.CreateChat(context.Background(), f.buyer, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	chat := f.chat(t)
	ctx := context.Background()

	_, err := f.chats.Authorize(ctx, chat.ID, f.seller.ID)
	assert.NoError(t, err)

	_, err = f.chats.Authorize(ctx, chat.ID, f.other.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.chats.Authorize(ctx, chat.ID+100, f.buyer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteChatRemovesAttachments(t *testing.T) {
	f := newFixture(t)
	chat := f.chat(t)
	ctx := context.Background()

	_, err := f.messages.Send(ctx, f.buyer, chat.ID, SendInput{Images: []string{"chats/1/a/pic.png"}})
	require.NoError(t, err)

	assert.ErrorIs(t, f.chats.DeleteChat(ctx, f.other, chat.ID), ErrForbidden)

	require.NoError(t, f.chats.DeleteChat(ctx, f.seller, chat.ID))
	assert.Equal(t, []string{"chats/1/a/pic.png"}, f.files.deleted)

	_, err = f.chats.GetChat(ctx, chat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByIDRejectsInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.GetUserByID(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.buyer.Email, user.Email)

	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", f.other.ID).Update("is_active", false).Error)
	_, err = f.users.GetUserByID(ctx, f.other.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.users.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
