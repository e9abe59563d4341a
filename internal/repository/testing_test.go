package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tush00nka/marketplace_chat/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserProfile{}, &model.Product{}))
	require.NoError(t, AutoMigrate(db))

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createChat(t *testing.T, db *gorm.DB, seller, buyer *model.User) *model.Chat {
	t.Helper()

	chat := &model.Chat{SellerID: seller.ID, BuyerID: buyer.ID}
	_, err := NewChatRepository(db).GetOrCreate(context.Background(), chat)
	require.NoError(t, err)
	return chat
}

func createMessage(t *testing.T, db *gorm.DB, chat *model.Chat, sender *model.User, text string) *model.Message {
	t.Helper()

	msg := &model.Message{ChatID: chat.ID, SenderID: sender.ID, Content: &text}
	require.NoError(t, NewMessageRepository(db).Create(context.Background(), msg))
	return msg
}
