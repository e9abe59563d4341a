package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tush00nka/marketplace_chat/internal/model"
	"tush00nka/marketplace_chat/internal/repository"
)

type fakeFiles struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeFiles) UploadFile(_ context.Context, _ io.Reader, filename, contentType string, userID, chatID uint) (*model.FileMetadata, error) {
	return &model.FileMetadata{Filename: filename, ContentType: contentType, S3Key: "chats/x/" + filename, UploadedByUserID: userID, ChatID: chatID}, nil
}

func (f *fakeFiles) PresignURL(_ context.Context, key string) (string, error) {
	return "https://files.example.com/" + key + "?signed", nil
}

func (f *fakeFiles) DeleteFiles(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, keys...)
	return nil
}

type fakePresence struct {
	online map[uint]bool
}

func (p *fakePresence) IsUserActive(_ context.Context, _ uint, userID uint) (bool, error) {
	return p.online[userID], nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []MessageEvent
}

func (n *fakeNotifier) MessageCreated(_ context.Context, event MessageEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

type fixture struct {
	db       *gorm.DB
	users    UserService
	chats    ChatService
	messages MessageService
	files    *fakeFiles
	presence *fakePresence
	notifier *fakeNotifier

	seller  *model.User
	buyer   *model.User
	other   *model.User
	product *model.Product
}

func newFixture(t *testing.T) *fixture {
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
	require.NoError(t, repository.AutoMigrate(db))

	f := &fixture{
		db:       db,
		files:    &fakeFiles{},
		presence: &fakePresence{online: map[uint]bool{}},
		notifier: &fakeNotifier{},
	}

	f.seller = f.createUser(t, "seller@example.com")
	f.buyer = f.createUser(t, "buyer@example.com")
	f.other = f.createUser(t, "other@example.com")
	f.product = &model.Product{UserID: f.seller.ID, Name: "bike"}
	require.NoError(t, db.Create(f.product).Error)

	productRepo := repository.NewProductRepository(db)
	f.users = NewUserService(repository.NewUserRepository(db))
	f.chats = NewChatService(repository.NewChatRepository(db), productRepo, f.files)
	f.messages = NewMessageService(MessageServiceDeps{
		Chats:     f.chats,
		Messages:  repository.NewMessageRepository(db),
		Reactions: repository.NewReactionRepository(db),
		Products:  productRepo,
		Files:     f.files,
		Presence:  f.presence,
		Notifier:  f.notifier,
	})

	return f
}

func (f *fixture) createUser(t *testing.T, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, IsActive: true}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) chat(t *testing.T) *model.Chat {
	t.Helper()

	chat, _, err := f.chats.CreateChat(context.Background(), f.buyer, f.product.ID)
	require.NoError(t, err)
	return chat
}

func (f *fixture) send(t *testing.T, chat *model.Chat, sender *model.User, text string) *model.Message {
	t.Helper()

	msg, err := f.messages.Send(context.Background(), sender, chat.ID, SendInput{Content: &text})
	require.NoError(t, err)
	return msg
}

func strPtr(s string) *string { return &s }
