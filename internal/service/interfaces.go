package service

import (
	"context"
	"io"

	"tush00nka/marketplace_chat/internal/model"
)

type UserService interface {
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

type ChatService interface {
	GetChat(ctx context.Context, chatID uint) (*model.Chat, error)
	Authorize(ctx context.Context, chatID, userID uint) (*model.Chat, error)
	CreateChat(ctx context.Context, actor *model.User, productID uint) (*model.Chat, bool, error)
	ListChats(ctx context.Context, actor *model.User) ([]model.Chat, error)
	DeleteChat(ctx context.Context, actor *model.User, chatID uint) error
}

type MessageService interface {
	Send(ctx context.Context, actor *model.User, chatID uint, in SendInput) (*model.Message, error)
	Reply(ctx context.Context, actor *model.User, chatID, replyToID uint, content string) (*model.Message, error)
	Edit(ctx context.Context, actor *model.User, chatID, messageID uint, content string) (*model.Message, error)
	Delete(ctx context.Context, actor *model.User, chatID, messageID uint) error
	AddReaction(ctx context.Context, actor *model.User, chatID, messageID uint, reaction string) (*model.Message, bool, error)
	RemoveReaction(ctx context.Context, actor *model.User, chatID, messageID uint) (*model.Message, error)
	Get(ctx context.Context, actor *model.User, chatID, messageID uint) (*model.Message, error)
	History(ctx context.Context, actor *model.User, chatID, beforeID uint, limit int) ([]model.Message, error)
	MarkRead(ctx context.Context, actor *model.User, chatID uint) (int64, error)
}

// FileStore keeps message attachments.
type FileStore interface {
	UploadFile(ctx context.Context, file io.Reader, filename, contentType string, userID, chatID uint) (*model.FileMetadata, error)
	PresignURL(ctx context.Context, key string) (string, error)
	DeleteFiles(ctx context.Context, keys ...string) error
}

// Presence answers whether a user currently holds an open chat session.
type Presence interface {
	IsUserActive(ctx context.Context, chatID, userID uint) (bool, error)
}

// Notifier is told about messages whose recipient is not connected.
type Notifier interface {
	MessageCreated(ctx context.Context, event MessageEvent) error
}
