package service

import (
	"context"
	"fmt"
	"log"

	"tush00nka/marketplace_chat/internal/model"
	"tush00nka/marketplace_chat/internal/repository"
)

type chatService struct {
	chatRepo    repository.ChatRepository
	productRepo repository.ProductRepository
	files       FileStore
}

// NewChatService creates a ChatService. files may be nil when attachment
// storage is not configured.
func NewChatService(
	chatRepo repository.ChatRepository,
	productRepo repository.ProductRepository,
	files FileStore,
) ChatService {
	return &chatService{chatRepo: chatRepo, productRepo: productRepo, files: files}
}

func (s *chatService) GetChat(ctx context.Context, chatID uint) (*model.Chat, error) {
	if chatID == 0 {
		return nil, validationError("chat id is required")
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, lookupError(err, "chat not found")
	}
	return chat, nil
}

// Authorize returns the chat when userID is its seller or buyer.
func (s *chatService) Authorize(ctx context.Context, chatID, userID uint) (*model.Chat, error) {
	chat, err := s.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		return nil, forbiddenError("you are not a participant of this chat")
	}
	return chat, nil
}

// CreateChat returns the chat between the product owner and actor, creating
// it on first contact. The product is recorded only when the chat is created.
func (s *chatService) CreateChat(ctx context.Context, actor *model.User, productID uint) (*model.Chat, bool, error) {
	if actor == nil || actor.ID == 0 {
		return nil, false, forbiddenError("authentication required")
	}
	if productID == 0 {
		return nil, false, validationError("product is required")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, false, lookupError(err, "product not found")
	}

	if product.UserID == actor.ID {
		return nil, false, validationError("you cannot start a chat with yourself")
	}

	chat := &model.Chat{
		ProductID: &product.ID,
		SellerID:  product.UserID,
		BuyerID:   actor.ID,
	}

	created, err := s.chatRepo.GetOrCreate(ctx, chat)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create chat: %w", err)
	}

	return chat, created, nil
}

func (s *chatService) ListChats(ctx context.Context, actor *model.User) ([]model.Chat, error) {
	if actor == nil || actor.ID == 0 {
		return nil, forbiddenError("authentication required")
	}

	return s.chatRepo.ListForUser(ctx, actor.ID)
}

// DeleteChat removes the chat and everything in it, then drops the stored
// attachments. Storage failures are logged; the rows are already gone.
func (s *chatService) DeleteChat(ctx context.Context, actor *model.User, chatID uint) error {
	if actor == nil {
		return forbiddenError("authentication required")
	}

	if _, err := s.Authorize(ctx, chatID, actor.ID); err != nil {
		return err
	}

	keys, err := s.chatRepo.Delete(ctx, chatID)
	if err != nil {
		return lookupError(err, "chat not found")
	}

	if s.files != nil && len(keys) > 0 {
		if err := s.files.DeleteFiles(ctx, keys...); err != nil {
			log.Printf("chat: failed to delete attachments of chat %d: %v", chatID, err)
		}
	}

	return nil
}
