package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"tush00nka/marketplace_chat/internal/model"
	"tush00nka/marketplace_chat/internal/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	previewLength       = 100
)

// SendInput is a new message as submitted by a client.
type SendInput struct {
	Content   *string
	ProductID *uint
	ReplyToID *uint
	Images    []string
	Voice     *string
}

type messageService struct {
	chats       ChatService
	messageRepo repository.MessageRepository
	reactRepo   repository.ReactionRepository
	productRepo repository.ProductRepository
	files       FileStore
	presence    Presence
	notifier    Notifier
}

type MessageServiceDeps struct {
	Chats     ChatService
	Messages  repository.MessageRepository
	Reactions repository.ReactionRepository
	Products  repository.ProductRepository
	Files     FileStore
	Presence  Presence
	Notifier  Notifier
}

func NewMessageService(deps MessageServiceDeps) MessageService {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &messageService{
		chats:       deps.Chats,
		messageRepo: deps.Messages,
		reactRepo:   deps.Reactions,
		productRepo: deps.Products,
		files:       deps.Files,
		presence:    deps.Presence,
		notifier:    notifier,
	}
}

func (s *messageService) authorize(ctx context.Context, actor *model.User, chatID uint) (*model.Chat, error) {
	if actor == nil || actor.ID == 0 {
		return nil, forbiddenError("authentication required")
	}
	return s.chats.Authorize(ctx, chatID, actor.ID)
}

func (s *messageService) load(ctx context.Context, chatID, messageID uint) (*model.Message, error) {
	if messageID == 0 {
		return nil, validationError("message_id is required")
	}

	msg, err := s.messageRepo.GetInChat(ctx, chatID, messageID)
	if err != nil {
		return nil, lookupError(err, "message not found")
	}
	return msg, nil
}

// Send creates a message from actor in the chat. A message needs text, at
// least one image, or a voice note.
func (s *messageService) Send(ctx context.Context, actor *model.User, chatID uint, in SendInput) (*model.Message, error) {
	chat, err := s.authorize(ctx, actor, chatID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ChatID:   chat.ID,
		SenderID: actor.ID,
		Content:  normalizeContent(in.Content),
		Voice:    in.Voice,
	}
	for _, key := range in.Images {
		msg.Images = append(msg.Images, model.MessageImage{Image: key})
	}

	if !msg.HasBody() {
		return nil, validationError("message cannot be empty")
	}

	if in.ProductID != nil && *in.ProductID != 0 {
		if _, err := s.productRepo.FindByID(ctx, *in.ProductID); err != nil {
			return nil, lookupError(err, "product not found")
		}
		msg.ProductID = in.ProductID
	}

	if in.ReplyToID != nil && *in.ReplyToID != 0 {
		if _, err := s.messageRepo.GetInChat(ctx, chat.ID, *in.ReplyToID); err != nil {
			return nil, lookupError(err, "reply_to message not found in this chat")
		}
		msg.ReplyToID = in.ReplyToID
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	created, err := s.messageRepo.GetInChat(ctx, chat.ID, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload message: %w", err)
	}

	s.notifyPeer(ctx, chat, created)

	return created, nil
}

func (s *messageService) Reply(ctx context.Context, actor *model.User, chatID, replyToID uint, content string) (*model.Message, error) {
	if replyToID == 0 {
		return nil, validationError("message_id is required")
	}

	return s.Send(ctx, actor, chatID, SendInput{Content: &content, ReplyToID: &replyToID})
}

func (s *messageService) Edit(ctx context.Context, actor *model.User, chatID, messageID uint, content string) (*model.Message, error) {
	if _, err := s.authorize(ctx, actor, chatID); err != nil {
		return nil, err
	}

	text := normalizeContent(&content)
	if text == nil {
		return nil, validationError("content is required")
	}

	msg, err := s.load(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}

	if msg.SenderID != actor.ID {
		return nil, forbiddenError("you can only edit your own messages")
	}

	msg.Content = text
	msg.IsEdited = true
	if err := s.messageRepo.UpdateContent(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	msg.UpdatedAt = time.Now()

	return msg, nil
}

func (s *messageService) Delete(ctx context.Context, actor *model.User, chatID, messageID uint) error {
	if _, err := s.authorize(ctx, actor, chatID); err != nil {
		return err
	}

	msg, err := s.load(ctx, chatID, messageID)
	if err != nil {
		return err
	}

	if msg.SenderID != actor.ID {
		return forbiddenError("you can only delete your own messages")
	}

	keys, err := s.messageRepo.Delete(ctx, msg)
	if err != nil {
		return lookupError(err, "message not found")
	}

	if s.files != nil && len(keys) > 0 {
		if err := s.files.DeleteFiles(ctx, keys...); err != nil {
			log.Printf("message: failed to delete attachments of message %d: %v", msg.ID, err)
		}
	}

	return nil
}

// AddReaction sets actor's reaction on the message, replacing an earlier one.
// It reports whether the reaction is new.
func (s *messageService) AddReaction(ctx context.Context, actor *model.User, chatID, messageID uint, reaction string) (*model.Message, bool, error) {
	if _, err := s.authorize(ctx, actor, chatID); err != nil {
		return nil, false, err
	}

	reaction = strings.TrimSpace(reaction)
	if reaction == "" {
		return nil, false, validationError("reaction is required")
	}
	if utf8.RuneCountInString(reaction) > model.MaxReactionLength {
		return nil, false, validationError("reaction is too long")
	}

	msg, err := s.load(ctx, chatID, messageID)
	if err != nil {
		return nil, false, err
	}

	created := msg.ReactionBy(actor.ID) == nil

	if err := s.reactRepo.Upsert(ctx, &model.Reaction{
		MessageID: msg.ID,
		UserID:    actor.ID,
		Reaction:  reaction,
	}); err != nil {
		return nil, false, fmt.Errorf("failed to save reaction: %w", err)
	}

	msg, err = s.load(ctx, chatID, msg.ID)
	if err != nil {
		return nil, false, err
	}
	return msg, created, nil
}

func (s *messageService) RemoveReaction(ctx context.Context, actor *model.User, chatID, messageID uint) (*model.Message, error) {
	if _, err := s.authorize(ctx, actor, chatID); err != nil {
		return nil, err
	}

	msg, err := s.load(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}

	removed, err := s.reactRepo.Delete(ctx, msg.ID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove reaction: %w", err)
	}
	if !removed {
		return nil, notFoundError("reaction not found")
	}

	return s.load(ctx, chatID, msg.ID)
}

func (s *messageService) Get(ctx context.Context, actor *model.User, chatID, messageID uint) (*model.Message, error) {
	if _, err := s.authorize(ctx, actor, chatID); err != nil {
		return nil, err
	}

	return s.load(ctx, chatID, messageID)
}

func (s *messageService) History(ctx context.Context, actor *model.User, chatID, beforeID uint, limit int) ([]model.Message, error) {
	if _, err := s.authorize(ctx, actor, chatID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	return s.messageRepo.List(ctx, chatID, beforeID, limit)
}

func (s *messageService) MarkRead(ctx context.Context, actor *model.User, chatID uint) (int64, error) {
	if _, err := s.authorize(ctx, actor, chatID); err != nil {
		return 0, err
	}

	return s.messageRepo.MarkRead(ctx, chatID, actor.ID)
}

// notifyPeer publishes a notification when the other participant has no open
// session in the chat. Failures never fail the send.
func (s *messageService) notifyPeer(ctx context.Context, chat *model.Chat, msg *model.Message) {
	recipient := chat.Peer(msg.SenderID)

	if s.presence != nil {
		online, err := s.presence.IsUserActive(ctx, chat.ID, recipient)
		if err != nil {
			log.Printf("message: presence lookup failed for user %d: %v", recipient, err)
		} else if online {
			return
		}
	}

	event := NewMessageEvent(chat, msg, recipient)
	if err := s.notifier.MessageCreated(ctx, event); err != nil {
		log.Printf("message: failed to publish notification for message %d: %v", msg.ID, err)
	}
}

// normalizeContent maps blank text to nil.
func normalizeContent(content *string) *string {
	if content == nil || strings.TrimSpace(*content) == "" {
		return nil
	}
	return content
}

func preview(content *string) string {
	if content == nil {
		return ""
	}
	text := []rune(*content)
	if len(text) > previewLength {
		return string(text[:previewLength]) + "…"
	}
	return string(text)
}
