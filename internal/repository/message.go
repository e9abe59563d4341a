package repository

import (
	"context"
	"slices"

	"tush00nka/marketplace_chat/internal/model"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	GetInChat(ctx context.Context, chatID, messageID uint) (*model.Message, error)
	UpdateContent(ctx context.Context, msg *model.Message) error
	Delete(ctx context.Context, msg *model.Message) ([]string, error)
	List(ctx context.Context, chatID, beforeID uint, limit int) ([]model.Message, error)
	MarkRead(ctx context.Context, chatID, readerID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// withDetails preloads everything the serialized message shape needs.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sender.Profile").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Reactions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Reactions.User.Profile")
}

// Create stores the message together with its images.
func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Omit("Sender", "Reactions").Create(msg).Error
}

func (r *messageRepository) GetInChat(ctx context.Context, chatID, messageID uint) (*model.Message, error) {
	var msg model.Message
	err := withDetails(r.db.WithContext(ctx)).
		Where("id = ? AND chat_id = ?", messageID, chatID).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateContent persists content and the edited flag. There is no version
// check: the last writer wins.
func (r *messageRepository) UpdateContent(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Model(&model.Message{ID: msg.ID}).Updates(map[string]any{
		"content":   msg.Content,
		"is_edited": msg.IsEdited,
	}).Error
}

// Delete removes the message, its images and reactions, and detaches replies
// pointing at it. It returns the attachment keys the message referenced.
func (r *messageRepository) Delete(ctx context.Context, msg *model.Message) ([]string, error) {
	var keys []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored model.Message
		if err := tx.Preload("Images").First(&stored, msg.ID).Error; err != nil {
			return err
		}
		keys = stored.ObjectKeys()

		if err := tx.Where("message_id = ?", msg.ID).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("message_id = ?", msg.ID).Delete(&model.MessageImage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Message{}).
			Where("reply_to_id = ?", msg.ID).
			UpdateColumn("reply_to_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Message{}, msg.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// List returns up to limit messages older than beforeID (all when beforeID is
// zero), oldest first.
func (r *messageRepository) List(ctx context.Context, chatID, beforeID uint, limit int) ([]model.Message, error) {
	q := withDetails(r.db.WithContext(ctx)).Where("chat_id = ?", chatID)
	if beforeID != 0 {
		q = q.Where("id < ?", beforeID)
	}

	var messages []model.Message
	if err := q.Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

// MarkRead flags every message in the chat not sent by readerID as read.
func (r *messageRepository) MarkRead(ctx context.Context, chatID, readerID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}
