package repository

import (
	"context"

	"tush00nka/marketplace_chat/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	GetByID(ctx context.Context, chatID uint) (*model.Chat, error)
	GetOrCreate(ctx context.Context, chat *model.Chat) (bool, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Chat, error)
	Delete(ctx context.Context, chatID uint) ([]string, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// withParticipants preloads the seller and buyer summaries of a chat.
func withParticipants(db *gorm.DB) *gorm.DB {
	return db.Preload("Seller.Profile").Preload("Buyer.Profile")
}

func (r *chatRepository) GetByID(ctx context.Context, chatID uint) (*model.Chat, error) {
	var chat model.Chat
	if err := withParticipants(r.db.WithContext(ctx)).First(&chat, chatID).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetOrCreate inserts chat unless the (seller, buyer) pair already owns one.
// Either way chat is overwritten with the stored row and its participants.
// The unique index decides the race between concurrent callers.
func (r *chatRepository) GetOrCreate(ctx context.Context, chat *model.Chat) (bool, error) {
	db := r.db.WithContext(ctx)

	res := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seller_id"}, {Name: "buyer_id"}},
			DoNothing: true,
		}).
		Create(chat)
	if res.Error != nil {
		return false, res.Error
	}
	created := res.RowsAffected == 1 && chat.ID != 0

	var stored model.Chat
	err := withParticipants(db).Where("seller_id = ? AND buyer_id = ?", chat.SellerID, chat.BuyerID).
		First(&stored).Error
	if err != nil {
		return false, err
	}
	*chat = stored
	return created, nil
}

func (r *chatRepository) ListForUser(ctx context.Context, userID uint) ([]model.Chat, error) {
	var chats []model.Chat
	err := withParticipants(r.db.WithContext(ctx)).
		Where("seller_id = ? OR buyer_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// Delete removes the chat with its messages, images and reactions in one
// transaction and returns the attachment keys that were referenced.
func (r *chatRepository) Delete(ctx context.Context, chatID uint) ([]string, error) {
	var keys []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat model.Chat
		if err := tx.Select("id").First(&chat, chatID).Error; err != nil {
			return err
		}

		messageIDs := tx.Model(&model.Message{}).Select("id").Where("chat_id = ?", chatID)

		var images []string
		if err := tx.Model(&model.MessageImage{}).
			Where("message_id IN (?)", messageIDs).
			Pluck("image", &images).Error; err != nil {
			return err
		}
		var voices []string
		if err := tx.Model(&model.Message{}).
			Where("chat_id = ? AND voice IS NOT NULL AND voice <> ''", chatID).
			Pluck("voice", &voices).Error; err != nil {
			return err
		}
		keys = append(images, voices...)

		if err := tx.Where("message_id IN (?)", messageIDs).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("message_id IN (?)", messageIDs).Delete(&model.MessageImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chat{}, chatID).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
