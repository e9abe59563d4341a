package repository

import (
	"context"

	"tush00nka/marketplace_chat/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository interface {
	Upsert(ctx context.Context, reaction *model.Reaction) error
	Delete(ctx context.Context, messageID, userID uint) (bool, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Upsert inserts the reaction or, when the user already reacted to the
// message, overwrites the stored symbol in place.
func (r *reactionRepository) Upsert(ctx context.Context, reaction *model.Reaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reaction"}),
		}).
		Create(reaction).Error
}

func (r *reactionRepository) Delete(ctx context.Context, messageID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Delete(&model.Reaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
