package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceTTL = 30 * time.Minute

// PresenceRepository tracks which users hold an open session in a chat.
// A user may hold several sessions at once, so membership is a per-user
// session counter rather than a plain set.
type PresenceRepository interface {
	AddUserToChat(ctx context.Context, chatID, userID uint) error
	RemoveUserFromChat(ctx context.Context, chatID, userID uint) (int64, error)
	GetChatUsers(ctx context.Context, chatID uint) ([]uint, error)
	IsUserInChat(ctx context.Context, chatID, userID uint) (bool, error)
	GetUserChats(ctx context.Context, userID uint) ([]uint, error)
	ClearChat(ctx context.Context, chatID uint) error
}

type presenceRepository struct {
	rdb *redis.Client
}

func NewPresenceRepository(rdb *redis.Client) PresenceRepository {
	return &presenceRepository{rdb: rdb}
}

// getUserKey returns the hash of user id -> open session count.
func (r *presenceRepository) getUserKey(chatID uint) string {
	return fmt.Sprintf("chat:%d:users_online", chatID)
}

func (r *presenceRepository) getUserChatsKey(userID uint) string {
	return fmt.Sprintf("user:%d:active_chats", userID)
}

func (r *presenceRepository) AddUserToChat(ctx context.Context, chatID, userID uint) error {
	if chatID == 0 || userID == 0 {
		return fmt.Errorf("chatID and userID cannot be zero")
	}

	userKey := r.getUserKey(chatID)
	userChatsKey := r.getUserChatsKey(userID)
	field := strconv.FormatUint(uint64(userID), 10)

	pipe := r.rdb.TxPipeline()
	pipe.HIncrBy(ctx, userKey, field, 1)
	pipe.SAdd(ctx, userChatsKey, chatID)
	pipe.Expire(ctx, userKey, presenceTTL)
	pipe.Expire(ctx, userChatsKey, presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add user to chat: %w", err)
	}

	return nil
}

// RemoveUserFromChat drops one session of the user and returns how many
// users still have a session in the chat.
func (r *presenceRepository) RemoveUserFromChat(ctx context.Context, chatID, userID uint) (int64, error) {
	if chatID == 0 || userID == 0 {
		return 0, fmt.Errorf("chatID and userID cannot be zero")
	}

	userKey := r.getUserKey(chatID)
	field := strconv.FormatUint(uint64(userID), 10)

	left, err := r.rdb.HIncrBy(ctx, userKey, field, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to remove user from chat: %w", err)
	}

	if left <= 0 {
		if err := r.rdb.HDel(ctx, userKey, field).Err(); err != nil {
			return 0, fmt.Errorf("failed to remove user from chat: %w", err)
		}
		if err := r.rdb.SRem(ctx, r.getUserChatsKey(userID), chatID).Err(); err != nil {
			return 0, fmt.Errorf("failed to remove chat from user: %w", err)
		}
	}

	count, err := r.rdb.HLen(ctx, userKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}

	return count, nil
}

func (r *presenceRepository) GetChatUsers(ctx context.Context, chatID uint) ([]uint, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chatID cannot be zero")
	}

	fields, err := r.rdb.HKeys(ctx, r.getUserKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []uint{}, nil
		}
		return nil, fmt.Errorf("failed to get chat users: %w", err)
	}

	return parseIDs(fields), nil
}

func (r *presenceRepository) IsUserInChat(ctx context.Context, chatID, userID uint) (bool, error) {
	if chatID == 0 || userID == 0 {
		return false, fmt.Errorf("chatID and userID cannot be zero")
	}

	n, err := r.rdb.HGet(ctx, r.getUserKey(chatID), strconv.FormatUint(uint64(userID), 10)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check user membership: %w", err)
	}

	return n > 0, nil
}

func (r *presenceRepository) GetUserChats(ctx context.Context, userID uint) ([]uint, error) {
	if userID == 0 {
		return nil, fmt.Errorf("userID cannot be zero")
	}

	members, err := r.rdb.SMembers(ctx, r.getUserChatsKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []uint{}, nil
		}
		return nil, fmt.Errorf("failed to get user chats: %w", err)
	}

	return parseIDs(members), nil
}

func (r *presenceRepository) ClearChat(ctx context.Context, chatID uint) error {
	if chatID == 0 {
		return fmt.Errorf("chatID cannot be zero")
	}

	if err := r.rdb.Del(ctx, r.getUserKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to clear chat presence: %w", err)
	}

	return nil
}

func parseIDs(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
