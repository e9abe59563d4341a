package service

import (
	"context"
	"log"

	"tush00nka/marketplace_chat/internal/repository"
)

// PresenceService records which users have a chat open, shared across
// server instances through Redis.
type PresenceService struct {
	repo repository.PresenceRepository
}

func NewPresenceService(repo repository.PresenceRepository) *PresenceService {
	return &PresenceService{repo: repo}
}

func (s *PresenceService) UserJoined(ctx context.Context, chatID, userID uint) error {
	if chatID == 0 || userID == 0 {
		return nil
	}

	if err := s.repo.AddUserToChat(ctx, chatID, userID); err != nil {
		log.Printf("presence: failed to add user %d to chat %d: %v", userID, chatID, err)
		return err
	}

	return nil
}

func (s *PresenceService) UserLeft(ctx context.Context, chatID, userID uint) error {
	if chatID == 0 || userID == 0 {
		return nil
	}

	count, err := s.repo.RemoveUserFromChat(ctx, chatID, userID)
	if err != nil {
		log.Printf("presence: failed to remove user %d from chat %d: %v", userID, chatID, err)
		return err
	}

	if count == 0 {
		if err := s.repo.ClearChat(ctx, chatID); err != nil {
			log.Printf("presence: failed to clear chat %d: %v", chatID, err)
			return err
		}
	}

	return nil
}

func (s *PresenceService) IsUserActive(ctx context.Context, chatID, userID uint) (bool, error) {
	if chatID == 0 || userID == 0 {
		return false, nil
	}

	return s.repo.IsUserInChat(ctx, chatID, userID)
}

func (s *PresenceService) GetActiveUsers(ctx context.Context, chatID uint) ([]uint, error) {
	if chatID == 0 {
		return nil, nil
	}

	return s.repo.GetChatUsers(ctx, chatID)
}
