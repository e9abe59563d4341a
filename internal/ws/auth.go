package ws

import (
	"context"
	"log"

	"tush00nka/marketplace_chat/internal/model"
	"tush00nka/marketplace_chat/internal/pkg/auth"
	"tush00nka/marketplace_chat/internal/service"
)

// Authenticator resolves the token query parameter of a connection request
// to a user.
type Authenticator struct {
	users service.UserService
}

func NewAuthenticator(users service.UserService) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate returns nil for a missing, invalid or expired token and for a
// user that no longer exists or is inactive.
func (a *Authenticator) Authenticate(ctx context.Context, rawQuery string) *model.User {
	token := auth.TokenFromQuery(rawQuery)
	if token == "" {
		return nil
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil
	}

	user, err := a.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if !service.IsUserError(err) {
			log.Printf("ws: failed to load user %d: %v", claims.UserID, err)
		}
		return nil
	}

	return user
}
