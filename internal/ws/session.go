package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"tush00nka/marketplace_chat/internal/model"
	"tush00nka/marketplace_chat/internal/service"
)

// Close codes sent when a connection is refused.
const (
	CloseUnauthenticated = 4001
	CloseNotParticipant  = 4003
	CloseInternalError   = websocket.CloseInternalServerErr
)

type State int

const (
	StateConnecting State = iota
	StateAuthorizing
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthorizing:
		return "authorizing"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	StateConnecting:  {StateAuthorizing, StateClosed},
	StateAuthorizing: {StateOpen, StateClosed},
	StateOpen:        {StateClosed},
}

// Rejection is the close code and reason a refused connection receives.
type Rejection struct {
	Code   int
	Reason string
}

// SessionHooks are called as a session joins and leaves its chat.
type SessionHooks interface {
	UserJoined(ctx context.Context, chatID, userID uint) error
	UserLeft(ctx context.Context, chatID, userID uint) error
}

// Session is the per-connection state: the authenticated user, the chat it is
// bound to and, once open, its hub client. The user and chat are fixed for
// the session's lifetime.
type Session struct {
	mu     sync.Mutex
	state  State
	chatID uint
	user   *model.User
	client *Client
	hub    *Hub
	hooks  SessionHooks
}

func NewSession(chatID uint, user *model.User) *Session {
	return &Session{state: StateConnecting, chatID: chatID, user: user}
}

func (s *Session) ChatID() uint { return s.chatID }

// User is nil for an anonymous session.
func (s *Session) User() *model.User { return s.user }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) transition(to State) error {
	for _, next := range transitions[s.state] {
		if next == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("invalid session transition %s -> %s", s.state, to)
}

// Authorize checks that the session has a user who participates in the
// chat. A nil Rejection means the session may open.
func (s *Session) Authorize(ctx context.Context, chats service.ChatService) (*Rejection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transition(StateAuthorizing); err != nil {
		return &Rejection{Code: CloseInternalError, Reason: "internal server error"}, err
	}

	if s.user == nil {
		return &Rejection{Code: CloseUnauthenticated, Reason: "authentication required"}, nil
	}

	if _, err := chats.Authorize(ctx, s.chatID, s.user.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) || errors.Is(err, service.ErrValidation) {
			return &Rejection{Code: CloseNotParticipant, Reason: "access denied"}, nil
		}
		return &Rejection{Code: CloseInternalError, Reason: "internal server error"}, err
	}

	return nil, nil
}

// Open registers the client in the chat's broadcast group. Frames are
// processed only after Open returns.
func (s *Session) Open(ctx context.Context, hub *Hub, client *Client, hooks SessionHooks) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transition(StateOpen); err != nil {
		return err
	}

	s.hub = hub
	s.client = client
	s.hooks = hooks
	hub.Join(client)

	if hooks != nil {
		if err := hooks.UserJoined(ctx, s.chatID, s.user.ID); err != nil {
			log.Printf("ws: join hook for user %d in chat %d: %v", s.user.ID, s.chatID, err)
		}
	}

	return nil
}

// Close leaves the broadcast group. It is safe to call from any state and
// more than once.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}

	wasOpen := s.state == StateOpen
	s.state = StateClosed

	if !wasOpen {
		return
	}

	s.hub.Leave(s.client)
	s.client.Close()

	if s.hooks != nil {
		if err := s.hooks.UserLeft(ctx, s.chatID, s.user.ID); err != nil {
			log.Printf("ws: leave hook for user %d in chat %d: %v", s.user.ID, s.chatID, err)
		}
	}
}

// Send queues ev for this session only.
func (s *Session) Send(ev any) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client != nil {
		client.SendJSON(ev)
	}
}

func (s *Session) SendError(msg string) {
	s.Send(ErrorEvent{Error: msg})
}
