package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"tush00nka/marketplace_chat/internal/repository"
	"tush00nka/marketplace_chat/internal/service"
)

const internalErrorMessage = "internal server error"

// HandlerDeps are the collaborators of the chat WebSocket endpoint. Limiter
// and Hooks are optional.
type HandlerDeps struct {
	Hub        *Hub
	Upgrader   *websocket.Upgrader
	Auth       *Authenticator
	Chats      service.ChatService
	Messages   service.MessageService
	Serializer *service.Serializer
	Limiter    repository.RateLimiter
	Hooks      SessionHooks
}

// Handler serves /ws/chat/{chat_id}.
type Handler struct {
	hub        *Hub
	upgrader   *websocket.Upgrader
	auth       *Authenticator
	chats      service.ChatService
	messages   service.MessageService
	serializer *service.Serializer
	limiter    repository.RateLimiter
	hooks      SessionHooks
}

func NewHandler(deps HandlerDeps) *Handler {
	upgrader := deps.Upgrader
	if upgrader == nil {
		upgrader = NewUpgrader(nil, true)
	}

	return &Handler{
		hub:        deps.Hub,
		upgrader:   upgrader,
		auth:       deps.Auth,
		chats:      deps.Chats,
		messages:   deps.Messages,
		serializer: deps.Serializer,
		limiter:    deps.Limiter,
		hooks:      deps.Hooks,
	}
}

// ServeWS godoc
// @Summary      Open a chat WebSocket session
// @Description  Upgrades to a WebSocket bound to one chat. Refused sessions are closed with 4001 (unauthenticated), 4003 (not a participant) or 1011 (server error).
// @Tags         websocket
// @Param        chat_id  path   int     true  "Chat ID"
// @Param        token    query  string  true  "JWT access token"
// @Success      101
// @Router       /ws/chat/{chat_id} [get]
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseUint(mux.Vars(r)["chat_id"], 10, 0)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	// Data access outlives the request context once the connection is hijacked.
	ctx := context.WithoutCancel(r.Context())

	user := h.auth.Authenticate(ctx, r.URL.RawQuery)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	session := NewSession(uint(chatID), user)

	rejection, err := session.Authorize(ctx, h.chats)
	if err != nil {
		log.Printf("ws: authorization for chat %d failed: %v", chatID, err)
	}
	if rejection != nil {
		h.hub.Metrics().Rejections.Inc()
		reject(conn, rejection)
		session.Close(ctx)
		return
	}

	client := NewClient(ctx, conn, user.ID, session.ChatID(), h.hub.Metrics())
	if err := session.Open(ctx, h.hub, client, h.hooks); err != nil {
		log.Printf("ws: failed to open session: %v", err)
		reject(conn, &Rejection{Code: CloseInternalError, Reason: internalErrorMessage})
		return
	}
	defer session.Close(ctx)

	go func() {
		if err := client.WritePump(); err != nil {
			log.Printf("ws: write error for user %d in chat %d: %v", client.UserID, client.ChatID, err)
		}
	}()

	client.ReadPump(func(frame []byte) {
		h.Dispatch(ctx, session, frame)
	})
}

func reject(conn *websocket.Conn, rejection *Rejection) {
	msg := websocket.FormatCloseMessage(rejection.Code, rejection.Reason)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		log.Printf("ws: failed to send close frame %d: %v", rejection.Code, err)
	}
	conn.Close()
}

// Dispatch handles one inbound frame. Every failure is reported to the
// requesting session as an error event; none of them closes the session.
func (h *Handler) Dispatch(ctx context.Context, session *Session, frame []byte) {
	defer func() {
		if p := recover(); p != nil {
			h.hub.Metrics().Errors.Inc()
			log.Printf("ws: panic handling frame in chat %d: %v\n%s", session.ChatID(), p, debug.Stack())
			session.SendError(internalErrorMessage)
		}
	}()

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(ctx, fmt.Sprintf("ws:%d", session.User().ID))
		if err != nil {
			log.Printf("ws: rate limiter failed: %v", err)
		} else if !allowed {
			session.SendError("rate limit exceeded")
			return
		}
	}

	action, err := DecodeAction(frame)
	if err != nil {
		h.reportError(session, err)
		return
	}

	if err := h.handle(ctx, session, action); err != nil {
		h.reportError(session, err)
	}
}

func (h *Handler) reportError(session *Session, err error) {
	var protocolErr ProtocolError
	if errors.As(err, &protocolErr) || service.IsUserError(err) {
		session.SendError(err.Error())
		return
	}

	h.hub.Metrics().Errors.Inc()
	log.Printf("ws: action failed for user %d in chat %d: %v", session.User().ID, session.ChatID(), err)
	session.SendError(internalErrorMessage)
}
