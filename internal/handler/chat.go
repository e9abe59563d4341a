package handler

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"tush00nka/marketplace_chat/internal/model"
	"tush00nka/marketplace_chat/internal/pkg/httputils"
	"tush00nka/marketplace_chat/internal/service"
	"tush00nka/marketplace_chat/internal/ws"
)

const maxUploadSize = 32 << 20

// Broadcaster fans an event out to the live sessions of a chat.
type Broadcaster interface {
	Broadcast(chatID uint, ev any)
}

type ChatHandler struct {
	chats       service.ChatService
	messages    service.MessageService
	files       service.FileStore
	serializer  *service.Serializer
	broadcaster Broadcaster
}

// NewChatHandler creates the REST chat handler. files may be nil when
// attachment storage is not configured.
func NewChatHandler(
	chats service.ChatService,
	messages service.MessageService,
	files service.FileStore,
	serializer *service.Serializer,
	broadcaster Broadcaster,
) *ChatHandler {
	return &ChatHandler{
		chats:       chats,
		messages:    messages,
		files:       files,
		serializer:  serializer,
		broadcaster: broadcaster,
	}
}

// RegisterRoutes mounts the chat routes on an authenticated router.
func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chats", h.listChats).Methods("GET", "OPTIONS")
	router.HandleFunc("/chats", h.createChat).Methods("POST", "OPTIONS")
	router.HandleFunc("/chats/{id:[0-9]+}", h.getChat).Methods("GET", "OPTIONS")
	router.HandleFunc("/chats/{id:[0-9]+}", h.deleteChat).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/chats/{id:[0-9]+}/messages", h.getMessages).Methods("GET", "OPTIONS")
	router.HandleFunc("/chats/{id:[0-9]+}/messages", h.sendMessage).Methods("POST", "OPTIONS")
	router.HandleFunc("/chats/{id:[0-9]+}/messages/read", h.markRead).Methods("POST", "OPTIONS")
	router.HandleFunc("/chats/{id:[0-9]+}/messages/{message_id:[0-9]+}/react", h.addReaction).Methods("POST", "OPTIONS")
	router.HandleFunc("/chats/{id:[0-9]+}/messages/{message_id:[0-9]+}/edit", h.editMessage).Methods("PUT", "OPTIONS")
	router.HandleFunc("/chats/{id:[0-9]+}/messages/{message_id:[0-9]+}/delete", h.deleteMessage).Methods("DELETE", "OPTIONS")
}

type createChatRequest struct {
	Product uint `json:"product"`
}

type markReadResponse struct {
	Updated int64 `json:"updated"`
}

type reactionRequest struct {
	Reaction string `json:"reaction"`
}

type editMessageRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) broadcast(chatID uint, ev ws.Event) {
	if h.broadcaster != nil {
		h.broadcaster.Broadcast(chatID, ev)
	}
}

// @Summary List chats
// @Description Chats where the current user is seller or buyer, most recent first
// @ID list-chats
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ChatView
// @Failure 401 {object} response.ErrorResponse
// @Router /chats [get]
func (h *ChatHandler) listChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.ListChats(r.Context(), CurrentUser(r))
	if err != nil {
		responseServiceError(w, err)
		return
	}

	views := make([]service.ChatView, 0, len(chats))
	for i := range chats {
		views = append(views, h.serializer.Chat(&chats[i]))
	}

	httputils.ResponseJSON(w, http.StatusOK, views)
}

// @Summary Create chat
// @Description Get or create the chat with the owner of a product
// @ID create-chat
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatData body createChatRequest true "Product to ask about"
// @Success 200 {object} service.ChatView
// @Success 201 {object} service.ChatView
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chats [post]
func (h *ChatHandler) createChat(w http.ResponseWriter, r *http.Request) {
	var request createChatRequest
	if err := httputils.DecodeJSON(r, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	chat, created, err := h.chats.CreateChat(r.Context(), CurrentUser(r), request.Product)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputils.ResponseJSON(w, status, h.serializer.Chat(chat))
}

// @Summary Get chat
// @ID get-chat
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Success 200 {object} service.ChatView
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chats/{id} [get]
func (h *ChatHandler) getChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(r, "id")
	if !ok {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	chat, err := h.chats.Authorize(r.Context(), chatID, CurrentUser(r).ID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, h.serializer.Chat(chat))
}

// @Summary Delete chat
// @Description Delete the chat with all its messages and attachments
// @ID delete-chat
// @Tags chats
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Success 204
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chats/{id} [delete]
func (h *ChatHandler) deleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(r, "id")
	if !ok {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	if err := h.chats.DeleteChat(r.Context(), CurrentUser(r), chatID); err != nil {
		responseServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get messages
// @Description Page of chat history, oldest first. Pass the smallest id seen as "before" to load older messages.
// @ID get-messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param before query int false "Only messages with a smaller id"
// @Param limit query int false "Page size, at most 200"
// @Success 200 {array} service.MessageView
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /chats/{id}/messages [get]
func (h *ChatHandler) getMessages(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(r, "id")
	if !ok {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	before, err := queryID(r, "before")
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid before parameter")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			httputils.ResponseError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
	}

	messages, err := h.messages.History(r.Context(), CurrentUser(r), chatID, before, limit)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, h.serializer.Messages(r.Context(), messages))
}

// @Summary Send message
// @Description Send a message with optional image and voice attachments. The message is broadcast to open chat sessions as a "new" event.
// @ID send-message
// @Tags messages
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param content formData string false "Message text"
// @Param reply_to formData int false "Replied-to message ID"
// @Param product formData int false "Referenced product ID"
// @Param images formData file false "Images"
// @Param voice formData file false "Voice note"
// @Success 201 {object} service.MessageView
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /chats/{id}/messages [post]
func (h *ChatHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(r, "id")
	if !ok {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	user := CurrentUser(r)

	// Uploads would be orphaned if the sender turned out not to be a participant.
	if _, err := h.chats.Authorize(r.Context(), chatID, user.ID); err != nil {
		responseServiceError(w, err)
		return
	}

	input, err := h.readSendInput(r, user, chatID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	msg, err := h.messages.Send(r.Context(), user, chatID, input)
	if err != nil {
		h.discardUploads(r.Context(), input)
		responseServiceError(w, err)
		return
	}

	view := h.serializer.Message(r.Context(), msg)
	h.broadcast(chatID, ws.MessageEvent(ws.EventNew, view))

	httputils.ResponseJSON(w, http.StatusCreated, view)
}

func (h *ChatHandler) readSendInput(r *http.Request, user *model.User, chatID uint) (service.SendInput, error) {
	var input service.SendInput

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var body struct {
			Content *string `json:"content"`
			ReplyTo *uint   `json:"reply_to"`
			Product *uint   `json:"product"`
		}
		if err := httputils.DecodeJSON(r, &body); err != nil {
			return input, &service.Error{Kind: service.ErrValidation, Message: "invalid request format"}
		}
		input.Content, input.ReplyToID, input.ProductID = body.Content, body.ReplyTo, body.Product
		return input, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return input, &service.Error{Kind: service.ErrValidation, Message: "invalid multipart form"}
	}

	if content := r.FormValue("content"); content != "" {
		input.Content = &content
	}

	var err error
	if input.ReplyToID, err = formID(r, "reply_to"); err != nil {
		return input, err
	}
	if input.ProductID, err = formID(r, "product"); err != nil {
		return input, err
	}

	images := r.MultipartForm.File["images"]
	voice := r.MultipartForm.File["voice"]
	if (len(images) > 0 || len(voice) > 0) && h.files == nil {
		return input, &service.Error{Kind: service.ErrValidation, Message: "attachments are not supported"}
	}

	for _, fh := range images {
		key, err := h.upload(r.Context(), fh, user.ID, chatID)
		if err != nil {
			h.discardUploads(r.Context(), input)
			return input, err
		}
		input.Images = append(input.Images, key)
	}

	if len(voice) > 0 {
		key, err := h.upload(r.Context(), voice[0], user.ID, chatID)
		if err != nil {
			h.discardUploads(r.Context(), input)
			return input, err
		}
		input.Voice = &key
	}

	return input, nil
}

func (h *ChatHandler) upload(ctx context.Context, fh *multipart.FileHeader, userID, chatID uint) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	meta, err := h.files.UploadFile(ctx, f, fh.Filename, fh.Header.Get("Content-Type"), userID, chatID)
	if err != nil {
		return "", err
	}
	return meta.S3Key, nil
}

func (h *ChatHandler) discardUploads(ctx context.Context, input service.SendInput) {
	if h.files == nil {
		return
	}

	keys := append([]string{}, input.Images...)
	if input.Voice != nil {
		keys = append(keys, *input.Voice)
	}
	if len(keys) == 0 {
		return
	}

	if err := h.files.DeleteFiles(context.WithoutCancel(ctx), keys...); err != nil {
		log.Printf("handler: failed to discard uploads: %v", err)
	}
}

func formID(r *http.Request, name string) (*uint, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return nil, &service.Error{Kind: service.ErrValidation, Message: "invalid " + name}
	}
	v := uint(id)
	return &v, nil
}

// @Summary Mark messages read
// @Description Mark every message from the other participant as read
// @ID mark-read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Success 200 {object} markReadResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /chats/{id}/messages/read [post]
func (h *ChatHandler) markRead(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(r, "id")
	if !ok {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	updated, err := h.messages.MarkRead(r.Context(), CurrentUser(r), chatID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, markReadResponse{Updated: updated})
}

func messagePath(w http.ResponseWriter, r *http.Request) (chatID, messageID uint, ok bool) {
	if chatID, ok = pathID(r, "id"); !ok {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid chat id")
		return 0, 0, false
	}
	if messageID, ok = pathID(r, "message_id"); !ok {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid message id")
		return 0, 0, false
	}
	return chatID, messageID, true
}

// @Summary React to message
// @Description Set the current user's reaction, replacing an earlier one. Broadcast as a "reaction_add" event.
// @ID add-reaction
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param message_id path int true "Message ID"
// @Param reaction body reactionRequest true "Reaction symbol"
// @Success 200 {object} service.MessageView
// @Success 201 {object} service.MessageView
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chats/{id}/messages/{message_id}/react [post]
func (h *ChatHandler) addReaction(w http.ResponseWriter, r *http.Request) {
	chatID, messageID, ok := messagePath(w, r)
	if !ok {
		return
	}

	var request reactionRequest
	if err := httputils.DecodeJSON(r, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	msg, created, err := h.messages.AddReaction(r.Context(), CurrentUser(r), chatID, messageID, request.Reaction)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	view := h.serializer.Message(r.Context(), msg)
	h.broadcast(chatID, ws.MessageEvent(ws.EventReactionAdd, view))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputils.ResponseJSON(w, status, view)
}

// @Summary Edit message
// @Description Replace the text of the current user's own message. Broadcast as an "edit" event.
// @ID edit-message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param message_id path int true "Message ID"
// @Param message body editMessageRequest true "New text"
// @Success 200 {object} service.MessageView
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chats/{id}/messages/{message_id}/edit [put]
func (h *ChatHandler) editMessage(w http.ResponseWriter, r *http.Request) {
	chatID, messageID, ok := messagePath(w, r)
	if !ok {
		return
	}

	var request editMessageRequest
	if err := httputils.DecodeJSON(r, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	msg, err := h.messages.Edit(r.Context(), CurrentUser(r), chatID, messageID, request.Content)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	view := h.serializer.Message(r.Context(), msg)
	h.broadcast(chatID, ws.MessageEvent(ws.EventEdit, view))

	httputils.ResponseJSON(w, http.StatusOK, view)
}

// @Summary Delete message
// @Description Delete the current user's own message with its attachments. Broadcast as a "delete" event.
// @ID delete-message
// @Tags messages
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param message_id path int true "Message ID"
// @Success 204
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chats/{id}/messages/{message_id}/delete [delete]
func (h *ChatHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	chatID, messageID, ok := messagePath(w, r)
	if !ok {
		return
	}

	if err := h.messages.Delete(r.Context(), CurrentUser(r), chatID, messageID); err != nil {
		responseServiceError(w, err)
		return
	}

	h.broadcast(chatID, ws.DeletedEvent(messageID))
	w.WriteHeader(http.StatusNoContent)
}
