package ws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"tush00nka/marketplace_chat/internal/service"
)

// Inbound action names.
const (
	ActionCreateChat     = "create_chat"
	ActionSendMessage    = "send_message"
	ActionReplyMessage   = "reply_message"
	ActionEditMessage    = "edit_message"
	ActionDeleteMessage  = "delete_message"
	ActionAddReaction    = "add_reaction"
	ActionRemoveReaction = "remove_reaction"
	ActionSyncMessage    = "sync_message"
)

// Outbound event type and actions.
const (
	EventTypeChatMessage = "chat_message"

	EventNew            = "new"
	EventReply          = "reply"
	EventEdit           = "edit"
	EventDelete         = "delete"
	EventReactionAdd    = "reaction_add"
	EventReactionRemove = "reaction_remove"
	EventChatCreated    = "chat_created"
)

// ProtocolError is a malformed or incomplete frame. Its text goes back to the
// client verbatim and the session stays open.
type ProtocolError string

func (e ProtocolError) Error() string { return string(e) }

const (
	ErrInvalidJSON   ProtocolError = "invalid JSON format"
	ErrMissingAction ProtocolError = "action is required"
	ErrUnknownAction ProtocolError = "unknown action"
)

// ID is an entity id that clients may send as a JSON number or as a numeric
// string. null decodes to zero.
type ID uint

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	n, err := strconv.ParseUint(string(data), 10, 0)
	if err != nil {
		return fmt.Errorf("invalid id %q", data)
	}

	*id = ID(n)
	return nil
}

func (id *ID) ptr() *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := uint(*id)
	return &v
}

// Action is one decoded client request. The set is closed: every
// implementation lives in this file.
type Action interface {
	Name() string
	validate() error
}

type CreateChat struct {
	Product ID `json:"product"`
}

type SendMessage struct {
	Content *string `json:"content"`
	Product *ID     `json:"product"`
	ReplyTo *ID     `json:"reply_to"`
}

type ReplyMessage struct {
	MessageID ID     `json:"message_id"`
	Content   string `json:"content"`
}

type EditMessage struct {
	MessageID ID     `json:"message_id"`
	Content   string `json:"content"`
}

type DeleteMessage struct {
	MessageID ID `json:"message_id"`
}

type AddReaction struct {
	MessageID ID     `json:"message_id"`
	Reaction  string `json:"reaction"`
}

type RemoveReaction struct {
	MessageID ID `json:"message_id"`
}

type SyncMessage struct {
	MessageID ID `json:"message_id"`
}

func (CreateChat) Name() string     { return ActionCreateChat }
func (SendMessage) Name() string    { return ActionSendMessage }
func (ReplyMessage) Name() string   { return ActionReplyMessage }
func (EditMessage) Name() string    { return ActionEditMessage }
func (DeleteMessage) Name() string  { return ActionDeleteMessage }
func (AddReaction) Name() string    { return ActionAddReaction }
func (RemoveReaction) Name() string { return ActionRemoveReaction }
func (SyncMessage) Name() string    { return ActionSyncMessage }

func (a CreateChat) validate() error {
	return required(a.Product, "product")
}

// Empty content is reported by the message service together with the other
// body rules.
func (SendMessage) validate() error { return nil }

func (a ReplyMessage) validate() error {
	if err := required(a.MessageID, "message_id"); err != nil {
		return err
	}
	if a.Content == "" {
		return ProtocolError("content is required")
	}
	return nil
}

func (a EditMessage) validate() error {
	if err := required(a.MessageID, "message_id"); err != nil {
		return err
	}
	if a.Content == "" {
		return ProtocolError("content is required")
	}
	return nil
}

func (a DeleteMessage) validate() error  { return required(a.MessageID, "message_id") }
func (a RemoveReaction) validate() error { return required(a.MessageID, "message_id") }
func (a SyncMessage) validate() error    { return required(a.MessageID, "message_id") }

func (a AddReaction) validate() error {
	if err := required(a.MessageID, "message_id"); err != nil {
		return err
	}
	if a.Reaction == "" {
		return ProtocolError("reaction is required")
	}
	return nil
}

func required(id ID, field string) error {
	if id == 0 {
		return ProtocolError(field + " is required")
	}
	return nil
}

// DecodeAction parses a text frame into its action.
func DecodeAction(frame []byte) (Action, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(frame, &envelope); err != nil || envelope == nil {
		return nil, ErrInvalidJSON
	}

	raw, ok := envelope["action"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrMissingAction
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return nil, ProtocolError("action must be a string")
	}
	if name == "" {
		return nil, ErrMissingAction
	}

	switch name {
	case ActionCreateChat:
		return decodeAs[CreateChat](frame)
	case ActionSendMessage:
		return decodeAs[SendMessage](frame)
	case ActionReplyMessage:
		return decodeAs[ReplyMessage](frame)
	case ActionEditMessage:
		return decodeAs[EditMessage](frame)
	case ActionDeleteMessage:
		return decodeAs[DeleteMessage](frame)
	case ActionAddReaction:
		return decodeAs[AddReaction](frame)
	case ActionRemoveReaction:
		return decodeAs[RemoveReaction](frame)
	case ActionSyncMessage:
		return decodeAs[SyncMessage](frame)
	default:
		return nil, ErrUnknownAction
	}
}

func decodeAs[T Action](frame []byte) (Action, error) {
	var action T
	if err := json.Unmarshal(frame, &action); err != nil {
		return nil, ProtocolError("invalid payload for " + action.Name())
	}
	if err := action.validate(); err != nil {
		return nil, err
	}
	return action, nil
}

// Event is an outbound chat_message frame.
type Event struct {
	Type      string               `json:"type"`
	Action    string               `json:"action"`
	Message   *service.MessageView `json:"message,omitempty"`
	MessageID uint                 `json:"message_id,omitempty"`
	ChatID    uint                 `json:"chat_id,omitempty"`
}

func MessageEvent(action string, message service.MessageView) Event {
	return Event{Type: EventTypeChatMessage, Action: action, Message: &message}
}

func DeletedEvent(messageID uint) Event {
	return Event{Type: EventTypeChatMessage, Action: EventDelete, MessageID: messageID}
}

func ChatCreatedEvent(chatID uint) Event {
	return Event{Type: EventTypeChatMessage, Action: EventChatCreated, ChatID: chatID}
}

// ErrorEvent is sent to the requesting session only.
type ErrorEvent struct {
	Error string `json:"error"`
}

func serviceSendInput(a SendMessage) service.SendInput {
	return service.SendInput{
		Content:   a.Content,
		ProductID: a.Product.ptr(),
		ReplyToID: a.ReplyTo.ptr(),
	}
}
