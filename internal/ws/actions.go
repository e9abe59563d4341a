package ws

import (
	"context"
	"fmt"
)

// handle runs one action for the session's user in the session's chat.
// Every result goes to the chat's whole broadcast group except chat_created,
// which answers the requester only.
func (h *Handler) handle(ctx context.Context, session *Session, action Action) error {
	actor := session.User()
	chatID := session.ChatID()

	switch a := action.(type) {
	case CreateChat:
		chat, _, err := h.chats.CreateChat(ctx, actor, uint(a.Product))
		if err != nil {
			return err
		}
		session.Send(ChatCreatedEvent(chat.ID))

	case SendMessage:
		msg, err := h.messages.Send(ctx, actor, chatID, serviceSendInput(a))
		if err != nil {
			return err
		}
		h.hub.Broadcast(chatID, MessageEvent(EventNew, h.serializer.Message(ctx, msg)))

	case ReplyMessage:
		msg, err := h.messages.Reply(ctx, actor, chatID, uint(a.MessageID), a.Content)
		if err != nil {
			return err
		}
		h.hub.Broadcast(chatID, MessageEvent(EventReply, h.serializer.Message(ctx, msg)))

	case EditMessage:
		msg, err := h.messages.Edit(ctx, actor, chatID, uint(a.MessageID), a.Content)
		if err != nil {
			return err
		}
		h.hub.Broadcast(chatID, MessageEvent(EventEdit, h.serializer.Message(ctx, msg)))

	case DeleteMessage:
		if err := h.messages.Delete(ctx, actor, chatID, uint(a.MessageID)); err != nil {
			return err
		}
		h.hub.Broadcast(chatID, DeletedEvent(uint(a.MessageID)))

	case AddReaction:
		msg, _, err := h.messages.AddReaction(ctx, actor, chatID, uint(a.MessageID), a.Reaction)
		if err != nil {
			return err
		}
		h.hub.Broadcast(chatID, MessageEvent(EventReactionAdd, h.serializer.Message(ctx, msg)))

	case RemoveReaction:
		msg, err := h.messages.RemoveReaction(ctx, actor, chatID, uint(a.MessageID))
		if err != nil {
			return err
		}
		h.hub.Broadcast(chatID, MessageEvent(EventReactionRemove, h.serializer.Message(ctx, msg)))

	case SyncMessage:
		msg, err := h.messages.Get(ctx, actor, chatID, uint(a.MessageID))
		if err != nil {
			return err
		}
		h.hub.Broadcast(chatID, MessageEvent(EventNew, h.serializer.Message(ctx, msg)))

	default:
		return fmt.Errorf("unhandled action %T", action)
	}

	return nil
}
