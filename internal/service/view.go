package service

import (
	"context"
	"log"
	"time"

	"tush00nka/marketplace_chat/internal/model"
)

// Wire shapes shared by the WebSocket protocol and the REST API.

type ProfileView struct {
	ProfileImage *string `json:"profile_image"`
	Bio          *string `json:"bio"`
	PhoneNumber  *string `json:"phone_number"`
	Address      *string `json:"address"`
}

type UserView struct {
	ID        uint         `json:"id"`
	Email     string       `json:"email"`
	FirstName *string      `json:"first_name"`
	Profile   *ProfileView `json:"profile"`
}

type ImageView struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

type ReactionView struct {
	ID        uint      `json:"id"`
	Message   uint      `json:"message"`
	User      UserView  `json:"user"`
	Reaction  string    `json:"reaction"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageView struct {
	ID        uint           `json:"id"`
	Chat      uint           `json:"chat"`
	Sender    UserView       `json:"sender"`
	Content   *string        `json:"content"`
	Product   *uint          `json:"product"`
	Images    []ImageView    `json:"images"`
	Voice     *string        `json:"voice"`
	ReplyTo   *uint          `json:"reply_to"`
	Reactions []ReactionView `json:"reactions"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	IsRead    bool           `json:"is_read"`
	IsEdited  bool           `json:"is_edited"`
}

type ChatView struct {
	ID        uint      `json:"id"`
	Product   *uint     `json:"product"`
	Seller    UserView  `json:"seller"`
	Buyer     UserView  `json:"buyer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Serializer renders models into their wire shapes. Attachment keys become
// presigned URLs when a FileStore is configured. The output does not depend on
// who asks for it, so one rendering can be broadcast to every session.
type Serializer struct {
	files FileStore
}

func NewSerializer(files FileStore) *Serializer {
	return &Serializer{files: files}
}

func (s *Serializer) url(ctx context.Context, key string) string {
	if s.files == nil || key == "" {
		return key
	}

	u, err := s.files.PresignURL(ctx, key)
	if err != nil {
		log.Printf("serializer: failed to presign %q: %v", key, err)
		return key
	}
	return u
}

func (s *Serializer) User(u *model.User) UserView {
	view := UserView{ID: u.ID, Email: u.Email, FirstName: u.FirstName}
	if u.Profile != nil {
		view.Profile = &ProfileView{
			ProfileImage: u.Profile.ProfileImage,
			Bio:          u.Profile.Bio,
			PhoneNumber:  u.Profile.PhoneNumber,
			Address:      u.Profile.Address,
		}
	}
	return view
}

func (s *Serializer) Message(ctx context.Context, m *model.Message) MessageView {
	view := MessageView{
		ID:        m.ID,
		Chat:      m.ChatID,
		Sender:    s.User(&m.Sender),
		Content:   m.Content,
		Product:   m.ProductID,
		Images:    make([]ImageView, 0, len(m.Images)),
		ReplyTo:   m.ReplyToID,
		Reactions: make([]ReactionView, 0, len(m.Reactions)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		IsRead:    m.IsRead,
		IsEdited:  m.IsEdited,
	}

	for _, img := range m.Images {
		view.Images = append(view.Images, ImageView{ID: img.ID, Image: s.url(ctx, img.Image)})
	}

	if m.Voice != nil && *m.Voice != "" {
		voice := s.url(ctx, *m.Voice)
		view.Voice = &voice
	}

	for i := range m.Reactions {
		r := &m.Reactions[i]
		view.Reactions = append(view.Reactions, ReactionView{
			ID:        r.ID,
			Message:   r.MessageID,
			User:      s.User(&r.User),
			Reaction:  r.Reaction,
			CreatedAt: r.CreatedAt,
		})
	}

	return view
}

func (s *Serializer) Messages(ctx context.Context, messages []model.Message) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, s.Message(ctx, &messages[i]))
	}
	return views
}

func (s *Serializer) Chat(c *model.Chat) ChatView {
	return ChatView{
		ID:        c.ID,
		Product:   c.ProductID,
		Seller:    s.participant(&c.Seller, c.SellerID),
		Buyer:     s.participant(&c.Buyer, c.BuyerID),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// participant falls back to the bare id when the user was not loaded.
func (s *Serializer) participant(u *model.User, id uint) UserView {
	if u.ID == 0 {
		return UserView{ID: id}
	}
	return s.User(u)
}
