package model

import "time"

type Message struct {
	ID        uint    `gorm:"primaryKey"`
	ChatID    uint    `gorm:"not null;index"`
	SenderID  uint    `gorm:"not null;index"`
	Content   *string `gorm:"type:text"`
	ProductID *uint
	Voice     *string
	ReplyToID *uint `gorm:"index"`
	IsRead    bool  `gorm:"not null;default:false"`
	IsEdited  bool  `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Sender    User           `gorm:"foreignKey:SenderID"`
	Images    []MessageImage `gorm:"constraint:OnDelete:CASCADE"`
	Reactions []Reaction     `gorm:"constraint:OnDelete:CASCADE"`
}

// HasBody reports whether the message carries text, an image or a voice note.
func (m *Message) HasBody() bool {
	return (m.Content != nil && *m.Content != "") || len(m.Images) > 0 || (m.Voice != nil && *m.Voice != "")
}

// ObjectKeys lists every attachment key stored for the message.
func (m *Message) ObjectKeys() []string {
	keys := make([]string, 0, len(m.Images)+1)
	for _, img := range m.Images {
		keys = append(keys, img.Image)
	}
	if m.Voice != nil && *m.Voice != "" {
		keys = append(keys, *m.Voice)
	}
	return keys
}

// ReactionBy returns userID's reaction when the reactions are loaded.
func (m *Message) ReactionBy(userID uint) *Reaction {
	for i := range m.Reactions {
		if m.Reactions[i].UserID == userID {
			return &m.Reactions[i]
		}
	}
	return nil
}

type MessageImage struct {
	ID        uint   `gorm:"primaryKey"`
	MessageID uint   `gorm:"not null;index"`
	Image     string `gorm:"not null"`
}
