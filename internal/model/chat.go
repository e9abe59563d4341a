package model

import "time"

// Chat is a conversation between the seller of a product and one buyer.
// A (seller, buyer) pair owns at most one chat.
type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID *uint     `json:"product"`
	SellerID  uint      `gorm:"not null;uniqueIndex:idx_chat_pair" json:"seller_id"`
	BuyerID   uint      `gorm:"not null;uniqueIndex:idx_chat_pair" json:"buyer_id"`
	Seller    User      `gorm:"foreignKey:SellerID" json:"-"`
	Buyer     User      `gorm:"foreignKey:BuyerID" json:"-"`
	Messages  []Message `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasParticipant reports whether userID is the seller or the buyer.
func (c *Chat) HasParticipant(userID uint) bool {
	return userID != 0 && (c.SellerID == userID || c.BuyerID == userID)
}

// Peer returns the other participant of the chat.
func (c *Chat) Peer(userID uint) uint {
	if c.SellerID == userID {
		return c.BuyerID
	}
	return c.SellerID
}
