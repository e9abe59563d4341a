package model

// Product is owned by the catalog service; chat only needs its owner.
type Product struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;index"`
	Name   string `gorm:"size:100"`
}
