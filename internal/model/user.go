package model

// User is owned by the accounts service; chat only reads it.
type User struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Email     string       `gorm:"uniqueIndex;not null" json:"email"`
	FirstName *string      `json:"first_name"`
	IsActive  bool         `gorm:"not null;default:true" json:"-"`
	Profile   *UserProfile `gorm:"foreignKey:UserID" json:"profile"`
}

type UserProfile struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	UserID       uint    `gorm:"uniqueIndex;not null" json:"-"`
	ProfileImage *string `json:"profile_image"`
	Bio          *string `json:"bio"`
	PhoneNumber  *string `json:"phone_number"`
	Address      *string `json:"address"`
}
