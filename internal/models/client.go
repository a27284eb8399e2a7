package models

import "time"

type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:150;not null" json:"name"`
	Phone   string `gorm:"size:30" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	// deleting a user or city that still has clients is refused
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	CityID *uint `gorm:"index" json:"city_id"`
	City   *City `gorm:"constraint:OnDelete:RESTRICT" json:"city,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
