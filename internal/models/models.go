package models

import (
	"time"
)

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
	Slug string `gorm:"unique;not null"          json:"slug"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint      `gorm:"index;not null"           json:"category_id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Slug        string    `gorm:"unique;not null"          json:"slug"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Available   bool      `gorm:"index;default:true"       json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

// Session backs the per-visitor cart. UserID stays nil until the visitor
// logs in; Cart holds the serialized line items.
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index"      json:"user_id,omitempty"`
	Cart      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName  string    `gorm:"not null"                 json:"full_name"`
	Email     string    `gorm:"not null"                 json:"email"`
	Paid      bool      `gorm:"default:false"            json:"paid"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem snapshots one cart line at checkout time. ProductID is a weak
// reference: the product may be deleted later without touching the order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID   uint    `gorm:"index;not null"            json:"order_id"`
	ProductID uint    `gorm:"not null"                  json:"product_id"`
	Price     float64 `gorm:"not null"                  json:"price"`
	Quantity  uint    `gorm:"not null;check:quantity>0" json:"quantity"`
}
