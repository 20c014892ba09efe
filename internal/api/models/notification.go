package models

import "time"

// Notification type tags. Anything outside this set is stored as-is and
// rendered generically by clients.
const (
	NotificationOrder        = "order"
	NotificationPayment      = "payment"
	NotificationStock        = "stock"
	NotificationSystem       = "system"
	NotificationStatusUpdate = "status_update"
	NotificationNewSignup    = "new_signup"
)

// Notification is an in-app message owned by a single user. Read starts
// false and is only ever set true; no code path resets it.
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `json:"message"`
	Read      bool      `gorm:"default:false;not null" json:"read"`
	Metadata  JSONMap   `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
