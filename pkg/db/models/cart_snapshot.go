package models

import "time"

// CartSnapshot stores the serialized cart state for one storage key.
type CartSnapshot struct {
	StateKey  string    `gorm:"column:state_key;primaryKey;size:255"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName pins the table created by the goose migrations.
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
