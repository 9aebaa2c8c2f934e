package domain

import "time"

// Wallet holds a contributor's accumulated revenue earnings.
type Wallet struct {
	UserID    string    `gorm:"column:user_id;primaryKey" json:"userId"`
	Earnings  float64   `gorm:"column:earnings;type:decimal(18,2);not null;default:0" json:"earnings"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Wallet) TableName() string {
	return "wallets"
}
