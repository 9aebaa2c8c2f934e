package domain

import "time"

// MainPoolID identifies the single shared pool row.
const MainPoolID = "main"

// Pool is the shared ledger of contributed funds available for
// reimbursements. Total never goes below zero.
type Pool struct {
	ID          string    `gorm:"column:id;type:varchar(32);primaryKey" json:"id"`
	Total       float64   `gorm:"column:total;type:decimal(18,2);not null;default:0" json:"total"`
	LastUpdated time.Time `gorm:"column:last_updated" json:"lastUpdated"`
}

func (Pool) TableName() string {
	return "pool"
}
