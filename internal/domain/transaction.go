package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionInitiated   TransactionStatus = "INITIATED"
	TransactionDistributed TransactionStatus = "DISTRIBUTED"
)

// Transaction is a contribution record created when a donation intent is
// initiated. Amount is the basis for revenue shares and never changes.
type Transaction struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID         `gorm:"column:project_id;type:uuid;not null;index" json:"projectId"`
	ProjectTitle string            `gorm:"column:project_title" json:"projectTitle"`
	Amount       float64           `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Currency     string            `gorm:"column:currency;type:varchar(3);not null" json:"currency"`
	IntentID     string            `gorm:"column:intent_id;uniqueIndex;not null" json:"intentId"`
	Status       TransactionStatus `gorm:"column:status;type:varchar(20);not null" json:"status"`
	PaymentURL   string            `gorm:"column:payment_url" json:"paymentUrl"`
	DividendPaid *float64          `gorm:"column:dividend_paid;type:decimal(18,2)" json:"dividendPaid,omitempty"`
	UserID       *string           `gorm:"column:user_id;index" json:"userId,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeUpdate rejects any update that touches the contributed amount.
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("Amount") {
		return ErrImmutableAmount
	}
	return nil
}
