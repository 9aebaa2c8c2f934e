package transactions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"creativeminds-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// FormattedTx is the contribution shape returned to project pages.
type FormattedTx struct {
	ID           uuid.UUID                `json:"id"`
	IntentID     string                   `json:"intent_id"`
	Amount       float64                  `json:"amount"`
	Currency     string                   `json:"currency"`
	Status       domain.TransactionStatus `json:"status"`
	DividendPaid *float64                 `json:"dividend_paid"`
	UserID       *string                  `json:"user_id"`
	CreatedAt    time.Time                `json:"created_at"`
}

// Investment is the investor view of a single contribution.
type Investment struct {
	IntentID     string                   `json:"intent_id"`
	ProjectID    uuid.UUID                `json:"project_id"`
	ProjectTitle string                   `json:"project_title"`
	Invested     float64                  `json:"invested"`
	Earnings     float64                  `json:"earnings"`
	NetProfit    float64                  `json:"net_profit"`
	ROIPercent   float64                  `json:"roi_percent"`
	Distributed  bool                     `json:"distributed"`
	Status       domain.TransactionStatus `json:"status"`
	PaymentURL   string                   `json:"payment_url"`
	Currency     string                   `json:"currency"`
}

// ViewProjectTransactions lists a project's contributions, newest first.
func (s *Service) ViewProjectTransactions(ctx context.Context, projectID uuid.UUID) ([]FormattedTx, error) {
	var txs []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}

	out := make([]FormattedTx, len(txs))
	for i, tx := range txs {
		out[i] = FormattedTx{
			ID:           tx.ID,
			IntentID:     tx.IntentID,
			Amount:       tx.Amount,
			Currency:     tx.Currency,
			Status:       tx.Status,
			DividendPaid: tx.DividendPaid,
			UserID:       tx.UserID,
			CreatedAt:    tx.CreatedAt,
		}
	}
	return out, nil
}

// ViewInvestment looks a contribution up by its payment intent id.
func (s *Service) ViewInvestment(ctx context.Context, intentID string) (*Investment, error) {
	if intentID == "" {
		return nil, fmt.Errorf("%w: intent id is required", domain.ErrValidation)
	}
	var tx domain.Transaction
	if err := s.DB.WithContext(ctx).Where("intent_id = ?", intentID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("intent %s: %w", intentID, domain.ErrNotFound)
		}
		return nil, err
	}

	inv := &Investment{
		IntentID:     tx.IntentID,
		ProjectID:    tx.ProjectID,
		ProjectTitle: tx.ProjectTitle,
		Invested:     tx.Amount,
		Distributed:  tx.Status == domain.TransactionDistributed,
		Status:       tx.Status,
		PaymentURL:   tx.PaymentURL,
		Currency:     tx.Currency,
	}
	if tx.DividendPaid != nil {
		inv.Earnings = *tx.DividendPaid
	}
	inv.NetProfit = math.Max(0, math.Round((inv.Earnings-inv.Invested)*100)/100)
	if inv.Invested > 0 {
		inv.ROIPercent = math.Round((inv.Earnings-inv.Invested)/inv.Invested*1000) / 10
	}
	return inv, nil
}
