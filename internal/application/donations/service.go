package donations

import (
	"context"
	"errors"
	"fmt"
	"math"

	"creativeminds-backend/internal/application/payments"
	"creativeminds-backend/internal/application/pool"
	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"
	"creativeminds-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB              *gorm.DB
	Pool            *pool.Service
	Payments        payments.IntentCreator
	DefaultCurrency string
}

// Input is a contributor's donation request.
type Input struct {
	ProjectID uuid.UUID
	Amount    float64
	Currency  string
	UserID    *string
}

// Result is handed back to the caller, who redirects to PaymentURL.
type Result struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	IntentID      string    `json:"intent_id"`
	PaymentURL    string    `json:"payment_url"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PoolTotal     float64   `json:"pool_total"`
}

// InitiateDonation creates an external payment intent and, on success,
// records an INITIATED transaction and credits the pool in one transaction.
// The pool is credited before the payment settles. A failed intent call
// writes nothing.
func (s *Service) InitiateDonation(ctx context.Context, in Input) (*Result, error) {
	if !validation.IsValidAmount(in.Amount) {
		return nil, fmt.Errorf("%w: amount must be a positive number", domain.ErrValidation)
	}
	amount := math.Round(in.Amount*100) / 100
	if amount < 0.01 {
		return nil, fmt.Errorf("%w: amount must be at least one cent", domain.ErrValidation)
	}

	cur := in.Currency
	if cur == "" {
		cur = s.DefaultCurrency
	}
	if cur == "" {
		cur = "USD"
	}
	cur, ok := validation.NormalizeCurrency(cur)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported currency %q", domain.ErrValidation, in.Currency)
	}

	var project domain.Project
	if err := s.DB.WithContext(ctx).Where("id = ?", in.ProjectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", in.ProjectID, domain.ErrNotFound)
		}
		return nil, err
	}

	if s.Payments == nil {
		return nil, fmt.Errorf("%w: payment provider not configured", domain.ErrExternalService)
	}
	intent, err := s.Payments.CreateIntent(ctx, payments.IntentRequest{
		Amount:       amount,
		Currency:     cur,
		ProjectID:    project.ID.String(),
		ProjectTitle: project.Title,
	})
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("project_id", project.ID.String()).Float64("amount", amount).Msg("payment intent creation failed")
		return nil, err
	}

	txn := domain.Transaction{
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		Amount:       amount,
		Currency:     cur,
		IntentID:     intent.ID,
		Status:       domain.TransactionInitiated,
		PaymentURL:   intent.PaymentURL,
		UserID:       in.UserID,
	}
	var poolTotal float64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		if err := s.Pool.Credit(tx, amount); err != nil {
			return err
		}
		var p domain.Pool
		if err := tx.Where("id = ?", domain.MainPoolID).First(&p).Error; err != nil {
			return err
		}
		poolTotal = p.Total
		return nil
	})
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("intent_id", intent.ID).Msg("recording donation failed")
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("project_id", project.ID.String()).
		Str("intent_id", intent.ID).
		Float64("amount", amount).
		Msg("donation initiated")
	return &Result{
		TransactionID: txn.ID,
		IntentID:      intent.ID,
		PaymentURL:    intent.PaymentURL,
		Amount:        amount,
		Currency:      cur,
		PoolTotal:     poolTotal,
	}, nil
}
