package pool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"creativeminds-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the shared pool ledger. Credit and Debit take the caller's
// transaction so ledger writes commit together with the rest of the operation.
type Service struct {
	DB *gorm.DB
}

// Get returns the current pool snapshot. A missing row reads as an empty pool.
func (s *Service) Get(ctx context.Context) (*domain.Pool, error) {
	var p domain.Pool
	err := s.DB.WithContext(ctx).Where("id = ?", domain.MainPoolID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.Pool{ID: domain.MainPoolID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Cents rounds amount to whole cents. The pool column holds two decimals, so
// every ledger movement is rounded before it is written or compared.
func Cents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && Cents(amount) >= 0.01
}

// Credit atomically adds amount to the pool total, creating the row on first use.
func (s *Service) Credit(tx *gorm.DB, amount float64) error {
	if !validAmount(amount) {
		return fmt.Errorf("%w: credit amount must be at least one cent", domain.ErrValidation)
	}
	amount = Cents(amount)
	now := time.Now()
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total":        gorm.Expr("ROUND(CAST(pool.total + ? AS NUMERIC), 2)", amount),
			"last_updated": now,
		}),
	}).Create(&domain.Pool{
		ID:          domain.MainPoolID,
		Total:       amount,
		LastUpdated: now,
	}).Error
}

// Debit subtracts amount, rounded to cents, from the pool. It must run inside
// a transaction: the row is read under lock and the decrement is conditional
// on the balance still covering amount, so the total can never be observed
// below zero. The returned snapshot is read back after the write.
func (s *Service) Debit(tx *gorm.DB, amount float64) (*domain.Pool, error) {
	if !validAmount(amount) {
		return nil, fmt.Errorf("%w: debit amount must be at least one cent", domain.ErrValidation)
	}
	amount = Cents(amount)

	var p domain.Pool
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", domain.MainPoolID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInsufficientFunds
	}
	if err != nil {
		return nil, err
	}
	if math.Round(p.Total*100) < math.Round(amount*100) {
		return nil, domain.ErrInsufficientFunds
	}

	// Half a cent of slack absorbs float drift in stored totals.
	res := tx.Model(&domain.Pool{}).
		Where("id = ? AND total >= ?", domain.MainPoolID, amount-0.005).
		Updates(map[string]interface{}{
			"total":        gorm.Expr("ROUND(CAST(total - ? AS NUMERIC), 2)", amount),
			"last_updated": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInsufficientFunds
	}

	if err := tx.Where("id = ?", domain.MainPoolID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
