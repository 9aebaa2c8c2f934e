package distributions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"creativeminds-backend/internal/application/analytics"
	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB        *gorm.DB
	Analytics analytics.Source
}

// Payout is one contribution's share of the distributed revenue.
type Payout struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	UserID        *string   `json:"user_id"`
	Amount        float64   `json:"amount"`
	Share         float64   `json:"share"`
}

// Result describes a distribution. AlreadyDistributed is set (with no
// writes) when the project had been distributed before.
type Result struct {
	ProjectID          uuid.UUID  `json:"project_id"`
	AlreadyDistributed bool       `json:"already_distributed"`
	TotalRevenue       float64    `json:"total_revenue"`
	TotalContributed   float64    `json:"total_contributed"`
	StrandedTotal      float64    `json:"stranded_total"`
	DistributedAt      *time.Time `json:"distributed_at,omitempty"`
	Payouts            []Payout   `json:"payouts"`
}

// Distribute splits totalRevenue across the project's contributions pro rata
// to their amounts. When totalRevenue is zero the estimate from the analytics
// source is used. The already-distributed guard, the project flag, every
// transaction update and every wallet credit run in one transaction.
func (s *Service) Distribute(ctx context.Context, projectID uuid.UUID, totalRevenue float64) (*Result, error) {
	if totalRevenue < 0 || math.IsNaN(totalRevenue) || math.IsInf(totalRevenue, 0) {
		return nil, fmt.Errorf("%w: total_revenue must be a non-negative number", domain.ErrValidation)
	}
	if totalRevenue == 0 {
		// A repeat call must stay a no-op even when no estimate is available.
		project, err := loadProject(s.DB.WithContext(ctx), projectID, false)
		if err != nil {
			return nil, err
		}
		if project.RevenueDistributed {
			return s.skipped(ctx, projectID, project), nil
		}
		if !project.Completed {
			return nil, domain.ErrProjectNotCompleted
		}
		rev, err := s.estimatedRevenue(ctx, projectID)
		if err != nil {
			return nil, err
		}
		totalRevenue = rev
	}
	totalRevenue = math.Round(totalRevenue*100) / 100

	result := &Result{ProjectID: projectID, TotalRevenue: totalRevenue, Payouts: []Payout{}}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := loadProject(tx, projectID, true)
		if err != nil {
			return err
		}
		if project.RevenueDistributed {
			result = alreadyDistributed(projectID, project)
			return nil
		}
		if !project.Completed {
			return domain.ErrProjectNotCompleted
		}

		var txns []domain.Transaction
		if err := tx.Where("project_id = ? AND amount > 0", projectID).
			Order("created_at ASC, id ASC").
			Find(&txns).Error; err != nil {
			return err
		}
		if len(txns) == 0 {
			return domain.ErrNoContributions
		}

		weights := make([]float64, len(txns))
		for i, t := range txns {
			weights[i] = t.Amount
			result.TotalContributed += t.Amount
		}
		shares := Allocate(weights, totalRevenue)

		now := time.Now()
		// Conditional flip: a concurrent distributor that got here first leaves
		// zero rows to update and this call becomes a no-op.
		res := tx.Model(&domain.Project{}).
			Where("id = ? AND revenue_distributed = ?", projectID, false).
			Updates(map[string]interface{}{
				"revenue_distributed": true,
				"total_distributed":   totalRevenue,
				"distributed_at":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result.AlreadyDistributed = true
			return nil
		}

		earnings := map[string]float64{}
		for i, t := range txns {
			if err := tx.Model(&domain.Transaction{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
				"status":        domain.TransactionDistributed,
				"dividend_paid": shares[i],
			}).Error; err != nil {
				return err
			}
			if t.UserID != nil && *t.UserID != "" {
				earnings[*t.UserID] += shares[i]
			} else {
				result.StrandedTotal += shares[i]
			}
			result.Payouts = append(result.Payouts, Payout{
				TransactionID: t.ID,
				UserID:        t.UserID,
				Amount:        t.Amount,
				Share:         shares[i],
			})
		}

		for userID, amount := range earnings {
			if err := creditWallet(tx, userID, amount); err != nil {
				return err
			}
		}
		result.DistributedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.TotalContributed = math.Round(result.TotalContributed*100) / 100
	result.StrandedTotal = math.Round(result.StrandedTotal*100) / 100
	if result.AlreadyDistributed {
		logger.Ctx(ctx).Info().Str("project_id", projectID.String()).Msg("revenue already distributed, skipping")
		return result, nil
	}
	if result.StrandedTotal > 0 {
		logger.Ctx(ctx).Warn().
			Str("project_id", projectID.String()).
			Float64("stranded_total", result.StrandedTotal).
			Msg("distribution shares without contributor identity were not credited")
	}
	logger.Ctx(ctx).Info().
		Str("project_id", projectID.String()).
		Float64("total_revenue", totalRevenue).
		Int("payouts", len(result.Payouts)).
		Msg("revenue distributed")
	return result, nil
}

func (s *Service) skipped(ctx context.Context, projectID uuid.UUID, project *domain.Project) *Result {
	logger.Ctx(ctx).Info().Str("project_id", projectID.String()).Msg("revenue already distributed, skipping")
	return alreadyDistributed(projectID, project)
}

func alreadyDistributed(projectID uuid.UUID, project *domain.Project) *Result {
	return &Result{
		ProjectID:          projectID,
		AlreadyDistributed: true,
		TotalRevenue:       project.TotalDistributed,
		DistributedAt:      project.DistributedAt,
		Payouts:            []Payout{},
	}
}

func loadProject(db *gorm.DB, projectID uuid.UUID, lock bool) (*domain.Project, error) {
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var project domain.Project
	if err := db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, err
	}
	return &project, nil
}

func creditWallet(tx *gorm.DB, userID string, amount float64) error {
	amount = math.Round(amount*100) / 100
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"earnings":   gorm.Expr("wallets.earnings + ?", amount),
			"updated_at": time.Now(),
		}),
	}).Create(&domain.Wallet{UserID: userID, Earnings: amount}).Error
}

func (s *Service) estimatedRevenue(ctx context.Context, projectID uuid.UUID) (float64, error) {
	if s.Analytics == nil {
		return 0, fmt.Errorf("%w: total_revenue is required", domain.ErrValidation)
	}
	stats, err := s.Analytics.ProjectStats(ctx, projectID)
	if err != nil {
		return 0, err
	}
	rev := stats.Monetization.EstimatedRevenueUSD
	if rev <= 0 {
		return 0, fmt.Errorf("%w: no realized revenue reported for project", domain.ErrValidation)
	}
	return rev, nil
}
