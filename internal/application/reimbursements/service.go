package reimbursements

import (
	"context"
	"errors"
	"fmt"

	"creativeminds-backend/internal/application/pool"
	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB   *gorm.DB
	Pool *pool.Service
}

// Result is returned after a committed reimbursement.
type Result struct {
	ProjectID       uuid.UUID `json:"project_id"`
	MilestoneIndex  int       `json:"milestone_index"`
	Amount          float64   `json:"amount"`
	PoolTotal       float64   `json:"pool_total"`
	Completed       bool      `json:"completed"`
	FullyReimbursed bool      `json:"fully_reimbursed"`
	Progress        float64   `json:"progress"`
}

// Reimburse debits the pool and marks the milestone reimbursed in one
// transaction. Either the pool debit, the milestone flag and the completion
// flags all commit, or nothing does. Amounts are settled in whole cents.
func (s *Service) Reimburse(ctx context.Context, projectID uuid.UUID, index int, amount float64) (*Result, error) {
	if !domain.ValidMilestoneIndex(index) {
		return nil, fmt.Errorf("%w: milestone index must be between 0 and %d", domain.ErrValidation, domain.MilestoneCount-1)
	}
	amount = pool.Cents(amount)
	if !(amount >= 0.01) {
		return nil, fmt.Errorf("%w: reimbursement amount must be at least one cent", domain.ErrValidation)
	}

	var result *Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project domain.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", projectID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
			}
			return err
		}

		flags := project.Flags()
		if flags[index] {
			return domain.ErrAlreadyReimbursed
		}

		p, err := s.Pool.Debit(tx, amount)
		if err != nil {
			return err
		}

		flags[index] = true
		all := flags.All()
		progress := float64(flags.Count()) * 100 / domain.MilestoneCount
		if err := tx.Model(&project).Updates(map[string]interface{}{
			"reimbursements":   datatypes.NewJSONType(flags),
			"completed":        all,
			"fully_reimbursed": all,
			"progress":         progress,
		}).Error; err != nil {
			return err
		}

		result = &Result{
			ProjectID:       projectID,
			MilestoneIndex:  index,
			Amount:          amount,
			PoolTotal:       p.Total,
			Completed:       all,
			FullyReimbursed: all,
			Progress:        progress,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("project_id", projectID.String()).
		Int("milestone", index).
		Float64("amount", amount).
		Float64("pool_total", result.PoolTotal).
		Bool("completed", result.Completed).
		Msg("milestone reimbursed")
	return result, nil
}
