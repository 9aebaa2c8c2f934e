package milestones

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creativeminds-backend/internal/application/reimbursements"
	"creativeminds-backend/internal/application/verification"
	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"
	"creativeminds-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service drives the per-project milestone state machine:
// pending -> active -> completed (evidence attached) -> reimbursed.
type Service struct {
	DB             *gorm.DB
	Verification   *verification.Service
	Verdicts       VerdictStore
	Reimbursements *reimbursements.Service
	FallbackAmount float64
}

// EvidenceResult is returned by AttachEvidence.
type EvidenceResult struct {
	Milestone    domain.Milestone           `json:"milestone"`
	Verification *domain.VerificationResult `json:"verification"`
}

// List returns the milestone view of a project, including unexpired verdicts.
func (s *Service) List(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error) {
	project, err := s.load(s.DB.WithContext(ctx), projectID, false)
	if err != nil {
		return nil, err
	}
	return project.Milestones(s.verdicts(ctx, projectID)), nil
}

// AttachEvidence records evidence for the active milestone and verifies it.
// The evidence write and the verification call run detached from ctx
// cancellation so an in-flight upload completes even if the caller goes away.
func (s *Service) AttachEvidence(ctx context.Context, projectID uuid.UUID, index int, evidenceURL string) (*EvidenceResult, error) {
	if !domain.ValidMilestoneIndex(index) {
		return nil, fmt.Errorf("%w: milestone index must be between 0 and %d", domain.ErrValidation, domain.MilestoneCount-1)
	}
	if !validation.IsAbsoluteURL(evidenceURL) {
		return nil, fmt.Errorf("%w: evidence_url must be an absolute URL", domain.ErrValidation)
	}
	ctx = context.WithoutCancel(ctx)

	var project *domain.Project
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.load(tx, projectID, true)
		if err != nil {
			return err
		}
		if p.Reimbursements.Data()[index] {
			return domain.ErrAlreadyReimbursed
		}
		if p.ActiveMilestone() != index {
			return domain.ErrMilestoneNotActive
		}

		evidence := p.Evidence()
		evidence[index] = domain.Evidence{URL: evidenceURL, UpdatedAt: time.Now()}
		p.MilestoneEvidence = datatypes.NewJSONType(evidence)
		if err := tx.Model(p).Update("milestone_evidence", p.MilestoneEvidence).Error; err != nil {
			return err
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := ""
	if index < len(project.Timeline) {
		details = project.Timeline[index]
	}
	verdict := s.Verification.Verify(ctx, verification.Request{
		ImageURL:             evidenceURL,
		MilestoneTitle:       domain.MilestoneTitles[index],
		MilestoneDescription: details,
	})
	if err := s.Verdicts.Put(ctx, projectID, index, verdict); err != nil {
		return nil, fmt.Errorf("store verdict: %w", err)
	}

	logger.Ctx(ctx).Info().
		Str("project_id", projectID.String()).
		Int("milestone", index).
		Bool("approved", verdict.IsAppropriate).
		Bool("fallback", verdict.Fallback).
		Float64("bill_total", verdict.BillTotal).
		Msg("milestone evidence verified")

	view := project.Milestones(map[int]*domain.VerificationResult{index: verdict})
	return &EvidenceResult{Milestone: view[index], Verification: verdict}, nil
}

// Reimburse pays out the active milestone from the pool. It requires an
// approved verdict for the milestone's current evidence. The amount is the
// verified bill total, or FallbackAmount when the verdict carries none.
func (s *Service) Reimburse(ctx context.Context, projectID uuid.UUID, index int) (*reimbursements.Result, error) {
	if !domain.ValidMilestoneIndex(index) {
		return nil, fmt.Errorf("%w: milestone index must be between 0 and %d", domain.ErrValidation, domain.MilestoneCount-1)
	}

	project, err := s.load(s.DB.WithContext(ctx), projectID, false)
	if err != nil {
		return nil, err
	}
	if project.Reimbursements.Data()[index] {
		return nil, domain.ErrAlreadyReimbursed
	}

	verdict, err := s.Verdicts.Get(ctx, projectID, index)
	if err != nil {
		return nil, err
	}
	if verdict == nil {
		return nil, domain.ErrNotVerified
	}
	if ev, ok := project.MilestoneEvidence.Data()[index]; !ok || ev.URL != verdict.EvidenceURL {
		return nil, domain.ErrNotVerified
	}
	if !verdict.IsAppropriate {
		return nil, domain.ErrVerificationRejected
	}

	amount := verdict.BillTotal
	if amount <= 0 {
		amount = s.FallbackAmount
	}

	res, err := s.Reimbursements.Reimburse(ctx, projectID, index, amount)
	if err != nil {
		return nil, err
	}
	if err := s.Verdicts.Delete(ctx, projectID, index); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("project_id", projectID.String()).Int("milestone", index).Msg("failed to clear verdict after reimbursement")
	}
	return res, nil
}

func (s *Service) load(db *gorm.DB, projectID uuid.UUID, lock bool) (*domain.Project, error) {
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p domain.Project
	if err := db.Where("id = ?", projectID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) verdicts(ctx context.Context, projectID uuid.UUID) map[int]*domain.VerificationResult {
	out := map[int]*domain.VerificationResult{}
	for i := 0; i < domain.MilestoneCount; i++ {
		v, err := s.Verdicts.Get(ctx, projectID, i)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("project_id", projectID.String()).Int("milestone", i).Msg("verdict lookup failed")
			continue
		}
		if v != nil {
			out[i] = v
		}
	}
	return out
}
