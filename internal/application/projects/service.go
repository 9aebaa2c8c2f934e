package projects

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"creativeminds-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// CreateInput carries the fields a creator fills in when adding a project.
type CreateInput struct {
	CreatorID       *string
	Title           string
	Category        string
	Overview        string
	Timeline        []string
	Budget          []float64
	Contributions   []string
	FundingRequired float64
}

// Create validates and stores a new project with every milestone unreimbursed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if len(in.Timeline) != 0 && len(in.Timeline) != domain.MilestoneCount {
		return nil, fmt.Errorf("%w: timeline must have %d entries", domain.ErrValidation, domain.MilestoneCount)
	}
	if len(in.Budget) != 0 && len(in.Budget) != domain.MilestoneCount {
		return nil, fmt.Errorf("%w: budget must have %d entries", domain.ErrValidation, domain.MilestoneCount)
	}
	if in.FundingRequired < 0 {
		return nil, fmt.Errorf("%w: funding_required cannot be negative", domain.ErrValidation)
	}

	var total float64
	for _, b := range in.Budget {
		if b < 0 || math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, fmt.Errorf("%w: budget entries must be non-negative", domain.ErrValidation)
		}
		total += b
	}

	flags := domain.MilestoneFlags{}
	for i := 0; i < domain.MilestoneCount; i++ {
		flags[i] = false
	}

	timeline := make([]string, len(in.Timeline))
	for i, t := range in.Timeline {
		timeline[i] = strings.TrimSpace(t)
	}

	p := domain.Project{
		CreatorID:         in.CreatorID,
		Title:             title,
		Category:          in.Category,
		Overview:          strings.TrimSpace(in.Overview),
		Timeline:          datatypes.JSONSlice[string](timeline),
		Budget:            datatypes.JSONSlice[float64](in.Budget),
		Contributions:     datatypes.JSONSlice[string](in.Contributions),
		TotalBudget:       math.Round(total*100) / 100,
		FundingRequired:   in.FundingRequired,
		Reimbursements:    datatypes.NewJSONType(flags),
		MilestoneEvidence: datatypes.NewJSONType(domain.EvidenceMap{}),
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListOngoing returns projects that are not completed yet, newest first.
func (s *Service) ListOngoing(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	if err := s.DB.WithContext(ctx).
		Where("completed = ?", false).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one project.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}
