package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a creator's crowdfunded project. Completed and FullyReimbursed are
// always equal and true only when all four milestones are reimbursed.
type Project struct {
	ID                 uuid.UUID                          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CreatorID          *string                            `gorm:"column:creator_id" json:"creatorId,omitempty"`
	Title              string                             `gorm:"column:title;not null" json:"title"`
	Category           string                             `gorm:"column:category" json:"category"`
	Overview           string                             `gorm:"column:overview;type:text" json:"overview"`
	Timeline           datatypes.JSONSlice[string]        `gorm:"column:timeline" json:"timeline"`
	Budget             datatypes.JSONSlice[float64]       `gorm:"column:budget" json:"budget"`
	Contributions      datatypes.JSONSlice[string]        `gorm:"column:contributions" json:"contributions"`
	TotalBudget        float64                            `gorm:"column:total_budget;type:decimal(18,2);not null;default:0" json:"totalBudget"`
	FundingRequired    float64                            `gorm:"column:funding_required;type:decimal(18,2);not null;default:0" json:"fundingRequired"`
	Progress           float64                            `gorm:"column:progress;not null;default:0" json:"progress"`
	Completed          bool                               `gorm:"column:completed;not null;default:false" json:"completed"`
	FullyReimbursed    bool                               `gorm:"column:fully_reimbursed;not null;default:false" json:"fullyReimbursed"`
	Reimbursements     datatypes.JSONType[MilestoneFlags] `gorm:"column:reimbursements" json:"reimbursements"`
	MilestoneEvidence  datatypes.JSONType[EvidenceMap]    `gorm:"column:milestone_evidence" json:"milestoneEvidence"`
	RevenueDistributed bool                               `gorm:"column:revenue_distributed;not null;default:false" json:"revenueDistributed"`
	TotalDistributed   float64                            `gorm:"column:total_distributed;type:decimal(18,2);not null;default:0" json:"totalDistributed"`
	DistributedAt      *time.Time                         `gorm:"column:distributed_at" json:"distributedAt,omitempty"`
	CreatedAt          time.Time                          `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt          time.Time                          `gorm:"column:updated_at" json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Flags returns a mutable copy of the reimbursement flags.
func (p *Project) Flags() MilestoneFlags {
	return p.Reimbursements.Data().Clone()
}

// Evidence returns a mutable copy of the milestone evidence map.
func (p *Project) Evidence() EvidenceMap {
	return p.MilestoneEvidence.Data().Clone()
}

// ActiveMilestone returns the index of the first milestone not yet
// reimbursed, or -1 when every milestone is reimbursed. Projects without
// timeline data report DefaultActiveMilestone.
func (p *Project) ActiveMilestone() int {
	flags := p.Reimbursements.Data()
	if len(p.Timeline) == 0 && flags.Count() == 0 {
		return DefaultActiveMilestone
	}
	for i := 0; i < MilestoneCount; i++ {
		if !flags[i] {
			return i
		}
	}
	return -1
}

// Milestones builds the derived milestone view. verdicts may be nil.
func (p *Project) Milestones(verdicts map[int]*VerificationResult) []Milestone {
	flags := p.Reimbursements.Data()
	evidence := p.MilestoneEvidence.Data()
	active := p.ActiveMilestone()

	out := make([]Milestone, MilestoneCount)
	for i := 0; i < MilestoneCount; i++ {
		m := Milestone{
			Index:      i,
			Title:      MilestoneTitles[i],
			Reimbursed: flags[i],
		}
		if i < len(p.Timeline) {
			m.Details = p.Timeline[i]
		}
		if ev, ok := evidence[i]; ok {
			m.EvidenceURL = ev.URL
			at := ev.UpdatedAt
			m.EvidenceUpdatedAt = &at
		}
		if verdicts != nil {
			m.Verification = verdicts[i]
		}
		switch {
		case flags[i]:
			m.Status = MilestoneReimbursed
		case i == active && m.EvidenceURL != "":
			m.Status = MilestoneCompleted
		case i == active:
			m.Status = MilestoneActive
		default:
			m.Status = MilestonePending
		}
		out[i] = m
	}
	return out
}
