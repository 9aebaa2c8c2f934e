package domain

import "time"

// MilestoneCount is the fixed number of milestones every project goes through.
const MilestoneCount = 4

// DefaultActiveMilestone is used when a project carries no timeline data yet.
const DefaultActiveMilestone = 2

// MilestoneTitles is the fixed milestone template, in order.
var MilestoneTitles = [MilestoneCount]string{
	"Idea & Research",
	"Prototype Development",
	"Funding Phase",
	"Production & Launch",
}

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneActive     MilestoneStatus = "active"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneReimbursed MilestoneStatus = "reimbursed"
)

// MilestoneFlags maps milestone index (0..3) to its reimbursed flag.
type MilestoneFlags map[int]bool

// All reports whether every milestone index is flagged.
func (f MilestoneFlags) All() bool {
	for i := 0; i < MilestoneCount; i++ {
		if !f[i] {
			return false
		}
	}
	return true
}

// Count returns how many milestone indexes are flagged.
func (f MilestoneFlags) Count() int {
	n := 0
	for i := 0; i < MilestoneCount; i++ {
		if f[i] {
			n++
		}
	}
	return n
}

// Clone returns a copy safe to mutate.
func (f MilestoneFlags) Clone() MilestoneFlags {
	out := make(MilestoneFlags, MilestoneCount)
	for i := 0; i < MilestoneCount; i++ {
		out[i] = f[i]
	}
	return out
}

// Evidence is the persisted proof attached to a milestone.
type Evidence struct {
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EvidenceMap maps milestone index to its latest evidence.
type EvidenceMap map[int]Evidence

func (m EvidenceMap) Clone() EvidenceMap {
	out := make(EvidenceMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Milestone is the derived view of one project phase. It is never stored on
// its own; it is rebuilt from the project's timeline, flags and evidence.
type Milestone struct {
	Index             int                 `json:"index"`
	Title             string              `json:"title"`
	Status            MilestoneStatus     `json:"status"`
	Details           string              `json:"details"`
	EvidenceURL       string              `json:"evidenceUrl,omitempty"`
	EvidenceUpdatedAt *time.Time          `json:"evidenceUpdatedAt,omitempty"`
	Reimbursed        bool                `json:"reimbursed"`
	Verification      *VerificationResult `json:"verification,omitempty"`
}

// ValidMilestoneIndex reports whether i addresses one of the fixed milestones.
func ValidMilestoneIndex(i int) bool {
	return i >= 0 && i < MilestoneCount
}
