// internal/ranking/reasoner.go
package ranking

import (
	"context"

	"applicant-ranker/internal/models"
)

// TieCandidate is the summary of one tied applicant handed to the
// reasoning service for qualitative differentiation.
type TieCandidate struct {
	ApplicantID     string   `json:"applicantId"`
	Name            string   `json:"name"`
	Education       string   `json:"education"`
	YearsExperience float64  `json:"yearsExperience"`
	Skills          []string `json:"skills"`
	Eligibilities   []string `json:"eligibilities"`

	EnsembleScore    float64 `json:"ensembleScore"`
	EducationScore   float64 `json:"educationScore"`
	ExperienceScore  float64 `json:"experienceScore"`
	SkillsScore      float64 `json:"skillsScore"`
	EligibilityScore float64 `json:"eligibilityScore"`
}

// Adjustment is one candidate's micro-adjustment as reported by the
// reasoning service. The value is clamped before application regardless of
// what the service returned.
type Adjustment struct {
	CandidateName   string  `json:"candidateName"`
	MicroAdjustment float64 `json:"microAdjustment"`
	Reasoning       string  `json:"reasoning"`
}

// Reasoner is the reasoning-service boundary used for tie-breaking and
// top-candidate insights. Both calls degrade: tie-breaking falls back to
// the deterministic scheme, insights are simply omitted.
type Reasoner interface {
	CompareCandidates(ctx context.Context, job models.JobRequirements, candidates []TieCandidate) ([]Adjustment, error)
	SummarizeCandidates(ctx context.Context, job models.JobRequirements, candidates []TieCandidate) (map[string]string, error)
}
