// internal/models/score.go
package models

// Algorithm identifies which scoring function produced a breakdown.
type Algorithm string

const (
	AlgorithmWeightedSum          Algorithm = "weighted_sum"
	AlgorithmSkillExperience      Algorithm = "skill_experience"
	AlgorithmEligibilityEducation Algorithm = "eligibility_education"
)

// EnsembleMethod identifies how the ensemble combined the algorithms.
type EnsembleMethod string

const (
	EnsembleWeightedAverage EnsembleMethod = "weighted_average"
	EnsembleTieBreaker      EnsembleMethod = "tie_breaker"
)

// ScoreBreakdown is one algorithm's result for one (job, applicant) pair.
// All scores are on a 0-100 scale. Matched counts are job-side: "4 of 6
// required skills matched," never applicant-side.
type ScoreBreakdown struct {
	TotalScore       float64 `json:"totalScore"`
	EducationScore   float64 `json:"educationScore"`
	ExperienceScore  float64 `json:"experienceScore"`
	SkillsScore      float64 `json:"skillsScore"`
	EligibilityScore float64 `json:"eligibilityScore"`

	MatchedSkillsCount        int `json:"matchedSkillsCount"`
	MatchedEligibilitiesCount int `json:"matchedEligibilitiesCount"`

	AlgorithmUsed Algorithm `json:"algorithmUsed"`
	Reasoning     string    `json:"reasoning"`
}

// AlgorithmDetails retains every sub-score the ensemble computed (or could
// have computed) for auditability. TieBreaker is nil when the near-tie path
// was not taken.
type AlgorithmDetails struct {
	WeightedSum     ScoreBreakdown  `json:"weightedSum"`
	SkillExperience ScoreBreakdown  `json:"skillExperience"`
	TieBreaker      *ScoreBreakdown `json:"tieBreaker,omitempty"`
}

// EnsembleResult is the combined score reported for one applicant.
type EnsembleResult struct {
	ScoreBreakdown

	EnsembleMethod   EnsembleMethod   `json:"ensembleMethod"`
	AlgorithmDetails AlgorithmDetails `json:"algorithmDetails"`
}

// RankedApplicant is the final output record of a ranking run. Rank is
// positional and recomputed on every run.
type RankedApplicant struct {
	ApplicantID string  `json:"applicantId"`
	Name        string  `json:"name"`
	Rank        int     `json:"rank"`
	MatchScore  float64 `json:"matchScore"`

	EducationScore   float64 `json:"educationScore"`
	ExperienceScore  float64 `json:"experienceScore"`
	SkillsScore      float64 `json:"skillsScore"`
	EligibilityScore float64 `json:"eligibilityScore"`

	AlgorithmUsed EnsembleMethod `json:"algorithmUsed"`
	Reasoning     string         `json:"reasoning"`
	Insight       string         `json:"insight,omitempty"`
}
