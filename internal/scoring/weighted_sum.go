// internal/scoring/weighted_sum.go
package scoring

import (
	"fmt"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/models"
)

// WeightedSum is the primary linear-combination scorer: education tier
// proximity, experience-years ratio, skill overlap and eligibility overlap
// with fixed weights summing to 1.0.
type WeightedSum struct {
	weights config.ComponentWeights
}

func NewWeightedSum(weights config.ComponentWeights) *WeightedSum {
	return &WeightedSum{weights: weights}
}

func (s *WeightedSum) Score(job models.JobRequirements, app models.ApplicantData) models.ScoreBreakdown {
	education := educationScore(job, app)
	experience := experienceYearsScore(job.YearsOfExperience, app.TotalYearsExperience)
	skills, matchedSkills := skillsOverlap(job.Skills, app.Skills)
	eligibility, matchedElig := eligibilityOverlap(job.Eligibilities, app.Eligibilities)

	total := education*s.weights.Education +
		experience*s.weights.Experience +
		skills*s.weights.Skills +
		eligibility*s.weights.Eligibility

	return models.ScoreBreakdown{
		TotalScore:                total,
		EducationScore:            education,
		ExperienceScore:           experience,
		SkillsScore:               skills,
		EligibilityScore:          eligibility,
		MatchedSkillsCount:        matchedSkills,
		MatchedEligibilitiesCount: matchedElig,
		AlgorithmUsed:             models.AlgorithmWeightedSum,
		Reasoning: fmt.Sprintf(
			"weighted sum: education %.1f, experience %.1f (%.1f/%.1f yrs), skills %.1f (%d/%d matched), eligibility %.1f (%d/%d matched)",
			education, experience, app.TotalYearsExperience, job.YearsOfExperience,
			skills, matchedSkills, len(job.Skills),
			eligibility, matchedElig, len(job.Eligibilities),
		),
	}
}
