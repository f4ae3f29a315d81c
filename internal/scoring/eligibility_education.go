// internal/scoring/eligibility_education.go
package scoring

import (
	"fmt"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/models"
)

// EligibilityEducation prioritizes exact eligibility matches and
// education-level/field-group proximity. It is used only as a tie-break,
// never as a primary ranking signal.
type EligibilityEducation struct {
	weights config.ComponentWeights
}

func NewEligibilityEducation(weights config.ComponentWeights) *EligibilityEducation {
	return &EligibilityEducation{weights: weights}
}

func (s *EligibilityEducation) Score(job models.JobRequirements, app models.ApplicantData) models.ScoreBreakdown {
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
		AlgorithmUsed:             models.AlgorithmEligibilityEducation,
		Reasoning: fmt.Sprintf(
			"eligibility-education tiebreaker: eligibility %.1f (%d/%d matched), education %.1f, experience %.1f, skills %.1f",
			eligibility, matchedElig, len(job.Eligibilities), education, experience, skills,
		),
	}
}
