// internal/scoring/skill_experience.go
package scoring

import (
	"fmt"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/models"
)

// SkillExperience rewards demonstrated role fit over tenure alone: skill
// relevance and work-experience-title similarity weigh more heavily than
// raw years.
type SkillExperience struct {
	weights config.ComponentWeights
}

func NewSkillExperience(weights config.ComponentWeights) *SkillExperience {
	return &SkillExperience{weights: weights}
}

func (s *SkillExperience) Score(job models.JobRequirements, app models.ApplicantData) models.ScoreBreakdown {
	education := educationScore(job, app)
	skills, matchedSkills := skillsOverlap(job.Skills, app.Skills)
	eligibility, matchedElig := eligibilityOverlap(job.Eligibilities, app.Eligibilities)

	// Experience blends title fit with the years ratio; titles dominate.
	titleFit := titleSimilarity(job.Title, app.WorkExperienceTitles)
	years := experienceYearsScore(job.YearsOfExperience, app.TotalYearsExperience)
	experience := titleFit*0.6 + years*0.4

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
		AlgorithmUsed:             models.AlgorithmSkillExperience,
		Reasoning: fmt.Sprintf(
			"skill-experience composite: skills %.1f (%d/%d matched), title fit %.1f, years %.1f, education %.1f, eligibility %.1f",
			skills, matchedSkills, len(job.Skills), titleFit, years, education, eligibility,
		),
	}
}
