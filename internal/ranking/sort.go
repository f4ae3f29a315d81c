// internal/ranking/sort.go
package ranking

import (
	"sort"

	"applicant-ranker/internal/models"
)

// scoredApplicant carries one applicant through the pipeline from scoring
// to rank assignment. AdjustedScore starts as the ensemble total and only
// moves during tie-breaking.
type scoredApplicant struct {
	Applicant     models.ApplicantData
	Result        models.EnsembleResult
	AdjustedScore float64
	Insight       string

	inputIndex int
}

// sortScored orders applicants by the deterministic comparison chain:
// adjusted score first, then eligibility, education, experience and skills
// component scores, then raw years and raw skill count, with the original
// input position as the final arbiter. Two distinct applicants never
// compare equal, so the ordering is total.
func sortScored(scored []*scoredApplicant) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.AdjustedScore != b.AdjustedScore {
			return a.AdjustedScore > b.AdjustedScore
		}
		if a.Result.EligibilityScore != b.Result.EligibilityScore {
			return a.Result.EligibilityScore > b.Result.EligibilityScore
		}
		if a.Result.EducationScore != b.Result.EducationScore {
			return a.Result.EducationScore > b.Result.EducationScore
		}
		if a.Result.ExperienceScore != b.Result.ExperienceScore {
			return a.Result.ExperienceScore > b.Result.ExperienceScore
		}
		if a.Result.SkillsScore != b.Result.SkillsScore {
			return a.Result.SkillsScore > b.Result.SkillsScore
		}
		if a.Applicant.TotalYearsExperience != b.Applicant.TotalYearsExperience {
			return a.Applicant.TotalYearsExperience > b.Applicant.TotalYearsExperience
		}
		if len(a.Applicant.Skills) != len(b.Applicant.Skills) {
			return len(a.Applicant.Skills) > len(b.Applicant.Skills)
		}
		return a.inputIndex < b.inputIndex
	})
}
