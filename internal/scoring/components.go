// internal/scoring/components.go
package scoring

import (
	"strings"

	"applicant-ranker/internal/dictionary"
	"applicant-ranker/internal/models"
	"applicant-ranker/internal/normalize"
)

// levelRank orders education levels for tier-proximity scoring.
var levelRank = map[string]int{
	"high_school": 1,
	"vocational":  2,
	"associate":   3,
	"bachelor":    4,
	"master":      5,
	"doctorate":   6,
}

// educationScore rates how close the applicant's attainment is to the job's
// degree requirement. Both sides are expected in canonical form; composite
// requirements are evaluated per the joiner semantics of the expression.
func educationScore(job models.JobRequirements, app models.ApplicantData) float64 {
	jobAlts, joiner := normalize.SplitQualifiers(job.DegreeRequirement)
	if len(jobAlts) == 0 {
		return 100 // nothing required
	}
	appAlts, _ := normalize.SplitQualifiers(app.HighestEducationalAttainment)

	matched := 0
	for _, ja := range jobAlts {
		if textMatchesAny(ja, appAlts) {
			matched++
		}
	}

	switch {
	case joiner == normalize.JoinerOr && matched > 0:
		return 100
	case joiner == normalize.JoinerAnd && matched == len(jobAlts):
		return 100
	case joiner == normalize.JoinerAnd && matched > 0:
		return float64(matched) / float64(len(jobAlts)) * 100
	}

	return proximityScore(job.DegreeMeta, app.DegreeMeta, job.DegreeRequirement, app.HighestEducationalAttainment)
}

// proximityScore falls back to level/field-group metadata when no exact
// canonical match exists.
func proximityScore(jobMeta, appMeta *models.DegreeMeta, jobText, appText string) float64 {
	if jobMeta == nil || appMeta == nil {
		// No metadata on either side: cheap token overlap keeps the score
		// deterministic without guessing a level.
		return tokenOverlapScore(jobText, appText) * 60
	}

	reqRank, okReq := levelRank[jobMeta.Level]
	appRank, okApp := levelRank[appMeta.Level]
	if !okReq || !okApp {
		return tokenOverlapScore(jobText, appText) * 60
	}

	sameField := jobMeta.FieldGroup != "" && jobMeta.FieldGroup == appMeta.FieldGroup
	switch diff := appRank - reqRank; {
	case diff >= 0 && sameField:
		return 90
	case diff >= 0:
		return 70
	case diff == -1 && sameField:
		return 55
	case diff == -1:
		return 40
	case diff == -2:
		return 25
	default:
		return 10
	}
}

// experienceYearsScore is the years ratio capped at 100%.
func experienceYearsScore(required, actual float64) float64 {
	if required <= 0 {
		return 100
	}
	ratio := actual / required
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio * 100
}

// skillsOverlap reports the fraction of job-side skills the applicant
// matches, with the job-side matched count.
func skillsOverlap(jobSkills, appSkills []string) (float64, int) {
	if len(jobSkills) == 0 {
		return 100, 0
	}
	matched := 0
	for _, js := range jobSkills {
		if textMatchesAny(js, appSkills) {
			matched++
		}
	}
	return float64(matched) / float64(len(jobSkills)) * 100, matched
}

// eligibilityOverlap evaluates every job-side eligibility expression
// against the applicant's held eligibilities and reports the job-side
// satisfied count. Composite expressions follow their joiner semantics.
func eligibilityOverlap(jobEligibilities []string, appEligibilities []models.Eligibility) (float64, int) {
	if len(jobEligibilities) == 0 {
		return 100, 0
	}

	held := make([]string, len(appEligibilities))
	for i, e := range appEligibilities {
		held[i] = e.Title
	}

	satisfied := 0
	for _, expr := range jobEligibilities {
		alts, joiner := normalize.SplitQualifiers(expr)
		if len(alts) == 0 {
			satisfied++
			continue
		}
		matched := 0
		for _, alt := range alts {
			if textMatchesAny(alt, held) {
				matched++
			}
		}
		if (joiner == normalize.JoinerOr && matched > 0) ||
			(joiner == normalize.JoinerAnd && matched == len(alts)) {
			satisfied++
		}
	}
	return float64(satisfied) / float64(len(jobEligibilities)) * 100, satisfied
}

// titleSimilarity is the best token overlap between the job title and any
// of the applicant's work-experience titles.
func titleSimilarity(jobTitle string, workTitles []string) float64 {
	best := 0.0
	for _, wt := range workTitles {
		if s := tokenOverlapScore(jobTitle, wt); s > best {
			best = s
		}
	}
	return best * 100
}

// textMatchesAny reports whether needle matches any candidate after
// normalization, by equality or containment in either direction.
func textMatchesAny(needle string, candidates []string) bool {
	n := dictionary.NormalizeText(needle)
	if n == "" {
		return false
	}
	for _, c := range candidates {
		cn := dictionary.NormalizeText(c)
		if cn == "" {
			continue
		}
		if cn == n || containsWord(cn, n) || containsWord(n, cn) {
			return true
		}
	}
	return false
}

// containsWord reports whether hay contains needle on word boundaries,
// so "java" does not match "javascript".
func containsWord(hay, needle string) bool {
	return strings.Contains(" "+hay+" ", " "+needle+" ")
}

func tokenOverlapScore(a, b string) float64 {
	ta := dictionary.Tokenize(a)
	tb := dictionary.Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		seen[t] = struct{}{}
	}
	inter := 0
	bset := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		if _, dup := bset[t]; dup {
			continue
		}
		bset[t] = struct{}{}
		if _, ok := seen[t]; ok {
			inter++
		}
	}
	union := len(seen) + len(bset) - inter
	return float64(inter) / float64(union)
}
