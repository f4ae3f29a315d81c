// internal/ranking/tiebreak.go
package ranking

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/common/metrics"
	"applicant-ranker/internal/models"
)

// tieGroup is a run of applicants whose adjusted scores round to the same
// value at the tie threshold's precision.
type tieGroup struct {
	Score   float64
	Members []*scoredApplicant
}

// TieBreaker separates applicants whose ensemble scores are
// indistinguishable. It consults the reasoning service when one is
// configured and otherwise (or on any failure) applies a deterministic
// component-profile adjustment, so two runs over the same input always
// produce the same ordering.
type TieBreaker struct {
	reasoner Reasoner
	cfg      config.RankingConfig
	logger   logger.Logger
}

func NewTieBreaker(reasoner Reasoner, cfg config.RankingConfig, log logger.Logger) *TieBreaker {
	return &TieBreaker{
		reasoner: reasoner,
		cfg:      cfg,
		logger:   log,
	}
}

// findTieGroups scans the sorted slice for runs of applicants whose
// adjusted scores coincide once rounded at the tie threshold. Singleton
// runs are discarded.
func findTieGroups(scored []*scoredApplicant, threshold float64) []tieGroup {
	if threshold <= 0 || len(scored) < 2 {
		return nil
	}

	var groups []tieGroup
	start := 0
	key := func(s float64) int64 { return int64(math.Round(s / threshold)) }

	for i := 1; i <= len(scored); i++ {
		if i < len(scored) && key(scored[i].AdjustedScore) == key(scored[start].AdjustedScore) {
			continue
		}
		if i-start >= 2 {
			groups = append(groups, tieGroup{
				Score:   scored[start].AdjustedScore,
				Members: scored[start:i],
			})
		}
		start = i
	}
	return groups
}

// BreakTies applies micro-adjustments to every member of every group. The
// reasoning service's adjustments are matched back to members by name;
// members the service did not cover, and whole groups when the call fails,
// receive the deterministic fallback adjustment.
func (t *TieBreaker) BreakTies(ctx context.Context, job models.JobRequirements, groups []tieGroup) {
	for _, group := range groups {
		adjustments := t.reasonedAdjustments(ctx, job, group)

		for _, member := range group.Members {
			adj, ok := adjustments[member.Applicant.ID]
			if !ok {
				adj = t.fallbackAdjustment(member)
			}
			delta := clampRange(adj.MicroAdjustment, t.cfg.AdjustmentRange)
			member.AdjustedScore += delta
			if adj.Reasoning != "" {
				member.Result.Reasoning = appendReasoning(member.Result.Reasoning, adj.Reasoning)
			}
			member.Result.EnsembleMethod = models.EnsembleTieBreaker
		}
	}
}

// reasonedAdjustments asks the reasoning service to differentiate the
// group and maps its answers back to applicant IDs. A nil reasoner, a call
// failure or an unusable reply yields an empty map, which sends the whole
// group down the fallback path.
func (t *TieBreaker) reasonedAdjustments(ctx context.Context, job models.JobRequirements, group tieGroup) map[string]Adjustment {
	matched := make(map[string]Adjustment)
	if t.reasoner == nil {
		metrics.TieBreakFallbacks.Inc()
		return matched
	}

	candidates := make([]TieCandidate, 0, len(group.Members))
	for _, m := range group.Members {
		candidates = append(candidates, tieCandidateFrom(m))
	}

	adjustments, err := t.reasoner.CompareCandidates(ctx, job, candidates)
	if err != nil {
		t.logger.Warn("Tie-break reasoning failed, using deterministic fallback", map[string]interface{}{
			"group_score": group.Score,
			"group_size":  len(group.Members),
			"error":       err.Error(),
		})
		metrics.TieBreakFallbacks.Inc()
		return matched
	}

	for _, adj := range adjustments {
		member := matchByName(group.Members, adj.CandidateName)
		if member == nil {
			t.logger.Warn("Tie-break adjustment named no known candidate", map[string]interface{}{
				"candidate_name": adj.CandidateName,
			})
			continue
		}
		matched[member.Applicant.ID] = adj
	}
	return matched
}

// fallbackAdjustment derives a deterministic micro-adjustment from the
// applicant's component profile: specialization (spread across component
// scores) and the job's priority components earn a positive nudge, and a
// hash of the applicant ID adds a stable sub-threshold offset so equal
// profiles still separate.
func (t *TieBreaker) fallbackAdjustment(member *scoredApplicant) Adjustment {
	r := member.Result
	components := []float64{r.EducationScore, r.ExperienceScore, r.SkillsScore, r.EligibilityScore}

	mean := 0.0
	for _, c := range components {
		mean += c
	}
	mean /= float64(len(components))

	variance := 0.0
	for _, c := range components {
		variance += (c - mean) * (c - mean)
	}
	stddev := math.Sqrt(variance / float64(len(components)))

	specialization := math.Min(stddev/50.0, 1.0)
	priority := (r.SkillsScore*0.6 + r.ExperienceScore*0.4) / 100.0
	unique := float64(xxhash.Sum64String(member.Applicant.ID)) / float64(math.MaxUint64)

	span := t.cfg.AdjustmentRange
	delta := specialization*0.3*span + priority*0.5*span + unique*0.2*span - 0.5*span

	return Adjustment{
		CandidateName:   member.Applicant.Name,
		MicroAdjustment: delta,
		Reasoning:       "Tie resolved by component profile comparison.",
	}
}

// matchByName finds the group member whose name matches the reasoning
// service's candidate label, tolerating partial names in either direction.
func matchByName(members []*scoredApplicant, name string) *scoredApplicant {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for _, m := range members {
		have := strings.ToLower(strings.TrimSpace(m.Applicant.Name))
		if have == needle || strings.Contains(have, needle) || strings.Contains(needle, have) {
			return m
		}
	}
	return nil
}

func tieCandidateFrom(m *scoredApplicant) TieCandidate {
	return TieCandidate{
		ApplicantID:      m.Applicant.ID,
		Name:             m.Applicant.Name,
		Education:        m.Applicant.HighestEducationalAttainment,
		YearsExperience:  m.Applicant.TotalYearsExperience,
		Skills:           m.Applicant.Skills,
		Eligibilities:    eligibilityTitles(m.Applicant.Eligibilities),
		EnsembleScore:    m.Result.TotalScore,
		EducationScore:   m.Result.EducationScore,
		ExperienceScore:  m.Result.ExperienceScore,
		SkillsScore:      m.Result.SkillsScore,
		EligibilityScore: m.Result.EligibilityScore,
	}
}

func eligibilityTitles(eligibilities []models.Eligibility) []string {
	titles := make([]string, 0, len(eligibilities))
	for _, e := range eligibilities {
		titles = append(titles, e.Title)
	}
	return titles
}

func clampRange(v, span float64) float64 {
	if v > span {
		return span
	}
	if v < -span {
		return -span
	}
	return v
}

func appendReasoning(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return fmt.Sprintf("%s %s", existing, extra)
}
