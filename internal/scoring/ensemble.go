// internal/scoring/ensemble.go
package scoring

import (
	"fmt"
	"math"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/models"
)

// Ensemble combines the two primary algorithms by weighted average, or
// substitutes the eligibility-education tiebreaker when the primaries
// disagree by less than the configured threshold. The threshold and weights
// come from configuration, validated at process start.
type Ensemble struct {
	cfg        config.ScoringConfig
	weighted   *WeightedSum
	composite  *SkillExperience
	tiebreaker *EligibilityEducation
	logger     logger.Logger
}

func NewEnsemble(cfg config.ScoringConfig, log logger.Logger) *Ensemble {
	return &Ensemble{
		cfg:        cfg,
		weighted:   NewWeightedSum(cfg.WeightedSum),
		composite:  NewSkillExperience(cfg.SkillExperience),
		tiebreaker: NewEligibilityEducation(cfg.Tiebreaker),
		logger:     log.WithFields(map[string]interface{}{"component": "ensemble"}),
	}
}

func (e *Ensemble) Score(job models.JobRequirements, app models.ApplicantData) models.EnsembleResult {
	ws := e.weighted.Score(job, app)
	se := e.composite.Score(job, app)

	details := models.AlgorithmDetails{
		WeightedSum:     ws,
		SkillExperience: se,
	}

	diff := math.Abs(ws.TotalScore - se.TotalScore)
	if diff <= e.cfg.EnsembleThreshold {
		// Near-tie between the primaries: defer to the tiebreaker.
		tb := e.tiebreaker.Score(job, app)
		details.TieBreaker = &tb

		e.logger.Debug("primaries near-tied, tiebreaker applied", map[string]interface{}{
			"applicantId": app.ID,
			"weightedSum": ws.TotalScore,
			"composite":   se.TotalScore,
			"tiebreaker":  tb.TotalScore,
		})

		breakdown := tb
		breakdown.Reasoning = fmt.Sprintf(
			"primary algorithms within %.2f of each other (%.2f vs %.2f); %s",
			e.cfg.EnsembleThreshold, ws.TotalScore, se.TotalScore, tb.Reasoning,
		)
		return models.EnsembleResult{
			ScoreBreakdown:   breakdown,
			EnsembleMethod:   models.EnsembleTieBreaker,
			AlgorithmDetails: details,
		}
	}

	pw := e.cfg.EnsemblePrimaryWeight
	breakdown := models.ScoreBreakdown{
		TotalScore:       ws.TotalScore*pw + se.TotalScore*(1-pw),
		EducationScore:   ws.EducationScore*pw + se.EducationScore*(1-pw),
		ExperienceScore:  ws.ExperienceScore*pw + se.ExperienceScore*(1-pw),
		SkillsScore:      ws.SkillsScore*pw + se.SkillsScore*(1-pw),
		EligibilityScore: ws.EligibilityScore*pw + se.EligibilityScore*(1-pw),
		// Both primaries share the matching helpers, so job-side counts
		// agree; report the weighted-sum counts.
		MatchedSkillsCount:        ws.MatchedSkillsCount,
		MatchedEligibilitiesCount: ws.MatchedEligibilitiesCount,
		AlgorithmUsed:             models.AlgorithmWeightedSum,
		Reasoning: fmt.Sprintf(
			"weighted average of %s (%.2f) and %s (%.2f)",
			models.AlgorithmWeightedSum, ws.TotalScore,
			models.AlgorithmSkillExperience, se.TotalScore,
		),
	}

	return models.EnsembleResult{
		ScoreBreakdown:   breakdown,
		EnsembleMethod:   models.EnsembleWeightedAverage,
		AlgorithmDetails: details,
	}
}
