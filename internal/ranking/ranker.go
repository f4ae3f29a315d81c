// internal/ranking/ranker.go
package ranking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/common/errors"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/common/metrics"
	"applicant-ranker/internal/dictionary"
	"applicant-ranker/internal/models"
	"applicant-ranker/internal/normalize"
	"applicant-ranker/internal/scoring"
)

type stage string

const (
	stageNormalizing    stage = "normalizing"
	stageScoring        stage = "scoring"
	stageSorting        stage = "sorting"
	stageTieDetection   stage = "tie_detection"
	stageTieBreaking    stage = "tie_breaking"
	stageRankAssignment stage = "rank_assignment"
)

// Ranker runs the full pipeline for one job posting: normalize the job's
// qualifications once, score every applicant against it in bounded batches,
// sort deterministically, detect and break near-ties, then assign positional
// ranks and attach optional top-candidate insights.
type Ranker struct {
	cascade    *normalize.Cascade
	ensemble   *scoring.Ensemble
	tiebreaker *TieBreaker
	reasoner   Reasoner
	cfg        config.RankingConfig
	logger     logger.Logger
}

func NewRanker(
	cascade *normalize.Cascade,
	ensemble *scoring.Ensemble,
	tiebreaker *TieBreaker,
	reasoner Reasoner,
	cfg config.RankingConfig,
	log logger.Logger,
) *Ranker {
	return &Ranker{
		cascade:    cascade,
		ensemble:   ensemble,
		tiebreaker: tiebreaker,
		reasoner:   reasoner,
		cfg:        cfg,
		logger:     log,
	}
}

// Rank ranks applicants for the given job. The returned slice is ordered by
// rank, ranks are contiguous from 1, and ordering is deterministic for a
// fixed input. The run ID ties log lines of one invocation together.
func (r *Ranker) Rank(ctx context.Context, job models.JobRequirements, applicants []models.ApplicantData) (string, []models.RankedApplicant, error) {
	runID := uuid.New().String()
	log := r.logger.WithFields(map[string]interface{}{"ranking_run_id": runID})
	start := time.Now()

	log.Info("Ranking run started", map[string]interface{}{
		"job_title":       job.Title,
		"applicant_count": len(applicants),
	})

	timer := prometheus.NewTimer(metrics.RankingRunDuration)
	defer timer.ObserveDuration()

	if len(applicants) == 0 {
		metrics.RankingRunsTotal.WithLabelValues("success").Inc()
		return runID, []models.RankedApplicant{}, nil
	}

	r.logStage(log, stageNormalizing)
	job = r.normalizeJob(ctx, job)
	if err := ctx.Err(); err != nil {
		metrics.RankingRunsTotal.WithLabelValues("cancelled").Inc()
		return runID, nil, errors.NewRankingFailedError(err)
	}

	r.logStage(log, stageScoring)
	scored, err := r.scoreApplicants(ctx, job, applicants, log)
	if err != nil {
		metrics.RankingRunsTotal.WithLabelValues("cancelled").Inc()
		return runID, nil, err
	}

	r.logStage(log, stageSorting)
	sortScored(scored)

	r.logStage(log, stageTieDetection)
	groups := findTieGroups(scored, r.cfg.TieThreshold)
	if len(groups) > 0 {
		metrics.TieGroupsDetected.Add(float64(len(groups)))
		log.Info("Near-tie groups detected", map[string]interface{}{
			"group_count": len(groups),
		})

		r.logStage(log, stageTieBreaking)
		r.tiebreaker.BreakTies(ctx, job, groups)
		sortScored(scored)
	}

	r.logStage(log, stageRankAssignment)
	ranked := make([]models.RankedApplicant, 0, len(scored))
	for i, s := range scored {
		ranked = append(ranked, models.RankedApplicant{
			ApplicantID:      s.Applicant.ID,
			Name:             s.Applicant.Name,
			Rank:             i + 1,
			MatchScore:       s.AdjustedScore,
			EducationScore:   s.Result.EducationScore,
			ExperienceScore:  s.Result.ExperienceScore,
			SkillsScore:      s.Result.SkillsScore,
			EligibilityScore: s.Result.EligibilityScore,
			AlgorithmUsed:    s.Result.EnsembleMethod,
			Reasoning:        s.Result.Reasoning,
			Insight:          s.Insight,
		})
	}

	r.attachInsights(ctx, job, scored, ranked, log)

	metrics.RankingRunsTotal.WithLabelValues("success").Inc()
	log.Info("Ranking run completed", map[string]interface{}{
		"applicant_count": len(ranked),
		"duration_ms":     time.Since(start).Milliseconds(),
	})
	return runID, ranked, nil
}

// normalizeJob resolves the job's degree requirement and eligibilities once
// per run; applicant scoring then compares against canonical forms.
// Unresolved qualifications keep their raw text.
func (r *Ranker) normalizeJob(ctx context.Context, job models.JobRequirements) models.JobRequirements {
	if res := r.cascade.Normalize(ctx, job.DegreeRequirement, dictionary.VocabularyDegrees); res.Resolved() {
		job.DegreeRequirement = res.Canonical
		if res.Level != "" || res.FieldGroup != "" {
			job.DegreeMeta = &models.DegreeMeta{Level: res.Level, FieldGroup: res.FieldGroup}
		}
	}

	normalized := make([]string, len(job.Eligibilities))
	for i, raw := range job.Eligibilities {
		normalized[i] = raw
		if res := r.cascade.Normalize(ctx, raw, dictionary.VocabularyEligibilities); res.Resolved() {
			normalized[i] = res.Canonical
		}
	}
	job.Eligibilities = normalized
	return job
}

// scoreApplicants normalizes and scores applicants in batches of
// cfg.BatchSize with a pause between batches, so bursts against the external
// normalization services stay bounded. A failure while scoring one applicant
// leaves that applicant with a zero breakdown and does not disturb the rest.
func (r *Ranker) scoreApplicants(ctx context.Context, job models.JobRequirements, applicants []models.ApplicantData, log logger.Logger) ([]*scoredApplicant, error) {
	scored := make([]*scoredApplicant, len(applicants))

	batchSize := r.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(applicants)
	}

	for batchStart := 0; batchStart < len(applicants); batchStart += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewRankingFailedError(err)
		}

		batchEnd := batchStart + batchSize
		if batchEnd > len(applicants) {
			batchEnd = len(applicants)
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				scored[idx] = r.scoreOne(ctx, job, applicants[idx], idx, log)
			}(i)
		}
		wg.Wait()

		if batchEnd < len(applicants) && r.cfg.BatchPause > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.NewRankingFailedError(ctx.Err())
			case <-time.After(r.cfg.BatchPauseDuration()):
			}
		}
	}
	return scored, nil
}

func (r *Ranker) scoreOne(ctx context.Context, job models.JobRequirements, app models.ApplicantData, idx int, log logger.Logger) (out *scoredApplicant) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Scoring panicked for applicant", map[string]interface{}{
				"applicant_id": app.ID,
				"panic":        rec,
			})
			out = &scoredApplicant{
				Applicant: app,
				Result: models.EnsembleResult{
					ScoreBreakdown: models.ScoreBreakdown{Reasoning: "Scoring failed for this applicant."},
					EnsembleMethod: models.EnsembleWeightedAverage,
				},
				inputIndex: idx,
			}
		}
	}()

	app = r.normalizeApplicant(ctx, app)
	result := r.ensemble.Score(job, app)
	return &scoredApplicant{
		Applicant:     app,
		Result:        result,
		AdjustedScore: result.TotalScore,
		inputIndex:    idx,
	}
}

func (r *Ranker) normalizeApplicant(ctx context.Context, app models.ApplicantData) models.ApplicantData {
	if res := r.cascade.Normalize(ctx, app.HighestEducationalAttainment, dictionary.VocabularyDegrees); res.Resolved() {
		app.HighestEducationalAttainment = res.Canonical
		if res.Level != "" || res.FieldGroup != "" {
			app.DegreeMeta = &models.DegreeMeta{Level: res.Level, FieldGroup: res.FieldGroup}
		}
	}

	normalized := make([]models.Eligibility, len(app.Eligibilities))
	for i, e := range app.Eligibilities {
		normalized[i] = e
		if res := r.cascade.Normalize(ctx, e.Title, dictionary.VocabularyEligibilities); res.Resolved() {
			normalized[i].Title = res.Canonical
		}
	}
	app.Eligibilities = normalized
	return app
}

// attachInsights asks the reasoning service for one-line summaries of the
// top candidates. Failures are logged and the run's output is returned
// without insights.
func (r *Ranker) attachInsights(ctx context.Context, job models.JobRequirements, scored []*scoredApplicant, ranked []models.RankedApplicant, log logger.Logger) {
	if r.reasoner == nil || r.cfg.TopInsights <= 0 {
		return
	}

	top := r.cfg.TopInsights
	if top > len(scored) {
		top = len(scored)
	}

	candidates := make([]TieCandidate, 0, top)
	for _, s := range scored[:top] {
		candidates = append(candidates, tieCandidateFrom(s))
	}

	insights, err := r.reasoner.SummarizeCandidates(ctx, job, candidates)
	if err != nil {
		log.Warn("Top-candidate insights unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for i := 0; i < top; i++ {
		if insight, ok := insights[ranked[i].Name]; ok {
			ranked[i].Insight = insight
		}
	}
}

func (r *Ranker) logStage(log logger.Logger, s stage) {
	log.Debug("Ranking stage", map[string]interface{}{"stage": string(s)})
}
