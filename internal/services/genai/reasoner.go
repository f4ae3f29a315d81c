// internal/services/genai/reasoner.go
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"applicant-ranker/internal/common/errors"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/common/metrics"
	"applicant-ranker/internal/models"
	"applicant-ranker/internal/ranking"
)

// Reasoner implements the ranking pipeline's reasoning boundary on top of a
// Gemini content generator. It is used for two things: micro-adjustments
// inside near-tie groups, and one-line insights for the top candidates.
type Reasoner struct {
	generator contentGenerator
	timeout   time.Duration
	logger    logger.Logger
}

func NewReasoner(generator contentGenerator, timeout time.Duration, log logger.Logger) *Reasoner {
	return &Reasoner{
		generator: generator,
		timeout:   timeout,
		logger:    log.WithFields(map[string]interface{}{"component": "reasoner"}),
	}
}

var _ ranking.Reasoner = (*Reasoner)(nil)

// CompareCandidates asks the model to differentiate tied candidates and
// returns its per-candidate adjustments. Replies are parsed defensively:
// anything that is not a JSON array of adjustment objects is an error, and
// the caller falls back to the deterministic scheme.
func (r *Reasoner) CompareCandidates(ctx context.Context, job models.JobRequirements, candidates []ranking.TieCandidate) ([]ranking.Adjustment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	reply, err := r.generator.GenerateContent(ctx, buildComparePrompt(job, candidates))
	if err != nil {
		metrics.ExternalCallFailures.WithLabelValues("reasoning").Inc()
		return nil, errors.NewReasoningFailedError(err)
	}
	metrics.ExternalCallDuration.WithLabelValues("reasoning").Observe(time.Since(start).Seconds())

	var adjustments []ranking.Adjustment
	if err := json.Unmarshal([]byte(extractJSON(reply)), &adjustments); err != nil {
		r.logger.Warn("reasoning reply is not a valid adjustment array", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, errors.NewReasoningParseFailedError(err.Error())
	}

	valid := adjustments[:0]
	for _, adj := range adjustments {
		if strings.TrimSpace(adj.CandidateName) == "" {
			continue
		}
		valid = append(valid, adj)
	}
	if len(valid) == 0 {
		return nil, errors.NewReasoningParseFailedError("reply contained no usable adjustments")
	}
	return valid, nil
}

// SummarizeCandidates returns a one-line insight per candidate name for the
// top of the ranking. Candidates missing from the reply simply get no
// insight.
func (r *Reasoner) SummarizeCandidates(ctx context.Context, job models.JobRequirements, candidates []ranking.TieCandidate) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	reply, err := r.generator.GenerateContent(ctx, buildSummarizePrompt(job, candidates))
	if err != nil {
		metrics.ExternalCallFailures.WithLabelValues("reasoning").Inc()
		return nil, errors.NewReasoningFailedError(err)
	}
	metrics.ExternalCallDuration.WithLabelValues("reasoning").Observe(time.Since(start).Seconds())

	var parsed []struct {
		CandidateName string `json:"candidateName"`
		Insight       string `json:"insight"`
	}
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil {
		return nil, errors.NewReasoningParseFailedError(err.Error())
	}

	insights := make(map[string]string, len(parsed))
	for _, p := range parsed {
		name := strings.TrimSpace(p.CandidateName)
		insight := strings.TrimSpace(p.Insight)
		if name == "" || insight == "" {
			continue
		}
		insights[name] = insight
	}
	return insights, nil
}

func buildComparePrompt(job models.JobRequirements, candidates []ranking.TieCandidate) string {
	var parts []string
	parts = append(parts, "You are comparing job applicants whose computed match scores are tied.")
	parts = append(parts, describeJob(job))
	parts = append(parts, "\nTied candidates:")
	for _, c := range candidates {
		parts = append(parts, describeCandidate(c))
	}
	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Rank the candidates by overall fit for this job, considering qualitative differences their scores cannot capture")
	parts = append(parts, "- Assign each candidate a microAdjustment between -0.5 and 0.5 (better fit gets a higher value); no two candidates may receive the same value")
	parts = append(parts, "- Use every candidate's exact name as given")
	parts = append(parts, `- Reply with a JSON array only: [{"candidateName": "...", "microAdjustment": 0.0, "reasoning": "..."}]`)
	return strings.Join(parts, "\n")
}

func buildSummarizePrompt(job models.JobRequirements, candidates []ranking.TieCandidate) string {
	var parts []string
	parts = append(parts, "You are summarizing the strongest applicants for a job posting.")
	parts = append(parts, describeJob(job))
	parts = append(parts, "\nTop candidates:")
	for _, c := range candidates {
		parts = append(parts, describeCandidate(c))
	}
	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Write one concise sentence per candidate highlighting their strongest qualification for this specific job")
	parts = append(parts, "- Use every candidate's exact name as given")
	parts = append(parts, `- Reply with a JSON array only: [{"candidateName": "...", "insight": "..."}]`)
	return strings.Join(parts, "\n")
}

func describeJob(job models.JobRequirements) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Job title: %s", job.Title))
	if job.DegreeRequirement != "" {
		parts = append(parts, fmt.Sprintf("Required education: %s", job.DegreeRequirement))
	}
	if len(job.Eligibilities) > 0 {
		parts = append(parts, fmt.Sprintf("Required eligibilities: %s", strings.Join(job.Eligibilities, "; ")))
	}
	if len(job.Skills) > 0 {
		parts = append(parts, fmt.Sprintf("Required skills: %s", strings.Join(job.Skills, ", ")))
	}
	if job.YearsOfExperience > 0 {
		parts = append(parts, fmt.Sprintf("Required experience: %.1f years", job.YearsOfExperience))
	}
	return strings.Join(parts, "\n")
}

func describeCandidate(c ranking.TieCandidate) string {
	return fmt.Sprintf(
		"- %s | education: %s | experience: %.1f years | skills: %s | eligibilities: %s | scores (edu/exp/skill/elig): %.1f/%.1f/%.1f/%.1f",
		c.Name,
		emptyAs(c.Education, "not stated"),
		c.YearsExperience,
		emptyAs(strings.Join(c.Skills, ", "), "none"),
		emptyAs(strings.Join(c.Eligibilities, "; "), "none"),
		c.EducationScore, c.ExperienceScore, c.SkillsScore, c.EligibilityScore,
	)
}

func emptyAs(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
