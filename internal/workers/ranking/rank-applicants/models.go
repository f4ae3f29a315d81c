// internal/workers/ranking/rank-applicants/models.go
package rankapplicants

import "applicant-ranker/internal/models"

type Input struct {
	Job        models.JobRequirements `json:"job"`
	Applicants []models.ApplicantData `json:"applicants"`
}

type Output struct {
	RankingRunID     string                   `json:"rankingRunId"`
	RankedApplicants []models.RankedApplicant `json:"rankedApplicants"`
}
