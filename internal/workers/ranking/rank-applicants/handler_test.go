// internal/workers/ranking/rank-applicants/handler_test.go
package rankapplicants

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/models"
)

type stubRanker struct {
	ranked []models.RankedApplicant
	err    error

	gotJob        models.JobRequirements
	gotApplicants []models.ApplicantData
}

func (s *stubRanker) Rank(_ context.Context, job models.JobRequirements, applicants []models.ApplicantData) (string, []models.RankedApplicant, error) {
	s.gotJob = job
	s.gotApplicants = applicants
	if s.err != nil {
		return "", nil, s.err
	}
	return "run-123", s.ranked, nil
}

func createTestConfig() *Config {
	return &Config{Timeout: 3 * time.Second}
}

func createTestInput() *Input {
	return &Input{
		Job: models.JobRequirements{
			Title:             "Administrative Officer II",
			DegreeRequirement: "BS in Information Technology",
			Eligibilities:     []string{"CSE Professional"},
			Skills:            []string{"SQL", "Records Management"},
			YearsOfExperience: 2,
		},
		Applicants: []models.ApplicantData{
			{ID: "app-1", Name: "Maria Santos", HighestEducationalAttainment: "BSIT", TotalYearsExperience: 4},
			{ID: "app-2", Name: "Jose Reyes", HighestEducationalAttainment: "BSCS", TotalYearsExperience: 3},
		},
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	ranker := &stubRanker{ranked: []models.RankedApplicant{
		{ApplicantID: "app-1", Name: "Maria Santos", Rank: 1, MatchScore: 91.2},
		{ApplicantID: "app-2", Name: "Jose Reyes", Rank: 2, MatchScore: 84.7},
	}}
	handler := NewHandler(createTestConfig(), ranker, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "run-123", output.RankingRunID)
	require.Len(t, output.RankedApplicants, 2)
	assert.Equal(t, 1, output.RankedApplicants[0].Rank)

	// The full input reached the pipeline untouched.
	assert.Equal(t, "Administrative Officer II", ranker.gotJob.Title)
	assert.Len(t, ranker.gotApplicants, 2)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubRanker{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNilInput)
	assert.Nil(t, output)
}

func TestHandler_Execute_RankerFailure(t *testing.T) {
	ranker := &stubRanker{err: errors.New("ranking run failed")}
	handler := NewHandler(createTestConfig(), ranker, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestHandler_Execute_EmptyApplicants(t *testing.T) {
	ranker := &stubRanker{ranked: []models.RankedApplicant{}}
	handler := NewHandler(createTestConfig(), ranker, logger.NewTestLogger(t))

	input := createTestInput()
	input.Applicants = nil
	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Empty(t, output.RankedApplicants)
}

func TestHandler_ValidateInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubRanker{}, logger.NewTestLogger(t))

	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{
			name:      "valid full input",
			variables: `{"job": {"title": "Clerk II", "skills": ["Typing"]}, "applicants": [{"id": "a1", "name": "Maria"}]}`,
			wantErr:   false,
		},
		{
			name:      "missing job",
			variables: `{"applicants": []}`,
			wantErr:   true,
		},
		{
			name:      "empty job title",
			variables: `{"job": {"title": ""}}`,
			wantErr:   true,
		},
		{
			name:      "applicant without id",
			variables: `{"job": {"title": "Clerk II"}, "applicants": [{"name": "Maria"}]}`,
			wantErr:   true,
		},
		{
			name:      "negative experience requirement",
			variables: `{"job": {"title": "Clerk II", "yearsOfExperience": -1}}`,
			wantErr:   true,
		},
		{
			name:      "applicants optional",
			variables: `{"job": {"title": "Clerk II"}}`,
			wantErr:   false,
		},
		{
			name:      "not json",
			variables: `{{{`,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handler.validateInput([]byte(tt.variables))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
