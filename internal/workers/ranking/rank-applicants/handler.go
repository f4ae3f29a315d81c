// internal/workers/ranking/rank-applicants/handler.go
package rankapplicants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	stderrors "applicant-ranker/internal/common/errors"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "rank-applicants"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

// inputSchema validates the job variables before anything touches the
// ranking pipeline. Applicants may be empty; a job title is mandatory.
const inputSchema = `{
	"type": "object",
	"required": ["job"],
	"properties": {
		"job": {
			"type": "object",
			"required": ["title"],
			"properties": {
				"title": {"type": "string", "minLength": 1},
				"degreeRequirement": {"type": "string"},
				"eligibilities": {"type": "array", "items": {"type": "string"}},
				"skills": {"type": "array", "items": {"type": "string"}},
				"yearsOfExperience": {"type": "number", "minimum": 0}
			}
		},
		"applicants": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"name": {"type": "string"}
				}
			}
		}
	}
}`

// ApplicantRanker is the ranking pipeline surface the worker drives.
type ApplicantRanker interface {
	Rank(ctx context.Context, job models.JobRequirements, applicants []models.ApplicantData) (string, []models.RankedApplicant, error)
}

type Handler struct {
	config *Config
	ranker ApplicantRanker
	logger logger.Logger
}

func NewHandler(config *Config, ranker ApplicantRanker, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		ranker: ranker,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := h.validateInput([]byte(job.Variables)); err != nil {
		h.failJob(client, job, string(stderrors.ErrCodeRequestValidationFailed), err.Error())
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := stderrors.ErrCodeRankingFailed
		var stdErr *stderrors.StandardError
		if errors.As(err, &stdErr) {
			code = stdErr.Code
		}
		h.failJob(client, job, string(code), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	runID, ranked, err := h.ranker.Rank(ctx, input.Job, input.Applicants)
	if err != nil {
		return nil, err
	}

	return &Output{
		RankingRunID:     runID,
		RankedApplicants: ranked,
	}, nil
}

func (h *Handler) validateInput(variables []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(inputSchema)
	documentLoader := gojsonschema.NewBytesLoader(variables)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return stderrors.NewRequestValidationFailedError(fmt.Sprintf("%v", errs))
	}

	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
