// internal/services/genai/classifier.go
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/common/metrics"
	"applicant-ranker/internal/dictionary"
	"applicant-ranker/internal/normalize"
)

// contentGenerator is the narrow surface the classifier needs; tests stub it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Classifier implements the cascade's LLM classification tier on top of a
// Gemini content generator.
type Classifier struct {
	generator contentGenerator
	timeout   time.Duration
	logger    logger.Logger
}

func NewClassifier(generator contentGenerator, timeout time.Duration, log logger.Logger) *Classifier {
	return &Classifier{
		generator: generator,
		timeout:   timeout,
		logger:    log.WithFields(map[string]interface{}{"component": "classifier"}),
	}
}

var _ normalize.Classifier = (*Classifier)(nil)

type classifyReply struct {
	CanonicalKey string  `json:"canonical_key"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

func (c *Classifier) ClassifyQualification(ctx context.Context, raw string, candidates []*dictionary.Entry) (normalize.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	reply, err := c.generator.GenerateContent(ctx, buildClassifyPrompt(raw, candidates))
	if err != nil {
		metrics.ExternalCallFailures.WithLabelValues("classification").Inc()
		return normalize.Classification{}, err
	}
	metrics.ExternalCallDuration.WithLabelValues("classification").Observe(time.Since(start).Seconds())

	var parsed classifyReply
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil {
		c.logger.Warn("classification reply is not valid JSON", map[string]interface{}{
			"raw":   raw,
			"error": err.Error(),
		})
		return normalize.Classification{Kind: normalize.ClassificationParseError}, nil
	}

	key := strings.TrimSpace(parsed.CanonicalKey)
	if key == "" || strings.EqualFold(key, "unknown") {
		return normalize.Classification{Kind: normalize.ClassificationUnknown, Reasoning: parsed.Reasoning}, nil
	}

	return normalize.Classification{
		Kind:       normalize.ClassificationSuccess,
		Key:        key,
		Confidence: parsed.Confidence,
		Reasoning:  parsed.Reasoning,
	}, nil
}

func buildClassifyPrompt(raw string, candidates []*dictionary.Entry) string {
	var parts []string
	parts = append(parts, "You normalize free-text qualification strings to a canonical vocabulary.")
	parts = append(parts, fmt.Sprintf("Qualification text: %q", raw))
	parts = append(parts, "Candidate canonical entries (key: label):")
	for _, cand := range candidates {
		parts = append(parts, fmt.Sprintf("- %s: %s", cand.Key, cand.Canonical))
	}
	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Pick the single best matching key from the candidate list")
	parts = append(parts, `- If none of the candidates match, answer with the literal key "unknown"`)
	parts = append(parts, "- Reply with JSON only: {\"canonical_key\": \"...\", \"confidence\": 0.0-1.0, \"reasoning\": \"...\"}")
	return strings.Join(parts, "\n")
}
