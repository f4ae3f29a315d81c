// internal/normalize/result.go
package normalize

import (
	"context"

	"applicant-ranker/internal/dictionary"
)

// Method identifies the cascade tier that produced a result.
type Method string

const (
	MethodDictionary Method = "dictionary"
	MethodEmbedding  Method = "embedding"
	MethodLLM        Method = "llm"
	MethodUnresolved Method = "unresolved"
)

// Result is the outcome of resolving one raw qualification string.
// Canonical holds the canonical label, or the reconstructed list expression
// for composite inputs; it stays parseable by the scoring algorithms.
type Result struct {
	CanonicalKey string  `json:"canonicalKey,omitempty"`
	Canonical    string  `json:"canonical,omitempty"`
	Method       Method  `json:"method"`
	Confidence   float64 `json:"confidence"`
	Raw          string  `json:"raw"`

	Level      string `json:"level,omitempty"`
	FieldGroup string `json:"fieldGroup,omitempty"`
}

// Resolved reports whether the cascade produced a canonical key.
func (r Result) Resolved() bool {
	return r.Method != MethodUnresolved && r.CanonicalKey != ""
}

// Embedder is the embedding-service boundary consumed by the cascade.
// A nil/empty vector is a soft failure: the cascade falls through to the
// next tier.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ClassificationKind tags a classification-service reply.
type ClassificationKind string

const (
	ClassificationSuccess    ClassificationKind = "success"
	ClassificationUnknown    ClassificationKind = "unknown"
	ClassificationParseError ClassificationKind = "parse_error"
)

// Classification is the tagged reply of the LLM classification tier; raw
// JSON shape is never trusted past the client boundary.
type Classification struct {
	Kind       ClassificationKind
	Key        string
	Confidence float64
	Reasoning  string
}

// Classifier is the LLM classification boundary. Implementations must only
// return keys drawn from the candidate list, or report Unknown.
type Classifier interface {
	ClassifyQualification(ctx context.Context, raw string, candidates []*dictionary.Entry) (Classification, error)
}
