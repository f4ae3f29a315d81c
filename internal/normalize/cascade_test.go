// internal/normalize/cascade_test.go
package normalize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/dictionary"
)

// stubEmbedder serves fixed vectors keyed by normalized text and counts
// calls so tests can assert on caching and tier short-circuiting.
type stubEmbedder struct {
	vectors    map[string][]float32
	embedCalls int
	batchCalls int
	err        error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.embedCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors[dictionary.NormalizeText(text)], nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = s.vectors[dictionary.NormalizeText(t)]
	}
	return out, nil
}

// stubClassifier returns a fixed classification and counts calls.
type stubClassifier struct {
	result Classification
	err    error
	calls  int
}

func (s *stubClassifier) ClassifyQualification(_ context.Context, _ string, _ []*dictionary.Entry) (Classification, error) {
	s.calls++
	if s.err != nil {
		return Classification{}, s.err
	}
	return s.result, nil
}

func cascadeTestStore(t *testing.T) *dictionary.Store {
	t.Helper()
	degrees := []*dictionary.Entry{
		{
			Key:        "bs_information_technology",
			Canonical:  "Bachelor of Science in Information Technology",
			Level:      "bachelor",
			FieldGroup: "computing",
			Aliases:    []string{"BSIT", "BS IT"},
		},
		{
			Key:        "bs_accountancy",
			Canonical:  "Bachelor of Science in Accountancy",
			Level:      "bachelor",
			FieldGroup: "business",
			Aliases:    []string{"BSA"},
		},
	}
	return dictionary.NewStoreFromEntries(degrees, nil, logger.NewTestLogger(t))
}

func cascadeTestConfig() config.NormalizeConfig {
	return config.NormalizeConfig{
		StrongSimilarity: 0.85,
		SoftSimilarity:   0.70,
		ShortlistLimit:   20,
	}
}

func TestCascade_DictionaryTierShortCircuits(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	classifier := &stubClassifier{}
	cascade := NewCascade(cascadeTestStore(t), embedder, classifier, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

	res := cascade.Normalize(context.Background(), "BSIT", dictionary.VocabularyDegrees)

	require.True(t, res.Resolved())
	assert.Equal(t, "bs_information_technology", res.CanonicalKey)
	assert.Equal(t, MethodDictionary, res.Method)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, "bachelor", res.Level)
	assert.Equal(t, "computing", res.FieldGroup)

	// Later tiers were never consulted.
	assert.Equal(t, 0, embedder.embedCalls)
	assert.Equal(t, 0, classifier.calls)
}

func TestCascade_EmbeddingTierThresholds(t *testing.T) {
	itLabel := dictionary.NormalizeText("Bachelor of Science in Information Technology")
	acctLabel := dictionary.NormalizeText("Bachelor of Science in Accountancy")

	tests := []struct {
		name           string
		queryVector    []float32
		wantResolved   bool
		wantConfidence float64
	}{
		{name: "strong match", queryVector: []float32{1, 0, 0}, wantResolved: true, wantConfidence: 0.9},
		{name: "soft match", queryVector: []float32{0.8, 0, 0.6}, wantResolved: true, wantConfidence: 0.7},
		{name: "below soft threshold", queryVector: []float32{0.3, 0, 0.954}, wantResolved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := &stubEmbedder{vectors: map[string][]float32{
				itLabel:   {1, 0, 0},
				acctLabel: {0, 1, 0},
				dictionary.NormalizeText("graduate of infotech"): tt.queryVector,
			}}
			classifier := &stubClassifier{result: Classification{Kind: ClassificationUnknown}}
			cascade := NewCascade(cascadeTestStore(t), embedder, classifier, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

			res := cascade.Normalize(context.Background(), "graduate of infotech", dictionary.VocabularyDegrees)

			assert.Equal(t, tt.wantResolved, res.Resolved())
			if tt.wantResolved {
				assert.Equal(t, "bs_information_technology", res.CanonicalKey)
				assert.Equal(t, MethodEmbedding, res.Method)
				assert.Equal(t, tt.wantConfidence, res.Confidence)
			} else {
				// The miss fell through to the classifier.
				assert.Equal(t, 1, classifier.calls)
			}
		})
	}
}

func TestCascade_EmbeddingFailureFallsThroughToLLM(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("embedding service down")}
	classifier := &stubClassifier{result: Classification{
		Kind:       ClassificationSuccess,
		Key:        "bs_accountancy",
		Confidence: 0.8,
	}}
	cascade := NewCascade(cascadeTestStore(t), embedder, classifier, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

	res := cascade.Normalize(context.Background(), "accountancy graduate", dictionary.VocabularyDegrees)

	require.True(t, res.Resolved())
	assert.Equal(t, "bs_accountancy", res.CanonicalKey)
	assert.Equal(t, MethodLLM, res.Method)
	assert.Equal(t, 0.8, res.Confidence)
}

func TestCascade_LLMKeyOutsideShortlistIsRejected(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	classifier := &stubClassifier{result: Classification{
		Kind:       ClassificationSuccess,
		Key:        "made_up_key",
		Confidence: 0.95,
	}}
	cascade := NewCascade(cascadeTestStore(t), embedder, classifier, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

	res := cascade.Normalize(context.Background(), "accountancy graduate", dictionary.VocabularyDegrees)

	assert.False(t, res.Resolved())
	assert.Equal(t, MethodUnresolved, res.Method)
}

func TestCascade_UnresolvedResultIsCached(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	classifier := &stubClassifier{result: Classification{Kind: ClassificationUnknown}}
	cascade := NewCascade(cascadeTestStore(t), embedder, classifier, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

	first := cascade.Normalize(context.Background(), "unknown bachelor program", dictionary.VocabularyDegrees)
	second := cascade.Normalize(context.Background(), "Unknown Bachelor Program!", dictionary.VocabularyDegrees)

	assert.False(t, first.Resolved())
	assert.Equal(t, first.Method, second.Method)
	// The second call, differing only in case and punctuation, hit the
	// cache: no extra external calls.
	assert.Equal(t, 1, embedder.embedCalls)
	assert.Equal(t, 1, classifier.calls)
}

func TestCascade_EmptyInputIsNotCached(t *testing.T) {
	cache := NewMemoryCache()
	cascade := NewCascade(cascadeTestStore(t), nil, nil, cache, cascadeTestConfig(), logger.NewTestLogger(t))

	res := cascade.Normalize(context.Background(), "   ", dictionary.VocabularyDegrees)

	assert.False(t, res.Resolved())
	assert.Equal(t, 0, cache.Len())
}

func TestCascade_CompositeResolvesPartsIndependently(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	classifier := &stubClassifier{result: Classification{Kind: ClassificationUnknown}}
	cascade := NewCascade(cascadeTestStore(t), embedder, classifier, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

	res := cascade.Normalize(context.Background(), "BSA or Unknown Degree", dictionary.VocabularyDegrees)

	require.True(t, res.Resolved())
	assert.Equal(t, "bs_accountancy", res.CanonicalKey)
	assert.Equal(t, MethodDictionary, res.Method)
	assert.Equal(t, 1.0, res.Confidence)
	// The unresolved part keeps its raw text in the rebuilt expression.
	assert.Equal(t, "Bachelor of Science in Accountancy or Unknown Degree", res.Canonical)
}

func TestCascade_CompositePreservesAndJoiner(t *testing.T) {
	cascade := NewCascade(cascadeTestStore(t), nil, nil, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

	res := cascade.Normalize(context.Background(), "BSIT and BSA", dictionary.VocabularyDegrees)

	require.True(t, res.Resolved())
	assert.Equal(t, "Bachelor of Science in Information Technology and Bachelor of Science in Accountancy", res.Canonical)

	parts, joiner := SplitQualifiers(res.Canonical)
	assert.Len(t, parts, 2)
	assert.Equal(t, JoinerAnd, joiner)
}

func TestCascade_CompositeSharesPartCache(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	classifier := &stubClassifier{result: Classification{Kind: ClassificationUnknown}}
	cascade := NewCascade(cascadeTestStore(t), embedder, classifier, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

	cascade.Normalize(context.Background(), "Bachelor of Mystery or BSA", dictionary.VocabularyDegrees)
	callsAfterFirst := classifier.calls
	assert.Equal(t, 1, callsAfterFirst)

	// The same unknown part appears again inside another composite; its
	// result comes from the cache.
	cascade.Normalize(context.Background(), "Bachelor of Mystery or BSIT", dictionary.VocabularyDegrees)
	assert.Equal(t, callsAfterFirst, classifier.calls)
}

func TestCascade_NilServicesDegradeToDictionaryOnly(t *testing.T) {
	cascade := NewCascade(cascadeTestStore(t), nil, nil, NewMemoryCache(), cascadeTestConfig(), logger.NewTestLogger(t))

	resolved := cascade.Normalize(context.Background(), "BSIT", dictionary.VocabularyDegrees)
	assert.True(t, resolved.Resolved())

	unresolved := cascade.Normalize(context.Background(), "something else entirely", dictionary.VocabularyDegrees)
	assert.False(t, unresolved.Resolved())
}
