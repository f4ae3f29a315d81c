// internal/normalize/cascade.go
package normalize

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/common/metrics"
	"applicant-ranker/internal/dictionary"
)

// tier is one stage of the resolution cascade. Resolve returns nil when the
// tier cannot resolve the input; the cascade then falls through to the next
// tier. The tier order is data, not control flow.
type tier struct {
	name    string
	resolve func(ctx context.Context, raw string, vocab dictionary.Vocabulary) *Result
}

// Cascade resolves raw qualification strings to canonical keys using, in
// order: dictionary alias match, embedding similarity, LLM classification.
type Cascade struct {
	store      *dictionary.Store
	embedder   Embedder
	classifier Classifier
	cache      Cache
	cfg        config.NormalizeConfig
	logger     logger.Logger
	tiers      []tier

	mu         sync.Mutex
	embeddings map[dictionary.Vocabulary]*vocabEmbeddings
}

// vocabEmbeddings holds the lazily-built embedding matrix of one
// vocabulary's canonical labels. Built once, on the first cascade miss that
// reaches the embedding tier, and cached for the process lifetime.
type vocabEmbeddings struct {
	once    sync.Once
	keys    []string
	vectors [][]float32
	err     error
}

func NewCascade(
	store *dictionary.Store,
	embedder Embedder,
	classifier Classifier,
	cache Cache,
	cfg config.NormalizeConfig,
	log logger.Logger,
) *Cascade {
	c := &Cascade{
		store:      store,
		embedder:   embedder,
		classifier: classifier,
		cache:      cache,
		cfg:        cfg,
		logger:     log.WithFields(map[string]interface{}{"component": "normalize"}),
		embeddings: make(map[dictionary.Vocabulary]*vocabEmbeddings),
	}
	c.tiers = []tier{
		{name: "dictionary", resolve: c.resolveDictionary},
		{name: "embedding", resolve: c.resolveEmbedding},
		{name: "llm", resolve: c.resolveLLM},
	}
	return c
}

// Normalize resolves one raw qualification string against a vocabulary.
// Composite inputs are split, resolved per alternative and rejoined with the
// joiner semantics observed in the input. Every produced result is cached by
// normalized raw text, so a job requirement checked against every applicant
// in a batch pays the resolution cost once per process.
func (c *Cascade) Normalize(ctx context.Context, raw string, vocab dictionary.Vocabulary) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Method: MethodUnresolved, Confidence: 0, Raw: raw}
	}

	cacheKey := string(vocab) + "|" + dictionary.NormalizeText(raw)
	if cached, ok := c.cache.Get(ctx, cacheKey); ok {
		return cached
	}

	parts, joiner := SplitQualifiers(raw)
	var result Result
	if len(parts) > 1 {
		result = c.normalizeComposite(ctx, raw, parts, joiner, vocab)
	} else {
		result = c.normalizeSingle(ctx, raw, vocab)
	}

	c.cache.Set(ctx, cacheKey, result)
	metrics.CascadeResolutionsTotal.WithLabelValues(string(result.Method)).Inc()
	return result
}

func (c *Cascade) normalizeSingle(ctx context.Context, raw string, vocab dictionary.Vocabulary) Result {
	// An absent vocabulary makes every tier miss on its own: no alias
	// matches, an empty embedding matrix, an empty shortlist.
	for _, t := range c.tiers {
		if res := t.resolve(ctx, raw, vocab); res != nil {
			return *res
		}
	}
	return Result{Method: MethodUnresolved, Confidence: 0, Raw: raw}
}

// normalizeComposite resolves each alternative independently and rejoins
// the canonical (or raw, when unresolved) parts. The first successfully
// normalized part contributes the composite's primary key and metadata.
func (c *Cascade) normalizeComposite(ctx context.Context, raw string, parts []string, joiner Joiner, vocab dictionary.Vocabulary) Result {
	canonicalParts := make([]string, len(parts))
	composite := Result{Method: MethodUnresolved, Raw: raw}

	for i, part := range parts {
		// Per-part results go through Normalize to share the cache.
		res := c.Normalize(ctx, part, vocab)
		if res.Resolved() {
			canonicalParts[i] = res.Canonical
			if composite.CanonicalKey == "" {
				composite.CanonicalKey = res.CanonicalKey
				composite.Method = res.Method
				composite.Level = res.Level
				composite.FieldGroup = res.FieldGroup
			}
			if res.Confidence > composite.Confidence {
				composite.Confidence = res.Confidence
			}
		} else {
			canonicalParts[i] = part
		}
	}

	composite.Canonical = JoinQualifiers(canonicalParts, joiner)
	return composite
}

func (c *Cascade) resolveDictionary(_ context.Context, raw string, vocab dictionary.Vocabulary) *Result {
	entry, ok := c.store.LookupByAlias(vocab, raw)
	if !ok {
		return nil
	}
	return resultFromEntry(entry, raw, MethodDictionary, 1.0)
}

func (c *Cascade) resolveEmbedding(ctx context.Context, raw string, vocab dictionary.Vocabulary) *Result {
	if c.embedder == nil {
		return nil
	}

	matrix := c.vocabEmbeddings(ctx, vocab)
	if matrix.err != nil || len(matrix.vectors) == 0 {
		return nil
	}

	vec, err := c.embedder.Embed(ctx, raw)
	if err != nil || len(vec) == 0 {
		// Soft failure: fall through to the next tier.
		if err != nil {
			c.logger.Warn("embedding call failed", map[string]interface{}{
				"raw":   raw,
				"error": err.Error(),
			})
		}
		return nil
	}
	vec = l2Normalize(vec)

	bestIdx, bestSim := -1, -1.0
	for i, cand := range matrix.vectors {
		if len(cand) == 0 {
			continue
		}
		if sim := cosine(vec, cand); sim > bestSim {
			bestIdx, bestSim = i, sim
		}
	}
	if bestIdx < 0 {
		return nil
	}

	var confidence float64
	switch {
	case bestSim >= c.cfg.StrongSimilarity:
		confidence = 0.9
	case bestSim >= c.cfg.SoftSimilarity:
		confidence = 0.7
	default:
		// Below the soft threshold the tier does not guess.
		return nil
	}

	entry, ok := c.store.GetByKey(vocab, matrix.keys[bestIdx])
	if !ok {
		return nil
	}

	c.logger.Debug("embedding match", map[string]interface{}{
		"raw":        raw,
		"key":        entry.Key,
		"similarity": bestSim,
	})
	return resultFromEntry(entry, raw, MethodEmbedding, confidence)
}

func (c *Cascade) resolveLLM(ctx context.Context, raw string, vocab dictionary.Vocabulary) *Result {
	if c.classifier == nil {
		return nil
	}

	candidates := c.store.TopCandidatesByTokenOverlap(vocab, raw, c.cfg.ShortlistLimit)
	if len(candidates) == 0 {
		return nil
	}

	classification, err := c.classifier.ClassifyQualification(ctx, raw, candidates)
	if err != nil {
		c.logger.Warn("classification call failed", map[string]interface{}{
			"raw":   raw,
			"error": err.Error(),
		})
		return nil
	}
	if classification.Kind != ClassificationSuccess {
		return nil
	}

	// Accept only keys present in the shortlist; anything else is treated
	// as unresolved rather than silently mapped.
	for _, cand := range candidates {
		if cand.Key == classification.Key {
			return resultFromEntry(cand, raw, MethodLLM, clamp01(classification.Confidence))
		}
	}

	c.logger.Warn("classifier returned key outside shortlist", map[string]interface{}{
		"raw": raw,
		"key": classification.Key,
	})
	return nil
}

// vocabEmbeddings returns the lazily-built canonical-label embedding matrix
// for a vocabulary.
func (c *Cascade) vocabEmbeddings(ctx context.Context, vocab dictionary.Vocabulary) *vocabEmbeddings {
	c.mu.Lock()
	ve, ok := c.embeddings[vocab]
	if !ok {
		ve = &vocabEmbeddings{}
		c.embeddings[vocab] = ve
	}
	c.mu.Unlock()

	ve.once.Do(func() {
		entries := c.store.Entries(vocab)
		labels := make([]string, len(entries))
		ve.keys = make([]string, len(entries))
		for i, e := range entries {
			labels[i] = e.Canonical
			ve.keys[i] = e.Key
		}
		if len(labels) == 0 {
			return
		}

		vectors, err := c.embedder.EmbedBatch(ctx, labels)
		if err != nil || len(vectors) != len(labels) {
			if err == nil {
				err = fmt.Errorf("embedding batch size mismatch: want %d, got %d", len(labels), len(vectors))
			}
			ve.err = err
			c.logger.Warn("vocabulary embedding build failed", map[string]interface{}{
				"vocabulary": string(vocab),
				"error":      err.Error(),
			})
			return
		}
		for i := range vectors {
			vectors[i] = l2Normalize(vectors[i])
		}
		ve.vectors = vectors
		c.logger.Info("vocabulary embeddings built", map[string]interface{}{
			"vocabulary": string(vocab),
			"entries":    len(vectors),
		})
	})

	return ve
}

func resultFromEntry(entry *dictionary.Entry, raw string, method Method, confidence float64) *Result {
	return &Result{
		CanonicalKey: entry.Key,
		Canonical:    entry.Canonical,
		Method:       method,
		Confidence:   confidence,
		Raw:          raw,
		Level:        entry.Level,
		FieldGroup:   entry.FieldGroup,
	}
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func l2Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
