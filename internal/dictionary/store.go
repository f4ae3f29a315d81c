// internal/dictionary/store.go
package dictionary

import (
	"fmt"
	"sort"

	"applicant-ranker/internal/common/config"
	"applicant-ranker/internal/common/logger"

	"github.com/spf13/viper"
)

// Store loads and indexes the static canonical vocabularies. It is built
// once at process start and read-only afterwards. A vocabulary that failed
// to load stays empty: lookups return not-found and the cascade relies on
// the embedding and LLM tiers.
type Store struct {
	vocabs map[Vocabulary]*vocabIndex
	logger logger.Logger
}

type vocabIndex struct {
	entries []*Entry
	byKey   map[string]*Entry
	byAlias map[string]*Entry
	tokens  map[string]map[string]struct{} // key -> token set of canonical + aliases
}

// NewStore loads both vocabularies. Failure domains are independent: one
// vocabulary failing to load never prevents the other from loading, and
// load never returns an error to the caller.
func NewStore(cfg config.DictionaryConfig, log logger.Logger) *Store {
	s := &Store{
		vocabs: make(map[Vocabulary]*vocabIndex, 2),
		logger: log.WithFields(map[string]interface{}{"component": "dictionary"}),
	}

	for vocab, path := range map[Vocabulary]string{
		VocabularyDegrees:       cfg.DegreesPath,
		VocabularyEligibilities: cfg.EligibilitiesPath,
	} {
		entries, err := loadEntries(path)
		if err != nil {
			s.logger.Error("vocabulary load failed", map[string]interface{}{
				"vocabulary": string(vocab),
				"path":       path,
				"error":      err.Error(),
			})
			s.vocabs[vocab] = newVocabIndex(nil, vocab, s.logger)
			continue
		}
		s.vocabs[vocab] = newVocabIndex(entries, vocab, s.logger)
		s.logger.Info("vocabulary loaded", map[string]interface{}{
			"vocabulary": string(vocab),
			"entries":    len(entries),
		})
	}

	return s
}

// NewStoreFromEntries builds a store from in-memory entries, used by tests
// and by callers that manage vocabulary files themselves.
func NewStoreFromEntries(degrees, eligibilities []*Entry, log logger.Logger) *Store {
	l := log.WithFields(map[string]interface{}{"component": "dictionary"})
	return &Store{
		vocabs: map[Vocabulary]*vocabIndex{
			VocabularyDegrees:       newVocabIndex(degrees, VocabularyDegrees, l),
			VocabularyEligibilities: newVocabIndex(eligibilities, VocabularyEligibilities, l),
		},
		logger: l,
	}
}

func loadEntries(path string) ([]*Entry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var entries []*Entry
	if err := v.UnmarshalKey("entries", &entries); err != nil {
		return nil, fmt.Errorf("unmarshal vocabulary entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("vocabulary file %s has no entries", path)
	}
	return entries, nil
}

func newVocabIndex(entries []*Entry, vocab Vocabulary, log logger.Logger) *vocabIndex {
	idx := &vocabIndex{
		entries: entries,
		byKey:   make(map[string]*Entry, len(entries)),
		byAlias: make(map[string]*Entry),
		tokens:  make(map[string]map[string]struct{}, len(entries)),
	}

	for _, e := range entries {
		idx.byKey[e.Key] = e

		allTokens := Tokenize(e.Canonical)
		for _, alias := range append([]string{e.Canonical}, e.Aliases...) {
			norm := NormalizeText(alias)
			if norm == "" {
				continue
			}
			if existing, ok := idx.byAlias[norm]; ok {
				if existing.Key != e.Key {
					// First-writer-wins; a collision is a vocabulary
					// inconsistency, logged and non-fatal.
					log.Warn("alias collision", map[string]interface{}{
						"vocabulary": string(vocab),
						"alias":      norm,
						"kept":       existing.Key,
						"dropped":    e.Key,
					})
				}
				continue
			}
			idx.byAlias[norm] = e
			allTokens = append(allTokens, Tokenize(alias)...)
		}
		idx.tokens[e.Key] = tokenSet(allTokens)
	}

	return idx
}

// LookupByAlias resolves text against the alias index. The match is
// case/punctuation/whitespace-insensitive.
func (s *Store) LookupByAlias(vocab Vocabulary, text string) (*Entry, bool) {
	idx, ok := s.vocabs[vocab]
	if !ok {
		return nil, false
	}
	e, ok := idx.byAlias[NormalizeText(text)]
	return e, ok
}

// GetByKey returns the entry with the given canonical key.
func (s *Store) GetByKey(vocab Vocabulary, key string) (*Entry, bool) {
	idx, ok := s.vocabs[vocab]
	if !ok {
		return nil, false
	}
	e, ok := idx.byKey[key]
	return e, ok
}

// Entries returns all entries of a vocabulary in load order.
func (s *Store) Entries(vocab Vocabulary) []*Entry {
	idx, ok := s.vocabs[vocab]
	if !ok {
		return nil
	}
	return idx.entries
}

// Size returns the number of entries loaded for a vocabulary.
func (s *Store) Size(vocab Vocabulary) int {
	return len(s.Entries(vocab))
}

// TopCandidatesByTokenOverlap shortlists entries by Jaccard similarity over
// whitespace/punctuation-tokenized words. It is the cheap pre-filter used
// to bound the candidate set presented to the LLM classification tier.
func (s *Store) TopCandidatesByTokenOverlap(vocab Vocabulary, text string, limit int) []*Entry {
	idx, ok := s.vocabs[vocab]
	if !ok || limit <= 0 {
		return nil
	}

	query := tokenSet(Tokenize(text))
	type scored struct {
		entry *Entry
		score float64
	}

	candidates := make([]scored, 0, len(idx.entries))
	for _, e := range idx.entries {
		if score := jaccard(query, idx.tokens[e.Key]); score > 0 {
			candidates = append(candidates, scored{entry: e, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].entry.Key < candidates[j].entry.Key
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]*Entry, len(candidates))
	for i, c := range candidates {
		out[i] = c.entry
	}
	return out
}
