// internal/dictionary/store_test.go
package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicant-ranker/internal/common/logger"
)

func testDegreeEntries() []*Entry {
	return []*Entry{
		{
			Key:        "bs_information_technology",
			Canonical:  "Bachelor of Science in Information Technology",
			Level:      "bachelor",
			FieldGroup: "computing",
			Aliases:    []string{"BSIT", "BS IT", "BS in Information Technology"},
		},
		{
			Key:        "bs_computer_science",
			Canonical:  "Bachelor of Science in Computer Science",
			Level:      "bachelor",
			FieldGroup: "computing",
			Aliases:    []string{"BSCS", "BS Computer Science"},
		},
		{
			Key:        "bs_accountancy",
			Canonical:  "Bachelor of Science in Accountancy",
			Level:      "bachelor",
			FieldGroup: "business",
			Aliases:    []string{"BSA", "BS Accountancy"},
		},
	}
}

func testEligibilityEntries() []*Entry {
	return []*Entry{
		{
			Key:       "cse_professional",
			Canonical: "Career Service Professional Eligibility",
			Category:  "civil_service",
			Aliases:   []string{"CSE Professional", "Civil Service Professional"},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreFromEntries(testDegreeEntries(), testEligibilityEntries(), logger.NewTestLogger(t))
}

func TestStore_LookupByAlias(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name    string
		vocab   Vocabulary
		text    string
		wantKey string
		found   bool
	}{
		{name: "exact canonical", vocab: VocabularyDegrees, text: "Bachelor of Science in Information Technology", wantKey: "bs_information_technology", found: true},
		{name: "alias", vocab: VocabularyDegrees, text: "BSIT", wantKey: "bs_information_technology", found: true},
		{name: "case insensitive", vocab: VocabularyDegrees, text: "bs it", wantKey: "bs_information_technology", found: true},
		{name: "punctuation insensitive", vocab: VocabularyDegrees, text: "B.S. in Information Technology!", wantKey: "bs_information_technology", found: true},
		{name: "extra whitespace", vocab: VocabularyDegrees, text: "  BS   Computer   Science  ", wantKey: "bs_computer_science", found: true},
		{name: "eligibility alias", vocab: VocabularyEligibilities, text: "civil service professional", wantKey: "cse_professional", found: true},
		{name: "unknown text", vocab: VocabularyDegrees, text: "Doctor of Veterinary Medicine", found: false},
		{name: "wrong vocabulary", vocab: VocabularyEligibilities, text: "BSIT", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := store.LookupByAlias(tt.vocab, tt.text)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				require.NotNil(t, entry)
				assert.Equal(t, tt.wantKey, entry.Key)
			}
		})
	}
}

func TestStore_GetByKey(t *testing.T) {
	store := newTestStore(t)

	entry, ok := store.GetByKey(VocabularyDegrees, "bs_accountancy")
	require.True(t, ok)
	assert.Equal(t, "Bachelor of Science in Accountancy", entry.Canonical)
	assert.Equal(t, "business", entry.FieldGroup)

	_, ok = store.GetByKey(VocabularyDegrees, "nonexistent")
	assert.False(t, ok)
}

func TestStore_AliasCollisionKeepsFirstWriter(t *testing.T) {
	degrees := []*Entry{
		{Key: "first", Canonical: "First Degree", Aliases: []string{"Shared Alias"}},
		{Key: "second", Canonical: "Second Degree", Aliases: []string{"Shared Alias"}},
	}
	store := NewStoreFromEntries(degrees, nil, logger.NewTestLogger(t))

	entry, ok := store.LookupByAlias(VocabularyDegrees, "Shared Alias")
	require.True(t, ok)
	assert.Equal(t, "first", entry.Key)
}

func TestStore_TopCandidatesByTokenOverlap(t *testing.T) {
	store := newTestStore(t)

	candidates := store.TopCandidatesByTokenOverlap(VocabularyDegrees, "computer science graduate", 10)
	require.NotEmpty(t, candidates)
	assert.Equal(t, "bs_computer_science", candidates[0].Key)

	// Entries with zero overlap are excluded entirely.
	for _, c := range candidates {
		assert.NotEqual(t, "bs_accountancy_unrelated", c.Key)
	}
}

func TestStore_TopCandidatesLimit(t *testing.T) {
	store := newTestStore(t)

	candidates := store.TopCandidatesByTokenOverlap(VocabularyDegrees, "bachelor of science", 2)
	assert.LessOrEqual(t, len(candidates), 2)

	assert.Nil(t, store.TopCandidatesByTokenOverlap(VocabularyDegrees, "bachelor", 0))
}

func TestStore_EmptyVocabulary(t *testing.T) {
	store := NewStoreFromEntries(nil, nil, logger.NewTestLogger(t))

	assert.Equal(t, 0, store.Size(VocabularyDegrees))
	_, ok := store.LookupByAlias(VocabularyDegrees, "BSIT")
	assert.False(t, ok)
	assert.Empty(t, store.TopCandidatesByTokenOverlap(VocabularyDegrees, "anything", 5))
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BS Information Technology", "bs information technology"},
		{"B.S. in I.T.", "b s in i t"},
		{"  Multiple   Spaces  ", "multiple spaces"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in))
	}
}
