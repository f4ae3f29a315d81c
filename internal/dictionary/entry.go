// internal/dictionary/entry.go
package dictionary

// Vocabulary names one of the independent canonical vocabularies.
type Vocabulary string

const (
	VocabularyDegrees       Vocabulary = "degrees"
	VocabularyEligibilities Vocabulary = "eligibilities"
)

// Entry is one immutable canonical vocabulary record. Key is the stable
// identifier independent of how an applicant phrased the qualification.
type Entry struct {
	Key        string   `mapstructure:"key" json:"key"`
	Canonical  string   `mapstructure:"canonical" json:"canonical"`
	Level      string   `mapstructure:"level" json:"level,omitempty"`
	FieldGroup string   `mapstructure:"field_group" json:"fieldGroup,omitempty"`
	Category   string   `mapstructure:"category" json:"category,omitempty"`
	Aliases    []string `mapstructure:"aliases" json:"aliases,omitempty"`
}
