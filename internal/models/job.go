// internal/models/job.go
package models

// DegreeMeta carries the classification metadata of a normalized degree.
// For composite requirements it reflects the first successfully normalized
// alternative.
type DegreeMeta struct {
	Level      string `json:"level,omitempty"`
	FieldGroup string `json:"fieldGroup,omitempty"`
}

// JobRequirements is the immutable per-run description of the job side.
// DegreeRequirement and eligibility strings may be composite list
// expressions ("BS Accountancy or BSBA major in Finance").
type JobRequirements struct {
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	DegreeRequirement string   `json:"degreeRequirement"`
	Eligibilities     []string `json:"eligibilities,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	YearsOfExperience float64  `json:"yearsOfExperience"`

	// Populated by normalization; never present on input.
	DegreeMeta *DegreeMeta `json:"degreeMeta,omitempty"`
}
