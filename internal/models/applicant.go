// internal/models/applicant.go
package models

// Eligibility is a single eligibility held by an applicant.
type Eligibility struct {
	Title string `json:"title"`
}

// ApplicantData is the immutable per-run description of one applicant.
type ApplicantData struct {
	ID                           string        `json:"id"`
	Name                         string        `json:"name"`
	HighestEducationalAttainment string        `json:"highestEducationalAttainment"`
	Eligibilities                []Eligibility `json:"eligibilities,omitempty"`
	Skills                       []string      `json:"skills,omitempty"`
	TotalYearsExperience         float64       `json:"totalYearsExperience"`
	WorkExperienceTitles         []string      `json:"workExperienceTitles,omitempty"`

	// Populated by normalization; never present on input.
	DegreeMeta *DegreeMeta `json:"degreeMeta,omitempty"`
}
