// internal/scoring/components_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"applicant-ranker/internal/models"
)

func TestEducationScore_ExactAndComposite(t *testing.T) {
	tests := []struct {
		name string
		job  models.JobRequirements
		app  models.ApplicantData
		want float64
	}{
		{
			name: "exact canonical match",
			job:  models.JobRequirements{DegreeRequirement: "Bachelor of Science in Information Technology"},
			app:  models.ApplicantData{HighestEducationalAttainment: "Bachelor of Science in Information Technology"},
			want: 100,
		},
		{
			name: "or expression satisfied by one alternative",
			job:  models.JobRequirements{DegreeRequirement: "Bachelor of Science in Accountancy or Bachelor of Science in Information Technology"},
			app:  models.ApplicantData{HighestEducationalAttainment: "Bachelor of Science in Information Technology"},
			want: 100,
		},
		{
			name: "and expression fully satisfied",
			job:  models.JobRequirements{DegreeRequirement: "Bachelor of Science in Accountancy and Master in Business Administration"},
			app:  models.ApplicantData{HighestEducationalAttainment: "Bachelor of Science in Accountancy and Master in Business Administration"},
			want: 100,
		},
		{
			name: "and expression half satisfied gives partial credit",
			job:  models.JobRequirements{DegreeRequirement: "Bachelor of Science in Accountancy and Master in Business Administration"},
			app:  models.ApplicantData{HighestEducationalAttainment: "Bachelor of Science in Accountancy"},
			want: 50,
		},
		{
			name: "no requirement",
			job:  models.JobRequirements{DegreeRequirement: ""},
			app:  models.ApplicantData{HighestEducationalAttainment: "High School Diploma"},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, educationScore(tt.job, tt.app), 1e-9)
		})
	}
}

func TestEducationScore_TierProximity(t *testing.T) {
	job := models.JobRequirements{
		DegreeRequirement: "Bachelor of Science in Information Technology",
		DegreeMeta:        &models.DegreeMeta{Level: "bachelor", FieldGroup: "computing"},
	}

	tests := []struct {
		name string
		app  models.ApplicantData
		want float64
	}{
		{
			name: "same level same field",
			app: models.ApplicantData{
				HighestEducationalAttainment: "Bachelor of Science in Computer Science",
				DegreeMeta:                   &models.DegreeMeta{Level: "bachelor", FieldGroup: "computing"},
			},
			want: 90,
		},
		{
			name: "higher level same field",
			app: models.ApplicantData{
				HighestEducationalAttainment: "Master of Science in Information Technology",
				DegreeMeta:                   &models.DegreeMeta{Level: "master", FieldGroup: "computing"},
			},
			want: 90,
		},
		{
			name: "same level different field",
			app: models.ApplicantData{
				HighestEducationalAttainment: "Bachelor of Science in Nursing",
				DegreeMeta:                   &models.DegreeMeta{Level: "bachelor", FieldGroup: "health"},
			},
			want: 70,
		},
		{
			name: "one level below same field",
			app: models.ApplicantData{
				HighestEducationalAttainment: "Associate in Computer Technology",
				DegreeMeta:                   &models.DegreeMeta{Level: "associate", FieldGroup: "computing"},
			},
			want: 55,
		},
		{
			name: "one level below different field",
			app: models.ApplicantData{
				HighestEducationalAttainment: "Associate in Culinary Arts",
				DegreeMeta:                   &models.DegreeMeta{Level: "associate", FieldGroup: "culinary"},
			},
			want: 40,
		},
		{
			name: "two levels below",
			app: models.ApplicantData{
				HighestEducationalAttainment: "Vocational Certificate",
				DegreeMeta:                   &models.DegreeMeta{Level: "vocational", FieldGroup: "computing"},
			},
			want: 25,
		},
		{
			name: "far below",
			app: models.ApplicantData{
				HighestEducationalAttainment: "High School Diploma",
				DegreeMeta:                   &models.DegreeMeta{Level: "high_school"},
			},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, educationScore(job, tt.app), 1e-9)
		})
	}
}

func TestEducationScore_MissingMetadataUsesTokenOverlap(t *testing.T) {
	job := models.JobRequirements{DegreeRequirement: "Bachelor of Science in Marine Biology"}
	app := models.ApplicantData{HighestEducationalAttainment: "Bachelor of Science in Biology"}

	got := educationScore(job, app)
	assert.Greater(t, got, 0.0)
	assert.LessOrEqual(t, got, 60.0)
}

func TestExperienceYearsScore(t *testing.T) {
	assert.InDelta(t, 100.0, experienceYearsScore(0, 0), 1e-9)
	assert.InDelta(t, 100.0, experienceYearsScore(3, 5), 1e-9)
	assert.InDelta(t, 50.0, experienceYearsScore(4, 2), 1e-9)
	assert.InDelta(t, 0.0, experienceYearsScore(5, 0), 1e-9)
}

func TestSkillsOverlap_JobSideCounts(t *testing.T) {
	jobSkills := []string{"Java", "SQL", "Project Management", "Networking"}
	appSkills := []string{"java", "sql", "Python"}

	score, matched := skillsOverlap(jobSkills, appSkills)
	assert.InDelta(t, 50.0, score, 1e-9)
	assert.Equal(t, 2, matched)
}

func TestSkillsOverlap_WordBoundaries(t *testing.T) {
	// "Java" must not match "JavaScript".
	score, matched := skillsOverlap([]string{"Java"}, []string{"JavaScript"})
	assert.InDelta(t, 0.0, score, 1e-9)
	assert.Equal(t, 0, matched)

	// Containment on word boundaries does match.
	score, matched = skillsOverlap([]string{"SQL"}, []string{"Microsoft SQL Server"})
	assert.InDelta(t, 100.0, score, 1e-9)
	assert.Equal(t, 1, matched)
}

func TestSkillsOverlap_NoRequirements(t *testing.T) {
	score, matched := skillsOverlap(nil, []string{"anything"})
	assert.InDelta(t, 100.0, score, 1e-9)
	assert.Equal(t, 0, matched)
}

func TestEligibilityOverlap_CompositeExpressions(t *testing.T) {
	held := []models.Eligibility{
		{Title: "Career Service Professional Eligibility"},
	}

	tests := []struct {
		name          string
		jobElig       []string
		wantScore     float64
		wantSatisfied int
	}{
		{
			name:          "simple requirement satisfied",
			jobElig:       []string{"Career Service Professional Eligibility"},
			wantScore:     100,
			wantSatisfied: 1,
		},
		{
			name:          "or expression satisfied by one held",
			jobElig:       []string{"Career Service Professional Eligibility or RA 1080 Certified Public Accountant"},
			wantScore:     100,
			wantSatisfied: 1,
		},
		{
			name:          "and expression needs all alternatives",
			jobElig:       []string{"Career Service Professional Eligibility and RA 1080 Certified Public Accountant"},
			wantScore:     0,
			wantSatisfied: 0,
		},
		{
			name:          "two requirements one satisfied",
			jobElig:       []string{"Career Service Professional Eligibility", "RA 1080 Registered Nurse"},
			wantScore:     50,
			wantSatisfied: 1,
		},
		{
			name:          "no requirement",
			jobElig:       nil,
			wantScore:     100,
			wantSatisfied: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, satisfied := eligibilityOverlap(tt.jobElig, held)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, tt.wantSatisfied, satisfied)
		})
	}
}

func TestTitleSimilarity(t *testing.T) {
	got := titleSimilarity("Administrative Officer II", []string{
		"Sales Associate",
		"Administrative Officer I",
	})
	assert.InDelta(t, 50.0, got, 1e-9) // 2 of 4 distinct tokens shared

	assert.InDelta(t, 0.0, titleSimilarity("Administrative Officer", nil), 1e-9)
}

func TestTextMatchesAny_Normalization(t *testing.T) {
	assert.True(t, textMatchesAny("B.S. Accountancy", []string{"bs accountancy"}))
	assert.True(t, textMatchesAny("SQL", []string{"Advanced SQL tuning"}))
	assert.False(t, textMatchesAny("Java", []string{"JavaScript"}))
	assert.False(t, textMatchesAny("", []string{"anything"}))
}
