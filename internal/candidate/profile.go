package candidate

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// namespace seeds deterministic candidate IDs derived from document content.
var namespace = uuid.MustParse("6f1b7c52-3c1e-4d55-9a57-2f8f7c0b1d43")

// JobRequirement is the profile candidates are ranked against.
type JobRequirement struct {
	RequiredSkills     []string `json:"required_skills" mapstructure:"skills"`
	MinExperienceYears float64  `json:"min_experience_years" mapstructure:"min-experience" validate:"gte=0"`
}

// Validate checks the requirement constraints.
func (j *JobRequirement) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}

// ContactInfo holds the first email and phone found in a document.
type ContactInfo struct {
	Email Field `json:"email"`
	Phone Field `json:"phone"`
}

// Profile is a candidate assembled from a single resume document.
type Profile struct {
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Name            Field       `json:"name"`
	Contact         ContactInfo `json:"contact"`
	ExperienceYears float64     `json:"experience_years"`
	Skills          []string    `json:"skills"`
	MatchScore      float64     `json:"match_score"`
	// ConversionError is set when the document could not be turned into text.
	ConversionError string `json:"conversion_error,omitempty"`
}

// NewID derives a stable candidate ID from the raw document bytes.
func NewID(data []byte) string {
	return uuid.NewSHA1(namespace, data).String()
}

// DisplayName renders the candidate name or the Unknown sentinel.
func (p *Profile) DisplayName() string {
	return p.Name.Or(UnknownName)
}

// Email renders the email or the Not found sentinel.
func (p *Profile) Email() string {
	return p.Contact.Email.Or(NotFound)
}

// Phone renders the phone or the Not found sentinel.
func (p *Profile) Phone() string {
	return p.Contact.Phone.Or(NotFound)
}

// SkillList joins skills for display.
func (p *Profile) SkillList() string {
	return strings.Join(p.Skills, ", ")
}
