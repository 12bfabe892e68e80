package college

import (
	"github.com/go-playground/validator/v10"

	"github.com/collegedesk/console/core"
)

// Field names of a CourseCollege form.
const (
	FieldCollegeName       = "college_name"
	FieldCourseName        = "course_name"
	FieldCollegeLocation   = "college_location"
	FieldCourseDescription = "course_description"
	FieldBrochure          = "brochure"
)

// CourseCollege is a course offered by a college, as edited in the console.
type CourseCollege struct {
	CollegeName       string     `json:"college_name" validate:"required,notblank"`
	CourseName        string     `json:"course_name" validate:"required,notblank"`
	CollegeLocation   string     `json:"college_location" validate:"required,notblank"`
	CourseDescription string     `json:"course_description" validate:"max=2000"`
	Brochure          *core.File `json:"-"`

	// BrochureURL is the stored brochure path, as returned by the backend.
	BrochureURL string `json:"brochure,omitempty" validate:"-"`
}

// Validate applies the college form schema.
func (cc CourseCollege) Validate(validate *validator.Validate) error {
	return validate.Struct(cc)
}

// Payload builds the multipart form for create/update. The brochure key is left out
// when no new file was selected so a stored brochure is never overwritten.
func (cc CourseCollege) Payload() *core.Payload {
	p := core.NewPayload()
	p.Append(FieldCollegeName, cc.CollegeName)
	p.Append(FieldCourseName, cc.CourseName)
	p.Append(FieldCollegeLocation, cc.CollegeLocation)
	p.Append(FieldCourseDescription, cc.CourseDescription)
	if cc.Brochure != nil {
		p.AppendFile(FieldBrochure, cc.Brochure)
	}
	return p
}

// Equal compares the editable text fields and the pending brochure.
func (cc CourseCollege) Equal(other CourseCollege) bool {
	return cc.CollegeName == other.CollegeName &&
		cc.CourseName == other.CourseName &&
		cc.CollegeLocation == other.CollegeLocation &&
		cc.CourseDescription == other.CourseDescription &&
		cc.Brochure == other.Brochure
}
