package college

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core"
)

// Backend is the part of the REST backend the college editor talks to.
type Backend interface {
	GetCourseDetails(ctx context.Context, id string) (CourseCollege, error)
	RegisterCollege(ctx context.Context, payload *core.Payload) (string, error)
	UpdateCollege(ctx context.Context, payload *core.Payload, id string) (string, error)
}

// Editor holds the state of one course-college form. The id given to Load alone
// decides whether Submit creates or updates.
type Editor struct {
	backend  Backend
	notifier core.Notifier
	validate *validator.Validate
	viewer   core.Viewer

	mu         sync.Mutex
	id         string
	loaded     CourseCollege
	values     CourseCollege
	submitting bool
}

func NewEditor(backend Backend, notifier core.Notifier, validate *validator.Validate, viewer core.Viewer) *Editor {
	if notifier == nil {
		notifier = core.NopNotifier
	}
	return &Editor{
		backend:  backend,
		notifier: notifier,
		validate: validate,
		viewer:   viewer,
	}
}

// Load seeds the form from the backend when id is set, or starts blank.
func (e *Editor) Load(ctx context.Context, id string) error {
	var cc CourseCollege
	if id != "" {
		var err error
		if cc, err = e.backend.GetCourseDetails(ctx, id); err != nil {
			return errors.Wrap(err, "getting course details")
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = id
	e.loaded = cc
	e.values = cc
	return nil
}

func (e *Editor) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Editor) Values() CourseCollege {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values
}

// SetField updates one text field. College and course names are title-cased as typed.
func (e *Editor) SetField(field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch field {
	case FieldCollegeName:
		e.values.CollegeName = core.TitleCase(value)
	case FieldCourseName:
		e.values.CourseName = core.TitleCase(value)
	case FieldCollegeLocation:
		e.values.CollegeLocation = value
	case FieldCourseDescription:
		e.values.CourseDescription = value
	default:
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: "unknown field"})
	}
	return nil
}

// AttachBrochure selects a brochure file; nil clears the selection.
// A rejected file leaves the field as it was.
func (e *Editor) AttachBrochure(f *core.File) error {
	if f != nil {
		if !f.IsPDF() {
			return core.NewFieldError(FieldBrochure, core.ErrUnsupportedFile)
		}
		if err := f.CheckSize(core.BrochureMaxSize); err != nil {
			return core.NewFieldError(FieldBrochure, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.values.Brochure = f
	return nil
}

func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.values.Equal(e.loaded)
}

// Discard drops the unsaved changes.
func (e *Editor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values = e.loaded
}

func (e *Editor) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

// Submit validates the form and sends it to the backend. It returns the backend message.
func (e *Editor) Submit(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return "", core.ErrSubmitInProgress
	}
	e.submitting = true
	id, values := e.id, e.values
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	if err := values.Validate(e.validate); err != nil {
		return "", err
	}

	payload := values.Payload()
	var (
		msg    string
		err    error
		action string
	)
	if id != "" {
		action = core.ActionCollegeUpdate
		msg, err = e.backend.UpdateCollege(ctx, payload, id)
	} else {
		action = core.ActionCollegeCreate
		msg, err = e.backend.RegisterCollege(ctx, payload)
	}
	if err != nil {
		return "", errors.Wrap(err, "submitting college")
	}

	e.notifier.Notify(ctx, core.Notification{
		Action:   action,
		RecordID: id,
		Message:  msg,
		Fields:   payload.Keys(),
		Viewer:   e.viewer,
		At:       time.Now().UTC(),
	})

	e.mu.Lock()
	if id != "" {
		e.loaded = values
		e.values = values
	} else {
		e.loaded = CourseCollege{}
		e.values = CourseCollege{}
	}
	e.mu.Unlock()
	return msg, nil
}

// Close resets the editor to empty defaults, as when the form goes away.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = ""
	e.loaded = CourseCollege{}
	e.values = CourseCollege{}
}
