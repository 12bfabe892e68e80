package student

import (
	"context"
	"reflect"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core"
)

// Backend is the part of the REST backend the student editor talks to.
type Backend interface {
	ViewStudentDetails(ctx context.Context, id string) (Record, error)
	UpdateStudent(ctx context.Context, id string, payload *core.Payload) (string, error)
}

// Editor holds the state of one student form. Students are only ever updated here.
type Editor struct {
	backend    Backend
	notifier   core.Notifier
	validate   *validator.Validate
	translator ut.Translator
	log        core.Logger
	viewer     core.Viewer
	policy     Policy
	docsURL    string

	mu              sync.Mutex
	id              string
	admitted        bool
	loaded          Record
	values          Record
	loadedResponses []string
	responses       []string
	files           map[string]*core.File
	submitting      bool
}

func NewEditor(backend Backend, notifier core.Notifier, validate *validator.Validate, translator ut.Translator,
	logger core.Logger, viewer core.Viewer, docsURL string) *Editor {
	if notifier == nil {
		notifier = core.NopNotifier
	}
	e := &Editor{
		backend:    backend,
		notifier:   notifier,
		validate:   validate,
		translator: translator,
		log:        logger,
		viewer:     viewer,
		policy:     NewPolicy(viewer),
		docsURL:    docsURL,
	}
	e.seed(Record{})
	return e
}

// Load fetches the student and seeds the form. admitted comes from the calling
// view and decides between the responses list and the documents section.
func (e *Editor) Load(ctx context.Context, id string, admitted bool) error {
	r, err := e.backend.ViewStudentDetails(ctx, id)
	if err != nil {
		return errors.Wrap(err, "getting student details")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = id
	e.admitted = admitted
	e.seed(r)
	return nil
}

// seed replaces the form state with r. Callers hold mu.
func (e *Editor) seed(r Record) {
	values := r.Clone()
	responses := Responses(values[FieldStudentResponse])
	if _, ok := values[FieldStudentResponse]; ok {
		values[FieldStudentResponse] = responses
	}
	e.loaded = values
	e.values = values.Clone()
	e.loadedResponses = responses
	e.responses = append([]string(nil), responses...)
	e.files = map[string]*core.File{}
}

func (e *Editor) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Editor) Admitted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.admitted
}

// Values returns a copy of the current values.
func (e *Editor) Values() Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values.Clone()
}

// Responses returns a copy of the current responses list.
func (e *Editor) Responses() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.responses...)
}

// SetField changes one plain field. Writing a disabled field fails with
// core.ErrFieldReadOnly unless the value is unchanged.
func (e *Editor) SetField(field string, value interface{}) error {
	switch {
	case field == FieldStudentResponse, docFieldSet.has(field), field == FieldStaffAssignedFullName:
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: "field cannot be set directly"})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if sameValue(e.values[field], value) {
		return nil
	}
	if !e.policy.Editable(field) {
		return core.NewFieldError(field, core.ErrFieldReadOnly)
	}
	// An empty dropdown means no selection.
	if opts, ok := dropdownOptions[field]; ok {
		if s, _ := core.FormString(value); s != "" && !hasOption(opts, s) {
			return core.NewValidationError(nil, core.FieldError{Field: field, Error: "invalid option"})
		}
	}
	e.values[field] = value
	return nil
}

// SelectStaff assigns the staff member picked from the employee select.
func (e *Editor) SelectStaff(opt Option) error {
	if !e.viewer.IsAdmin {
		return core.NewFieldError(FieldStaffAssignedFullName, core.ErrFieldReadOnly)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[FieldStaffAssigned] = opt.Value
	e.values[FieldStaffAssignedFullName] = opt.Label
	return nil
}

func (e *Editor) checkResponses() error {
	if e.admitted || !e.policy.Editable(FieldStudentResponse) {
		return core.NewFieldError(FieldStudentResponse, core.ErrFieldReadOnly)
	}
	return nil
}

func (e *Editor) AppendResponse(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkResponses(); err != nil {
		return err
	}
	e.responses = append(append(make([]string, 0, len(e.responses)+1), e.responses...), text)
	return nil
}

// InsertResponse adds text at index i, shifting the later responses.
func (e *Editor) InsertResponse(i int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkResponses(); err != nil {
		return err
	}
	if i < 0 || i > len(e.responses) {
		return errors.Errorf("response index %d out of range", i)
	}
	list := make([]string, 0, len(e.responses)+1)
	list = append(list, e.responses[:i]...)
	list = append(list, text)
	e.responses = append(list, e.responses[i:]...)
	return nil
}

func (e *Editor) SetResponse(i int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkResponses(); err != nil {
		return err
	}
	if i < 0 || i >= len(e.responses) {
		return errors.Errorf("response index %d out of range", i)
	}
	list := append([]string(nil), e.responses...)
	list[i] = text
	e.responses = list
	return nil
}

func (e *Editor) RemoveResponse(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkResponses(); err != nil {
		return err
	}
	if i < 0 || i >= len(e.responses) {
		return errors.Errorf("response index %d out of range", i)
	}
	list := make([]string, 0, len(e.responses)-1)
	list = append(list, e.responses[:i]...)
	e.responses = append(list, e.responses[i+1:]...)
	return nil
}

// SetResponses replaces the whole responses list, as posted by a form.
func (e *Editor) SetResponses(list []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if equalStrings(e.responses, list) {
		return nil
	}
	if err := e.checkResponses(); err != nil {
		return err
	}
	e.responses = append(make([]string, 0, len(list)), list...)
	return nil
}

// AttachDocument selects a document upload; nil clears the selection.
// A rejected file leaves the form untouched.
func (e *Editor) AttachDocument(field string, f *core.File) error {
	if !docFieldSet.has(field) {
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: "not a document field"})
	}
	if f != nil {
		if err := checkDocument(field, f); err != nil {
			return core.NewFieldError(field, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.admitted || !e.policy.Editable(field) {
		return core.NewFieldError(field, core.ErrFieldReadOnly)
	}
	files := make(map[string]*core.File, len(e.files)+1)
	for k, v := range e.files {
		files[k] = v
	}
	if f == nil {
		delete(files, field)
	} else {
		files[field] = f
	}
	e.files = files
	return nil
}

func checkDocument(field string, f *core.File) error {
	if field == FieldPassportPhoto {
		if !f.IsJPEG() {
			return core.ErrUnsupportedFile
		}
	} else if !f.IsPDF() && !f.IsImage() {
		return core.ErrUnsupportedFile
	}
	return f.CheckSize(core.DocumentLimit(f))
}

// Form renders the current state for the viewer.
func (e *Editor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := formBuilder{policy: e.policy, values: e.values, docsURL: e.docsURL}
	form := Form{
		ID:       e.id,
		Admitted: e.admitted,
		Groups: []Group{
			b.group(GroupBasicInfo, basicInfo),
			b.group(GroupFeesInfo, paymentFields),
			b.others(),
		},
		Dirty: e.dirty(),
	}
	if e.admitted {
		form.Documents = b.documents(e.files)
	} else {
		form.Responses = b.responses(e.responses)
	}
	return form
}

func (e *Editor) dirty() bool {
	return len(e.files) > 0 ||
		!reflect.DeepEqual(e.values, e.loaded) ||
		!equalStrings(e.responses, e.loadedResponses)
}

func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty()
}

// Discard drops the unsaved changes.
func (e *Editor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values = e.loaded.Clone()
	e.responses = append([]string(nil), e.loadedResponses...)
	e.files = map[string]*core.File{}
}

func (e *Editor) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

// Submit validates and sends the update, then reloads the student.
// It returns the backend message.
func (e *Editor) Submit(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return "", core.ErrSubmitInProgress
	}
	if e.id == "" {
		e.mu.Unlock()
		return "", errors.New("no student loaded")
	}
	e.submitting = true
	id := e.id
	values := e.values.Clone()
	responses := append([]string(nil), e.responses...)
	files := e.files
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	if err := core.ValidateFields(e.validate, e.translator, values, validationRules); err != nil {
		return "", err
	}

	payload := BuildPayload(e.viewer, values, responses, files)
	msg, err := e.backend.UpdateStudent(ctx, id, payload)
	if err != nil {
		return "", errors.Wrap(err, "updating student")
	}

	e.notifier.Notify(ctx, core.Notification{
		Action:   core.ActionStudentUpdate,
		RecordID: id,
		Message:  msg,
		Fields:   payload.Keys(),
		Viewer:   e.viewer,
		At:       time.Now().UTC(),
	})

	r, err := e.backend.ViewStudentDetails(ctx, id)
	if err != nil {
		// the update went through, keep what was sent
		e.log.Warn("failed to reload student after update", err, map[string]interface{}{"id": id})
		r = values
		r[FieldStudentResponse] = responses
	}
	e.mu.Lock()
	if e.id == id {
		e.seed(r)
	}
	e.mu.Unlock()
	return msg, nil
}

// Close resets the editor to empty defaults.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = ""
	e.admitted = false
	e.seed(Record{})
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

func sameValue(a, b interface{}) bool {
	// A missing value and "" read the same once posted as a form.
	as, _ := core.FormString(a)
	bs, _ := core.FormString(b)
	return as == bs
}
