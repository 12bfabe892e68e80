package payment

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core"
)

// ErrNothingSelected is returned by BulkDelete without a selection.
var ErrNothingSelected = errors.New("no payments selected")

// Backend is the part of the REST backend the payment board talks to.
type Backend interface {
	ListPayments(ctx context.Context, studentID string) ([]Installment, error)
	CreatePayments(ctx context.Context, studentID string, payload *core.Payload) (Installment, string, error)
	EditPayments(ctx context.Context, studentID string, payload *core.Payload) (string, error)
	DeletePayments(ctx context.Context, studentID string, ids []int64) (string, error)
}

// Board keeps the installment rows of one student and the ids selected
// for deletion. Both collections are only ever replaced, never changed in place.
type Board struct {
	backend    Backend
	notifier   core.Notifier
	validate   *validator.Validate
	translator ut.Translator
	viewer     core.Viewer
	studentID  string

	mu         sync.Mutex
	rows       []Row
	selected   map[int64]struct{}
	submitting map[uuid.UUID]struct{}
}

func NewBoard(studentID string, backend Backend, notifier core.Notifier, validate *validator.Validate,
	translator ut.Translator, viewer core.Viewer) *Board {
	if notifier == nil {
		notifier = core.NopNotifier
	}
	return &Board{
		backend:    backend,
		notifier:   notifier,
		validate:   validate,
		translator: translator,
		viewer:     viewer,
		studentID:  studentID,
		rows:       []Row{},
		selected:   map[int64]struct{}{},
		submitting: map[uuid.UUID]struct{}{},
	}
}

func (b *Board) StudentID() string { return b.studentID }

// Load replaces the rows with the student's stored installments.
func (b *Board) Load(ctx context.Context) error {
	list, err := b.backend.ListPayments(ctx, b.studentID)
	if err != nil {
		return errors.Wrap(err, "listing payments")
	}

	rows := make([]Row, 0, len(list))
	for _, in := range list {
		rows = append(rows, Row{Key: uuid.New(), Installment: in})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = rows
	b.selected = map[int64]struct{}{}
	return nil
}

// Rows returns a copy of the rows in display order.
func (b *Board) Rows() []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Row(nil), b.rows...)
}

// Row returns the row with key.
func (b *Board) Row(key uuid.UUID) (Row, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(key); i >= 0 {
		return b.rows[i], true
	}
	return Row{}, false
}

// Selected returns the selected ids in ascending order.
func (b *Board) Selected() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectedIDs()
}

func (b *Board) selectedIDs() []int64 {
	ids := make([]int64, 0, len(b.selected))
	for id := range b.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (b *Board) index(key uuid.UUID) int {
	for i, r := range b.rows {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// replace swaps in a new rows slice with row i set to r. Callers hold mu.
func (b *Board) replace(i int, r Row) {
	rows := append([]Row(nil), b.rows...)
	rows[i] = r
	b.rows = rows
}

// AddNew appends a blank local row dated now.
func (b *Board) AddNew(now time.Time) Row {
	r := Row{
		Key: uuid.New(),
		New: true,
		Installment: Installment{
			DateOfPayment: core.FlexString(now.Format(core.DateLayout)),
		},
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	rows := make([]Row, 0, len(b.rows)+1)
	b.rows = append(append(rows, b.rows...), r)
	return r
}

// SetRowField edits one text field of a row.
func (b *Board) SetRowField(key uuid.UUID, field, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(key)
	if i < 0 {
		return errors.Wrapf(core.ErrInvalidTransition, "row %s", key)
	}
	r := b.rows[i]
	if !r.set(field, value) {
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: "unknown field"})
	}
	b.replace(i, r)
	return nil
}

// AttachScreenshot selects the payment screenshot of a row; nil clears it.
// Documents limits apply: 1MB for PDF, 2MB otherwise.
func (b *Board) AttachScreenshot(key uuid.UUID, f *core.File) error {
	if f != nil {
		if !f.IsPDF() && !f.IsImage() {
			return core.NewFieldError(FieldPaymentScreenshot, core.ErrUnsupportedFile)
		}
		if err := f.CheckSize(core.DocumentLimit(f)); err != nil {
			return core.NewFieldError(FieldPaymentScreenshot, err)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(key)
	if i < 0 {
		return errors.Wrapf(core.ErrInvalidTransition, "row %s", key)
	}
	r := b.rows[i]
	r.Screenshot = f
	b.replace(i, r)
	return nil
}

// SubmitRow validates a row and creates or edits it. A created row is
// replaced in place by the backend's copy. A row already being submitted
// fails with core.ErrSubmitInProgress.
func (b *Board) SubmitRow(ctx context.Context, key uuid.UUID) (string, error) {
	b.mu.Lock()
	i := b.index(key)
	if i < 0 {
		b.mu.Unlock()
		return "", errors.Wrapf(core.ErrInvalidTransition, "row %s", key)
	}
	if _, busy := b.submitting[key]; busy {
		b.mu.Unlock()
		return "", core.ErrSubmitInProgress
	}
	b.submitting[key] = struct{}{}
	row := b.rows[i]
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.submitting, key)
		b.mu.Unlock()
	}()

	if err := core.ValidateFields(b.validate, b.translator, row.values(), rowRules); err != nil {
		return "", err
	}

	payload := row.Payload()
	if row.New {
		in, msg, err := b.backend.CreatePayments(ctx, b.studentID, payload)
		if err != nil {
			return "", errors.Wrap(err, "creating payment")
		}
		b.notify(ctx, core.ActionPaymentCreate, msg, payload)

		b.mu.Lock()
		if i := b.index(key); i >= 0 {
			b.replace(i, Row{Key: key, Installment: in})
		}
		b.mu.Unlock()
		return msg, nil
	}

	msg, err := b.backend.EditPayments(ctx, b.studentID, payload)
	if err != nil {
		return "", errors.Wrap(err, "editing payment")
	}
	b.notify(ctx, core.ActionPaymentEdit, msg, payload)

	b.mu.Lock()
	if i := b.index(key); i >= 0 {
		r := b.rows[i]
		r.Screenshot = nil
		b.replace(i, r)
	}
	b.mu.Unlock()
	return msg, nil
}

// RemoveLocal drops a row that was never submitted.
func (b *Board) RemoveLocal(key uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(key)
	if i < 0 || !b.rows[i].New {
		return errors.Wrapf(core.ErrInvalidTransition, "local remove of row %s", key)
	}
	rows := make([]Row, 0, len(b.rows)-1)
	rows = append(rows, b.rows[:i]...)
	b.rows = append(rows, b.rows[i+1:]...)
	return nil
}

// Select marks or unmarks a persisted row for bulk delete.
func (b *Board) Select(key uuid.UUID, on bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, err := b.selectable(key)
	if err != nil {
		return err
	}
	b.setSelected(id, on)
	return nil
}

// Toggle flips the selection of a persisted row and returns the new state.
func (b *Board) Toggle(key uuid.UUID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, err := b.selectable(key)
	if err != nil {
		return false, err
	}
	_, on := b.selected[id]
	b.setSelected(id, !on)
	return !on, nil
}

func (b *Board) selectable(key uuid.UUID) (int64, error) {
	i := b.index(key)
	if i < 0 || b.rows[i].New {
		return 0, errors.Wrapf(core.ErrInvalidTransition, "select row %s", key)
	}
	return b.rows[i].Installment.ID, nil
}

func (b *Board) setSelected(id int64, on bool) {
	selected := make(map[int64]struct{}, len(b.selected)+1)
	for k := range b.selected {
		selected[k] = struct{}{}
	}
	if on {
		selected[id] = struct{}{}
	} else {
		delete(selected, id)
	}
	b.selected = selected
}

// BulkDelete deletes the selected installments and prunes them from the board.
func (b *Board) BulkDelete(ctx context.Context) (string, error) {
	ids := b.Selected()
	if len(ids) == 0 {
		return "", ErrNothingSelected
	}

	msg, err := b.backend.DeletePayments(ctx, b.studentID, ids)
	if err != nil {
		return "", errors.Wrap(err, "deleting payments")
	}

	fields := make([]string, 0, len(ids))
	for _, id := range ids {
		fields = append(fields, strconv.FormatInt(id, 10))
	}
	b.notifier.Notify(ctx, core.Notification{
		Action:   core.ActionPaymentDelete,
		RecordID: b.studentID,
		Message:  msg,
		Fields:   fields,
		Viewer:   b.viewer,
		At:       time.Now().UTC(),
	})

	deleted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		deleted[id] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	rows := make([]Row, 0, len(b.rows))
	for _, r := range b.rows {
		if _, ok := deleted[r.Installment.ID]; ok && !r.New {
			continue
		}
		rows = append(rows, r)
	}
	selected := make(map[int64]struct{})
	for id := range b.selected {
		if _, ok := deleted[id]; !ok {
			selected[id] = struct{}{}
		}
	}
	b.rows = rows
	b.selected = selected
	return msg, nil
}

func (b *Board) notify(ctx context.Context, action, msg string, payload *core.Payload) {
	b.notifier.Notify(ctx, core.Notification{
		Action:   action,
		RecordID: b.studentID,
		Message:  msg,
		Fields:   payload.Keys(),
		Viewer:   b.viewer,
		At:       time.Now().UTC(),
	})
}
